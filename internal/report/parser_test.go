package report

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, name string) *Result {
	t.Helper()
	f, err := os.Open("../../testdata/reports/FY21/" + name)
	require.NoError(t, err)
	defer f.Close()

	res, err := NewParser("FY21", nil).Parse(context.Background(), f, name)
	require.NoError(t, err)
	return res
}

func TestParser_Highways(t *testing.T) {
	res := parseFixture(t, "a_highways.txt")
	assert.Equal(t, 18, res.Lines)
	assert.Empty(t, res.Skipped)
	assert.Nil(t, res.Unterminated)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "HW-0001", first.BudgetLineID)
	assert.Equal(t, "STREET RESURFACING, BOROUGH OF QUEENS", first.Description)
	require.NotNil(t, first.AvailableBalance)
	assert.Equal(t, "12345678.9", first.AvailableBalance.City.String())
	assert.Equal(t, "-250", first.ContractLiability.NonCity.String())
	require.Len(t, first.Projects, 1)
	assert.Equal(t, "RESURFACING MAIN STREET, QUEENS", first.Projects[0].Description)
	assert.Len(t, first.Projects[0].Commitments, 3)

	second := res.Records[1]
	assert.Equal(t, "HW-0002", second.BudgetLineID)
	assert.Nil(t, second.AvailableBalance, "totals balance row after close must not leak into the next record")
	require.Len(t, second.AdoptedAppropriations, 4)
	assert.Nil(t, second.AdoptedAppropriations[0].NonCity)
	require.Len(t, second.Projects, 1)
	assert.Equal(t, "2500000", second.Projects[0].Commitments[0].Cost.City.String())
}

func TestParser_CRLF(t *testing.T) {
	res := parseFixture(t, "b_buildings.txt")
	require.Len(t, res.Records, 1)
	b := res.Records[0]
	assert.Equal(t, "PW-0100", b.BudgetLineID)
	assert.Equal(t, "PUBLIC BUILDINGS", b.Description)
	require.Len(t, b.Projects, 1)
	assert.Equal(t, "CITY HALL ROOF", b.Projects[0].Description)
	assert.Equal(t, "10/21", b.Projects[0].Commitments[0].PlanCommDate)
}

func TestParser_Unterminated(t *testing.T) {
	in := strings.Join([]string{headerLine, projectLine, commitmentLine}, "\n")
	res, err := NewParser("FY21", nil).Parse(context.Background(), strings.NewReader(in), "x.txt")
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.NotNil(t, res.Unterminated)
	assert.Equal(t, "HW-0001", res.Unterminated.BudgetLineID)
}

func TestParser_AbortOnBadLine(t *testing.T) {
	in := strings.Join([]string{headerLine, "  ADOPTED * 1 *", projectLine, totalsLine}, "\n")
	res, err := NewParser("FY21", nil).Parse(context.Background(), strings.NewReader(in), "bad.txt")
	require.Error(t, err)

	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "bad.txt", lerr.File)
	assert.Equal(t, 2, lerr.Line)
	assert.Equal(t, KindAdopted, lerr.Rule)
	assert.Empty(t, res.Records)
}

func TestParser_SkipLine(t *testing.T) {
	in := strings.Join([]string{headerLine, "  ADOPTED * 1 *", projectLine, commitmentLine, totalsLine}, "\n")

	p := NewParser("FY21", nil)
	var seen []int
	p.OnError = func(e *LineError) error {
		seen = append(seen, e.Line)
		return nil
	}

	res, err := p.Parse(context.Background(), strings.NewReader(in), "bad.txt")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, seen)
	require.Len(t, res.Skipped, 1)
	require.Len(t, res.Records, 1)
	assert.Nil(t, res.Records[0].AdoptedAppropriations)
	assert.Len(t, res.Records[0].Projects[0].Commitments, 1)
}

func TestParser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser("FY21", nil).Parse(ctx, strings.NewReader(headerLine), "x.txt")
	assert.True(t, errors.Is(err, context.Canceled))
}
