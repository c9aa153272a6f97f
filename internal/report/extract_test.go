package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordHeader(t *testing.T) {
	h, err := parseRecordHeader("BUDGET LINE:1234-ABC FMS #:0001234567Street Resurfacing")
	require.NoError(t, err)
	assert.Equal(t, "1234-ABC", h.budgetLineID)
	assert.Equal(t, "0001234567", h.fmsNumber)
	assert.Equal(t, "Street Resurfacing", h.description)
}

func TestParseRecordHeader_MissingMarker(t *testing.T) {
	_, err := parseRecordHeader("TOTALS FOR BUDGET LINE HW-0001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMarker)
	assert.Contains(t, err.Error(), "budget line id")

	_, err = parseRecordHeader("BUDGET LINE:HW-0001 FMS")
	assert.ErrorIs(t, err, ErrMissingMarker)
}

func TestParseHeaderPair(t *testing.T) {
	city, nonCity, err := parseHeaderPair(liabilityLine)
	require.NoError(t, err)
	assert.Equal(t, "500000", city.String())
	assert.Equal(t, "-250", nonCity.String())

	city, nonCity, err = parseHeaderPair(balanceLine)
	require.NoError(t, err)
	assert.Equal(t, "12345678.9", city.String())
	assert.Equal(t, "1000.1", nonCity.String())
}

func TestParseHeaderPair_MissingTag(t *testing.T) {
	_, _, err := parseHeaderPair("  CONTRACT LIABILITY   $ 500.00 (CITY)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMarker)
}

func TestParseAsOf(t *testing.T) {
	asOf, err := parseAsOf(balanceLine)
	require.NoError(t, err)
	assert.Equal(t, "06/30/20", asOf)

	_, err = parseAsOf("  AVAILABLE BALANCE AS OF   $ 1 (CITY) $ 2 (NON-CITY)")
	assert.ErrorIs(t, err, ErrMissingMarker)
}

func TestParsePlanRow(t *testing.T) {
	adopted, plan, err := parsePlanRow(adoptedLine)
	require.NoError(t, err)

	wantAdopted := []string{"1234000", "-567000", "0", "12000"}
	wantPlan := []string{"100000", "200000", "300000", "400000"}
	for i := range adopted {
		assert.Equal(t, wantAdopted[i], adopted[i].String())
		assert.Equal(t, wantPlan[i], plan[i].String())
	}
}

func TestParsePlanRow_TooFewFields(t *testing.T) {
	_, _, err := parsePlanRow("  ADOPTED * 1 * 2 *")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortLine)
}

func TestParsePlanRow_BadFigure(t *testing.T) {
	_, _, err := parsePlanRow("  ADOPTED * 1 * 2 * X * 4 * PLAN * 5 * 6 * 7 * 8 *")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedAmount)
	assert.Contains(t, err.Error(), "adopted FY2")
}

func TestParseProject(t *testing.T) {
	p, err := parseProject(projectLine)
	require.NoError(t, err)
	assert.Equal(t, "850", p.ManagingAgency)
	assert.Equal(t, "HWQ1182", p.ID)
	assert.Equal(t, "RESURFACING MAIN STREET, QUEENS", p.Description)
	assert.NotNil(t, p.Commitments)
	assert.Empty(t, p.Commitments)
}

func TestParseProject_DescriptionTruncated(t *testing.T) {
	long := "  850 HWQ1182  " + "ABCDEFGHIJ" + "0123456789012345678901234567890123456789012345678901" + "OVERFLOW"
	p, err := parseProject(long)
	require.NoError(t, err)
	assert.Len(t, p.Description, 62)
	assert.NotContains(t, p.Description, "OVERFLOW")
}

func TestParseProject_NoDescription(t *testing.T) {
	_, err := parseProject("123 ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMarker)
}

func TestParseCommitment(t *testing.T) {
	c, err := parseCommitment(commitmentLine)
	require.NoError(t, err)
	assert.Equal(t, "CNST", c.Category)
	assert.Equal(t, "01", c.Subcategory)
	assert.Equal(t, "C01", c.Code)
	assert.Equal(t, "CONSTRUCTION", c.CategoryDescription)
	assert.Equal(t, "ROADWAY", c.SubcategoryDescription)
	assert.Equal(t, "1234000", c.Cost.City.String())
	assert.Equal(t, "0", c.Cost.NonCity.String())
	assert.Equal(t, "06/21", c.PlanCommDate)
}

func TestParseCommitment_NoDate(t *testing.T) {
	line := commitmentLine[:len(commitmentLine)-len(" 06/21")]
	c, err := parseCommitment(line)
	require.NoError(t, err)
	assert.Empty(t, c.PlanCommDate)
}

func TestParseCommitment_Short(t *testing.T) {
	_, err := parseCommitment("                  CNST 01 C01 CONSTRUCTION ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortLine)
}

func TestColumn_Clamps(t *testing.T) {
	assert.Equal(t, "", column("abc", 5, 9))
	assert.Equal(t, "bc", column("abc", 1, 9))
	assert.Equal(t, "b", column("abc", 1, 2))
}
