package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/capbudget/internal/model"
)

var (
	budgetLineIDRe = regexp.MustCompile(`BUDGET LINE:(.*)FMS`)
	fmsNumberRe    = regexp.MustCompile(`FMS #:(.{1,10})`)
	fmsDescRe      = regexp.MustCompile(`FMS #:.{1,10}(.*)`)

	asOfRe        = regexp.MustCompile(`\d{2}/\d{2}/\d{2}`)
	cityPairRe    = regexp.MustCompile(`\$(.*)\(CITY\)`)
	nonCityPairRe = regexp.MustCompile(`\$.*\$(.*)\(NON-CITY\)`)
	agencyRe      = regexp.MustCompile(`\d{3}`)
	projectIDRe   = regexp.MustCompile(`\d{3}(.{1,10})`)
	projectDescRe = regexp.MustCompile(`\d{3}.{1,10}(.{1,62})`)
	spaceRunRe    = regexp.MustCompile(` {2,}`)
)

// Commitment row columns, as byte offsets from the start of the line.
const (
	colCategoryStart    = 18
	colCategoryEnd      = 22
	colSubcategoryStart = 23
	colSubcategoryEnd   = 25
	colCodeStart        = 26
	colCodeEnd          = 29
	colCatDescStart     = 30
	colCatDescEnd       = 59
	colSubDescStart     = 59
	colSubDescEnd       = 87
	colAmountsStart     = 84
)

// Adopted and "(N)" rows are '*' delimited: fields 1-4 are the adopted
// appropriation periods, fields 6-9 the commitment plan periods.
const (
	planFieldAdopted = 1
	planFieldPlan    = 6
	planMinFields    = 10
)

type recordHeader struct {
	budgetLineID string
	fmsNumber    string
	description  string
}

func submatch(re *regexp.Regexp, line, what string) (string, error) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingMarker, what)
	}
	return m[1], nil
}

func parseRecordHeader(line string) (recordHeader, error) {
	id, err := submatch(budgetLineIDRe, line, "budget line id")
	if err != nil {
		return recordHeader{}, err
	}
	fms, err := submatch(fmsNumberRe, line, "FMS number")
	if err != nil {
		return recordHeader{}, err
	}
	desc, err := submatch(fmsDescRe, line, "description")
	if err != nil {
		return recordHeader{}, err
	}
	return recordHeader{
		budgetLineID: strings.TrimSpace(id),
		fmsNumber:    strings.TrimSpace(fms),
		description:  strings.TrimSpace(desc),
	}, nil
}

// parseHeaderPair extracts the "$ ... (CITY)" and "$ ... (NON-CITY)" figures
// shared by the balance, liability and expenditure header rows.
func parseHeaderPair(line string) (city, nonCity model.Money, err error) {
	rawCity, err := submatch(cityPairRe, line, "(CITY) amount")
	if err != nil {
		return city, nonCity, err
	}
	rawNonCity, err := submatch(nonCityPairRe, line, "(NON-CITY) amount")
	if err != nil {
		return city, nonCity, err
	}
	if city, err = ParseHeaderAmount(rawCity); err != nil {
		return city, nonCity, fmt.Errorf("city: %w", err)
	}
	if nonCity, err = ParseHeaderAmount(rawNonCity); err != nil {
		return city, nonCity, fmt.Errorf("non-city: %w", err)
	}
	return city, nonCity, nil
}

func parseAsOf(line string) (string, error) {
	asOf := asOfRe.FindString(line)
	if asOf == "" {
		return "", fmt.Errorf("%w: as-of date", ErrMissingMarker)
	}
	return asOf, nil
}

// parsePlanRow reads the four adopted and four commitment plan figures from
// an ADOPTED row or its "(N)" continuation.
func parsePlanRow(line string) (adopted, plan [4]model.Money, err error) {
	fields := strings.Split(line, "*")
	if len(fields) < planMinFields {
		return adopted, plan, fmt.Errorf("%w: %d '*' fields, need %d", ErrShortLine, len(fields), planMinFields)
	}
	for i := range model.Periods {
		if adopted[i], err = ParseCost(fields[planFieldAdopted+i]); err != nil {
			return adopted, plan, fmt.Errorf("adopted %s: %w", model.Periods[i], err)
		}
		if plan[i], err = ParseCost(fields[planFieldPlan+i]); err != nil {
			return adopted, plan, fmt.Errorf("plan %s: %w", model.Periods[i], err)
		}
	}
	return adopted, plan, nil
}

func parseProject(line string) (model.CapitalProject, error) {
	agency := agencyRe.FindString(line)
	if agency == "" {
		return model.CapitalProject{}, fmt.Errorf("%w: managing agency", ErrMissingMarker)
	}
	id, err := submatch(projectIDRe, line, "project id")
	if err != nil {
		return model.CapitalProject{}, err
	}
	desc, err := submatch(projectDescRe, line, "project description")
	if err != nil {
		return model.CapitalProject{}, err
	}
	desc = strings.ReplaceAll(desc, `"`, "")
	desc = spaceRunRe.ReplaceAllString(desc, " ")

	return model.CapitalProject{
		ManagingAgency: agency,
		ID:             strings.TrimSpace(id),
		Description:    strings.TrimSpace(desc),
		Commitments:    []model.Commitment{},
	}, nil
}

// column returns line[start:end] clamped to the line length.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func parseCommitment(line string) (model.Commitment, error) {
	amounts := strings.Fields(column(line, colAmountsStart, len(line)))
	if len(amounts) < 2 {
		return model.Commitment{}, fmt.Errorf("%w: no cost columns past column %d", ErrShortLine, colAmountsStart)
	}
	city, err := ParseCost(amounts[0])
	if err != nil {
		return model.Commitment{}, fmt.Errorf("city cost: %w", err)
	}
	nonCity, err := ParseCost(amounts[1])
	if err != nil {
		return model.Commitment{}, fmt.Errorf("non-city cost: %w", err)
	}
	var planCommDate string
	if len(amounts) > 2 {
		planCommDate = amounts[2]
	}

	return model.Commitment{
		Code:                   column(line, colCodeStart, colCodeEnd),
		Category:               column(line, colCategoryStart, colCategoryEnd),
		CategoryDescription:    strings.TrimSpace(column(line, colCatDescStart, colCatDescEnd)),
		Subcategory:            strings.TrimSpace(column(line, colSubcategoryStart, colSubcategoryEnd)),
		SubcategoryDescription: strings.TrimSpace(column(line, colSubDescStart, colSubDescEnd)),
		Cost:                   model.Cost{City: city, NonCity: nonCity},
		PlanCommDate:           planCommDate,
	}, nil
}
