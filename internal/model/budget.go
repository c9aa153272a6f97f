package model

import "errors"

// Periods are the four fiscal periods carried by appropriation and plan rows.
var Periods = [4]string{"FY0", "FY1", "FY2", "FY3"}

// ErrNoPlans is returned when non-city figures arrive before the city row.
var ErrNoPlans = errors.New("no adopted appropriations to back-fill")

// HeaderAmounts is a city/non-city pair from a budget line header row.
// AsOf and Total are only populated for the available balance.
type HeaderAmounts struct {
	AsOf    string `json:"asOf,omitempty"`
	City    Money  `json:"city"`
	NonCity Money  `json:"nonCity"`
	Total   *Money `json:"total,omitempty"`
}

// PeriodAmount is one fiscal period of an appropriation or commitment plan.
// NonCity stays nil until the "(N)" continuation row is seen.
type PeriodAmount struct {
	Period  string `json:"period"`
	City    Money  `json:"city"`
	NonCity *Money `json:"nonCity,omitempty"`
}

// Cost is the city/non-city split of a single commitment.
type Cost struct {
	City    Money `json:"city"`
	NonCity Money `json:"nonCity"`
}

// Commitment is one commitment-detail row under a capital project.
type Commitment struct {
	Code                   string `json:"code"`
	Category               string `json:"category"`
	CategoryDescription    string `json:"categoryDescription"`
	Subcategory            string `json:"subcategory"`
	SubcategoryDescription string `json:"subcategoryDescription"`
	Cost                   Cost   `json:"cost"`
	PlanCommDate           string `json:"planCommDate,omitempty"`
}

// CapitalProject is a project funded under a budget line.
type CapitalProject struct {
	ManagingAgency string       `json:"managingAgency"`
	ID             string       `json:"id"`
	Description    string       `json:"description"`
	Commitments    []Commitment `json:"commitments"`
}

// BudgetLine is one budget line of a fiscal year report, with everything
// nested under it.
type BudgetLine struct {
	FiscalYear            string           `json:"fy"`
	BudgetLineID          string           `json:"budgetLineId"`
	FMSNumber             string           `json:"fmsNumber"`
	Description           string           `json:"description"`
	AvailableBalance      *HeaderAmounts   `json:"availableBalance,omitempty"`
	ContractLiability     *HeaderAmounts   `json:"contractLiability,omitempty"`
	ITDExpenditures       *HeaderAmounts   `json:"itdExpenditures,omitempty"`
	AdoptedAppropriations []PeriodAmount   `json:"adoptedAppropriations,omitempty"`
	CommitmentPlan        []PeriodAmount   `json:"commitmentPlan,omitempty"`
	Projects              []CapitalProject `json:"projects"`

	nonCityFilled bool
}

// NewBudgetLine returns an empty record.
func NewBudgetLine() *BudgetLine {
	return &BudgetLine{Projects: []CapitalProject{}}
}

// Open reports whether the record has been started by a header row.
func (b *BudgetLine) Open() bool {
	return b.BudgetLineID != ""
}

// SetAvailableBalance sets the available balance once. Total is derived.
// Returns false if it was already set.
func (b *BudgetLine) SetAvailableBalance(asOf string, city, nonCity Money) bool {
	if b.AvailableBalance != nil {
		return false
	}
	total := city.Add(nonCity)
	b.AvailableBalance = &HeaderAmounts{AsOf: asOf, City: city, NonCity: nonCity, Total: &total}
	return true
}

// SetContractLiability sets the contract liability once.
func (b *BudgetLine) SetContractLiability(city, nonCity Money) bool {
	if b.ContractLiability != nil {
		return false
	}
	b.ContractLiability = &HeaderAmounts{City: city, NonCity: nonCity}
	return true
}

// SetITDExpenditures sets the inception-to-date expenditures once.
func (b *BudgetLine) SetITDExpenditures(city, nonCity Money) bool {
	if b.ITDExpenditures != nil {
		return false
	}
	b.ITDExpenditures = &HeaderAmounts{City: city, NonCity: nonCity}
	return true
}

// HasPlans reports whether the adopted appropriations row has been seen.
func (b *BudgetLine) HasPlans() bool {
	return b.AdoptedAppropriations != nil
}

// SetPlans sets the city figures of the adopted appropriations and the
// commitment plan once.
func (b *BudgetLine) SetPlans(adopted, plan [4]Money) bool {
	if b.HasPlans() {
		return false
	}
	b.AdoptedAppropriations = periodAmounts(adopted)
	b.CommitmentPlan = periodAmounts(plan)
	return true
}

// FillNonCity back-fills the non-city figures by period position. Only the
// first call after SetPlans has an effect.
func (b *BudgetLine) FillNonCity(adopted, plan [4]Money) (bool, error) {
	if !b.HasPlans() {
		return false, ErrNoPlans
	}
	if b.nonCityFilled {
		return false, nil
	}
	for i := range Periods {
		a, p := adopted[i], plan[i]
		b.AdoptedAppropriations[i].NonCity = &a
		b.CommitmentPlan[i].NonCity = &p
	}
	b.nonCityFilled = true
	return true, nil
}

func periodAmounts(city [4]Money) []PeriodAmount {
	out := make([]PeriodAmount, len(Periods))
	for i, p := range Periods {
		out[i] = PeriodAmount{Period: p, City: city[i]}
	}
	return out
}
