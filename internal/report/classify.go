package report

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/capbudget/internal/model"
)

// Kind is the structural role of a report line.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindClose
	KindRecordHeader
	KindAvailableBalance
	KindContractLiability
	KindITDExpenditures
	KindAdopted
	KindNonCity
	KindProject
	KindCommitment
)

var kindNames = map[Kind]string{
	KindUnrecognized:      "unrecognized",
	KindClose:             "close",
	KindRecordHeader:      "budget-line-header",
	KindAvailableBalance:  "available-balance",
	KindContractLiability: "contract-liability",
	KindITDExpenditures:   "itd-expenditures",
	KindAdopted:           "adopted-appropriations",
	KindNonCity:           "non-city-continuation",
	KindProject:           "project-header",
	KindCommitment:        "commitment-detail",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Report markers.
const (
	markerTotals            = "TOTALS FOR"
	markerBudgetLine        = "BUDGET LINE"
	markerAvailableBalance  = "AVAILABLE BALANCE AS OF"
	markerContractLiability = "CONTRACT LIABILITY"
	markerITDExpenditures   = "ITD EXPENDITURES"
	markerAdopted           = "ADOPTED"
)

var (
	nonCityLineRe    = regexp.MustCompile(`^\s*\(N\)`)
	projectLineRe    = regexp.MustCompile(`^\s*\d{3}\s`)
	commitmentLineRe = regexp.MustCompile(`\s[A-Z]{4}\s.{2}\s\S{1,3}\s`)
)

// Classify returns the role line plays given the record currently being
// built. Rules are tried in priority order and the first match wins; a
// matching rule claims the line even if its guard later declines to use it.
func Classify(line string, current *model.BudgetLine) Kind {
	switch {
	case current.Open() && (strings.Contains(line, markerTotals) || strings.Contains(line, markerBudgetLine)):
		return KindClose
	case strings.Contains(line, markerBudgetLine):
		return KindRecordHeader
	case strings.Contains(line, markerAvailableBalance):
		return KindAvailableBalance
	case strings.Contains(line, markerContractLiability):
		return KindContractLiability
	case strings.Contains(line, markerITDExpenditures):
		return KindITDExpenditures
	case strings.Contains(line, markerAdopted):
		return KindAdopted
	case current.HasPlans() && nonCityLineRe.MatchString(line):
		return KindNonCity
	case projectLineRe.MatchString(line):
		return KindProject
	case commitmentLineRe.MatchString(line):
		return KindCommitment
	}
	return KindUnrecognized
}
