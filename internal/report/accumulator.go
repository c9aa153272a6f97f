package report

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/capbudget/internal/model"
)

// Accumulator builds budget line records from the lines of one report file.
// It is not safe for concurrent use; give each file its own Accumulator.
type Accumulator struct {
	file       string
	fiscalYear string
	logger     *log.Logger

	line    int
	current *model.BudgetLine
	project int // index into current.Projects, -1 when no project is open
}

// NewAccumulator returns an Accumulator for the named file. Every record it
// produces is stamped with fiscalYear. A nil logger discards output.
func NewAccumulator(file, fiscalYear string, logger *log.Logger) *Accumulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Accumulator{file: file, fiscalYear: fiscalYear, logger: logger}
	a.reset()
	return a
}

func (a *Accumulator) reset() {
	a.current = model.NewBudgetLine()
	a.project = -1
}

// Line returns the 1-based number of the last line fed.
func (a *Accumulator) Line() int {
	return a.line
}

// Pending returns the open record that no closing line has emitted yet, or
// nil.
func (a *Accumulator) Pending() *model.BudgetLine {
	if a.current.Open() {
		return a.current
	}
	return nil
}

// Feed processes the next line. When the line closes the open record, that
// record is returned; the same line is then applied to a fresh record, so it
// may also open the next one. A *LineError is returned when the line's fields
// cannot be extracted; the record is left as it was before the line, and any
// record the line closed is still returned alongside the error.
func (a *Accumulator) Feed(line string) (*model.BudgetLine, error) {
	a.line++

	var done *model.BudgetLine
	kind := Classify(line, a.current)
	if kind == KindClose {
		done = a.current
		a.reset()
		kind = Classify(line, a.current)
	}

	if err := a.apply(kind, line); err != nil {
		return done, &LineError{File: a.file, Line: a.line, Rule: kind, Err: err}
	}
	return done, nil
}

func (a *Accumulator) apply(kind Kind, line string) error {
	b := a.current

	switch kind {
	case KindRecordHeader:
		h, err := parseRecordHeader(line)
		if err != nil {
			return err
		}
		b.FiscalYear = a.fiscalYear
		b.BudgetLineID = h.budgetLineID
		b.FMSNumber = h.fmsNumber
		b.Description = h.description
		a.logger.Debug("budget line", "id", b.BudgetLineID, "description", b.Description)

	case KindAvailableBalance:
		if !b.Open() || b.AvailableBalance != nil {
			return nil
		}
		asOf, err := parseAsOf(line)
		if err != nil {
			return err
		}
		city, nonCity, err := parseHeaderPair(line)
		if err != nil {
			return err
		}
		b.SetAvailableBalance(asOf, city, nonCity)

	case KindContractLiability:
		if !b.Open() || b.ContractLiability != nil {
			return nil
		}
		city, nonCity, err := parseHeaderPair(line)
		if err != nil {
			return err
		}
		b.SetContractLiability(city, nonCity)

	case KindITDExpenditures:
		if !b.Open() || b.ITDExpenditures != nil {
			return nil
		}
		city, nonCity, err := parseHeaderPair(line)
		if err != nil {
			return err
		}
		b.SetITDExpenditures(city, nonCity)

	case KindAdopted:
		if !b.Open() || b.HasPlans() {
			return nil
		}
		adopted, plan, err := parsePlanRow(line)
		if err != nil {
			return err
		}
		b.SetPlans(adopted, plan)

	case KindNonCity:
		adopted, plan, err := parsePlanRow(line)
		if err != nil {
			return err
		}
		if _, err := b.FillNonCity(adopted, plan); err != nil {
			return err
		}

	case KindProject:
		if !b.Open() {
			return nil
		}
		p, err := parseProject(line)
		if err != nil {
			return err
		}
		b.Projects = append(b.Projects, p)
		a.project = len(b.Projects) - 1
		a.logger.Debug("capital project", "agency", p.ManagingAgency, "id", p.ID, "description", p.Description)

	case KindCommitment:
		if !b.Open() {
			return nil
		}
		if a.project < 0 {
			return ErrNoProject
		}
		c, err := parseCommitment(line)
		if err != nil {
			return err
		}
		p := &b.Projects[a.project]
		p.Commitments = append(p.Commitments, c)
		a.logger.Debug("commitment", "project", p.ID, "code", c.Code, "category", c.CategoryDescription)
	}

	return nil
}
