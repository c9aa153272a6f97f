package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/capbudget/internal/model"
)

// Sheet names in the exported workbook.
const (
	SheetBudgetLines = "Budget Lines"
	SheetProjects    = "Projects"
	SheetCommitments = "Commitments"
)

// Workbook flattens budget lines into a spreadsheet with one sheet per
// level of the record hierarchy.
type Workbook struct {
	f    *excelize.File
	rows map[string]int
}

func budgetLineHeader() []any {
	h := []any{
		"FY", "Budget Line", "FMS #", "Description",
		"Balance As Of", "Balance City", "Balance Non-City", "Balance Total",
		"Liability City", "Liability Non-City", "ITD City", "ITD Non-City",
	}
	for _, p := range model.Periods {
		h = append(h, "Adopted "+p+" City", "Adopted "+p+" Non-City")
	}
	for _, p := range model.Periods {
		h = append(h, "Plan "+p+" City", "Plan "+p+" Non-City")
	}
	return h
}

var (
	projectHeader = []any{
		"FY", "Budget Line", "Managing Agency", "Project ID", "Description",
		"Commitments", "City", "Non-City",
	}
	commitmentHeader = []any{
		"FY", "Budget Line", "Project ID", "Code", "Category", "Category Description",
		"Subcategory", "Subcategory Description", "City", "Non-City", "Plan Comm Date",
	}
)

// NewWorkbook creates an empty workbook with header rows.
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetBudgetLines); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetProjects, SheetCommitments} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	w := &Workbook{f: f, rows: make(map[string]int)}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	headers := map[string][]any{
		SheetBudgetLines: budgetLineHeader(),
		SheetProjects:    projectHeader,
		SheetCommitments: commitmentHeader,
	}
	for sheet, header := range headers {
		if err := w.appendRow(sheet, header); err != nil {
			f.Close()
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			f.Close()
			return nil, fmt.Errorf("styling %s header: %w", sheet, err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
			f.Close()
			return nil, fmt.Errorf("sizing %s columns: %w", sheet, err)
		}
	}
	return w, nil
}

func (w *Workbook) appendRow(sheet string, row []any) error {
	w.rows[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.rows[sheet])
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, w.rows[sheet], err)
	}
	return nil
}

// Rows returns the number of data rows written to sheet.
func (w *Workbook) Rows(sheet string) int {
	if w.rows[sheet] == 0 {
		return 0
	}
	return w.rows[sheet] - 1
}

func num(m model.Money) float64 {
	return m.InexactFloat64()
}

func optNum(m *model.Money) any {
	if m == nil {
		return nil
	}
	return num(*m)
}

func headerCells(h *model.HeaderAmounts, withTotal bool) []any {
	if h == nil {
		if withTotal {
			return []any{nil, nil, nil, nil}
		}
		return []any{nil, nil}
	}
	if withTotal {
		return []any{h.AsOf, num(h.City), num(h.NonCity), optNum(h.Total)}
	}
	return []any{num(h.City), num(h.NonCity)}
}

func periodCells(ps []model.PeriodAmount) []any {
	out := make([]any, 0, 2*len(model.Periods))
	for i := range model.Periods {
		if i >= len(ps) {
			out = append(out, nil, nil)
			continue
		}
		out = append(out, num(ps[i].City), optNum(ps[i].NonCity))
	}
	return out
}

// Add writes one budget line and everything under it.
func (w *Workbook) Add(b *model.BudgetLine) error {
	row := []any{b.FiscalYear, b.BudgetLineID, b.FMSNumber, b.Description}
	row = append(row, headerCells(b.AvailableBalance, true)...)
	row = append(row, headerCells(b.ContractLiability, false)...)
	row = append(row, headerCells(b.ITDExpenditures, false)...)
	row = append(row, periodCells(b.AdoptedAppropriations)...)
	row = append(row, periodCells(b.CommitmentPlan)...)
	if err := w.appendRow(SheetBudgetLines, row); err != nil {
		return err
	}

	for _, p := range b.Projects {
		var city, nonCity model.Money
		for _, c := range p.Commitments {
			city = city.Add(c.Cost.City)
			nonCity = nonCity.Add(c.Cost.NonCity)
		}
		if err := w.appendRow(SheetProjects, []any{
			b.FiscalYear, b.BudgetLineID, p.ManagingAgency, p.ID, p.Description,
			len(p.Commitments), num(city), num(nonCity),
		}); err != nil {
			return err
		}

		for _, c := range p.Commitments {
			if err := w.appendRow(SheetCommitments, []any{
				b.FiscalYear, b.BudgetLineID, p.ID, c.Code, c.Category, c.CategoryDescription,
				c.Subcategory, c.SubcategoryDescription, num(c.Cost.City), num(c.Cost.NonCity), c.PlanCommDate,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}
