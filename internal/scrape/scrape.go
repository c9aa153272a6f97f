// Package scrape drives a conversion run: every report file in a directory is
// parsed in listing order and the resulting budget lines are written to one
// JSON array, and optionally to a spreadsheet.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cleared-dev/capbudget/internal/config"
	"github.com/cleared-dev/capbudget/internal/model"
	"github.com/cleared-dev/capbudget/internal/output"
	"github.com/cleared-dev/capbudget/internal/report"
	"github.com/cleared-dev/capbudget/internal/runlog"
	"github.com/cleared-dev/capbudget/internal/source"
)

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID        string
	FiscalYear   string
	Output       string
	Files        int
	FilesSkipped int
	Records      int
	Errors       []*report.LineError
}

// Runner converts a directory of reports.
type Runner struct {
	cfg    *config.Config
	logger *log.Logger
	runID  string
	now    func() time.Time
}

// NewRunner creates a Runner with a fresh run ID. A nil logger discards
// output.
func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Runner{
		cfg:    cfg,
		logger: logger.With("run", id[:8]),
		runID:  id,
		now:    time.Now,
	}
}

// RunID identifies this run in logs and the error report.
func (r *Runner) RunID() string {
	return r.runID
}

type sink struct {
	json *output.File
	xlsx *output.Workbook
}

func (s *sink) write(b *model.BudgetLine) error {
	if err := s.json.Write(b); err != nil {
		return err
	}
	if s.xlsx != nil {
		if err := s.xlsx.Add(b); err != nil {
			return err
		}
	}
	return nil
}

// Run converts every report in inputDir. Under the abort policy the first bad
// line fails the run and no output file is left behind.
func (r *Runner) Run(ctx context.Context, inputDir string) (sum *Summary, err error) {
	fy := r.cfg.ResolveFiscalYear(inputDir)
	sum = &Summary{
		RunID:      r.runID,
		FiscalYear: fy,
		Output:     r.cfg.ResolveOutput(inputDir, fy),
	}

	var entries []runlog.Entry
	defer func() {
		if r.cfg.ErrorReport == "" || len(entries) == 0 {
			return
		}
		if werr := runlog.Append(r.cfg.ErrorReport, entries); werr != nil {
			r.logger.Warn("failed to write error report", "path", r.cfg.ErrorReport, "error", werr)
		}
	}()

	files, err := source.Scan(inputDir, r.cfg.Extensions)
	if err != nil {
		return sum, err
	}
	sum.Files = len(files)
	r.logger.Info("starting run", "input", inputDir, "fy", fy, "files", len(files), "output", sum.Output)

	out, err := output.Create(sum.Output)
	if err != nil {
		return sum, err
	}
	defer out.Abort()
	s := &sink{json: out}

	if r.cfg.XLSX != "" {
		wb, err := output.NewWorkbook()
		if err != nil {
			return sum, err
		}
		defer wb.Close()
		s.xlsx = wb
	}

	parser := report.NewParser(fy, r.logger)
	if r.cfg.OnError == config.PolicySkipLine {
		parser.OnError = func(*report.LineError) error { return nil }
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		r.logger.Info("parsing file", "file", f.Name, "n", i+1, "of", len(files))

		res, err := r.parseFile(ctx, parser, f)
		if res != nil {
			for _, lerr := range res.Skipped {
				sum.Errors = append(sum.Errors, lerr)
				entries = append(entries, r.entry(lerr, config.PolicySkipLine))
				r.logger.Warn("skipped line", "file", lerr.File, "line", lerr.Line, "rule", lerr.Rule, "error", lerr.Err)
			}
		}

		var lerr *report.LineError
		if errors.As(err, &lerr) {
			sum.Errors = append(sum.Errors, lerr)
			entries = append(entries, r.entry(lerr, r.cfg.OnError))
			if r.cfg.OnError == config.PolicySkipFile {
				sum.FilesSkipped++
				r.logger.Warn("skipped file", "file", f.Name, "line", lerr.Line, "rule", lerr.Rule, "error", lerr.Err)
				continue
			}
			r.logger.Error("bad report line", "file", f.Name, "line", lerr.Line, "rule", lerr.Rule, "error", lerr.Err)
			return sum, fmt.Errorf("run aborted: %w", err)
		}
		if err != nil {
			return sum, err
		}

		if res.Unterminated != nil {
			r.logger.Warn("dropping budget line with no closing totals row", "file", f.Name, "budget_line", res.Unterminated.BudgetLineID)
		}
		for _, b := range res.Records {
			if err := s.write(b); err != nil {
				return sum, fmt.Errorf("writing %s: %w", b.BudgetLineID, err)
			}
		}
		sum.Records += len(res.Records)
		r.logger.Info("parsed file", "file", f.Name, "lines", res.Lines, "records", len(res.Records))
	}

	if err := out.Close(); err != nil {
		return sum, err
	}
	if s.xlsx != nil {
		if err := s.xlsx.SaveAs(r.cfg.XLSX); err != nil {
			return sum, err
		}
	}

	r.logger.Info("run complete", "records", sum.Records, "files", sum.Files, "files_skipped", sum.FilesSkipped, "errors", len(sum.Errors))
	return sum, nil
}

func (r *Runner) parseFile(ctx context.Context, parser *report.Parser, f source.FileInfo) (*report.Result, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer fh.Close()

	return parser.Parse(ctx, fh, f.Name)
}

func (r *Runner) entry(lerr *report.LineError, action config.ErrorPolicy) runlog.Entry {
	return runlog.Entry{
		Timestamp: r.now().UTC(),
		RunID:     r.runID,
		File:      lerr.File,
		Line:      lerr.Line,
		Rule:      lerr.Rule.String(),
		Action:    string(action),
		Message:   lerr.Err.Error(),
	}
}
