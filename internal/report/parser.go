package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/capbudget/internal/model"
)

const (
	maxLineBytes    = 1 << 20
	ctxCheckEvery   = 1024
	initialLineBuff = 64 * 1024
)

// ErrorHandler decides what happens after a line fails extraction. Returning
// nil skips the line and continues; returning an error stops the file with
// that error.
type ErrorHandler func(*LineError) error

// Abort is the ErrorHandler that stops at the first bad line.
func Abort(err *LineError) error { return err }

// Result is the outcome of parsing one report file.
type Result struct {
	Records []*model.BudgetLine
	Lines   int
	Skipped []*LineError

	// Unterminated is the record still open at end of input. Reports close
	// every budget line with a totals row, so it is not part of Records.
	Unterminated *model.BudgetLine
}

// Parser turns report files into budget line records.
type Parser struct {
	FiscalYear string
	OnError    ErrorHandler

	logger *log.Logger
}

// NewParser creates a Parser that stamps records with fiscalYear and aborts
// on the first bad line.
func NewParser(fiscalYear string, logger *log.Logger) *Parser {
	return &Parser{FiscalYear: fiscalYear, OnError: Abort, logger: logger}
}

// Parse reads r to the end. name identifies the file in errors.
func (p *Parser) Parse(ctx context.Context, r io.Reader, name string) (*Result, error) {
	acc := NewAccumulator(name, p.FiscalYear, p.logger)
	onError := p.OnError
	if onError == nil {
		onError = Abort
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialLineBuff), maxLineBytes)

	res := &Result{}
	for sc.Scan() {
		if acc.Line()%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		done, err := acc.Feed(sc.Text())
		if done != nil {
			res.Records = append(res.Records, done)
		}
		if err != nil {
			var lerr *LineError
			if !errors.As(err, &lerr) {
				return res, err
			}
			if herr := onError(lerr); herr != nil {
				res.Lines = acc.Line()
				return res, herr
			}
			res.Skipped = append(res.Skipped, lerr)
		}
	}
	res.Lines = acc.Line()
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading %s: %w", name, err)
	}

	res.Unterminated = acc.Pending()
	return res, nil
}
