package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingMarker is returned when a line matched a rule's trigger but
	// lacks a marker the rule needs to extract its fields.
	ErrMissingMarker = errors.New("missing field marker")

	// ErrMalformedAmount is returned for monetary tokens that do not parse.
	ErrMalformedAmount = errors.New("malformed amount")

	// ErrShortLine is returned when a delimited or fixed-column row has fewer
	// fields than its layout requires.
	ErrShortLine = errors.New("line too short for layout")

	// ErrNoProject is returned for a commitment row seen before any project
	// header in the current budget line.
	ErrNoProject = errors.New("commitment before any project header")
)

// LineError reports a line whose fields could not be extracted.
type LineError struct {
	File string
	Line int // 1-based
	Rule Kind
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Rule, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
