package reflow

import (
	"errors"
	"fmt"

	"github.com/gardar/reflow/pkg/assemble"
)

var (
	// ErrSourceParse is returned when the input cannot be read as its format.
	ErrSourceParse = errors.New("reflow: source could not be parsed")

	// ErrBuilderRejected is returned when the target builder refuses the
	// document.
	ErrBuilderRejected = assemble.ErrRejected

	// ErrUnsupportedConversion is returned for format pairs without a
	// conversion path.
	ErrUnsupportedConversion = errors.New("reflow: unsupported conversion")

	// ErrUnknownFormat is returned when a format cannot be recognized.
	ErrUnknownFormat = errors.New("reflow: unknown format")

	// ErrInvalidOptions is returned for options that cannot produce a layout.
	ErrInvalidOptions = errors.New("reflow: invalid options")
)

// ConversionError is the single failure of a conversion. It matches both its
// Kind and its cause with errors.Is.
type ConversionError struct {
	Op   string // Conversion being performed, such as "pdf to docx"
	Kind error  // One of the Err* kinds above
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
