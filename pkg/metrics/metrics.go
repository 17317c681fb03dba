// Package metrics provides font measurement backends for layout.
//
// Two backends are available:
//
// - CoreFonts measures with the width tables of the standard PDF core fonts
// embedded in fpdf. Text is transcoded to Windows-1252 first, exactly as the
// PDF assembler writes it, so measured and rendered widths agree.
// - GoFonts measures with the Go font family through x/image opentype faces.
//
// Both are deterministic and safe for concurrent use.
package metrics

import (
	"fmt"

	"github.com/gardar/reflow/pkg/layout"
)

// Backend names accepted by New.
const (
	BackendCore   = "core"
	BackendGoFont = "gofont"
)

// New returns the named backend. The family only applies to the core backend.
func New(backend, family string) (layout.Metrics, error) {
	switch backend {
	case "", BackendCore:
		return NewCoreFonts(family)
	case BackendGoFont:
		return NewGoFonts()
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", backend)
	}
}
