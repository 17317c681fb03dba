package metrics

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gardar/reflow/pkg/layout"
)

type faceKey struct {
	face layout.Face
	size float64
}

// GoFonts measures text with the Go font family.
type GoFonts struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewGoFonts parses the embedded Go regular and bold fonts.
func NewGoFonts() (*GoFonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing Go regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing Go bold: %w", err)
	}
	return &GoFonts{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// Measure returns the advance width of text in points.
func (g *GoFonts) Measure(text string, face layout.Face, size float64) float64 {
	if size <= 0 || text == "" {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := g.face(face, size)
	if err != nil {
		return 0
	}
	adv := font.MeasureString(f, text)
	return float64(adv) / 64
}

// face returns a cached face. At 72 dpi one pixel is one point.
func (g *GoFonts) face(face layout.Face, size float64) (font.Face, error) {
	key := faceKey{face: face, size: size}
	if f, ok := g.faces[key]; ok {
		return f, nil
	}
	src := g.regular
	if face == layout.Bold {
		src = g.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     layout.PointsPerInch,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	g.faces[key] = f
	return f, nil
}

// Close releases every cached face.
func (g *GoFonts) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, f := range g.faces {
		f.Close()
		delete(g.faces, k)
	}
	return nil
}
