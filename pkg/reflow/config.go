package reflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/markup"
	"github.com/gardar/reflow/pkg/metrics"
)

// Options holds user options for one conversion
type Options struct {
	Font        FontConfig   `yaml:"font"`
	Metrics     string       `yaml:"metrics"`      // Font metrics backend, "core" or "gofont"
	LineSpacing float64      `yaml:"line_spacing"` // Line advance as a multiple of font size
	Page        PageConfig   `yaml:"page"`         // Target pages for PDF and DOCX output
	Slide       PageConfig   `yaml:"slide"`        // Target slides for PPTX output
	Rows        RowConfig    `yaml:"rows"`
	Grid        GridConfig   `yaml:"grid"`
	Headers     HeaderConfig `yaml:"headers"`
	Sheet       markup.Sheet `yaml:"-"`            // Markup presentation rules
	HOCRDPI     float64      `yaml:"hocr_dpi"`     // Resolution of hOCR sources without scan_res
	LayerName   string       `yaml:"layer_name"`   // PDF layer holding the headers (page number will be appended)
	Debug       bool         `yaml:"debug"`        // Outline placements in PDF output and log at debug level
	LogWarnings bool         `yaml:"log_warnings"`
	Logger      io.Writer    `yaml:"-"`            // Custom logger for warnings (nil = stdout)
}

// FontConfig contains font settings for text rendering and measurement
type FontConfig struct {
	Name        string  `yaml:"name"`         // Core font family (Helvetica, Times, Courier)
	Size        float64 `yaml:"size"`         // Body text size
	AscentRatio float64 `yaml:"ascent_ratio"` // Baseline offset below the line top
}

// PageConfig is a target page size with margins, in points.
type PageConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Top     float64 `yaml:"top"`
	Bottom  float64 `yaml:"bottom"`
	Left    float64 `yaml:"left"`
	Right   float64 `yaml:"right"`
	Spacing float64 `yaml:"spacing"` // Vertical space after each block
}

// Geometry converts the page config for the paginator.
func (p PageConfig) Geometry() layout.Geometry {
	return layout.Geometry(p)
}

// RowConfig holds the row clustering threshold of each paginated source, in
// points.
type RowConfig struct {
	PDF  float64 `yaml:"pdf"`
	PPTX float64 `yaml:"pptx"`
	HOCR float64 `yaml:"hocr"`
}

// GridConfig controls spreadsheet column assignment.
type GridConfig struct {
	BucketWidth   float64 `yaml:"bucket_width"`    // Points per estimated column
	MaxEmptyCells int     `yaml:"max_empty_cells"` // Cap on empty cells inserted for one gap
}

// HeaderConfig controls the provenance headers placed before each source page.
type HeaderConfig struct {
	PageFormat  string  `yaml:"page_format"`  // Label of document pages, with one %d verb
	SlideFormat string  `yaml:"slide_format"` // Label of slides, with one %d verb
	Size        float64 `yaml:"size"`
	Markup      bool    `yaml:"markup"` // Also label the pages of DOCX and HTML sources
}

// DefaultFont is Helvetica at the body text size
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Size:        layout.DefaultFontSize,
	AscentRatio: 0.718,
}

// Letter is a US Letter page with one inch margins.
var Letter = PageConfig{Width: 612, Height: 792, Top: 72, Bottom: 72, Left: 72, Right: 72, Spacing: 6}

// Widescreen is a 10 by 7.5 inch slide with half inch margins.
var Widescreen = PageConfig{Width: 720, Height: 540, Top: 36, Bottom: 36, Left: 36, Right: 36, Spacing: 6}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		Font:        DefaultFont,
		Metrics:     metrics.BackendCore,
		LineSpacing: layout.DefaultLineSpacing,
		Page:        Letter,
		Slide:       Widescreen,
		Rows: RowConfig{
			PDF:  layout.DefaultLineThreshold,
			PPTX: 10,
			HOCR: layout.DefaultLineThreshold,
		},
		Grid: GridConfig{
			BucketWidth:   layout.DefaultBucketWidth,
			MaxEmptyCells: layout.DefaultMaxEmptyCells,
		},
		Headers: HeaderConfig{
			PageFormat:  "Page %d",
			SlideFormat: "Slide %d",
			Size:        14,
		},
		Sheet:       markup.DefaultSheet(),
		HOCRDPI:     300,
		LayerName:   "Page headers", // Will be formatted as "Page headers (Page X)" in the final PDF
		Debug:       false,
		LogWarnings: true,
		Logger:      nil, // stdout
	}
}

// Validate reports the first option that cannot produce a layout.
func (o Options) Validate() error {
	if o.Font.Size <= 0 {
		return fmt.Errorf("font size %g must be positive", o.Font.Size)
	}
	if o.LineSpacing <= 0 {
		return fmt.Errorf("line spacing %g must be positive", o.LineSpacing)
	}
	for _, f := range []string{o.Headers.PageFormat, o.Headers.SlideFormat} {
		if strings.Count(f, "%d") != 1 {
			return fmt.Errorf("header format %q needs exactly one %%d", f)
		}
	}
	if o.Headers.Size <= 0 {
		return fmt.Errorf("header size %g must be positive", o.Headers.Size)
	}
	for _, page := range []struct {
		name string
		cfg  PageConfig
	}{{"page", o.Page}, {"slide", o.Slide}} {
		name, p := page.name, page.cfg
		g := p.Geometry()
		if g.ContentWidth() <= 0 || g.UsableHeight() <= 0 {
			return fmt.Errorf("%s %gx%g leaves no room inside its margins", name, p.Width, p.Height)
		}
		if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 || p.Spacing < 0 {
			return fmt.Errorf("%s margins and spacing must not be negative", name)
		}
	}
	if o.Grid.BucketWidth <= 0 {
		return fmt.Errorf("grid bucket width %g must be positive", o.Grid.BucketWidth)
	}
	return nil
}
