package layout

// Unit conversion factors from points.
const (
	PointsPerInch       = 72.0
	EMUPerPoint         = 12700.0 // Office drawing units
	TwipsPerPoint       = 20.0    // WordprocessingML spacing and indents
	HalfPointsPerPoint  = 2.0     // WordprocessingML font sizes
	CentiPointsPerPoint = 100.0   // DrawingML font sizes
)

// Mapper converts between source coordinates (points, origin bottom-left) and
// target coordinates (target units, origin top-left).
//
// A Mapper belongs to one page. Pages of different sizes need their own.
type Mapper struct {
	PageHeight float64 // Page height in source points
	Scale      float64 // Target units per point
}

// NewMapper creates a mapper for a page of the given height.
func NewMapper(pageHeight, scale float64) Mapper {
	if scale == 0 {
		scale = 1
	}
	return Mapper{PageHeight: pageHeight, Scale: scale}
}

// ToTarget maps the bottom-left corner (x, y) of a block of height h to the
// top-left corner of the same block in target units.
func (m Mapper) ToTarget(x, y, h float64) (float64, float64) {
	return x * m.Scale, (m.PageHeight - y - h) * m.Scale
}

// FromTarget maps a top-left target corner of a block of height h (in target
// units) back to its bottom-left corner in source points.
func (m Mapper) FromTarget(tx, ty, h float64) (float64, float64) {
	x := tx / m.Scale
	y := m.PageHeight - ty/m.Scale - h/m.Scale
	return x, y
}

// Length scales a distance without flipping.
func (m Mapper) Length(v float64) float64 {
	return v * m.Scale
}
