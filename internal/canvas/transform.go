// Package canvas maps pointer movement on a zoomable, pannable surface back to
// logical canvas coordinates.
package canvas

// Transform is a zoom-pan transform: screen = canvas*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Transform {
	return Transform{X: 0, Y: 0, K: 1}
}

// Point is a pair of coordinates, in screen or canvas space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is the on-screen bounding box of an element.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Origin returns the top-left corner of the rect.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// MidY returns the vertical midpoint of the rect.
func (r Rect) MidY() float64 {
	return r.Top + r.Height/2
}

// ToCanvas converts a drop into canvas coordinates relative to the drop target.
// initial is the dragged element's rect at drag start, over the drop target's
// rect (nil is treated as a target at the screen origin) and delta the total
// pointer movement since drag start.
//
// t.K must be non-zero.
func ToCanvas(initial Rect, over *Rect, delta Point, t Transform) Point {
	var overLeft, overTop float64
	if over != nil {
		overLeft, overTop = over.Left, over.Top
	}
	return Point{
		X: (initial.Left + delta.X - overLeft - t.X) / t.K,
		Y: (initial.Top + delta.Y - overTop - t.Y) / t.K,
	}
}

// ToScreen is the rendering inverse of ToCanvas: it scales canvas coordinates
// by K and translates by (X, Y). The result is relative to the same target
// that ToCanvas subtracted.
func ToScreen(p Point, t Transform) Point {
	return Point{
		X: p.X*t.K + t.X,
		Y: p.Y*t.K + t.Y,
	}
}
