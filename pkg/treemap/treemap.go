// Package treemap implements squarified treemap layout.
//
// The layout algorithm follows Bruls, Huizing and van Wijk's "Squarified
// Treemaps": items are placed in descending weight order, row by row against
// the short side of the remaining rectangle, growing each row greedily while
// the worst aspect ratio in the row keeps improving. The result is a set of
// non-overlapping rectangles whose areas are proportional to item weights and
// whose aspect ratios stay close to square.
//
// The core entry point is [Squarify]:
//
//	rects := treemap.Squarify(items, treemap.Bounds{Width: 800, Height: 600})
//	for _, r := range rects {
//	    draw(r.X, r.Y, r.Width, r.Height, r.Color)
//	}
//
// [LayoutTree] extends the flat layout to hierarchies by recursing into each
// placed rectangle.
//
// All functions are pure: they do not modify their inputs, perform no I/O,
// and are deterministic for a given input. They are safe for concurrent use.
package treemap

// Item is a single weighted entry to lay out.
// Items with a non-positive Value are excluded from layout.
type Item struct {
	// Name is the display label for the item.
	Name string `json:"name"`

	// Value is the item's weight. The item's output rectangle gets an area
	// proportional to Value relative to the sum of all positive values.
	Value float64 `json:"value"`

	// Color is an optional explicit color. When empty, a palette color is
	// assigned by the item's position in the sorted layout order.
	Color string `json:"color,omitempty"`

	// Meta carries arbitrary caller data through to the output rectangle.
	// It is an in-memory passthrough only and is excluded from serialized
	// layouts.
	Meta map[string]any `json:"-"`
}

// Bounds is the axis-aligned target rectangle for a layout.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// Area returns the bounds' area.
func (b Bounds) Area() float64 { return b.Width * b.Height }

// Rect is a positioned output rectangle paired with its originating item.
// The Item pointer references the caller's input slice; it is never a copy.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Color is the resolved fill color: the item's explicit color when set,
	// otherwise a deterministic palette pick.
	Color string `json:"color,omitempty"`

	// Item points at the input item this rectangle represents.
	Item *Item `json:"item,omitempty"`
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width * r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
