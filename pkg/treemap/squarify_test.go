package treemap

import (
	"math"
	"reflect"
	"testing"
)

const epsilon = 1e-6

// relEqual reports whether a and b are equal within a relative epsilon.
func relEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= epsilon*scale
}

func totalArea(rects []Rect) float64 {
	sum := 0.0
	for _, r := range rects {
		sum += r.Area()
	}
	return sum
}

// overlapArea returns the intersection area of two rects.
func overlapArea(a, b Rect) float64 {
	w := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func TestSquarifyEmpty(t *testing.T) {
	bounds := Bounds{Width: 100, Height: 100}

	if got := Squarify(nil, bounds); got != nil {
		t.Errorf("Squarify(nil) = %v, want nil", got)
	}
	if got := Squarify([]Item{}, bounds); got != nil {
		t.Errorf("Squarify(empty) = %v, want nil", got)
	}
}

func TestSquarifyNonPositiveValues(t *testing.T) {
	bounds := Bounds{Width: 100, Height: 100}
	items := []Item{
		{Name: "zero", Value: 0},
		{Name: "negative", Value: -1},
	}
	if got := Squarify(items, bounds); got != nil {
		t.Errorf("all non-positive values should yield nil, got %d rects", len(got))
	}

	// Mixed: only the positive item survives.
	items = append(items, Item{Name: "ok", Value: 5})
	rects := Squarify(items, bounds)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
	if rects[0].Item.Name != "ok" {
		t.Errorf("surviving item = %q, want %q", rects[0].Item.Name, "ok")
	}
}

func TestSquarifyDegenerateBounds(t *testing.T) {
	items := []Item{{Name: "a", Value: 1}}

	tests := []struct {
		name   string
		bounds Bounds
	}{
		{"zero width", Bounds{Width: 0, Height: 100}},
		{"zero height", Bounds{Width: 100, Height: 0}},
		{"negative width", Bounds{Width: -10, Height: 100}},
		{"zero both", Bounds{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Squarify(items, tt.bounds); got != nil {
				t.Errorf("Squarify with %s = %v, want nil", tt.name, got)
			}
		})
	}
}

func TestSquarifySingleItem(t *testing.T) {
	rects := Squarify([]Item{{Name: "only", Value: 100}}, Bounds{Width: 50, Height: 50})

	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
	r := rects[0]
	if r.X != 0 || r.Y != 0 || r.Width != 50 || r.Height != 50 {
		t.Errorf("single item should fill bounds exactly, got {%v %v %v %v}", r.X, r.Y, r.Width, r.Height)
	}
}

func TestSquarifyThreeItems(t *testing.T) {
	items := []Item{
		{Name: "a", Value: 50},
		{Name: "b", Value: 30},
		{Name: "c", Value: 20},
	}
	bounds := Bounds{Width: 200, Height: 100}
	rects := Squarify(items, bounds)

	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}

	wantAreas := map[string]float64{"a": 10000, "b": 6000, "c": 4000}
	largest := rects[0]
	for _, r := range rects {
		want := wantAreas[r.Item.Name]
		if !relEqual(r.Area(), want) {
			t.Errorf("area(%s) = %v, want %v", r.Item.Name, r.Area(), want)
		}
		if r.Area() > largest.Area() {
			largest = r
		}
		// Containment in bounds.
		if r.X < -epsilon || r.Y < -epsilon ||
			r.X+r.Width > bounds.Width+epsilon || r.Y+r.Height > bounds.Height+epsilon {
			t.Errorf("rect %s {%v %v %v %v} escapes bounds", r.Item.Name, r.X, r.Y, r.Width, r.Height)
		}
	}
	if largest.Item.Name != "a" {
		t.Errorf("largest region belongs to %q, want %q", largest.Item.Name, "a")
	}
	if !relEqual(totalArea(rects), bounds.Area()) {
		t.Errorf("total area = %v, want %v", totalArea(rects), bounds.Area())
	}
}

func TestSquarifyEqualWeights(t *testing.T) {
	items := make([]Item, 5)
	for i := range items {
		items[i] = Item{Name: string(rune('a' + i)), Value: 20}
	}
	rects := Squarify(items, Bounds{Width: 100, Height: 100})

	if len(rects) != 5 {
		t.Fatalf("expected 5 rects, got %d", len(rects))
	}
	for _, r := range rects {
		if !relEqual(r.Area(), 2000) {
			t.Errorf("area(%s) = %v, want 2000", r.Item.Name, r.Area())
		}
	}
	if !relEqual(totalArea(rects), 10000) {
		t.Errorf("total area = %v, want 10000", totalArea(rects))
	}
}

func TestSquarifyNoOverlap(t *testing.T) {
	items := []Item{
		{Name: "a", Value: 6}, {Name: "b", Value: 6}, {Name: "c", Value: 4},
		{Name: "d", Value: 3}, {Name: "e", Value: 2}, {Name: "f", Value: 2},
		{Name: "g", Value: 1},
	}
	rects := Squarify(items, Bounds{X: 10, Y: 20, Width: 600, Height: 400})

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if a := overlapArea(rects[i], rects[j]); a > epsilon*rects[i].Area() {
				t.Errorf("rects %s and %s overlap with area %v",
					rects[i].Item.Name, rects[j].Item.Name, a)
			}
		}
	}
}

func TestSquarifyProportionality(t *testing.T) {
	items := []Item{
		{Name: "a", Value: 40},
		{Name: "b", Value: 10},
		{Name: "c", Value: 25},
		{Name: "d", Value: 25},
	}
	rects := Squarify(items, Bounds{Width: 320, Height: 180})

	byName := make(map[string]Rect, len(rects))
	for _, r := range rects {
		byName[r.Item.Name] = r
	}

	// area ratios should match value ratios.
	if ratio := byName["a"].Area() / byName["b"].Area(); !relEqual(ratio, 4) {
		t.Errorf("area(a)/area(b) = %v, want 4", ratio)
	}
	if ratio := byName["c"].Area() / byName["d"].Area(); !relEqual(ratio, 1) {
		t.Errorf("area(c)/area(d) = %v, want 1", ratio)
	}
}

func TestSquarifyDescendingOrder(t *testing.T) {
	// Output follows descending weight order regardless of input order.
	items := []Item{
		{Name: "small", Value: 1},
		{Name: "big", Value: 100},
		{Name: "mid", Value: 10},
	}
	rects := Squarify(items, Bounds{Width: 100, Height: 100})

	want := []string{"big", "mid", "small"}
	for i, r := range rects {
		if r.Item.Name != want[i] {
			t.Errorf("rects[%d] = %q, want %q", i, r.Item.Name, want[i])
		}
	}
}

func TestSquarifyDeterminism(t *testing.T) {
	items := []Item{
		{Name: "a", Value: 7}, {Name: "b", Value: 7}, {Name: "c", Value: 3},
		{Name: "d", Value: 3}, {Name: "e", Value: 1},
	}
	bounds := Bounds{Width: 123, Height: 77}

	first := Squarify(items, bounds)
	second := Squarify(items, bounds)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different layouts")
	}
}

func TestSquarifyDoesNotMutateInput(t *testing.T) {
	items := []Item{
		{Name: "small", Value: 1},
		{Name: "big", Value: 100},
	}
	Squarify(items, Bounds{Width: 100, Height: 100})

	if items[0].Name != "small" || items[1].Name != "big" {
		t.Error("input slice order was mutated")
	}
}

func TestSquarifyItemReference(t *testing.T) {
	items := []Item{
		{Name: "a", Value: 2, Meta: map[string]any{"ticker": "ACME"}},
		{Name: "b", Value: 1},
	}
	rects := Squarify(items, Bounds{Width: 100, Height: 100})

	for _, r := range rects {
		if r.Item != &items[0] && r.Item != &items[1] {
			t.Errorf("rect %s does not reference the input slice", r.Item.Name)
		}
	}
	if rects[0].Item.Meta["ticker"] != "ACME" {
		t.Error("metadata was not carried through by reference")
	}
}

func TestSquarifyColors(t *testing.T) {
	items := []Item{
		{Name: "explicit", Value: 10, Color: "#123456"},
		{Name: "fallback", Value: 5},
	}
	rects := Squarify(items, Bounds{Width: 100, Height: 100})

	if rects[0].Color != "#123456" {
		t.Errorf("explicit color not preserved: %q", rects[0].Color)
	}
	if rects[1].Color != paletteColor(1) {
		t.Errorf("fallback color = %q, want palette index 1 %q", rects[1].Color, paletteColor(1))
	}
}

func TestSquarifyPaletteWraps(t *testing.T) {
	n := PaletteSize() + 3
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Name: "x", Value: float64(n - i)}
	}
	rects := Squarify(items, Bounds{Width: 400, Height: 400})

	if rects[PaletteSize()].Color != rects[0].Color {
		t.Errorf("palette should wrap at %d entries", PaletteSize())
	}
}

func TestSquarifyAspectRatios(t *testing.T) {
	// Squarified layout should avoid extreme slivers for balanced inputs.
	items := []Item{
		{Name: "a", Value: 50}, {Name: "b", Value: 30}, {Name: "c", Value: 20},
	}
	rects := Squarify(items, Bounds{Width: 80, Height: 24})

	for _, r := range rects {
		ratio := r.Width / r.Height
		if ratio > 20 || ratio < 0.05 {
			t.Errorf("rect %s has extreme aspect ratio %.2f (%vx%v)",
				r.Item.Name, ratio, r.Width, r.Height)
		}
	}
}

func TestSquarifyManyItemsConservation(t *testing.T) {
	items := make([]Item, 40)
	for i := range items {
		items[i] = Item{Name: "n", Value: float64((i*37)%19 + 1)}
	}
	bounds := Bounds{X: -50, Y: 30, Width: 1024, Height: 385}
	rects := Squarify(items, bounds)

	if len(rects) != len(items) {
		t.Fatalf("expected %d rects, got %d", len(items), len(rects))
	}
	if !relEqual(totalArea(rects), bounds.Area()) {
		t.Errorf("total area = %v, want %v", totalArea(rects), bounds.Area())
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if a := overlapArea(rects[i], rects[j]); a > 1e-6*bounds.Area() {
				t.Fatalf("rects %d and %d overlap with area %v", i, j, a)
			}
		}
	}
}
