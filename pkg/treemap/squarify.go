package treemap

import (
	"cmp"
	"slices"
)

// Squarify lays out items inside bounds as a squarified treemap.
//
// Items with non-positive values are dropped before layout. If no items
// survive filtering, or if bounds has a non-positive width or height, the
// result is nil. Both are ordinary states (an empty dataset, a container
// that has not been measured yet), not errors.
//
// The returned rectangles tile bounds exactly: their areas sum to the bounds
// area (up to floating-point error), no two overlap, and each area is
// proportional to its item's value. Items are processed in descending value
// order; the ordering is required by the algorithm's aspect-ratio guarantee.
func Squarify(items []Item, bounds Bounds) []Rect {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil
	}

	sorted := make([]*Item, 0, len(items))
	total := 0.0
	for i := range items {
		if items[i].Value > 0 {
			sorted = append(sorted, &items[i])
			total += items[i].Value
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	// Descending by value. SortStable keeps input order for equal values so
	// the layout is deterministic.
	slices.SortStableFunc(sorted, func(a, b *Item) int {
		return cmp.Compare(b.Value, a.Value)
	})

	// Convert weights to target areas.
	scale := bounds.Area() / total
	areas := make([]float64, len(sorted))
	for i, it := range sorted {
		areas[i] = it.Value * scale
	}

	rects := make([]Rect, 0, len(sorted))
	remaining := bounds

	for start := 0; start < len(sorted); {
		// A single remaining item takes the whole rectangle. This avoids
		// floating-point slivers on the final placement.
		if start == len(sorted)-1 {
			rects = append(rects, Rect{
				X:      remaining.X,
				Y:      remaining.Y,
				Width:  remaining.Width,
				Height: remaining.Height,
				Item:   sorted[start],
			})
			break
		}

		short := min(remaining.Width, remaining.Height)

		// Grow the row while the worst aspect ratio does not get worse.
		// Equal ratios continue the row.
		end := start + 1
		rowArea := areas[start]
		worst := worstRatio(short, areas[start:end], rowArea)
		for end < len(sorted) {
			next := worstRatio(short, areas[start:end+1], rowArea+areas[end])
			if next > worst {
				break
			}
			rowArea += areas[end]
			worst = next
			end++
		}

		rects = placeRow(rects, sorted[start:end], areas[start:end], rowArea, remaining)
		remaining = shrink(remaining, rowArea)
		start = end
	}

	for i := range rects {
		if rects[i].Item.Color != "" {
			rects[i].Color = rects[i].Item.Color
		} else {
			rects[i].Color = paletteColor(i)
		}
	}

	return rects
}

// worstRatio computes the worst aspect ratio the row would have when laid
// out against side length s with combined area sum.
func worstRatio(s float64, areas []float64, sum float64) float64 {
	s2 := s * s
	sum2 := sum * sum
	worst := 0.0
	for _, a := range areas {
		r := max(s2*a/sum2, sum2/(s2*a))
		if r > worst {
			worst = r
		}
	}
	return worst
}

// placeRow appends the row's rectangles as a strip against the short side of
// remaining. When the remaining rectangle is at least as wide as it is tall,
// the strip is vertical (full height, placed on the left); otherwise it is
// horizontal (full width, placed on the top).
func placeRow(rects []Rect, row []*Item, areas []float64, rowArea float64, remaining Bounds) []Rect {
	if remaining.Width >= remaining.Height {
		rowLen := rowArea / remaining.Height
		y := remaining.Y
		for i, it := range row {
			h := areas[i] / rowLen
			rects = append(rects, Rect{
				X:      remaining.X,
				Y:      y,
				Width:  rowLen,
				Height: h,
				Item:   it,
			})
			y += h
		}
		return rects
	}

	rowLen := rowArea / remaining.Width
	x := remaining.X
	for i, it := range row {
		w := areas[i] / rowLen
		rects = append(rects, Rect{
			X:      x,
			Y:      remaining.Y,
			Width:  w,
			Height: rowLen,
			Item:   it,
		})
		x += w
	}
	return rects
}

// shrink removes the strip holding rowArea from the remaining rectangle,
// matching the orientation chosen in placeRow.
func shrink(remaining Bounds, rowArea float64) Bounds {
	if remaining.Width >= remaining.Height {
		rowLen := rowArea / remaining.Height
		remaining.X += rowLen
		remaining.Width -= rowLen
		return remaining
	}
	rowLen := rowArea / remaining.Width
	remaining.Y += rowLen
	remaining.Height -= rowLen
	return remaining
}
