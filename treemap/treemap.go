// Package treemap lays out weighted items as an axis-aligned partition of a
// rectangle, with each item's area proportional to its weight. The layout is
// a recursive binary split: items are sorted by weight descending, divided at
// the prefix whose weight sum is closest to half the total, and each half is
// laid out in the perpendicular direction. The package is stateless and holds
// no reference to auction state; callers feed it (id, label, weight) triples.
package treemap

import "sort"

// Direction selects the axis of the first split.
type Direction int

const (
	// Horizontal splits the rectangle left/right first.
	Horizontal Direction = iota
	// Vertical splits the rectangle top/bottom first.
	Vertical
)

// Rect is an axis-aligned rectangle. X and Y locate the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Item is one weighted entry to lay out.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Placed pairs an item with its computed rectangle.
type Placed struct {
	Item Item `json:"item"`
	Rect Rect `json:"rect"`
}

// Options configures a layout run.
type Options struct {
	// Width and Height define the target rectangle, anchored at (0, 0).
	Width  float64
	Height float64

	// Direction of the first split; halves alternate from there.
	Direction Direction

	// Padding insets each emitted rectangle on all sides.
	Padding float64

	// MinWeight drops items whose weight does not exceed it. With the zero
	// value, zero-weight items are dropped, which also keeps the weight
	// ratios well defined.
	MinWeight float64
}

// Layout partitions the target rectangle among the items, proportionally to
// their weights. The returned rectangles cover the target without overlap,
// up to the configured padding. Items at or below MinWeight are omitted.
// Returns nil when nothing is placeable.
func Layout(items []Item, opts Options) []Placed {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil
	}

	filtered := make([]Item, 0, len(items))
	total := 0.0
	for _, item := range items {
		if item.Weight > opts.MinWeight {
			filtered = append(filtered, item)
			total += item.Weight
		}
	}
	if len(filtered) == 0 || total <= 0 {
		return nil
	}

	// Sort by weight descending for a stable, readable layout. Ties keep
	// input order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Weight > filtered[j].Weight
	})

	placed := make([]Placed, 0, len(filtered))
	split(filtered, Rect{Width: opts.Width, Height: opts.Height}, opts.Direction, opts.Padding, &placed)
	return placed
}

// split recursively divides the items into two groups of near-equal weight
// and assigns each group a slice of the rectangle along the given direction.
func split(items []Item, rect Rect, direction Direction, padding float64, out *[]Placed) {
	if len(items) == 0 || rect.Width <= 0 || rect.Height <= 0 {
		return
	}

	if len(items) == 1 {
		*out = append(*out, Placed{Item: items[0], Rect: inset(rect, padding)})
		return
	}

	total := 0.0
	for _, item := range items {
		total += item.Weight
	}

	// Find the prefix whose weight sum lands closest to half the total.
	// Items are sorted descending, so the prefix is never empty.
	leftSum := 0.0
	splitIndex := 0
	for i := 0; i < len(items)-1; i++ {
		leftSum += items[i].Weight
		if leftSum >= total/2 {
			withRatio := leftSum / total
			withoutRatio := (leftSum - items[i].Weight) / total
			if abs(withRatio-0.5) < abs(withoutRatio-0.5) {
				splitIndex = i + 1
			} else {
				splitIndex = i
				leftSum -= items[i].Weight
			}
			break
		}
		splitIndex = i + 1
	}

	if splitIndex == 0 || splitIndex == len(items) {
		// Degenerate weights; place everything as one strip to terminate.
		strip(items, rect, direction, total, padding, out)
		return
	}

	leftItems := items[:splitIndex]
	rightItems := items[splitIndex:]
	leftRatio := leftSum / total

	next := Vertical
	if direction == Vertical {
		next = Horizontal
	}

	if direction == Horizontal {
		leftWidth := rect.Width * leftRatio
		split(leftItems, Rect{X: rect.X, Y: rect.Y, Width: leftWidth, Height: rect.Height},
			next, padding, out)
		split(rightItems, Rect{X: rect.X + leftWidth, Y: rect.Y, Width: rect.Width - leftWidth, Height: rect.Height},
			next, padding, out)
	} else {
		leftHeight := rect.Height * leftRatio
		split(leftItems, Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: leftHeight},
			next, padding, out)
		split(rightItems, Rect{X: rect.X, Y: rect.Y + leftHeight, Width: rect.Width, Height: rect.Height - leftHeight},
			next, padding, out)
	}
}

// strip slices the rectangle into weight-proportional bands along the given
// direction, one per item.
func strip(items []Item, rect Rect, direction Direction, total, padding float64, out *[]Placed) {
	offset := rect.X
	if direction == Vertical {
		offset = rect.Y
	}

	for _, item := range items {
		ratio := item.Weight / total
		if direction == Horizontal {
			width := rect.Width * ratio
			*out = append(*out, Placed{
				Item: item,
				Rect: inset(Rect{X: offset, Y: rect.Y, Width: width, Height: rect.Height}, padding),
			})
			offset += width
		} else {
			height := rect.Height * ratio
			*out = append(*out, Placed{
				Item: item,
				Rect: inset(Rect{X: rect.X, Y: offset, Width: rect.Width, Height: height}, padding),
			})
			offset += height
		}
	}
}

func inset(rect Rect, padding float64) Rect {
	width := rect.Width - padding*2
	height := rect.Height - padding*2
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: rect.X + padding, Y: rect.Y + padding, Width: width, Height: height}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
