package treemap

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

const areaTolerance = 1e-6

func totalArea(placed []Placed) float64 {
	area := 0.0
	for _, p := range placed {
		area += p.Rect.Width * p.Rect.Height
	}
	return area
}

func TestLayout_SingleItemFillsTarget(t *testing.T) {
	placed := Layout([]Item{{ID: "a", Label: "A", Weight: 1}}, Options{Width: 800, Height: 400})

	check.Equal(t, 1, len(placed))
	check.Equal(t, Rect{X: 0, Y: 0, Width: 800, Height: 400}, placed[0].Rect)
}

func TestLayout_AreasProportionalToWeight(t *testing.T) {
	items := []Item{
		{ID: "a", Weight: 0.75},
		{ID: "b", Weight: 0.85},
		{ID: "c", Weight: 0.65},
		{ID: "d", Weight: 0.55},
		{ID: "e", Weight: 0.90},
	}

	placed := Layout(items, Options{Width: 800, Height: 400})
	check.Equal(t, 5, len(placed))

	total := 0.0
	for _, item := range items {
		total += item.Weight
	}

	byID := make(map[string]Rect)
	for _, p := range placed {
		byID[p.Item.ID] = p.Rect
	}

	for _, item := range items {
		rect := byID[item.ID]
		expected := 800 * 400 * item.Weight / total
		got := rect.Width * rect.Height
		check.True(t, abs(got-expected) < areaTolerance)
	}
}

func TestLayout_CoversTargetWithoutOverlap(t *testing.T) {
	items := []Item{
		{ID: "a", Weight: 3},
		{ID: "b", Weight: 2},
		{ID: "c", Weight: 1},
		{ID: "d", Weight: 1},
	}

	placed := Layout(items, Options{Width: 100, Height: 100})
	check.Equal(t, 4, len(placed))

	// Proportional areas summing to the target area imply full coverage;
	// combined with bounds containment this rules out overlap.
	check.True(t, abs(totalArea(placed)-100*100) < areaTolerance)

	for _, p := range placed {
		check.True(t, p.Rect.X >= 0)
		check.True(t, p.Rect.Y >= 0)
		check.True(t, p.Rect.X+p.Rect.Width <= 100+areaTolerance)
		check.True(t, p.Rect.Y+p.Rect.Height <= 100+areaTolerance)
	}

	// Pairwise disjoint interiors.
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i].Rect, placed[j].Rect
			overlapW := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
			overlapH := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)
			if overlapW > areaTolerance && overlapH > areaTolerance {
				t.Fatalf("rects %d and %d overlap: %+v vs %+v", i, j, a, b)
			}
		}
	}
}

func TestLayout_PaddingInsetsEachRect(t *testing.T) {
	items := []Item{
		{ID: "a", Weight: 1},
		{ID: "b", Weight: 1},
	}

	padded := Layout(items, Options{Width: 100, Height: 100, Padding: 2})
	unpadded := Layout(items, Options{Width: 100, Height: 100})

	for i := range padded {
		check.Equal(t, unpadded[i].Rect.X+2, padded[i].Rect.X)
		check.Equal(t, unpadded[i].Rect.Y+2, padded[i].Rect.Y)
		check.Equal(t, unpadded[i].Rect.Width-4, padded[i].Rect.Width)
		check.Equal(t, unpadded[i].Rect.Height-4, padded[i].Rect.Height)
	}
}

func TestLayout_MinWeightDropsItems(t *testing.T) {
	items := []Item{
		{ID: "big", Weight: 0.95},
		{ID: "small", Weight: 0.005},
		{ID: "zero", Weight: 0},
	}

	placed := Layout(items, Options{Width: 100, Height: 100, MinWeight: 0.01})

	check.Equal(t, 1, len(placed))
	check.Equal(t, "big", placed[0].Item.ID)
}

func TestLayout_Direction(t *testing.T) {
	items := []Item{
		{ID: "a", Weight: 1},
		{ID: "b", Weight: 1},
	}

	horizontal := Layout(items, Options{Width: 100, Height: 50, Direction: Horizontal})
	check.Equal(t, 2, len(horizontal))
	// First split is left/right: both rects are full height.
	check.Equal(t, 50.0, horizontal[0].Rect.Height)
	check.Equal(t, 50.0, horizontal[1].Rect.Height)

	vertical := Layout(items, Options{Width: 100, Height: 50, Direction: Vertical})
	check.Equal(t, 2, len(vertical))
	check.Equal(t, 100.0, vertical[0].Rect.Width)
	check.Equal(t, 100.0, vertical[1].Rect.Width)
}

func TestLayout_Degenerate(t *testing.T) {
	check.Equal(t, 0, len(Layout(nil, Options{Width: 100, Height: 100})))
	check.Equal(t, 0, len(Layout([]Item{{ID: "a", Weight: 1}}, Options{Width: 0, Height: 100})))
	check.Equal(t, 0, len(Layout([]Item{{ID: "a", Weight: 0}}, Options{Width: 100, Height: 100})))
}
