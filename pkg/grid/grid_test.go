package grid

import "testing"

func TestCellCountMatchesWalkLength(t *testing.T) {
	g := Default
	pts := g.Walk()
	if len(pts) != g.CellCount() {
		t.Fatalf("Walk produced %d points, CellCount says %d", len(pts), g.CellCount())
	}
}

func TestCellCountFormula(t *testing.T) {
	g := Default
	tw := g.TopWidth()
	want := tw*g.MarkerSize + g.Dimensions*tw + tw*g.MarkerSize
	if g.CellCount() != want {
		t.Fatalf("CellCount() = %d, want %d", g.CellCount(), want)
	}
}

func TestWalkOrderBandsThenRowMajor(t *testing.T) {
	g := Geometry{Spacing: 4, Dimensions: 16, MarkerSize: 2, Offset: 0}
	pts := g.Walk()
	tw := g.TopWidth() // 12

	// first point of top band
	if pts[0] != (Point{X: g.MarkerSize * g.Spacing, Y: 1}) {
		t.Fatalf("unexpected first top-band point: %+v", pts[0])
	}
	// second point of top band should be one cell to the right
	if pts[1].X != pts[0].X+g.Spacing || pts[1].Y != pts[0].Y {
		t.Fatalf("expected row-major progression within top band, got %+v then %+v", pts[0], pts[1])
	}
	// first point of middle band starts right after the top band
	topCount := tw * g.MarkerSize
	mid0 := pts[topCount]
	if mid0.X != g.Offset || mid0.Y != g.MarkerSize*g.Spacing+1 {
		t.Fatalf("unexpected first middle-band point: %+v", mid0)
	}
}

func TestMiddleBandSpansFullWidthUnderBottomLeftMarker(t *testing.T) {
	g := Geometry{Spacing: 4, Dimensions: 16, MarkerSize: 2, Offset: 0}
	pts := g.Walk()
	tw := g.TopWidth()
	topCount := tw * g.MarkerSize

	// the middle band's row-major x values should sweep the full
	// [0, W) range, including x < M*s (the bottom-left marker's
	// column span), unlike the top/bottom bands which start at M*s.
	sawUnderMarker := false
	for i := 0; i < g.Dimensions; i++ {
		p := pts[topCount+i]
		if p.X < g.MarkerSize*g.Spacing {
			sawUnderMarker = true
		}
	}
	if !sawUnderMarker {
		t.Fatalf("expected middle band's first row to include x under the bottom-left marker span")
	}
}
