package scanner

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

var ErrDetectionFailed = errors.New("scanner: anchor detection failed")

// DefaultSkip is the reference row/column stride for the horizontal
// sweep. It must not evenly divide the frame's height (spec section
// 4.5); 17 is the reference choice and is overridable per Scanner.
const DefaultSkip = 17

// dedupeRadius is the pixel distance under which two anchor centers
// are considered the same marker.
const dedupeRadius = 50

// Scanner finds the four finder-marker anchors in a binarized frame.
type Scanner struct {
	bin    *image.Gray
	dark   bool
	skip   int
	width  int
	height int
}

// New binarizes src with the plain global threshold and builds a
// Scanner. skip must not divide src's height; pass 0 to use
// DefaultSkip.
func New(src image.Image, dark bool, skip int) *Scanner {
	return newFromGray(Binarize(src), dark, skip)
}

// NewOtsu binarizes src with the Gaussian-blur+Otsu variant noted in
// spec section 9 as acceptable for uneven lighting.
func NewOtsu(src image.Image, dark bool, skip int, sigma float64) *Scanner {
	return newFromGray(BinarizeOtsu(src, sigma), dark, skip)
}

func newFromGray(bin *image.Gray, dark bool, skip int) *Scanner {
	if skip <= 0 {
		skip = DefaultSkip
	}
	b := bin.Bounds()
	return &Scanner{bin: bin, dark: dark, skip: skip, width: b.Dx(), height: b.Dy()}
}

// isInk reports whether the pixel at (x,y) is an "ink" pixel, with
// polarity flipped for dark mode (glyphs light on dark).
func (s *Scanner) isInk(x, y int) bool {
	v := s.bin.GrayAt(x, y).Y
	if s.dark {
		return v > 127
	}
	return v < 127
}

// horizontalScan runs the run-length state machine along row y,
// left to right.
func (s *Scanner) horizontalScan(y int) []Anchor {
	var out []Anchor
	state := NewScanState()
	for x := 0; x < s.width; x++ {
		if w, ok := state.Process(s.isInk(x, y)); ok {
			out = append(out, Anchor{X: x - w, XMax: x - 1, Y: y, YMax: y})
		}
	}
	if w, ok := state.Process(false); ok {
		x := s.width
		out = append(out, Anchor{X: x - w, XMax: x - 1, Y: y, YMax: y})
	}
	return out
}

// verticalScan runs the state machine down column x, top to bottom.
func (s *Scanner) verticalScan(x int) []Anchor {
	var out []Anchor
	state := NewScanState()
	for y := 0; y < s.height; y++ {
		if w, ok := state.Process(s.isInk(x, y)); ok {
			out = append(out, Anchor{X: x, XMax: x, Y: y - w, YMax: y - 1})
		}
	}
	if w, ok := state.Process(false); ok {
		y := s.height
		out = append(out, Anchor{X: x, XMax: x, Y: y - w, YMax: y - 1})
	}
	return out
}

// diagonalScan runs the state machine along the main diagonal passing
// through (x,y), starting from the top/left edge.
func (s *Scanner) diagonalScan(x, y int) []Anchor {
	offset := absInt(x - y)
	var startX, startY int
	if x < y {
		startY = offset
	} else {
		startX = offset
	}

	var out []Anchor
	state := NewScanState()
	n := s.width - offset
	i := 0
	for ; i < n; i++ {
		cx := startX + i
		cy := startY + i
		if w, ok := state.Process(s.isInk(cx, cy)); ok {
			out = append(out, Anchor{X: cx - w, XMax: cx, Y: cy - w, YMax: cy})
		}
	}
	if w, ok := state.Process(false); ok {
		cx := startX + n
		cy := startY + n
		out = append(out, Anchor{X: cx - w, XMax: cx, Y: cy - w, YMax: cy})
	}
	return out
}

// deduplicate groups anchors whose centers are within dedupeRadius of
// each other and merges each group into a single representative.
// Deduplicating an already-deduplicated list is idempotent: a
// singleton group's merge is itself.
func deduplicate(anchors []Anchor) []Anchor {
	var groups [][]Anchor
	for _, a := range anchors {
		placed := false
		for i, g := range groups {
			rep := g[0]
			if absInt(a.XAvg()-rep.XAvg()) < dedupeRadius && absInt(a.YAvg()-rep.YAvg()) < dedupeRadius {
				groups[i] = append(groups[i], a)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []Anchor{a})
		}
	}

	out := make([]Anchor, 0, len(groups))
	for _, g := range groups {
		merged := g[0]
		for _, a := range g[1:] {
			merged = merged.Merge(a)
		}
		out = append(out, merged)
	}
	return out
}

// filter keeps only anchors whose range exceeds half the mean range,
// once more than 4 candidates survive.
func filter(anchors []Anchor) []Anchor {
	if len(anchors) <= 4 {
		return anchors
	}
	var sumX, sumY int
	for _, a := range anchors {
		sumX += a.XRange()
		sumY += a.YRange()
	}
	meanX := sumX / len(anchors)
	meanY := sumY / len(anchors)

	out := make([]Anchor, 0, len(anchors))
	for _, a := range anchors {
		if a.XRange() > meanX/2 && a.YRange() > meanY/2 {
			out = append(out, a)
		}
	}
	return out
}

// Point is a pixel coordinate.
type Point struct{ X, Y int }

// SortTopToBottom orders four anchors as
// top_left, top_right, bottom_left, bottom_right, using Manhattan
// distance from the origin and x-offset dominance to break the middle
// two apart, mirroring scanner.py's sort_top_to_bottom.
func SortTopToBottom(candidates []Anchor) []Point {
	sorted := make([]Anchor, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].XAvg()+sorted[i].YAvg() < sorted[j].XAvg()+sorted[j].YAvg()
	})

	topLeft := sorted[0]
	p1 := sorted[1]
	p2 := sorted[2]
	p1Off := absInt(p1.XAvg() - topLeft.XAvg())
	p2Off := absInt(p2.XAvg() - topLeft.XAvg())
	if p2Off > p1Off {
		sorted[1], sorted[2] = p2, p1
	}

	pts := make([]Point, len(sorted))
	for i, a := range sorted {
		pts[i] = Point{X: a.XAvg(), Y: a.YAvg()}
	}
	return pts
}

// Scan runs the three-pass detection (horizontal, vertical, diagonal
// confirmation), filters, and orders the result as
// [top_left, top_right, bottom_left, bottom_right]. Returns
// ErrDetectionFailed if fewer than 4 anchors survive filtering.
func (s *Scanner) Scan() ([4]Point, error) {
	var zero [4]Point

	var t1 []Anchor
	for y := s.skip; y < s.height; y += s.skip {
		t1 = append(t1, s.horizontalScan(y)...)
	}
	t1 = deduplicate(t1)

	xs := map[int]bool{}
	var t2 []Anchor
	for _, a := range t1 {
		x := a.XAvg()
		if xs[x] {
			continue
		}
		xs[x] = true
		t2 = append(t2, s.verticalScan(x)...)
	}
	t2 = deduplicate(t2)

	var t3 []Anchor
	for _, a := range t2 {
		t3 = append(t3, s.diagonalScan(a.XAvg(), a.YAvg())...)
	}
	t3 = deduplicate(t3)

	final := filter(t3)
	if len(final) < 4 {
		return zero, fmt.Errorf("%w: found %d anchors, need 4", ErrDetectionFailed, len(final))
	}

	ordered := SortTopToBottom(final)
	var result [4]Point
	copy(result[:], ordered[:4])
	return result, nil
}
