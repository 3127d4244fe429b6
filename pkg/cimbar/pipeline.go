package cimbar

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/cimbar-go/cimbar/pkg/codec"
	"github.com/cimbar-go/cimbar/pkg/deskew"
	"github.com/cimbar-go/cimbar/pkg/grid"
	"github.com/cimbar-go/cimbar/pkg/palette"
	"github.com/cimbar-go/cimbar/pkg/scanner"
)

// Options configures an encode/decode pipeline run.
type Options struct {
	Dark       bool
	SymbolBits int
	ColorBits  int
	Geometry   grid.Geometry // zero value means grid.Default
	Skip       int           // zero value means scanner.DefaultSkip
	Strategy   palette.Strategy
}

func (o Options) geometry() grid.Geometry {
	if o.Geometry == (grid.Geometry{}) {
		return grid.Default
	}
	return o.Geometry
}

// Encode paints a canonical-sized canvas with one encoded tile per
// grid cell, in GridWalker traversal order, consuming bits in that
// same order. len(bits) must equal the geometry's cell count.
func Encode(fsys fs.FS, opts Options, bits []int) (*image.NRGBA, error) {
	geom := opts.geometry()
	positions := geom.Walk()
	if len(bits) != len(positions) {
		return nil, fmt.Errorf("%w: got %d bit values, grid has %d cells", ErrInvalidArgument, len(bits), len(positions))
	}

	enc, err := codec.NewEncoder(fsys, opts.Dark, opts.SymbolBits, opts.ColorBits)
	if err != nil {
		return nil, err
	}

	bg := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if opts.Dark {
		bg = color.NRGBA{A: 0xFF} // black
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, deskew.CanonicalSize, deskew.CanonicalSize))
	fillRect(canvas, bg)

	for i, pos := range positions {
		tileImg, err := enc.Encode(bits[i])
		if err != nil {
			return nil, err
		}
		pasteTile(canvas, tileImg, pos.X, pos.Y, geom.Spacing, geom.Spacing)
	}
	return canvas, nil
}

// Decode locates the four finder markers in frame, rectifies it to
// the canonical grid, then decodes every cell in GridWalker order,
// returning the recovered bit stream.
func Decode(fsys fs.FS, opts Options, frame image.Image) ([]int, error) {
	skip := opts.Skip
	if skip <= 0 {
		skip = scanner.DefaultSkip
	}
	sc := scanner.New(frame, opts.Dark, skip)
	anchors, err := sc.Scan()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}

	src := [4][2]float64{
		{float64(anchors[0].X), float64(anchors[0].Y)},
		{float64(anchors[1].X), float64(anchors[1].Y)},
		{float64(anchors[2].X), float64(anchors[2].Y)},
		{float64(anchors[3].X), float64(anchors[3].Y)},
	}
	dst := deskew.CanonicalCorners()
	m, err := deskew.Solve(src, dst)
	if err != nil {
		return nil, err
	}
	rectified, err := deskew.Warp(frame, m, deskew.CanonicalSize)
	if err != nil {
		return nil, err
	}

	return DecodeRectified(fsys, opts, rectified)
}

// DecodeRectified decodes a frame that is already a canonical-sized,
// axis-aligned grid image (skipping the scan+deskew steps). Useful
// for clean round-trip tests and for callers that have already
// rectified the frame themselves.
func DecodeRectified(fsys fs.FS, opts Options, rectified image.Image) ([]int, error) {
	geom := opts.geometry()
	wantSize := geom.Dimensions * geom.Spacing
	if b := rectified.Bounds(); b.Dx() != wantSize || b.Dy() != wantSize {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrMalformedImage, b.Dx(), b.Dy(), wantSize, wantSize)
	}

	dec, err := codec.NewDecoder(fsys, opts.Dark, opts.SymbolBits, opts.ColorBits, opts.Strategy)
	if err != nil {
		return nil, err
	}

	canvas := toNRGBA(rectified)
	out := make([]int, 0, geom.CellCount())
	for _, pos := range geom.Walk() {
		cell := cropCell(canvas, pos.X, pos.Y, geom.Spacing, geom.Spacing)
		v, err := dec.Decode(cell)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return out
}

func fillRect(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
