package cimbar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path"
	"testing"
	"testing/fstest"

	"github.com/cimbar-go/cimbar/pkg/codec"
	"github.com/cimbar-go/cimbar/pkg/deskew"
	"github.com/cimbar-go/cimbar/pkg/grid"
	"github.com/cimbar-go/cimbar/pkg/palette"
)

var white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
var cyan = color.NRGBA{R: 0, G: 0xFF, B: 0xFF, A: 0xFF}
var black = color.NRGBA{A: 0xFF}

func assetPath(symbolBits, i int) string {
	return path.Join("bitmap", fmt.Sprintf("%d", symbolBits), fmt.Sprintf("%02x.png", i))
}

// fixtureFS builds a distinguishable 8x8 tile per symbol, mirroring
// pkg/codec's test fixture: a cyan glyph fill, with symbol i marking
// its low 6 bits as white pixels along the top row, plus an always-on
// white corner pixel.
func fixtureFS(t *testing.T, symbolBits int) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	n := 1 << uint(symbolBits)
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.SetNRGBA(x, y, cyan)
			}
		}
		for bit := 0; bit < 6; bit++ {
			if i&(1<<uint(bit)) != 0 {
				img.SetNRGBA(bit, 0, white)
			}
		}
		img.SetNRGBA(7, 7, white)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode fixture %d: %v", i, err)
		}
		fsys[assetPath(symbolBits, i)] = &fstest.MapFile{Data: buf.Bytes()}
	}
	return fsys
}

func TestDecodeRectifiedWrongSize(t *testing.T) {
	fsys := fixtureFS(t, 2)
	opts := Options{SymbolBits: 2, ColorBits: 1, Strategy: palette.StrategyLab}
	wrongSize := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	if _, err := DecodeRectified(fsys, opts, wrongSize); !errors.Is(err, ErrMalformedImage) {
		t.Fatalf("expected ErrMalformedImage, got %v", err)
	}
}

func TestEncodeWrongBitCount(t *testing.T) {
	fsys := fixtureFS(t, 2)
	opts := Options{SymbolBits: 2, ColorBits: 1}
	if _, err := Encode(fsys, opts, []int{0, 1, 2}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEncodeDecodeRectifiedRoundTrip(t *testing.T) {
	const symbolBits, colorBits = 3, 1
	fsys := fixtureFS(t, symbolBits)
	opts := Options{SymbolBits: symbolBits, ColorBits: colorBits, Strategy: palette.StrategyLab}

	geom := grid.Default
	positions := geom.Walk()
	bits := make([]int, len(positions))
	max := 1 << uint(symbolBits+colorBits)
	for i := range bits {
		bits[i] = i % max
	}

	canvas, err := Encode(fsys, opts, bits)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeRectified(fsys, opts, canvas)
	if err != nil {
		t.Fatalf("DecodeRectified: %v", err)
	}
	if len(got) != len(bits) {
		t.Fatalf("expected %d decoded cells, got %d", len(bits), len(got))
	}

	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("round-trip mismatch at cell %d: got %d, want %d", i, got[i], bits[i])
		}
	}
}

// drawMarker paints a 1:1:3:1:1 finder pattern of the given total
// half-width unit k (so each ring is k cells thick region-wise;
// concretely this draws concentric squares of ink/background with
// widths k,k,3k,k,k from the outside in) centered at (cx,cy).
func drawMarker(img *image.NRGBA, cx, cy, k int) {
	unit := k
	total := 7 * unit // k+k+3k+k+k
	half := total / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			ring := ringIndex(dx, dy, unit)
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
				continue
			}
			if ring%2 == 0 {
				img.SetNRGBA(x, y, white)
			} else {
				img.SetNRGBA(x, y, black)
			}
		}
	}
}

// ringIndex buckets a (dx,dy) offset from center into concentric
// square bands of width `unit`, used by drawMarker to approximate a
// 1:1:3:1:1 finder pattern along any scanline through the center.
func ringIndex(dx, dy, unit int) int {
	d := absInt(dx)
	if absInt(dy) > d {
		d = absInt(dy)
	}
	// bands, from center out, of widths 3*unit (center), unit, unit:
	// mirrored symmetric outward gives 1:1:3:1:1 along a scanline.
	c := 3 * unit / 2
	if d <= c {
		return 1 // ink center band
	}
	d -= c
	band := (d - 1) / unit
	if band%2 == 0 {
		return 0
	}
	return 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestFullDeskewRoundTrip(t *testing.T) {
	const symbolBits, colorBits = 4, 3
	fsys := fixtureFS(t, symbolBits)
	opts := Options{SymbolBits: symbolBits, ColorBits: colorBits, Strategy: palette.StrategyLab}

	canonical := image.NewNRGBA(image.Rect(0, 0, deskew.CanonicalSize, deskew.CanonicalSize))
	for y := 0; y < deskew.CanonicalSize; y++ {
		for x := 0; x < deskew.CanonicalSize; x++ {
			canonical.SetNRGBA(x, y, white)
		}
	}

	const k = 4 // marker ring unit in pixels; markers are centered deskew.MarkerOffset (28) px in from each corner
	drawMarker(canonical, 28, 28, k)
	drawMarker(canonical, 996, 28, k)
	drawMarker(canonical, 28, 996, k)
	drawMarker(canonical, 996, 996, k)

	geom := grid.Default
	positions := geom.Walk()
	target := positions[0] // first top-band cell, just right of the top-left marker
	enc, err := codec.NewEncoder(fsys, opts.Dark, opts.SymbolBits, opts.ColorBits)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	wantValue := 0x17 % (1 << uint(symbolBits+colorBits))
	tileImg, err := enc.Encode(wantValue)
	if err != nil {
		t.Fatalf("Encode cell: %v", err)
	}
	pasteTile(canonical, tileImg, target.X, target.Y, geom.Spacing, geom.Spacing)

	// Simulate a photograph taken at an angle: the four canonical
	// corners no longer land on an axis-aligned square in the frame
	// the decoder actually receives. distorted is canonical pushed
	// through that perspective (each corner shifted by a different
	// amount, not a uniform translation or rotation), so Decode must
	// detect the skewed anchors and solve a real homography rather
	// than the near-identity one a distortion-free fixture exercises.
	distortedCorners := [4][2]float64{
		{60, 110},
		{950, 40},
		{90, 980},
		{1000, 1010},
	}
	forward, err := deskew.Solve(deskew.CanonicalCorners(), distortedCorners)
	if err != nil {
		t.Fatalf("Solve forward warp: %v", err)
	}
	distorted, err := deskew.Warp(canonical, forward, deskew.CanonicalSize)
	if err != nil {
		t.Fatalf("Warp to distorted frame: %v", err)
	}

	got, err := Decode(fsys, opts, distorted)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0] != wantValue {
		t.Fatalf("expected decoded cell %d, got %d", wantValue, got[0])
	}
}
