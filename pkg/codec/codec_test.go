package codec

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

	"github.com/cimbar-go/cimbar/pkg/palette"
)

var white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
var cyan = color.NRGBA{R: 0, G: 0xFF, B: 0xFF, A: 0xFF}

func assetPath(symbolBits, i int) string {
	return path.Join("bitmap", fmt.Sprintf("%d", symbolBits), fmt.Sprintf("%02x.png", i))
}

// fixtureFS builds a distinguishable glyph per symbol index so
// average-hash round-trips don't collide: the tile is filled with the
// cyan glyph color, and symbol i marks its low 6 bits as white
// background pixels along the top row (one bit per column). The
// interior that DecodeColor averages stays pure glyph color, so every
// tint is readable back.
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
		// always-on background pixel in the corner so hashing never
		// sees a single-color (degenerate) tile even for i == 0.
		img.SetNRGBA(7, 7, white)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode fixture %d: %v", i, err)
		}
		fsys[assetPath(symbolBits, i)] = &fstest.MapFile{Data: buf.Bytes()}
	}
	return fsys
}

func TestEncodeOutOfRange(t *testing.T) {
	fsys := fixtureFS(t, 2)
	enc, err := NewEncoder(fsys, false, 2, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	max := 1 << uint(2+1)
	if _, err := enc.Encode(max); err == nil {
		t.Fatalf("expected error encoding out-of-range bits")
	}
	if _, err := enc.Encode(max - 1); err != nil {
		t.Fatalf("Encode(max-1): %v", err)
	}
}

func TestRoundTripCleanCells(t *testing.T) {
	const symbolBits, colorBits = 3, 2
	fsys := fixtureFS(t, symbolBits)

	enc, err := NewEncoder(fsys, false, symbolBits, colorBits)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	dec, err := NewDecoder(fsys, false, symbolBits, colorBits, palette.StrategyLab)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	max := 1 << uint(symbolBits+colorBits)
	for v := 0; v < max; v++ {
		cell, err := enc.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		got, err := dec.Decode(cell)
		if err != nil {
			t.Fatalf("Decode(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round-trip mismatch for %d: got %d", v, got)
		}
	}
}

func TestDecodeWrongCellSize(t *testing.T) {
	fsys := fixtureFS(t, 2)
	dec, err := NewDecoder(fsys, false, 2, 1, palette.StrategyLab)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	cell := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if _, _, err := dec.DecodeSymbol(cell); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DecodeSymbol: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := dec.DecodeColor(cell); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DecodeColor: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := dec.Decode(cell); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Decode: expected ErrInvalidArgument, got %v", err)
	}
}

func TestDecodeColorZeroBitsAlwaysZero(t *testing.T) {
	fsys := fixtureFS(t, 2)
	dec, err := NewDecoder(fsys, true, 2, 0, palette.StrategyLab)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	cell := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			cell.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	got, err := dec.DecodeColor(cell)
	if err != nil {
		t.Fatalf("DecodeColor: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 when color_bits == 0, got %d", got)
	}
}

func TestDecodeColorSolidCyanDarkMode(t *testing.T) {
	fsys := fixtureFS(t, 2)
	dec, err := NewDecoder(fsys, true, 2, 2, palette.StrategyLab)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	cell := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			cell.SetNRGBA(x, y, cyan)
		}
	}
	got, err := dec.DecodeColor(cell)
	if err != nil {
		t.Fatalf("DecodeColor: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected palette index 0 for solid cyan under dark mode, got %d", got>>2)
	}
}
