package tile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// makeTileAsset renders an 8x8 RGBA tile: background is white, and
// the glyph pixels named by on are the cyan sentinel color, matching
// the bitmap/{symbol_bits}/{i:02x}.png convention.
func makeTileAsset(t *testing.T, on map[[2]int]bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := white
			if on[[2]int{x, y}] {
				c = sentinelGlyph
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

// fixtureFS builds a 2-symbol library: symbol 0 is a blank tile
// (all background), symbol 1 has a 2x2 glyph block in the corner.
func fixtureFS(t *testing.T, symbolBits int) fstest.MapFS {
	t.Helper()
	blank := makeTileAsset(t, nil)
	glyph := makeTileAsset(t, map[[2]int]bool{{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true})
	return fstest.MapFS{
		assetPath(symbolBits, 0): {Data: blank},
		assetPath(symbolBits, 1): {Data: glyph},
	}
}

func TestReplaceExact(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, sentinelGlyph)
	img.SetNRGBA(1, 0, white)
	replaceExact(img, sentinelGlyph, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("sentinel not replaced, got %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != white {
		t.Fatalf("unrelated pixel changed, got %v", got)
	}
}

func TestTintDarkModeSwapsBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, white)
	out := tint(img, color.NRGBA{R: 9, G: 9, B: 9, A: 255}, true)
	if got := out.NRGBAAt(0, 0); got != black {
		t.Fatalf("expected background to become black under dark mode, got %v", got)
	}
}

func TestNewDecoderLibraryDistinctHashes(t *testing.T) {
	fsys := fixtureFS(t, 1)
	lib, err := NewDecoderLibrary(fsys, 1, false)
	if err != nil {
		t.Fatalf("NewDecoderLibrary: %v", err)
	}
	if len(lib.Hashes) != 2 {
		t.Fatalf("expected 2 hashes, got %d", len(lib.Hashes))
	}
	if lib.Hashes[0] == lib.Hashes[1] {
		t.Fatalf("expected distinct tiles to hash differently")
	}
}

func TestDecoderLibraryMissingAsset(t *testing.T) {
	fsys := fstest.MapFS{}
	if _, err := NewDecoderLibrary(fsys, 1, false); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func TestNewEncoderLibraryKeysByCellValue(t *testing.T) {
	fsys := fixtureFS(t, 1)
	palette := []color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}}
	lib, err := NewEncoderLibrary(fsys, palette, 1, false)
	if err != nil {
		t.Fatalf("NewEncoderLibrary: %v", err)
	}
	// symbol_bits=1 -> numSymbols=2; color index 1 maps to bits 2,3.
	if _, err := lib.Tile(0); err != nil {
		t.Fatalf("Tile(0): %v", err)
	}
	if _, err := lib.Tile(3); err != nil {
		t.Fatalf("Tile(3): %v", err)
	}
	if _, err := lib.Tile(4); err == nil {
		t.Fatalf("expected out-of-range error for bits=4")
	}
}

func TestBestFitPrefersLowestIndexOnTie(t *testing.T) {
	lib := &DecoderLibrary{SymbolBits: 1, Hashes: map[int]Hash{0: 0b1111, 1: 0b1111}}
	id, dist := lib.BestFit(0)
	if id != 0 {
		t.Fatalf("expected tie to favor index 0, got %d", id)
	}
	if dist <= 0 {
		t.Fatalf("expected nonzero distance, got %d", dist)
	}
}

func TestAverageHashDeterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, black)
			} else {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	h1 := AverageHash(img)
	h2 := AverageHash(img)
	if h1 != h2 {
		t.Fatalf("expected deterministic hash, got %v != %v", h1, h2)
	}
}
