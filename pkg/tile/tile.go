// Package tile loads CIMBAR glyph bitmaps and produces the two views
// the codec needs: perceptual hashes for the decoder, and per-palette
// tinted renderings for the encoder.
package tile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io/fs"
	"path"
)

var (
	// ErrAssetMissing is this package's sentinel for an absent or
	// undecodable tile asset. It is a separate value from
	// cimbar.ErrAssetMissing (this package does not import pkg/cimbar,
	// which would be an import cycle), and neither wraps the other.
	ErrAssetMissing    = errors.New("tile: asset missing")
	ErrInvalidArgument = errors.New("tile: invalid argument")
)

// sentinelGlyph is the (0,255,255,255) placeholder pixel that the
// encoder replaces with a palette color at load time.
var sentinelGlyph = color.NRGBA{R: 0, G: 0xFF, B: 0xFF, A: 0xFF}

// white and black are the background pixel and its dark-mode
// replacement.
var white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
var black = color.NRGBA{R: 0, G: 0, B: 0, A: 0xFF}

// Tile is a single loaded glyph raster, identified by its symbol
// index within [0, 2^symbol_bits).
type Tile struct {
	ID  int
	Img *image.NRGBA
}

// assetPath returns the conventional bitmap/{symbol_bits}/{i:02x}.png
// path for symbol i.
func assetPath(symbolBits, i int) string {
	return path.Join("bitmap", fmt.Sprintf("%d", symbolBits), fmt.Sprintf("%02x.png", i))
}

// load reads and decodes the raw tile asset for symbol i, converting
// it to *image.NRGBA so exact-pixel replacement can compare values
// directly against sentinelGlyph/white.
func load(fsys fs.FS, symbolBits, i int) (*image.NRGBA, error) {
	name := assetPath(symbolBits, i)
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, name, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image.Image to *image.NRGBA, copying pixel
// values 1:1 like pkg/stdimg's ToNRGBA in the teacher codebase.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// replaceExact walks every pixel of img and replaces exact RGBA
// matches of from with to, in place. Mirrors the original
// cimb_translator.load_tile's pixdata replacement loop.
func replaceExact(img *image.NRGBA, from, to color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+0] == from.R && img.Pix[i+1] == from.G &&
				img.Pix[i+2] == from.B && img.Pix[i+3] == from.A {
				img.Pix[i+0] = to.R
				img.Pix[i+1] = to.G
				img.Pix[i+2] = to.B
				img.Pix[i+3] = to.A
			}
		}
	}
}

// neutralize applies only the dark-mode white->black swap, leaving
// the cyan sentinel glyph untouched. Used for the decoder's hash
// source, which never sees a tinted tile.
func neutralize(img *image.NRGBA, dark bool) *image.NRGBA {
	out := toNRGBA(img)
	if dark {
		replaceExact(out, white, black)
	}
	return out
}

// tint replaces the cyan sentinel glyph with c, then applies the
// dark-mode white->black swap. Used to build the encoder's rendered
// tiles.
func tint(img *image.NRGBA, c color.NRGBA, dark bool) *image.NRGBA {
	out := toNRGBA(img)
	replaceExact(out, sentinelGlyph, c)
	if dark {
		replaceExact(out, white, black)
	}
	return out
}
