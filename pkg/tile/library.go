package tile

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
)

// DecoderLibrary holds one perceptual hash per symbol identity,
// computed on the "neutral" rendering (cyan sentinel glyph left in
// place, white swapped to black under dark mode).
type DecoderLibrary struct {
	SymbolBits int
	Hashes     map[int]Hash
	CellW      int // native tile width, as loaded from the asset fsys
	CellH      int // native tile height, as loaded from the asset fsys
}

// NewDecoderLibrary loads all 2^symbol_bits tiles under fsys and
// hashes their neutral rendering.
func NewDecoderLibrary(fsys fs.FS, symbolBits int, dark bool) (*DecoderLibrary, error) {
	if symbolBits < 0 {
		return nil, fmt.Errorf("%w: symbol_bits must be >= 0, got %d", ErrInvalidArgument, symbolBits)
	}
	n := 1 << uint(symbolBits)
	lib := &DecoderLibrary{SymbolBits: symbolBits, Hashes: make(map[int]Hash, n)}
	for i := 0; i < n; i++ {
		img, err := load(fsys, symbolBits, i)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			b := img.Bounds()
			lib.CellW, lib.CellH = b.Dx(), b.Dy()
		}
		lib.Hashes[i] = AverageHash(neutralize(img, dark))
	}
	return lib, nil
}

// BestFit returns the symbol id whose stored hash is closest (by
// Hamming distance) to cellHash, and that distance. Ties favor the
// lowest index, and a distance of 0 short-circuits the search.
func (l *DecoderLibrary) BestFit(cellHash Hash) (id int, distance int) {
	distance = 1000
	for i := 0; i < len(l.Hashes); i++ {
		d := HammingDistance(cellHash, l.Hashes[i])
		if d < distance {
			distance = d
			id = i
			if distance == 0 {
				break
			}
		}
	}
	return id, distance
}

// EncoderLibrary holds 2^color_bits tinted renderings of every symbol,
// keyed by the full cell value bits = (c << symbol_bits) | i.
type EncoderLibrary struct {
	SymbolBits int
	ColorBits  int
	Tiles      map[int]*image.NRGBA
}

// NewEncoderLibrary loads all 2^symbol_bits tiles under fsys and tints
// each with every one of the given palette colors, keyed by cell
// value.
func NewEncoderLibrary(fsys fs.FS, palette []color.NRGBA, symbolBits int, dark bool) (*EncoderLibrary, error) {
	if symbolBits < 0 {
		return nil, fmt.Errorf("%w: symbol_bits must be >= 0, got %d", ErrInvalidArgument, symbolBits)
	}
	numSymbols := 1 << uint(symbolBits)
	lib := &EncoderLibrary{
		SymbolBits: symbolBits,
		ColorBits:  bitsFor(len(palette)),
		Tiles:      make(map[int]*image.NRGBA, numSymbols*len(palette)),
	}
	for c, col := range palette {
		for i := 0; i < numSymbols; i++ {
			img, err := load(fsys, symbolBits, i)
			if err != nil {
				return nil, err
			}
			lib.Tiles[c*numSymbols+i] = tint(img, col, dark)
		}
	}
	return lib, nil
}

// Tile returns the rendered tile for the given cell value, or
// ErrInvalidArgument if bits is outside the library's range.
func (l *EncoderLibrary) Tile(bits int) (*image.NRGBA, error) {
	img, ok := l.Tiles[bits]
	if !ok {
		return nil, fmt.Errorf("%w: bits %d out of range", ErrInvalidArgument, bits)
	}
	return img, nil
}

// bitsFor returns the number of bits needed to index n distinct
// values (n itself must be a power of two, as palettes always are).
func bitsFor(n int) int {
	b := 0
	for (1 << uint(b)) < n {
		b++
	}
	return b
}
