// Package codec maps between integer bit values and rendered or
// observed cells, using a tile.Library for the symbol channel and a
// palette.Palette for the color channel.
package codec

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/cimbar-go/cimbar/pkg/palette"
	"github.com/cimbar-go/cimbar/pkg/tile"
)

var ErrInvalidArgument = errors.New("codec: invalid argument")

// Encoder renders a cell value to its tile image.
type Encoder struct {
	SymbolBits int
	ColorBits  int
	lib        *tile.EncoderLibrary
}

// NewEncoder builds an Encoder for the given mode, loading tile assets
// from fsys and tinting them with the matching palette table.
func NewEncoder(fsys fs.FS, dark bool, symbolBits, colorBits int) (*Encoder, error) {
	colors, err := palette.Colors(dark, colorBits)
	if err != nil {
		return nil, err
	}
	lib, err := tile.NewEncoderLibrary(fsys, colors, symbolBits, dark)
	if err != nil {
		return nil, err
	}
	return &Encoder{SymbolBits: symbolBits, ColorBits: colorBits, lib: lib}, nil
}

// Encode returns the rendered tile for bits. bits must be in
// [0, 2^(symbol_bits+color_bits)).
func (e *Encoder) Encode(bits int) (*image.NRGBA, error) {
	max := 1 << uint(e.SymbolBits+e.ColorBits)
	if bits < 0 || bits >= max {
		return nil, fmt.Errorf("%w: bits %d outside [0,%d)", ErrInvalidArgument, bits, max)
	}
	return e.lib.Tile(bits)
}

// Decoder recovers a cell value from an observed cell image.
type Decoder struct {
	SymbolBits int
	ColorBits  int
	lib        *tile.DecoderLibrary
	pal        *palette.Palette
}

// NewDecoder builds a Decoder for the given mode and nearest-color
// strategy.
func NewDecoder(fsys fs.FS, dark bool, symbolBits, colorBits int, strategy palette.Strategy) (*Decoder, error) {
	lib, err := tile.NewDecoderLibrary(fsys, symbolBits, dark)
	if err != nil {
		return nil, err
	}
	pal, err := palette.New(dark, colorBits, strategy)
	if err != nil {
		return nil, err
	}
	return &Decoder{SymbolBits: symbolBits, ColorBits: colorBits, lib: lib, pal: pal}, nil
}

// checkCellSize rejects a cell image whose dimensions don't match the
// decoder library's native tile size. Every cell the scanner/crop step
// hands the codec is expected to already be exactly one tile's worth
// of pixels; anything else means the caller's grid geometry and the
// loaded tile assets have drifted apart.
func (d *Decoder) checkCellSize(cell *image.NRGBA) error {
	b := cell.Bounds()
	if b.Dx() != d.lib.CellW || b.Dy() != d.lib.CellH {
		return fmt.Errorf("%w: cell is %dx%d, want %dx%d", ErrInvalidArgument, b.Dx(), b.Dy(), d.lib.CellW, d.lib.CellH)
	}
	return nil
}

// DecodeSymbol returns the symbol id whose stored hash best fits cell,
// plus the Hamming distance of that fit. Callers may threshold the
// distance to classify low-confidence cells.
func (d *Decoder) DecodeSymbol(cell *image.NRGBA) (id int, distance int, err error) {
	if err := d.checkCellSize(cell); err != nil {
		return 0, 0, err
	}
	id, distance = d.lib.BestFit(tile.AverageHash(cell))
	return id, distance, nil
}

// DecodeColor returns the nearest palette index, shifted into the
// color channel's bit position. Interior pixels are averaged,
// excluding a 1-pixel border to suppress bleed from neighboring
// cells. Returns 0 unconditionally when color_bits == 0.
func (d *Decoder) DecodeColor(cell *image.NRGBA) (int, error) {
	if err := d.checkCellSize(cell); err != nil {
		return 0, err
	}
	if d.ColorBits == 0 {
		return 0, nil
	}
	r, g, b := meanInterior(cell)
	return d.pal.Nearest(r, g, b) << uint(d.SymbolBits), nil
}

// Decode combines DecodeSymbol and DecodeColor into a full cell value.
func (d *Decoder) Decode(cell *image.NRGBA) (int, error) {
	i, _, err := d.DecodeSymbol(cell)
	if err != nil {
		return 0, err
	}
	c, err := d.DecodeColor(cell)
	if err != nil {
		return 0, err
	}
	return c | i, nil
}

// meanInterior averages the R,G,B channels of cell excluding a
// 1-pixel border. Cells smaller than 3x3 fall back to averaging the
// whole cell.
func meanInterior(cell *image.NRGBA) (uint8, uint8, uint8) {
	b := cell.Bounds()
	x0, x1 := b.Min.X, b.Max.X
	y0, y1 := b.Min.Y, b.Max.Y
	if b.Dx() > 2 && b.Dy() > 2 {
		x0++
		x1--
		y0++
		y1--
	}

	var sumR, sumG, sumB, n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := cell.PixOffset(x, y)
			sumR += int(cell.Pix[i+0])
			sumG += int(cell.Pix[i+1])
			sumB += int(cell.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)
}
