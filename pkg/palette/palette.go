// Package palette enumerates the CIMBAR color tables and provides
// nearest-color lookup for the decoder's color channel.
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrInvalidArgument = errors.New("palette: invalid argument")
)

// Strategy selects which historical nearest-color algorithm to use.
// Both exist in the source material (see DESIGN.md's Open Questions);
// Lab is the spec-recommended, better-behaved baseline and is the
// default.
type Strategy int

const (
	StrategyLab Strategy = iota
	StrategyRGB
)

var lightColors = []color.NRGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x9F, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0x7F, G: 0x00, B: 0xFF, A: 0xFF},
}

var darkColorsNarrow = []color.NRGBA{
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
}

var darkColorsWide = []color.NRGBA{
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0xFF, G: 0x6F, B: 0xFF, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x7F, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x41, B: 0x41, A: 0xFF},
	{R: 0xFF, G: 0x9F, B: 0x00, A: 0xFF},
	{R: 0x7F, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x00, B: 0x7F, A: 0xFF},
	{R: 0x7F, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0x7F, A: 0xFF},
}

// table returns the canonical color set for the given mode, before
// trimming to 2^color_bits entries.
func table(dark bool, colorBits int) []color.NRGBA {
	if !dark {
		return lightColors
	}
	if colorBits < 3 {
		return darkColorsNarrow
	}
	return darkColorsWide
}

// Colors returns the ordered list of 2^color_bits RGB triples for the
// given mode, per spec section 6.
func Colors(dark bool, colorBits int) ([]color.NRGBA, error) {
	if colorBits < 0 {
		return nil, fmt.Errorf("%w: color_bits must be >= 0, got %d", ErrInvalidArgument, colorBits)
	}
	n := 1 << uint(colorBits)
	src := table(dark, colorBits)
	if n > len(src) {
		return nil, fmt.Errorf("%w: color_bits=%d needs %d colors, mode only defines %d", ErrInvalidArgument, colorBits, n, len(src))
	}
	out := make([]color.NRGBA, n)
	copy(out, src[:n])
	return out, nil
}

// Palette is an immutable, constructed-once color table with
// precomputed Lab values for nearest-color lookup.
type Palette struct {
	Dark      bool
	ColorBits int
	Strategy  Strategy
	colors    []color.NRGBA
	labs      []labColor
}

// New builds a Palette for the given mode and lookup strategy.
func New(dark bool, colorBits int, strategy Strategy) (*Palette, error) {
	colors, err := Colors(dark, colorBits)
	if err != nil {
		return nil, err
	}
	p := &Palette{Dark: dark, ColorBits: colorBits, Strategy: strategy, colors: colors}
	if strategy == StrategyLab {
		p.labs = make([]labColor, len(colors))
		for i, c := range colors {
			p.labs[i] = toLab(c)
		}
	}
	return p, nil
}

// Colors returns the palette's ordered color list.
func (p *Palette) Colors() []color.NRGBA {
	return p.colors
}

// Nearest returns the index of the palette color closest to (r,g,b)
// under the palette's configured strategy. When the palette has a
// single entry (color_bits == 0) it returns 0 unconditionally.
func (p *Palette) Nearest(r, g, b uint8) int {
	if len(p.colors) <= 1 {
		return 0
	}
	switch p.Strategy {
	case StrategyRGB:
		return p.nearestRGB(r, g, b)
	default:
		return p.nearestLab(r, g, b)
	}
}

// nearestLab normalizes by max channel (matching the original
// CimbDecoder._best_color), converts to Lab, and picks the minimum
// CIE76 delta-E.
func (p *Palette) nearestLab(r, g, b uint8) int {
	nr, ng, nb := normalize(r, g, b)
	target := toLab(color.NRGBA{R: nr, G: ng, B: nb, A: 0xFF})

	best := 0
	bestDist := -1.0
	for i, lab := range p.labs {
		d := deltaE76(target, lab)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// backgroundRejectThreshold is the squared-RGB-distance cutoff under
// which a pixel is considered a direct hit on palette index 0, letting
// the legacy scan skip scoring the rest of the palette.
const backgroundRejectThreshold = 24 * 24 * 3

// nearestRGB is the legacy squared-distance variant: pixels close
// enough to palette index 0 (black in light mode, cyan in dark mode)
// short-circuit to 0 instead of scoring every palette entry. Index 0
// is a palette color, not the canvas background (white in light mode,
// black in dark mode).
func (p *Palette) nearestRGB(r, g, b uint8) int {
	bg := p.colors[0]
	dr0 := int(r) - int(bg.R)
	dg0 := int(g) - int(bg.G)
	db0 := int(b) - int(bg.B)
	if dr0*dr0+dg0*dg0+db0*db0 < backgroundRejectThreshold {
		return 0
	}

	best := 0
	bestDist := -1
	for i, c := range p.colors {
		dr := int(r) - int(c.R)
		dg := int(g) - int(c.G)
		db := int(b) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// normalize applies the max-channel scaling used before Lab
// conversion: adjust = 255 / max(r,g,b,1); c' = c*adjust.
func normalize(r, g, b uint8) (uint8, uint8, uint8) {
	maxVal := r
	if g > maxVal {
		maxVal = g
	}
	if b > maxVal {
		maxVal = b
	}
	if maxVal < 1 {
		maxVal = 1
	}
	adjust := 255.0 / float64(maxVal)
	return scale(r, adjust), scale(g, adjust), scale(b, adjust)
}

func scale(c uint8, adjust float64) uint8 {
	v := int(float64(c) * adjust)
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}
