package cimbar

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// pasteTile scales tile to w x h and draws it onto dst at (x,y),
// using golang.org/x/image/draw's CatmullRom scaler. This replaces a
// hand-rolled resize loop with a library call where the scale factor
// is non-integral, the same role golang.org/x/image/draw plays in the
// teacher's own resize command (pkg/stdimg/engine.go's "resize" case
// uses ResampleLanczos; here we lean on the x/image equivalent
// directly since the encoder only ever needs one scale operation per
// cell, not a tunable filter bank).
func pasteTile(dst *image.NRGBA, tile *image.NRGBA, x, y, w, h int) {
	dstRect := image.Rect(x, y, x+w, y+h)
	xdraw.CatmullRom.Scale(dst, dstRect, tile, tile.Bounds(), xdraw.Over, nil)
}

// cropCell extracts the w x h window with its top-left at (x,y) from
// src, for feeding to the decoder.
func cropCell(src *image.NRGBA, x, y, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), src, image.Pt(x, y), draw.Src)
	return out
}
