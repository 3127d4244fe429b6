package main

import (
	"image"

	"github.com/cimbar-go/cimbar/pkg/stdimg"
)

// preprocessFrame optionally downscales, sharpens, and/or despeckles a
// photographed frame before it reaches the scanner. Neither the core codec
// nor the scanner package touch these; they're CLI-side cleanup for noisy
// or oversized camera captures, adapted from the teacher's image-filter
// toolbox.
func preprocessFrame(frame image.Image, maxDim int, sharpen, despeckle bool) image.Image {
	out := stdimg.ToNRGBA(frame)
	if maxDim > 0 {
		out = downscale(out, maxDim)
	}
	if sharpen {
		out = stdimg.Sharpen(out, 1.0)
	}
	if despeckle {
		out = stdimg.Despeckle(out, 1)
	}
	return out
}

// downscale shrinks img with a Lanczos resample, preserving aspect ratio,
// if either dimension exceeds maxDim. A phone photo can be several times
// the scanner's working resolution; shrinking it first makes the finder
// sweep cheaper without losing the marker geometry it looks for.
func downscale(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if hScale := float64(maxDim) / float64(h); hScale < scale {
		scale = hScale
	}
	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	return stdimg.ResampleLanczos(img, dstW, dstH, 3)
}
