package stdimg

import (
	"image"
	"math"
)

// UnsharpMask sharpens src by subtracting a gaussian-blurred copy (sigma)
// from the original and adding the difference back in, scaled by amount.
// Differences under threshold are left untouched, so flat regions of a
// scanned frame don't pick up blur-noise as false edges.
func UnsharpMask(src *image.NRGBA, sigma float64, amount float64, threshold float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	blurred := SeparableGaussianBlur(src, sigma)
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			sr := float64(src.Pix[i+0])
			sg := float64(src.Pix[i+1])
			sb := float64(src.Pix[i+2])
			sa := float64(src.Pix[i+3])

			bi := blurred.PixOffset(x, y)
			br := float64(blurred.Pix[bi+0])
			bg := float64(blurred.Pix[bi+1])
			bb := float64(blurred.Pix[bi+2])
			ba := float64(blurred.Pix[bi+3])

			// mask = src - blurred
			mr := sr - br
			mg := sg - bg
			mb := sb - bb

			if threshold > 0 {
				// threshold is in same units as ImageMagick (likely 0..QuantumRange) but here assume 0..255
				if math.Abs(mr) < threshold && math.Abs(mg) < threshold && math.Abs(mb) < threshold {
					// below threshold: copy original
					out.Pix[i+0] = uint8(clampFloatToUint8(sr))
					out.Pix[i+1] = uint8(clampFloatToUint8(sg))
					out.Pix[i+2] = uint8(clampFloatToUint8(sb))
					out.Pix[i+3] = uint8(clampFloatToUint8(sa))
					continue
				}
			}

			r := sr + amount*mr
			g := sg + amount*mg
			b_ := sb + amount*mb
			a_ := sa + amount*(sa-ba) // adjust alpha similarly

			out.Pix[i+0] = uint8(clampFloatToUint8(r))
			out.Pix[i+1] = uint8(clampFloatToUint8(g))
			out.Pix[i+2] = uint8(clampFloatToUint8(b_))
			out.Pix[i+3] = uint8(clampFloatToUint8(a_))
		}
	}
	return out
}

// Sharpen counters the softening a phone camera's auto-focus and JPEG
// compression introduce, so finder-marker edges stay crisp for the scanner.
func Sharpen(src *image.NRGBA, sigma float64) *image.NRGBA {
	return UnsharpMask(src, sigma, 1.0, 0.0)
}

// Despeckle removes isolated sensor-noise pixels a photographed frame picks
// up in low light, without blurring the finder markers' hard edges the way
// a gaussian blur would.
func Despeckle(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	if radius <= 0 {
		radius = 1
	}
	return MedianFilter(src, radius)
}
