package tile

import (
	"image"
	"math/bits"
)

// hashSize is the downsample dimension for the average-hash, matching
// the 8x8 ahash used throughout the original Python implementation
// (imagehash.average_hash's default).
const hashSize = 8

// Hash is a 64-bit average-hash, one bit per downsampled pixel.
type Hash uint64

// AverageHash downsamples img to an 8x8 grayscale image, computes the
// mean, and emits one bit per pixel (pixel > mean). Pure function:
// equal inputs always produce the same hash.
func AverageHash(img *image.NRGBA) Hash {
	gray := downsampleGray(img, hashSize, hashSize)

	var sum int
	for _, v := range gray {
		sum += int(v)
	}
	mean := sum / len(gray)

	var h uint64
	for i, v := range gray {
		if int(v) > mean {
			h |= 1 << uint(i)
		}
	}
	return Hash(h)
}

// downsampleGray box-averages src down to w x h grayscale samples.
// Grounded on pkg/stdimg/adaptive_resize.go's box-filter downsample
// approach: each output cell is the mean luminance of the source
// pixels that fall within its span.
func downsampleGray(src *image.NRGBA, w, h int) []uint8 {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	out := make([]uint8, w*h)
	if sw == 0 || sh == 0 {
		return out
	}

	for oy := 0; oy < h; oy++ {
		y0 := oy * sh / h
		y1 := (oy + 1) * sh / h
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for ox := 0; ox < w; ox++ {
			x0 := ox * sw / w
			x1 := (ox + 1) * sw / w
			if x1 <= x0 {
				x1 = x0 + 1
			}

			var sum, n int
			for y := y0; y < y1 && y < sh; y++ {
				for x := x0; x < x1 && x < sw; x++ {
					i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
					r := int(src.Pix[i+0])
					g := int(src.Pix[i+1])
					bl := int(src.Pix[i+2])
					// ITU-R BT.601 luma weights, same as
					// pkg/stdimg/adaptive_threshold.go's luminance pass.
					sum += (r*299 + g*587 + bl*114) / 1000
					n++
				}
			}
			if n == 0 {
				out[oy*w+ox] = 0
				continue
			}
			out[oy*w+ox] = uint8(sum / n)
		}
	}
	return out
}

// HammingDistance counts differing bits between two hashes.
func HammingDistance(a, b Hash) int {
	return bits.OnesCount64(uint64(a) ^ uint64(b))
}
