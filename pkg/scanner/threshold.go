package scanner

import (
	"image"
	"image/color"
	"math"
)

// toGray converts src to a *image.Gray using the BT.709 luma weights
// (0.2126, 0.7152, 0.0722).
func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			lum := (0.2126*float64(r>>8) + 0.7152*float64(g>>8) + 0.0722*float64(bl>>8))
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: clampByte(lum)})
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}

// Binarize converts src to grayscale and applies a simple global
// threshold at 127: pixels >= 127 become white (255), others black
// (0). This is the scanner's default binarization per spec section
// 4.5.
func Binarize(src image.Image) *image.Gray {
	gray := toGray(src)
	out := image.NewGray(gray.Bounds())
	for i, v := range gray.Pix {
		if v >= 127 {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// BinarizeOtsu converts src to grayscale, applies a separable Gaussian
// blur to even out lighting, then thresholds at the Otsu-optimal
// level. Offered as the spec's noted alternative to the plain global
// threshold for unevenly lit captures.
func BinarizeOtsu(src image.Image, sigma float64) *image.Gray {
	gray := toGray(src)
	blurred := gaussianBlurGray(gray, sigma)
	level := otsuThreshold(blurred)

	out := image.NewGray(blurred.Bounds())
	for i, v := range blurred.Pix {
		if v >= level {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// gaussianBlurGray is a separable Gaussian blur over a single-channel
// image, the same two-pass horizontal/vertical convolution shape as
// pkg/stdimg/convolution.go's SeparableGaussianBlur, generalized from
// NRGBA to Gray.
func gaussianBlurGray(src *image.Gray, sigma float64) *image.Gray {
	kernel, radius := gaussianKernel1D(sigma)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clamp(x+k, 0, w-1)
				sum += float64(src.GrayAt(b.Min.X+sx, b.Min.Y+y).Y) * kernel[k+radius]
			}
			tmp[y*w+x] = sum
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := clamp(y+k, 0, h-1)
				sum += tmp[sy*w+x] * kernel[k+radius]
			}
			out.SetGray(x, y, color.Gray{Y: clampByte(sum)})
		}
	}
	return out
}

func gaussianKernel1D(sigma float64) ([]float64, int) {
	if sigma <= 0 {
		return []float64{1.0}, 0
	}
	radius := int(math.Ceil(3 * sigma))
	size := radius*2 + 1
	kernel := make([]float64, size)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, radius
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// otsuThreshold computes the between-class-variance-maximizing
// threshold over a grayscale histogram, generalized from
// pkg/stdimg/histogram.go's ComputeHistogram to a single channel.
func otsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	total := len(gray.Pix)
	if total == 0 {
		return 127
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i * c)
	}

	var sumB, wB float64
	var bestVar float64
	bestThresh := 127
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			bestThresh = t
		}
	}
	return uint8(bestThresh)
}
