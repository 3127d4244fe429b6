package palette

import (
	"image/color"
	"math"
)

// labColor is a point in CIE L*a*b* space.
type labColor struct {
	L, A, B float64
}

// D65 reference white, 2-degree observer.
const (
	refX = 95.047
	refY = 100.000
	refZ = 108.883
)

// toLab converts an sRGB color to CIE L*a*b*, via linear RGB and XYZ.
// Grounded in the same "convert, then work in the linear/derived
// space" shape as pkg/stdimg/color.go's rgbToHsl/hslToRgb, generalized
// to the standard sRGB->XYZ->Lab pipeline.
func toLab(c color.NRGBA) labColor {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	b := srgbToLinear(float64(c.B) / 255.0)

	x := (r*0.4124 + g*0.3576 + b*0.1805) * 100
	y := (r*0.2126 + g*0.7152 + b*0.0722) * 100
	z := (r*0.0193 + g*0.1192 + b*0.9505) * 100

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return labColor{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// deltaE76 is the Euclidean distance between two Lab colors (CIE
// 1976 delta-E).
func deltaE76(a, b labColor) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}
