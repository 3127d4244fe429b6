// Package deskew computes a perspective transform from four detected
// anchor centers to the canonical CIMBAR grid corners, and warps the
// original color frame to match.
package deskew

import (
	"errors"
	"image"
	"image/color"
	"math"
)

var ErrSingular = errors.New("deskew: anchor points do not define a valid perspective transform")

// CanonicalSize is the rectified frame's width and height in pixels.
const CanonicalSize = 1024

// MarkerOffset is the pixel offset of each anchor center from its
// corresponding canonical corner (spacing=4, marker_size=8).
const MarkerOffset = 28

// CanonicalCorners returns the four canonical corner points a
// detected top_left/top_right/bottom_left/bottom_right anchor set
// should map onto, in that order.
func CanonicalCorners() [4][2]float64 {
	return [4][2]float64{
		{MarkerOffset, MarkerOffset},
		{CanonicalSize - MarkerOffset, MarkerOffset},
		{MarkerOffset, CanonicalSize - MarkerOffset},
		{CanonicalSize - MarkerOffset, CanonicalSize - MarkerOffset},
	}
}

// Matrix is a 3x3 projective transform in row-major order.
type Matrix [9]float64

// apply maps (x,y) through the transform, returning the mapped point.
func (m Matrix) apply(x, y float64) (float64, float64) {
	w := m[6]*x + m[7]*y + m[8]
	u := (m[0]*x + m[1]*y + m[2]) / w
	v := (m[3]*x + m[4]*y + m[5]) / w
	return u, v
}

// invert returns m^-1 by cofactor expansion (a 3x3 matrix inverse).
func (m Matrix) invert() (Matrix, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Matrix{}, ErrSingular
	}
	invDet := 1.0 / det

	return Matrix{
		(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet,
		(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet,
		(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet,
	}, nil
}

// Solve computes the perspective transform mapping src[i] -> dst[i]
// for four point correspondences, by solving the standard 8-unknown
// homography linear system via Gaussian elimination. No library in
// the example pack implements a homography solve (no linear-algebra
// package appears anywhere in the retrieved corpus), so this is
// hand-rolled on stdlib math, as noted in DESIGN.md.
func Solve(src, dst [4][2]float64) (Matrix, error) {
	// Build the 8x8 linear system A*h = b for unknowns
	// h = [a,b,c,d,e,f,g,h] with the 3x3 matrix normalized so i==1.
	var a [8][8]float64
	var bvec [8]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i][0], src[i][1]
		dx, dy := dst[i][0], dst[i][1]

		a[2*i] = [8]float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx}
		bvec[2*i] = dx

		a[2*i+1] = [8]float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy}
		bvec[2*i+1] = dy
	}

	h, err := solveLinear(a, bvec)
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// solveLinear solves the 8x8 system a*x = b via Gaussian elimination
// with partial pivoting.
func solveLinear(a [8][8]float64, b [8]float64) ([8]float64, error) {
	const n = 8
	var aug [n][n + 1]float64
	for i := 0; i < n; i++ {
		copy(aug[i][:n], a[i][:])
		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return [8]float64{}, ErrSingular
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		for row := col + 1; row < n; row++ {
			factor := aug[row][col] / aug[col][col]
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}

	var x [8]float64
	for row := n - 1; row >= 0; row-- {
		sum := aug[row][n]
		for k := row + 1; k < n; k++ {
			sum -= aug[row][k] * x[k]
		}
		x[row] = sum / aug[row][row]
	}
	return x, nil
}

// Warp maps src through the inverse of m into a size x size canvas,
// sampling src with bilinear interpolation. Pixels that land outside
// src take the color of the nearest edge pixel of src.
func Warp(src image.Image, m Matrix, size int) (*image.NRGBA, error) {
	inv, err := m.invert()
	if err != nil {
		return nil, err
	}

	nrgba := toNRGBA(src)
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sx, sy := inv.apply(float64(x), float64(y))
			r, g, b, al := sampleBilinear(nrgba, sx, sy)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(r)
			out.Pix[i+1] = uint8(g)
			out.Pix[i+2] = uint8(b)
			out.Pix[i+3] = uint8(al)
		}
	}
	return out, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return out
}

// samplePixelClamped reads src at (x,y), clamping coordinates to the
// image bounds. Grounded on pkg/stdimg/resample.go's identically
// named helper.
func samplePixelClamped(src *image.NRGBA, x, y int) color.NRGBA {
	b := src.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	}
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return src.NRGBAAt(x, y)
}

// sampleBilinear samples src at floating coordinates (x,y), the same
// four-tap bilinear blend as pkg/stdimg/resample.go's sampleBilinear,
// generalized for use as the deskewer's inverse-warp sampler.
func sampleBilinear(src *image.NRGBA, x, y float64) (r, g, b, a float64) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	c00 := samplePixelClamped(src, x0, y0)
	c10 := samplePixelClamped(src, x1, y0)
	c01 := samplePixelClamped(src, x0, y1)
	c11 := samplePixelClamped(src, x1, y1)

	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	r0 := float64(c00.R)*(1-xFrac) + float64(c10.R)*xFrac
	r1 := float64(c01.R)*(1-xFrac) + float64(c11.R)*xFrac
	g0 := float64(c00.G)*(1-xFrac) + float64(c10.G)*xFrac
	g1 := float64(c01.G)*(1-xFrac) + float64(c11.G)*xFrac
	b0 := float64(c00.B)*(1-xFrac) + float64(c10.B)*xFrac
	b1 := float64(c01.B)*(1-xFrac) + float64(c11.B)*xFrac
	a0 := float64(c00.A)*(1-xFrac) + float64(c10.A)*xFrac
	a1 := float64(c01.A)*(1-xFrac) + float64(c11.A)*xFrac

	r = r0*(1-yFrac) + r1*yFrac
	g = g0*(1-yFrac) + g1*yFrac
	b = b0*(1-yFrac) + b1*yFrac
	a = a0*(1-yFrac) + a1*yFrac
	return
}
