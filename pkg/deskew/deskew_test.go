package deskew

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestSolveIdentity(t *testing.T) {
	pts := [4][2]float64{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	m, err := Solve(pts, pts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	x, y := m.apply(5, 5)
	if math.Abs(x-5) > 1e-6 || math.Abs(y-5) > 1e-6 {
		t.Fatalf("identity transform moved point: (%v,%v)", x, y)
	}
}

func TestSolveMapsCornersExactly(t *testing.T) {
	src := [4][2]float64{{100, 100}, {900, 110}, {90, 900}, {910, 890}}
	dst := CanonicalCorners()
	m, err := Solve(src, dst)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i, p := range src {
		x, y := m.apply(p[0], p[1])
		if math.Abs(x-dst[i][0]) > 1e-6 || math.Abs(y-dst[i][1]) > 1e-6 {
			t.Fatalf("corner %d: got (%v,%v), want %v", i, x, y, dst[i])
		}
	}
}

func TestWarpIdentitySamplesSourceUnchanged(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0, A: 255})
		}
	}
	pts := [4][2]float64{{0, 0}, {16, 0}, {0, 16}, {16, 16}}
	m, err := Solve(pts, pts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	out, err := Warp(src, m, 16)
	if err != nil {
		t.Fatalf("Warp: %v", err)
	}
	got := out.NRGBAAt(8, 8)
	want := src.NRGBAAt(8, 8)
	if math.Abs(float64(got.R)-float64(want.R)) > 2 {
		t.Fatalf("identity warp changed pixel: got %v, want %v", got, want)
	}
}

func TestSolveDegenerateReturnsError(t *testing.T) {
	pts := [4][2]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}
	if _, err := Solve(pts, CanonicalCorners()); err == nil {
		t.Fatalf("expected error for degenerate point set")
	}
}
