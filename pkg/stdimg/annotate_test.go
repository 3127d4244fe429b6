package stdimg

import (
	"image/color"
	"os"
	"testing"
)

func TestAnnotateBasic(t *testing.T) {
	src := makeSolidNRGBA(100, 50, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	out, err := Annotate(src, "Hello", "", 12, 10, 20, color.Black)
	if err != nil {
		t.Fatalf("annotate failed: %v", err)
	}
	if out == nil {
		t.Fatalf("annotate returned nil image")
	}
}

func TestAnnotateWithFontFile(t *testing.T) {
	// Only runs if a TTF/OTF path is provided; CI environments rarely ship one.
	fontPath := os.Getenv("CIMBAR_TEST_FONT")
	if fontPath == "" {
		t.Skip("no font provided")
	}
	bg := makeSolidNRGBA(200, 50, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err := Annotate(bg, "HelloWorld", fontPath, 24, 10, 30, color.NRGBA{R: 0xff, A: 0xff})
	if err != nil {
		t.Fatalf("annotate with font failed: %v", err)
	}
	okChanged := false
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !okChanged; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := out.PixOffset(x, y)
			if out.Pix[i+0] != 255 || out.Pix[i+1] != 255 || out.Pix[i+2] != 255 {
				okChanged = true
				break
			}
		}
	}
	if !okChanged {
		t.Fatalf("expected annotate to draw non-white pixels")
	}
}
