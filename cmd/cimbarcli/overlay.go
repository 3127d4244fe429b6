package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cimbar-go/cimbar/pkg/scanner"
	"github.com/cimbar-go/cimbar/pkg/stdimg"
)

// debugOverlay runs anchor detection against frame and returns a copy
// annotated with each corner's label and (x,y) center, for diagnosing a
// failed or suspicious decode without re-deriving the scan by hand.
func debugOverlay(frame image.Image, dark bool, skip int) (*image.NRGBA, error) {
	sc := scanner.New(frame, dark, skip)
	corners, err := sc.Scan()
	if err != nil {
		return nil, err
	}

	out := stdimg.ToNRGBA(frame)
	labels := [4]string{"TL", "TR", "BL", "BR"}
	red := color.NRGBA{R: 0xff, A: 0xff}
	for i, p := range corners {
		text := fmt.Sprintf("%s %d,%d", labels[i], p.X, p.Y)
		annotated, err := stdimg.Annotate(out, text, "", 12, p.X+6, p.Y, red)
		if err != nil {
			return nil, fmt.Errorf("annotate corner %s: %w", labels[i], err)
		}
		out = annotated
	}
	return out, nil
}
