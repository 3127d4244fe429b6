//go:build imagick

package main

import (
	"fmt"
	"image"

	"gopkg.in/gographics/imagick.v3/imagick"
)

var magickReady bool

func ensureMagick() {
	if !magickReady {
		imagick.Initialize()
		magickReady = true
	}
}

// loadFrameBackend decodes path through ImageMagick, which understands
// HEIC/TIFF and other formats a phone camera may produce that the standard
// library's image package does not register a decoder for.
func loadFrameBackend(path string) (image.Image, error) {
	ensureMagick()

	wand := imagick.NewMagickWand()
	defer wand.Destroy()

	if err := wand.ReadImage(path); err != nil {
		return nil, fmt.Errorf("imagick read: %w", err)
	}

	w := int(wand.GetImageWidth())
	h := int(wand.GetImageHeight())
	pix, err := wand.ExportImagePixels(0, 0, uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("imagick export pixels: %w", err)
	}
	bytes, ok := pix.([]byte)
	if !ok || len(bytes) != w*h*4 {
		return nil, fmt.Errorf("imagick export pixels: unexpected pixel buffer shape")
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, bytes)
	return img, nil
}
