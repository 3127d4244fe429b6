package main

import (
	"fmt"
	"image"
)

// loadFrame reads an image file off disk for decoding. The imagick build
// tag swaps in an ImageMagick-backed reader (loadimage_magick.go) that
// additionally handles HEIC/TIFF captures straight off a phone; the
// default build (loadimage_default.go) only understands what the standard
// library's image package registers (PNG/JPEG/GIF).
func loadFrame(path string) (image.Image, error) {
	img, err := loadFrameBackend(path)
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", path, err)
	}
	return img, nil
}
