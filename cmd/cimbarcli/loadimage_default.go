//go:build !imagick

package main

import (
	"image"

	"github.com/cimbar-go/cimbar/pkg/cli"
)

func loadFrameBackend(path string) (image.Image, error) {
	img, _, err := cli.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}
