package main

import (
	"fmt"

	"github.com/cimbar-go/cimbar/pkg/cli"
	"github.com/cimbar-go/cimbar/pkg/deskew"
	"github.com/cimbar-go/cimbar/pkg/scanner"
)

// runDeskew is the standalone detect+rectify operation: it finds the four
// finder anchors in a photographed frame and writes the perspective-
// corrected, canonically-sized result, without attempting to decode any
// cells. Useful for inspecting a capture before committing to a decode.
func runDeskew(args []string) error {
	as := parseArgs(args)

	dark, err := as.boolOpt("dark", envBoolOrDefault("CIMBAR_DARK", false))
	if err != nil {
		return err
	}
	skip, err := as.intOpt("skip", envIntOrDefault("CIMBAR_SKIP", 0))
	if err != nil {
		return err
	}
	size, err := as.intOpt("size", envIntOrDefault("CIMBAR_CANONICAL_SIZE", 1024))
	if err != nil {
		return err
	}

	if len(as.positional) != 2 {
		return fmt.Errorf("usage: cimbarcli deskew [--flags] <input-image> <output.png>")
	}
	inputPath, outputPath := as.positional[0], as.positional[1]

	frame, err := loadFrame(inputPath)
	if err != nil {
		return err
	}

	corners, err := scanner.New(frame, dark, skip).Scan()
	if err != nil {
		return fmt.Errorf("detect anchors: %w", err)
	}

	var src [4][2]float64
	for i, p := range corners {
		src[i] = [2]float64{float64(p.X), float64(p.Y)}
	}
	m, err := deskew.Solve(src, deskew.CanonicalCorners())
	if err != nil {
		return fmt.Errorf("solve perspective transform: %w", err)
	}

	rectified, err := deskew.Warp(frame, m, size)
	if err != nil {
		return fmt.Errorf("warp: %w", err)
	}
	return cli.SaveImage(outputPath, rectified)
}
