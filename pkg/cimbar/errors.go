// Package cimbar ties the tile, palette, codec, scanner, deskew and
// grid packages together into the encode/decode pipeline.
package cimbar

import "errors"

// Sentinel errors for the taxonomy in spec section 7. Callers should
// use errors.Is against these rather than matching message text.
// Errors raised inside pkg/codec, pkg/palette and pkg/tile (out-of-range
// encode values, wrong-size cell images, unsupported color_bits or
// symbol_bits, missing or unreadable tile PNGs) are returned unchanged
// and carry those packages' own sentinels, not the ones below.
var (
	// ErrInvalidArgument is returned by Encode when the number of bit
	// values does not match the grid's cell count.
	ErrInvalidArgument = errors.New("cimbar: invalid argument")

	// ErrAssetMissing names the missing-asset case of the taxonomy. No
	// function in this package returns it; a missing tile PNG surfaces
	// as tile.ErrAssetMissing.
	ErrAssetMissing = errors.New("cimbar: tile asset missing")

	// ErrDetectionFailed covers a scan that produced fewer than four
	// filtered anchors.
	ErrDetectionFailed = errors.New("cimbar: anchor detection failed")

	// ErrMalformedImage covers an image handed to the decoder whose
	// dimensions don't match what the caller expects.
	ErrMalformedImage = errors.New("cimbar: malformed image")
)
