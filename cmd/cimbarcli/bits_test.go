package main

import (
	"bytes"
	"testing"
)

func TestPackUnpackBitsRoundTrip(t *testing.T) {
	payload := []byte("hello, cimbar")
	const bitsPerCell = 6
	cellCount := (len(payload)*8 + bitsPerCell - 1) / bitsPerCell
	cells := packBits(payload, bitsPerCell, cellCount)

	got, err := unpackBits(cells, bitsPerCell, len(payload))
	if err != nil {
		t.Fatalf("unpackBits: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestUnpackBitsInsufficientCells(t *testing.T) {
	cells := []int{0, 1, 2}
	if _, err := unpackBits(cells, 4, 100); err == nil {
		t.Fatalf("expected error when grid doesn't hold enough bits")
	}
}

func TestLengthPrefixRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	framed := prependLength(payload)
	if len(framed) != lengthPrefixBytes+len(payload) {
		t.Fatalf("unexpected framed length %d", len(framed))
	}
	if decodeLength(framed[:lengthPrefixBytes]) != len(payload) {
		t.Fatalf("decoded length mismatch")
	}
}
