package main

import (
	"encoding/binary"
	"fmt"
)

// lengthPrefixBytes is the size of the big-endian payload-length header
// prepended before bit-packing, so decode knows where the real payload
// ends within the grid's fixed cell count.
const lengthPrefixBytes = 4

func unpackLengthPrefixBits() int {
	return lengthPrefixBytes * 8
}

// prependLength prefixes payload with its own length, so a decode can
// recover exactly the bytes that were encoded rather than the grid's full
// zero-padded capacity.
func prependLength(payload []byte) []byte {
	out := make([]byte, lengthPrefixBytes+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[lengthPrefixBytes:], payload)
	return out
}

func decodeLength(header []byte) int {
	return int(binary.BigEndian.Uint32(header))
}

// packBits splits payload into fixed-width cell values of bitsPerCell bits
// each (MSB-first), zero-padding the final cell, until count values are
// produced. Extra cells beyond what payload supplies are filled with 0.
func packBits(payload []byte, bitsPerCell, count int) []int {
	out := make([]int, count)
	bitPos := 0
	totalBits := len(payload) * 8
	for i := 0; i < count; i++ {
		v := 0
		for b := 0; b < bitsPerCell; b++ {
			v <<= 1
			if bitPos < totalBits {
				byteIdx := bitPos / 8
				bitIdx := 7 - uint(bitPos%8)
				if payload[byteIdx]&(1<<bitIdx) != 0 {
					v |= 1
				}
			}
			bitPos++
		}
		out[i] = v
	}
	return out
}

// unpackBits is the inverse of packBits: it reassembles a byte stream from
// cell values, each contributing bitsPerCell bits MSB-first, then trims to
// exactly nBytes bytes.
func unpackBits(cells []int, bitsPerCell, nBytes int) ([]byte, error) {
	needed := nBytes * 8
	available := len(cells) * bitsPerCell
	if available < needed {
		return nil, fmt.Errorf("grid holds %d bits, need %d for %d bytes", available, needed, nBytes)
	}
	out := make([]byte, nBytes)
	bitPos := 0
	for _, v := range cells {
		for b := bitsPerCell - 1; b >= 0 && bitPos < needed; b-- {
			if v&(1<<uint(b)) != 0 {
				out[bitPos/8] |= 1 << uint(7-bitPos%8)
			}
			bitPos++
		}
		if bitPos >= needed {
			break
		}
	}
	return out, nil
}
