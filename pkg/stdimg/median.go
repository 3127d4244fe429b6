package stdimg

import "image"

// MedianFilter applies a median filter with the given window radius
// (radius==1 -> 3x3 window), using a sliding histogram per row rather than
// per-pixel sorting. Used by Despeckle to clean sensor noise out of a
// photographed frame before it reaches the finder-marker scanner.
func MedianFilter(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	if radius <= 0 {
		return CloneNRGBA(src)
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	out := image.NewNRGBA(b)

	for y := 0; y < h; y++ {
		y0 := y - radius
		y1 := y + radius
		if y0 < 0 {
			y0 = 0
		}
		if y1 >= h {
			y1 = h - 1
		}
		rHist := [256]int{}
		gHist := [256]int{}
		bHist := [256]int{}
		aHist := [256]int{}
		windowCount := 0
		x0 := 0 - radius
		x1 := 0 + radius
		for ox := x0; ox <= x1; ox++ {
			if ox < 0 || ox >= w {
				continue
			}
			for oy := y0; oy <= y1; oy++ {
				i := src.PixOffset(ox, oy)
				rHist[src.Pix[i+0]]++
				gHist[src.Pix[i+1]]++
				bHist[src.Pix[i+2]]++
				aHist[src.Pix[i+3]]++
				windowCount++
			}
		}
		computeInitialMedian := func(hist *[256]int, count int) (int, int) {
			half := (count + 1) / 2
			sum := 0
			for v := 0; v < 256; v++ {
				sum += hist[v]
				if sum >= half {
					return v, sum
				}
			}
			return 0, 0
		}

		lastMedR, lastCumR := 0, 0
		lastMedG, lastCumG := 0, 0
		lastMedB, lastCumB := 0, 0
		lastMedA, lastCumA := 0, 0

		for x := 0; x < w; x++ {
			if x == 0 {
				lastMedR, lastCumR = computeInitialMedian(&rHist, windowCount)
				lastMedG, lastCumG = computeInitialMedian(&gHist, windowCount)
				lastMedB, lastCumB = computeInitialMedian(&bHist, windowCount)
				lastMedA, lastCumA = computeInitialMedian(&aHist, windowCount)
			}

			mi := out.PixOffset(x, y)
			out.Pix[mi+0] = uint8(lastMedR)
			out.Pix[mi+1] = uint8(lastMedG)
			out.Pix[mi+2] = uint8(lastMedB)
			out.Pix[mi+3] = uint8(lastMedA)

			removeX := x - radius
			if removeX >= 0 {
				for oy := y0; oy <= y1; oy++ {
					i := src.PixOffset(removeX, oy)
					vR := int(src.Pix[i+0])
					vG := int(src.Pix[i+1])
					vB := int(src.Pix[i+2])
					vA := int(src.Pix[i+3])
					rHist[vR]--
					gHist[vG]--
					bHist[vB]--
					aHist[vA]--
					if vR <= lastMedR {
						lastCumR--
					}
					if vG <= lastMedG {
						lastCumG--
					}
					if vB <= lastMedB {
						lastCumB--
					}
					if vA <= lastMedA {
						lastCumA--
					}
					windowCount--
				}
			}
			addX := x + radius + 1
			if addX < w {
				for oy := y0; oy <= y1; oy++ {
					i := src.PixOffset(addX, oy)
					vR := int(src.Pix[i+0])
					vG := int(src.Pix[i+1])
					vB := int(src.Pix[i+2])
					vA := int(src.Pix[i+3])
					rHist[vR]++
					gHist[vG]++
					bHist[vB]++
					aHist[vA]++
					if vR <= lastMedR {
						lastCumR++
					}
					if vG <= lastMedG {
						lastCumG++
					}
					if vB <= lastMedB {
						lastCumB++
					}
					if vA <= lastMedA {
						lastCumA++
					}
					windowCount++
				}
			}
			half := (windowCount + 1) / 2
			for lastMedR > 0 && lastCumR-rHist[lastMedR] >= half {
				lastCumR -= rHist[lastMedR]
				lastMedR--
			}
			for lastMedR < 255 && lastCumR < half {
				lastMedR++
				lastCumR += rHist[lastMedR]
			}

			for lastMedG > 0 && lastCumG-gHist[lastMedG] >= half {
				lastCumG -= gHist[lastMedG]
				lastMedG--
			}
			for lastMedG < 255 && lastCumG < half {
				lastMedG++
				lastCumG += gHist[lastMedG]
			}

			for lastMedB > 0 && lastCumB-bHist[lastMedB] >= half {
				lastCumB -= bHist[lastMedB]
				lastMedB--
			}
			for lastMedB < 255 && lastCumB < half {
				lastMedB++
				lastCumB += bHist[lastMedB]
			}

			for lastMedA > 0 && lastCumA-aHist[lastMedA] >= half {
				lastCumA -= aHist[lastMedA]
				lastMedA--
			}
			for lastMedA < 255 && lastCumA < half {
				lastMedA++
				lastCumA += aHist[lastMedA]
			}
		}
	}
	return out
}
