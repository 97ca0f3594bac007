package liveness

import (
	"image"
	"math"

	"github.com/veriface-labs/veriface/internal/vision"
)

const lbpSize = 96

// Neighbor offsets (dy, dx) in bit order; "neighbor >= center" sets the bit.
var lbpOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1},
}

// TextureEntropy measures skin micro-texture as the Shannon entropy (bits)
// of the local-binary-pattern histogram over a 96×96 face crop. Real skin
// produces diverse LBP codes and high entropy; screen or print
// reproductions are smoother and score low.
func TextureEntropy(grayFace *image.Gray) float64 {
	face := vision.ResizeGray(grayFace, lbpSize, lbpSize)

	var hist [256]int
	total := 0

	for y := 1; y < lbpSize-1; y++ {
		for x := 1; x < lbpSize-1; x++ {
			center := face.Pix[y*face.Stride+x]
			var code uint8
			for bit, off := range lbpOffsets {
				if face.Pix[(y+off[0])*face.Stride+(x+off[1])] >= center {
					code |= 1 << uint(bit)
				}
			}
			hist[code]++
			total++
		}
	}

	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	return entropy
}
