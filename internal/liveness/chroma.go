package liveness

import (
	"github.com/montanaflynn/stats"

	"github.com/veriface-labs/veriface/internal/vision"
)

// emptyROIChroma is reported for an empty face ROI: a data problem, not
// evidence of spoofing, so the value stays well above any failing
// threshold.
const emptyROIChroma = 100.0

// ChromaVariance computes the variance of the red-difference chroma
// channel (Cr of YCrCb) over the face ROI. Natural skin varies with blood
// flow and shading; screen reproductions flatten it.
func ChromaVariance(frame *vision.Frame, region vision.FaceRegion) float64 {
	region = region.Clamp(frame.Width, frame.Height)
	if region.Empty() {
		return emptyROIChroma
	}

	vals := make([]float64, 0, region.Width*region.Height)
	for y := region.Y; y < region.Y+region.Height; y++ {
		i := frame.RGBA.PixOffset(region.X, y)
		for x := 0; x < region.Width; x++ {
			r := float64(frame.RGBA.Pix[i])
			g := float64(frame.RGBA.Pix[i+1])
			b := float64(frame.RGBA.Pix[i+2])

			luma := 0.299*r + 0.587*g + 0.114*b
			vals = append(vals, (r-luma)*0.713+128)

			i += 4
		}
	}

	variance, err := stats.PopulationVariance(vals)
	if err != nil {
		return emptyROIChroma
	}
	return variance
}
