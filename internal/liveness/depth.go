package liveness

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

// minDepthROI is the smallest mapped face ROI (in depth-map pixels) worth
// judging; below it the statistics are noise.
const minDepthROI = 100

// DepthStats summarizes the depth surface inside the mapped face ROI.
// Range and Std capture overall variation; Gradient is the absolute
// difference between the mean depth of a central sub-window and the mean
// of four edge strips. A real face has the nose closer to the camera than
// cheeks and ears; flat media produce a near-uniform surface.
type DepthStats struct {
	Range    float64
	Std      float64
	Gradient float64
}

// AnalyzeDepth maps the face region from frame coordinates into the depth
// map and computes its statistics. ok is false when the map is unusable
// or the mapped ROI is too small; callers skip the depth signal then.
func AnalyzeDepth(m *provider.DepthMap, region vision.FaceRegion, frameW, frameH int) (DepthStats, bool) {
	if !m.Valid() || frameW <= 0 || frameH <= 0 {
		return DepthStats{}, false
	}

	sx := float64(m.Cols) / float64(frameW)
	sy := float64(m.Rows) / float64(frameH)
	roi := region.Scale(sx, sy).Clamp(m.Cols, m.Rows)
	if roi.Width*roi.Height < minDepthROI {
		return DepthStats{}, false
	}

	vals := make([]float64, 0, roi.Width*roi.Height)
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for r := roi.Y; r < roi.Y+roi.Height; r++ {
		for c := roi.X; c < roi.X+roi.Width; c++ {
			v := m.At(r, c)
			vals = append(vals, v)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}

	std, err := stats.StandardDeviationPopulation(vals)
	if err != nil {
		return DepthStats{}, false
	}

	gradient, ok := centerEdgeGradient(m, roi)
	if !ok {
		return DepthStats{}, false
	}

	return DepthStats{
		Range:    maxV - minV,
		Std:      std,
		Gradient: gradient,
	}, true
}

// centerEdgeGradient compares the mean depth of a central sub-window
// against the mean of the top, bottom, left and right edge bands of the
// ROI, each one sixth of the ROI wide (at least 2 px).
func centerEdgeGradient(m *provider.DepthMap, roi vision.FaceRegion) (float64, bool) {
	marginY := roi.Height / 6
	if marginY < 2 {
		marginY = 2
	}
	marginX := roi.Width / 6
	if marginX < 2 {
		marginX = 2
	}
	if 2*marginY > roi.Height || 2*marginX > roi.Width {
		return 0, false
	}

	cy := roi.Y + roi.Height/2
	cx := roi.X + roi.Width/2

	centerMean := bandMean(m, cy-marginY, cy+marginY, cx-marginX, cx+marginX)
	top := bandMean(m, roi.Y, roi.Y+marginY, roi.X, roi.X+roi.Width)
	bottom := bandMean(m, roi.Y+roi.Height-marginY, roi.Y+roi.Height, roi.X, roi.X+roi.Width)
	left := bandMean(m, roi.Y, roi.Y+roi.Height, roi.X, roi.X+marginX)
	right := bandMean(m, roi.Y, roi.Y+roi.Height, roi.X+roi.Width-marginX, roi.X+roi.Width)

	edgeMean := (top + bottom + left + right) / 4
	return math.Abs(centerMean - edgeMean), true
}

func bandMean(m *provider.DepthMap, r0, r1, c0, c1 int) float64 {
	var sum float64
	n := 0
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			sum += m.At(r, c)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
