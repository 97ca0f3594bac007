// Package provider defines the model-backed capabilities the core
// consumes. Implementations are substitutable independently of the
// liveness and matching logic: a locator finds the most prominent face,
// an embedding extractor summarizes it as a unit vector, and an optional
// depth estimator supplies a relative depth surface for anti-spoofing.
package provider

import (
	"context"

	"github.com/veriface-labs/veriface/internal/vision"
)

// FaceLocator finds the most prominent face in a frame.
// A nil region with a nil error means no face was found.
type FaceLocator interface {
	Locate(ctx context.Context, frame *vision.Frame) (*vision.FaceRegion, error)
}

// EmbeddingExtractor produces a fixed-length, L2-normalized embedding for
// the most prominent face in a frame, or nil when no face is usable.
type EmbeddingExtractor interface {
	Embed(ctx context.Context, frame *vision.Frame) ([]float64, error)
}

// DepthEstimator produces a relative depth surface for a frame. The map
// is sized independently of the input. A nil map with a nil error means
// the estimator is unavailable; liveness must then skip the depth signal
// rather than fail.
type DepthEstimator interface {
	EstimateDepth(ctx context.Context, frame *vision.Frame) (*DepthMap, error)
}

// DepthMap is a dense relative depth surface in row-major order.
// Larger values are closer to the camera.
type DepthMap struct {
	Rows int
	Cols int
	Data []float32
}

// At returns the depth value at (row, col).
func (m *DepthMap) At(row, col int) float64 {
	return float64(m.Data[row*m.Cols+col])
}

// Valid reports whether the map dimensions are consistent with its data.
func (m *DepthMap) Valid() bool {
	return m != nil && m.Rows > 0 && m.Cols > 0 && len(m.Data) == m.Rows*m.Cols
}
