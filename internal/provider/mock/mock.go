// Package mock provides deterministic in-memory providers for tests and
// local development without models or external services.
package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

const embeddingDimension = 128

// Provider implements FaceLocator, EmbeddingExtractor and DepthEstimator
// with deterministic outputs derived from the frame content.
type Provider struct{}

// New creates a new mock provider
func New() *Provider {
	return &Provider{}
}

// Locate reports a centered face covering 60% of the frame
func (p *Provider) Locate(ctx context.Context, frame *vision.Frame) (*vision.FaceRegion, error) {
	region := vision.FaceRegion{
		X:      frame.Width / 5,
		Y:      frame.Height / 5,
		Width:  frame.Width * 3 / 5,
		Height: frame.Height * 3 / 5,
	}
	return &region, nil
}

// Embed generates a deterministic unit-length embedding from the image hash,
// so the same bytes always map to the same identity.
func (p *Provider) Embed(ctx context.Context, frame *vision.Frame) ([]float64, error) {
	hash := sha256.Sum256(frame.Bytes)
	embedding := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding, nil
}

// EstimateDepth synthesizes a dome-shaped depth map, nearer at the center,
// which passes the flat-surface checks the way a real face would.
func (p *Provider) EstimateDepth(ctx context.Context, frame *vision.Frame) (*provider.DepthMap, error) {
	const rows, cols = 64, 64
	data := make([]float32, rows*cols)
	cy, cx := float64(rows)/2, float64(cols)/2
	maxDist := math.Hypot(cy, cx)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dist := math.Hypot(float64(r)-cy, float64(c)-cx)
			data[r*cols+c] = float32(100 * (1 - dist/maxDist))
		}
	}

	return &provider.DepthMap{Rows: rows, Cols: cols, Data: data}, nil
}

var (
	_ provider.FaceLocator        = (*Provider)(nil)
	_ provider.EmbeddingExtractor = (*Provider)(nil)
	_ provider.DepthEstimator     = (*Provider)(nil)
)
