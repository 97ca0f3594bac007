// Package inference talks to the model-serving sidecar that hosts the
// embedding network and the monocular depth estimator. The sidecar owns
// the heavy models and exposes them over a small JSON API.
package inference

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

// Provider implements provider.EmbeddingExtractor and
// provider.DepthEstimator against the inference sidecar.
type Provider struct {
	client *Client
}

// NewProvider creates a new inference provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// embeddingDim is the output size of the identity network. The storage
// column and the matching threshold both assume this width.
const embeddingDim = 128

// Embed extracts a face embedding from the frame. An empty embedding in
// the response means the sidecar found no usable face; that is reported
// as a nil embedding, not an error.
func (p *Provider) Embed(ctx context.Context, frame *vision.Frame) ([]float64, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(frame.Bytes)

	resp, err := p.client.Embed(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("embed face: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, nil
	}
	if len(resp.Embedding) != embeddingDim {
		return nil, fmt.Errorf("%w: embedding has %d dimensions, want %d",
			ErrInvalidResponse, len(resp.Embedding), embeddingDim)
	}

	return resp.Embedding, nil
}

// EstimateDepth runs monocular depth estimation on the frame. A
// malformed map in the response is reported as unavailable rather than
// as an error so the caller can skip the depth signal.
func (p *Provider) EstimateDepth(ctx context.Context, frame *vision.Frame) (*provider.DepthMap, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(frame.Bytes)

	resp, err := p.client.Depth(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("estimate depth: %w", err)
	}

	m := &provider.DepthMap{
		Rows: resp.Rows,
		Cols: resp.Cols,
		Data: resp.Depth,
	}
	if !m.Valid() {
		return nil, nil
	}

	return m, nil
}

var (
	_ provider.EmbeddingExtractor = (*Provider)(nil)
	_ provider.DepthEstimator     = (*Provider)(nil)
)
