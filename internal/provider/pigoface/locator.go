// Package pigoface locates faces with the pigo pixel-intensity cascade.
// It runs in-process with no external service or cgo, which makes it the
// default locator for development and for deployments without AWS access.
package pigoface

import (
	"context"
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

const (
	// minQuality filters out low-confidence cascade hits
	minQuality = 5.0
	// iouThreshold merges overlapping detections of the same face
	iouThreshold = 0.2
)

// Locator implements provider.FaceLocator using a pigo cascade
type Locator struct {
	classifier *pigo.Pigo
}

// NewLocator loads and unpacks the cascade file
func NewLocator(cascadePath string) (*Locator, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", cascadePath, err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}

	return &Locator{classifier: classifier}, nil
}

// Locate runs the cascade over the frame and returns the highest-scoring
// face, or nil when no face clears the quality floor.
func (l *Locator) Locate(ctx context.Context, frame *vision.Frame) (*vision.FaceRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxSize := frame.Width
	if frame.Height < maxSize {
		maxSize = frame.Height
	}

	params := pigo.CascadeParams{
		MinSize:     30,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: frame.Gray.Pix,
			Rows:   frame.Height,
			Cols:   frame.Width,
			Dim:    frame.Gray.Stride,
		},
	}

	dets := l.classifier.RunCascade(params, 0.0)
	dets = l.classifier.ClusterDetections(dets, iouThreshold)

	var best *pigo.Detection
	for i := range dets {
		if dets[i].Q < minQuality {
			continue
		}
		if best == nil || dets[i].Q > best.Q {
			best = &dets[i]
		}
	}
	if best == nil {
		return nil, nil
	}

	// pigo reports a center point and diameter
	region := vision.FaceRegion{
		X:      best.Col - best.Scale/2,
		Y:      best.Row - best.Scale/2,
		Width:  best.Scale,
		Height: best.Scale,
	}.Clamp(frame.Width, frame.Height)

	return &region, nil
}

var _ provider.FaceLocator = (*Locator)(nil)
