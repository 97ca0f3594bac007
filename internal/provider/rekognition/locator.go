// Package rekognition locates faces using the AWS Rekognition DetectFaces
// API. It serves deployments that prefer a managed detector over the
// in-process cascade.
package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minConfidence filters out low-confidence detections
	minConfidence = 90.0

	errCodeInvalidParameter = "InvalidParameterException"
	errCodeAccessDenied     = "AccessDeniedException"
)

var (
	ErrImageTooLarge      = errors.New("image exceeds rekognition size limit")
	ErrInvalidCredentials = errors.New("invalid AWS credentials")
)

// Locator implements provider.FaceLocator using AWS Rekognition
type Locator struct {
	client *Client
}

// NewLocator creates a Rekognition-backed face locator
func NewLocator(ctx context.Context, cfg Config) (*Locator, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Locator{client: client}, nil
}

// Locate detects faces via the DetectFaces API and returns the
// highest-confidence face in pixel coordinates, or nil when Rekognition
// finds none.
func (l *Locator) Locate(ctx context.Context, frame *vision.Frame) (*vision.FaceRegion, error) {
	if len(frame.Bytes) > maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(frame.Bytes))
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: frame.Bytes,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := l.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeInvalidParameter:
				// Rekognition rejects images it cannot find faces in
				return nil, nil
			case errCodeAccessDenied:
				return nil, fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
			}
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	var best *types.FaceDetail
	for i := range output.FaceDetails {
		detail := &output.FaceDetails[i]
		if float64(aws.ToFloat32(detail.Confidence)) < minConfidence {
			continue
		}
		if best == nil || aws.ToFloat32(detail.Confidence) > aws.ToFloat32(best.Confidence) {
			best = detail
		}
	}
	if best == nil || best.BoundingBox == nil {
		return nil, nil
	}

	// Rekognition bounding boxes are relative to frame dimensions
	box := best.BoundingBox
	region := vision.FaceRegion{
		X:      int(float64(aws.ToFloat32(box.Left)) * float64(frame.Width)),
		Y:      int(float64(aws.ToFloat32(box.Top)) * float64(frame.Height)),
		Width:  int(float64(aws.ToFloat32(box.Width)) * float64(frame.Width)),
		Height: int(float64(aws.ToFloat32(box.Height)) * float64(frame.Height)),
	}.Clamp(frame.Width, frame.Height)

	return &region, nil
}

var _ provider.FaceLocator = (*Locator)(nil)
