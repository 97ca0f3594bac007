// Package face wires concrete providers together for the rest of the
// application. Provider construction happens once at startup; a failure
// to build a configured provider aborts the process instead of degrading
// silently.
package face

import (
	"context"
	"fmt"
	"sync"

	"github.com/veriface-labs/veriface/internal/config"
	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/provider/inference"
	"github.com/veriface-labs/veriface/internal/provider/mock"
	"github.com/veriface-labs/veriface/internal/provider/pigoface"
	"github.com/veriface-labs/veriface/internal/provider/rekognition"
)

// LocatorType defines supported face locator backends
type LocatorType string

const (
	// LocatorTypePigo runs the in-process pigo cascade (default)
	LocatorTypePigo LocatorType = "pigo"
	// LocatorTypeRekognition calls AWS Rekognition DetectFaces
	LocatorTypeRekognition LocatorType = "rekognition"
	// LocatorTypeMock is the deterministic test locator
	LocatorTypeMock LocatorType = "mock"
)

// Registry holds the provider set assembled at startup. The depth
// estimator is nil when depth checking is disabled.
type Registry struct {
	Locator  provider.FaceLocator
	Embedder provider.EmbeddingExtractor
	Depth    provider.DepthEstimator
}

var (
	registryOnce sync.Once
	registry     *Registry
	registryErr  error
)

// NewRegistry builds all providers from configuration. It is memoized:
// concurrent and repeated calls share a single construction, so model
// files load once regardless of how many callers race at startup.
//
// Environment variables:
//   - FACE_LOCATOR: "pigo", "rekognition" or "mock" (default: "pigo")
//   - PIGO_CASCADE_PATH: cascade file for the pigo locator
//   - AWS_REGION: region for the Rekognition locator
//   - INFERENCE_URL: embedding/depth sidecar URL
//   - DEPTH_ENABLED: enable the depth anti-spoof signal
func NewRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registryOnce.Do(func() {
		registry, registryErr = buildRegistry(ctx, cfg)
	})
	return registry, registryErr
}

func buildRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	locator, embedder, depth, err := buildProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Registry{Locator: locator, Embedder: embedder, Depth: depth}, nil
}

func buildProviders(ctx context.Context, cfg *config.Config) (provider.FaceLocator, provider.EmbeddingExtractor, provider.DepthEstimator, error) {
	if LocatorType(cfg.FaceLocator) == LocatorTypeMock {
		m := mock.New()
		var depth provider.DepthEstimator
		if cfg.DepthEnabled {
			depth = m
		}
		return m, m, depth, nil
	}

	locator, err := buildLocator(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	inferenceCfg := inference.DefaultConfig()
	if cfg.InferenceURL != "" {
		inferenceCfg.BaseURL = cfg.InferenceURL
	}
	if cfg.InferenceModel != "" {
		inferenceCfg.Model = cfg.InferenceModel
	}
	sidecar := inference.NewProvider(inferenceCfg)

	var depth provider.DepthEstimator
	if cfg.DepthEnabled {
		depth = sidecar
	}

	return locator, sidecar, depth, nil
}

func buildLocator(ctx context.Context, cfg *config.Config) (provider.FaceLocator, error) {
	switch LocatorType(cfg.FaceLocator) {
	case LocatorTypeRekognition:
		locator, err := rekognition.NewLocator(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition locator: %w", err)
		}
		return locator, nil

	case LocatorTypePigo, "":
		locator, err := pigoface.NewLocator(cfg.PigoCascadePath)
		if err != nil {
			return nil, fmt.Errorf("create pigo locator: %w", err)
		}
		return locator, nil

	default:
		return nil, fmt.Errorf("unknown locator type: %s (supported: %s, %s, %s)",
			cfg.FaceLocator, LocatorTypePigo, LocatorTypeRekognition, LocatorTypeMock)
	}
}
