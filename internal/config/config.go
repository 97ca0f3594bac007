package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/veriface-labs/veriface/internal/liveness"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Providers
	FaceLocator     string `envconfig:"FACE_LOCATOR" default:"pigo"`
	PigoCascadePath string `envconfig:"PIGO_CASCADE_PATH" default:"./models/facefinder"`
	AWSRegion       string `envconfig:"AWS_REGION" default:"us-east-1"`
	InferenceURL    string `envconfig:"INFERENCE_URL" default:"http://localhost:5005"`
	InferenceModel  string `envconfig:"INFERENCE_MODEL" default:"SFace"`
	DepthEnabled    bool   `envconfig:"DEPTH_ENABLED" default:"true"`

	// Identity matching.
	// SFace cosine similarity: same person >= 0.593 (OpenCV recommended threshold)
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.593"`
	AdaptiveAlpha       float64 `envconfig:"ADAPTIVE_ALPHA" default:"0.05"`

	// Liveness thresholds (tuned for phone front-camera, face at ~30-60 cm)
	BlurMinSingle     float64 `envconfig:"LIVENESS_BLUR_MIN_SINGLE" default:"25"`
	BlurMinSequence   float64 `envconfig:"LIVENESS_BLUR_MIN_SEQUENCE" default:"15"`
	MotionAvgMin      float64 `envconfig:"LIVENESS_MOTION_AVG_MIN" default:"0.8"`
	TextureEntropyMin float64 `envconfig:"LIVENESS_TEXTURE_ENTROPY_MIN" default:"4.5"`
	MoireRatioMax     float64 `envconfig:"LIVENESS_MOIRE_RATIO_MAX" default:"0.96"`
	ChromaVarMin      float64 `envconfig:"LIVENESS_CHROMA_VAR_MIN" default:"8.0"`
	DepthStdMin       float64 `envconfig:"LIVENESS_DEPTH_STD_MIN" default:"5.0"`
	DepthGradientMin  float64 `envconfig:"LIVENESS_DEPTH_GRADIENT_MIN" default:"15.0"`
	SpatialFailLimit  int     `envconfig:"LIVENESS_SPATIAL_FAIL_LIMIT" default:"2"`
	MinFaceSize       int     `envconfig:"LIVENESS_MIN_FACE_SIZE" default:"30"`

	// Tokens
	AccessTokenSecret  string        `envconfig:"ACCESS_TOKEN_SECRET" required:"true"`
	RefreshTokenSecret string        `envconfig:"REFRESH_TOKEN_SECRET" required:"true"`
	AccessTokenTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL    time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`

	// Uploads
	MaxUploadMB int `envconfig:"MAX_UPLOAD_MB" default:"10"`

	// Login rate limiting (sliding window per user name + client IP)
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// LivenessConfig assembles the engine thresholds from the environment
func (c *Config) LivenessConfig() liveness.Config {
	return liveness.Config{
		BlurMinSingle:     c.BlurMinSingle,
		BlurMinSequence:   c.BlurMinSequence,
		MotionAvgMin:      c.MotionAvgMin,
		TextureEntropyMin: c.TextureEntropyMin,
		MoireRatioMax:     c.MoireRatioMax,
		ChromaVarMin:      c.ChromaVarMin,
		DepthStdMin:       c.DepthStdMin,
		DepthGradientMin:  c.DepthGradientMin,
		SpatialFailLimit:  c.SpatialFailLimit,
		MinFaceSize:       c.MinFaceSize,
	}
}
