// Package liveness decides whether captured face frames come from a live
// human or a spoof (printed photo, screen replay, static video loop). It
// layers independent signals: a Laplacian blur gate, LBP texture entropy,
// FFT moiré detection, skin chrominance variance, depth-surface geometry
// and inter-frame motion. All checks are pure functions of pixel data;
// the engine is stateless and safe for concurrent use.
package liveness

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

// Config carries the tunable thresholds. The defaults are empirically
// tuned, not derived; ops can adjust any of them via environment
// configuration without code changes.
type Config struct {
	BlurMinSingle   float64 // enrollment still, below = too blurry
	BlurMinSequence float64 // per login frame, below = discard
	MotionAvgMin    float64 // mean pixel diff, below = static replay

	TextureEntropyMin float64 // LBP entropy bits, below = artificial texture
	MoireRatioMax     float64 // FFT high-freq ratio, above = screen moiré
	ChromaVarMin      float64 // Cr variance, below = flat colour
	DepthStdMin       float64 // depth std-dev floor
	DepthGradientMin  float64 // center-vs-edge depth gradient floor

	// SpatialFailLimit is how many spatial signals must fail before the
	// sequence is rejected. Two of N tolerates one noisy signal under
	// normal lighting while still blocking multi-vector spoofing.
	SpatialFailLimit int

	// MinFaceSize excludes face crops with either dimension below this
	// many pixels from spatial signal checks.
	MinFaceSize int
}

func DefaultConfig() Config {
	return Config{
		BlurMinSingle:     25,
		BlurMinSequence:   15,
		MotionAvgMin:      0.8,
		TextureEntropyMin: 4.5,
		MoireRatioMax:     0.96,
		ChromaVarMin:      8.0,
		DepthStdMin:       5.0,
		DepthGradientMin:  15.0,
		SpatialFailLimit:  2,
		MinFaceSize:       30,
	}
}

// Verdict is the outcome of a liveness check.
type Verdict struct {
	Passed      bool    `json:"passed"`
	Reason      string  `json:"reason"`
	BlurScore   float64 `json:"blur_score"`
	MotionScore float64 `json:"motion_score"`
}

// SignalReading is one anti-spoof signal evaluated on one frame.
type SignalReading struct {
	Name       string
	Failed     bool
	Diagnostic string
}

// Engine runs the liveness policies. The depth estimator is optional:
// when nil or unavailable the depth signal is skipped, never failed.
type Engine struct {
	locator provider.FaceLocator
	depth   provider.DepthEstimator
	cfg     Config
	logger  *slog.Logger
}

func NewEngine(locator provider.FaceLocator, depth provider.DepthEstimator, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		locator: locator,
		depth:   depth,
		cfg:     cfg,
		logger:  logger,
	}
}

// CheckSingleFrame verifies image quality and face presence on a single
// enrollment still. Anti-spoof signals are NOT run here: enrollment
// assumes a supervised capture context, and spoofing is enforced at
// login instead. Whether that asymmetry should stay is a product
// decision, not an engine invariant.
func (e *Engine) CheckSingleFrame(ctx context.Context, data []byte) Verdict {
	frame, err := vision.DecodeFrame(data)
	if err != nil {
		return Verdict{Reason: "could not decode image"}
	}

	blur := LaplacianVariance(frame.Gray)
	if blur < e.cfg.BlurMinSingle {
		return Verdict{
			Reason:    fmt.Sprintf("image too blurry (score=%.1f)", blur),
			BlurScore: blur,
		}
	}

	if e.locate(ctx, frame) == nil {
		return Verdict{Reason: "no face detected", BlurScore: blur}
	}

	return Verdict{Passed: true, Reason: "OK", BlurScore: blur}
}

// CheckSequence runs the login policy over an ordered frame burst:
// triage by decode and blur, require a located face, evaluate the
// spatial anti-spoof signals on the sharpest surviving frame, and only
// then check inter-frame motion. Motion goes last because it is the
// cheapest signal to defeat and must not mask stronger rejections.
func (e *Engine) CheckSequence(ctx context.Context, frames [][]byte) Verdict {
	if len(frames) < 2 {
		return Verdict{Reason: "not enough frames"}
	}

	type candidate struct {
		frame  *vision.Frame
		blur   float64
		region *vision.FaceRegion
	}

	var cands []candidate
	for _, data := range frames {
		frame, err := vision.DecodeFrame(data)
		if err != nil {
			continue
		}
		blur := LaplacianVariance(frame.Gray)
		if blur < e.cfg.BlurMinSequence {
			continue
		}
		cands = append(cands, candidate{frame, blur, e.locate(ctx, frame)})
	}

	if len(cands) < 2 {
		return Verdict{Reason: "not enough usable frames"}
	}

	blurs := make([]float64, len(cands))
	best := 0
	for i, c := range cands {
		blurs[i] = c.blur
		if c.blur > cands[best].blur {
			best = i
		}
	}
	avgBlur, _ := stats.Mean(blurs)

	// Spatial signals run on the sharpest frame; fall back to any frame
	// with a face when the sharpest one has none.
	region := cands[best].region
	if region == nil {
		for _, c := range cands {
			if c.region != nil {
				region = c.region
				break
			}
		}
	}
	if region == nil {
		return Verdict{Reason: "no face detected in frames", BlurScore: avgBlur}
	}

	readings := e.spatialReadings(ctx, cands[best].frame, *region)

	var failed []string
	for _, r := range readings {
		if r.Failed {
			failed = append(failed, fmt.Sprintf("%s(%s)", r.Name, r.Diagnostic))
		}
	}
	if len(failed) >= e.cfg.SpatialFailLimit {
		return Verdict{
			Reason:    "anti-spoof failed: " + strings.Join(failed, ", "),
			BlurScore: avgBlur,
		}
	}

	grays := make([]*image.Gray, len(cands))
	for i, c := range cands {
		grays[i] = c.frame.Gray
	}
	motion := MotionScore(grays)
	if motion < e.cfg.MotionAvgMin {
		return Verdict{
			Reason:      fmt.Sprintf("insufficient motion (%.3f): possible photo replay", motion),
			BlurScore:   avgBlur,
			MotionScore: motion,
		}
	}

	return Verdict{Passed: true, Reason: "OK", BlurScore: avgBlur, MotionScore: motion}
}

// spatialReadings evaluates the anti-spoof signals on one frame. The
// checks form an ordered list evaluated uniformly so the fail-count rule
// stays adjustable independently of signal computation. A face crop
// smaller than MinFaceSize yields no spatial readings; the depth reading
// is appended only when the estimator produced a usable map.
func (e *Engine) spatialReadings(ctx context.Context, frame *vision.Frame, region vision.FaceRegion) []SignalReading {
	region = region.Clamp(frame.Width, frame.Height)

	var readings []SignalReading
	if !region.TooSmall(e.cfg.MinFaceSize) {
		crop := frame.CropGray(region)

		entropy := TextureEntropy(crop)
		moire := MoireRatio(crop)
		crVar := ChromaVariance(frame, region)

		e.logger.Debug("anti-spoof signals",
			slog.Float64("lbp_entropy", entropy),
			slog.Float64("moire_ratio", moire),
			slog.Float64("cr_variance", crVar),
		)

		readings = []SignalReading{
			{"texture", entropy < e.cfg.TextureEntropyMin, fmt.Sprintf("entropy=%.2f", entropy)},
			{"screen_pattern", moire > e.cfg.MoireRatioMax, fmt.Sprintf("ratio=%.3f", moire)},
			{"flat_colour", crVar < e.cfg.ChromaVarMin, fmt.Sprintf("cr_var=%.1f", crVar)},
		}
	}

	if e.depth != nil {
		if r, ok := e.depthReading(ctx, frame, region); ok {
			readings = append(readings, r)
		}
	}

	return readings
}

func (e *Engine) depthReading(ctx context.Context, frame *vision.Frame, region vision.FaceRegion) (SignalReading, bool) {
	depthMap, err := e.depth.EstimateDepth(ctx, frame)
	if err != nil {
		e.logger.Warn("depth estimator unavailable, skipping depth signal", slog.Any("error", err))
		return SignalReading{}, false
	}
	if depthMap == nil {
		return SignalReading{}, false
	}

	st, ok := AnalyzeDepth(depthMap, region, frame.Width, frame.Height)
	if !ok {
		return SignalReading{}, false
	}

	e.logger.Debug("depth signal",
		slog.Float64("range", st.Range),
		slog.Float64("std", st.Std),
		slog.Float64("center_edge_gradient", st.Gradient),
	)

	passed := st.Std >= e.cfg.DepthStdMin || st.Gradient >= e.cfg.DepthGradientMin
	return SignalReading{
		Name:       "flat_depth",
		Failed:     !passed,
		Diagnostic: fmt.Sprintf("range=%.1f std=%.1f", st.Range, st.Std),
	}, true
}

// locate wraps the face locator; a locator error is logged and counted
// as no detection rather than failing the whole check.
func (e *Engine) locate(ctx context.Context, frame *vision.Frame) *vision.FaceRegion {
	region, err := e.locator.Locate(ctx, frame)
	if err != nil {
		e.logger.Warn("face locator error", slog.Any("error", err))
		return nil
	}
	return region
}
