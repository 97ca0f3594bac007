package liveness

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

const (
	testFrameSize  = 160
	testFaceOrigin = 30
	testFaceSize   = 100
)

var testFaceRegion = vision.FaceRegion{
	X: testFaceOrigin, Y: testFaceOrigin,
	Width: testFaceSize, Height: testFaceSize,
}

type stubLocator struct {
	region *vision.FaceRegion
	err    error
}

func (s *stubLocator) Locate(ctx context.Context, frame *vision.Frame) (*vision.FaceRegion, error) {
	return s.region, s.err
}

type stubDepth struct {
	m   *provider.DepthMap
	err error
}

func (s *stubDepth) EstimateDepth(ctx context.Context, frame *vision.Frame) (*provider.DepthMap, error) {
	return s.m, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(locator provider.FaceLocator, depth provider.DepthEstimator) *Engine {
	return NewEngine(locator, depth, DefaultConfig(), testLogger())
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// liveFrame builds a frame whose face area carries noisy, colour-varied
// texture, so the quality gate and the spatial signals see live-like
// content. Different seeds produce different frames, which also yields
// inter-frame motion.
func liveFrame(t *testing.T, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rgba := image.NewRGBA(image.Rect(0, 0, testFrameSize, testFrameSize))
	for y := 0; y < testFrameSize; y++ {
		for x := 0; x < testFrameSize; x++ {
			i := rgba.PixOffset(x, y)
			rgba.Pix[i] = uint8(48 + rng.Intn(160))
			rgba.Pix[i+1] = uint8(88 + rng.Intn(80))
			rgba.Pix[i+2] = uint8(88 + rng.Intn(40))
			rgba.Pix[i+3] = 255
		}
	}
	return encodePNG(t, rgba)
}

// flatFrame is featureless and fails the blur gate.
func flatFrame(t *testing.T) []byte {
	t.Helper()
	rgba := image.NewRGBA(image.Rect(0, 0, testFrameSize, testFrameSize))
	for i := 0; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3] = 120, 120, 120, 255
	}
	return encodePNG(t, rgba)
}

// spoofFrame has a noisy border (so blur triage passes) around a
// perfectly flat face area: zero texture entropy and zero chroma
// variance, the signature of reproduced media.
func spoofFrame(t *testing.T, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rgba := image.NewRGBA(image.Rect(0, 0, testFrameSize, testFrameSize))
	for y := 0; y < testFrameSize; y++ {
		for x := 0; x < testFrameSize; x++ {
			i := rgba.PixOffset(x, y)
			inFace := x >= testFaceOrigin && x < testFaceOrigin+testFaceSize &&
				y >= testFaceOrigin && y < testFaceOrigin+testFaceSize
			if inFace {
				rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2] = 140, 140, 140
			} else {
				rgba.Pix[i] = uint8(rng.Intn(256))
				rgba.Pix[i+1] = uint8(rng.Intn(256))
				rgba.Pix[i+2] = uint8(rng.Intn(256))
			}
			rgba.Pix[i+3] = 255
		}
	}
	return encodePNG(t, rgba)
}

func TestEngine_CheckSingleFrame(t *testing.T) {
	locator := &stubLocator{region: &testFaceRegion}

	t.Run("sharp frame with a face passes", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		v := e.CheckSingleFrame(context.Background(), liveFrame(t, 1))
		assert.True(t, v.Passed)
		assert.Equal(t, "OK", v.Reason)
		assert.Greater(t, v.BlurScore, 25.0)
	})

	t.Run("undecodable bytes are rejected", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		v := e.CheckSingleFrame(context.Background(), []byte("not an image"))
		assert.False(t, v.Passed)
		assert.Equal(t, "could not decode image", v.Reason)
	})

	t.Run("blurry frame is rejected", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		v := e.CheckSingleFrame(context.Background(), flatFrame(t))
		assert.False(t, v.Passed)
		assert.Contains(t, v.Reason, "image too blurry")
	})

	t.Run("frame without a face is rejected", func(t *testing.T) {
		e := newTestEngine(&stubLocator{}, nil)
		v := e.CheckSingleFrame(context.Background(), liveFrame(t, 2))
		assert.False(t, v.Passed)
		assert.Equal(t, "no face detected", v.Reason)
	})

	t.Run("locator error counts as no detection", func(t *testing.T) {
		e := newTestEngine(&stubLocator{err: errors.New("detector offline")}, nil)
		v := e.CheckSingleFrame(context.Background(), liveFrame(t, 3))
		assert.False(t, v.Passed)
		assert.Equal(t, "no face detected", v.Reason)
	})
}

func TestEngine_CheckSequence(t *testing.T) {
	locator := &stubLocator{region: &testFaceRegion}

	t.Run("live burst passes", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		frames := [][]byte{liveFrame(t, 10), liveFrame(t, 11), liveFrame(t, 12)}
		v := e.CheckSequence(context.Background(), frames)
		assert.True(t, v.Passed)
		assert.Equal(t, "OK", v.Reason)
		assert.Greater(t, v.MotionScore, 0.8)
	})

	t.Run("too few frames", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		v := e.CheckSequence(context.Background(), [][]byte{liveFrame(t, 13)})
		assert.False(t, v.Passed)
		assert.Equal(t, "not enough frames", v.Reason)
	})

	t.Run("triage discards bad frames", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		frames := [][]byte{[]byte("junk"), flatFrame(t), liveFrame(t, 14)}
		v := e.CheckSequence(context.Background(), frames)
		assert.False(t, v.Passed)
		assert.Equal(t, "not enough usable frames", v.Reason)
	})

	t.Run("no face in any frame", func(t *testing.T) {
		e := newTestEngine(&stubLocator{}, nil)
		frames := [][]byte{liveFrame(t, 15), liveFrame(t, 16)}
		v := e.CheckSequence(context.Background(), frames)
		assert.False(t, v.Passed)
		assert.Equal(t, "no face detected in frames", v.Reason)
	})

	t.Run("flat reproduced face fails the spatial battery", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		frames := [][]byte{spoofFrame(t, 20), spoofFrame(t, 21)}
		v := e.CheckSequence(context.Background(), frames)
		assert.False(t, v.Passed)
		assert.Contains(t, v.Reason, "anti-spoof failed")
		assert.Contains(t, v.Reason, "texture(entropy=")
		assert.Contains(t, v.Reason, "flat_colour(cr_var=")
	})

	t.Run("static replay fails the motion gate", func(t *testing.T) {
		e := newTestEngine(locator, nil)
		same := liveFrame(t, 30)
		v := e.CheckSequence(context.Background(), [][]byte{same, same, same})
		assert.False(t, v.Passed)
		assert.Contains(t, v.Reason, "insufficient motion")
		assert.Contains(t, v.Reason, "possible photo replay")
	})

	t.Run("tiny face skips spatial signals but motion still applies", func(t *testing.T) {
		tiny := vision.FaceRegion{X: 70, Y: 70, Width: 20, Height: 20}
		e := newTestEngine(&stubLocator{region: &tiny}, nil)
		same := spoofFrame(t, 40)
		v := e.CheckSequence(context.Background(), [][]byte{same, same})
		assert.False(t, v.Passed)
		assert.Contains(t, v.Reason, "insufficient motion")
	})

	t.Run("flat depth map fails alongside one spatial signal", func(t *testing.T) {
		depth := &stubDepth{m: flatDepthMap(64, 64, 42)}
		cfg := DefaultConfig()
		// Tighten chroma so the green-heavy palette fails flat_colour,
		// pairing with flat_depth to reach the fail limit.
		cfg.ChromaVarMin = 1e9
		e := NewEngine(locator, depth, cfg, testLogger())
		frames := [][]byte{liveFrame(t, 50), liveFrame(t, 51)}
		v := e.CheckSequence(context.Background(), frames)
		assert.False(t, v.Passed)
		assert.Contains(t, v.Reason, "anti-spoof failed")
		assert.Contains(t, v.Reason, "flat_depth(range=")
	})

	t.Run("dome depth map does not add a failure", func(t *testing.T) {
		depth := &stubDepth{m: domeDepthMap(64, 64)}
		e := newTestEngine(locator, depth)
		frames := [][]byte{liveFrame(t, 60), liveFrame(t, 61)}
		v := e.CheckSequence(context.Background(), frames)
		assert.True(t, v.Passed)
	})

	t.Run("depth estimator error skips the depth signal", func(t *testing.T) {
		depth := &stubDepth{err: errors.New("sidecar down")}
		e := newTestEngine(locator, depth)
		frames := [][]byte{liveFrame(t, 70), liveFrame(t, 71)}
		v := e.CheckSequence(context.Background(), frames)
		assert.True(t, v.Passed)
	})
}

func TestVerdictReasonFormat(t *testing.T) {
	e := newTestEngine(&stubLocator{region: &testFaceRegion}, nil)
	v := e.CheckSingleFrame(context.Background(), flatFrame(t))
	assert.True(t, strings.HasPrefix(v.Reason, "image too blurry (score="))
	assert.True(t, strings.HasSuffix(v.Reason, ")"))
}
