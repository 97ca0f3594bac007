package liveness

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

func grayFlat(w, h int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func grayNoise(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestLaplacianVariance(t *testing.T) {
	t.Run("flat image has zero variance", func(t *testing.T) {
		assert.Zero(t, LaplacianVariance(grayFlat(64, 64, 128)))
	})

	t.Run("noise has high variance", func(t *testing.T) {
		v := LaplacianVariance(grayNoise(64, 64, 1))
		assert.Greater(t, v, 100.0)
	})

	t.Run("sharper image scores higher than smoothed", func(t *testing.T) {
		sharp := grayNoise(64, 64, 2)
		smooth := vision.ResizeGray(vision.ResizeGray(sharp, 16, 16), 64, 64)
		assert.Greater(t, LaplacianVariance(sharp), LaplacianVariance(smooth))
	})

	t.Run("degenerate image returns zero", func(t *testing.T) {
		assert.Zero(t, LaplacianVariance(grayFlat(2, 2, 10)))
	})
}

func TestTextureEntropy(t *testing.T) {
	t.Run("uniform region has zero entropy", func(t *testing.T) {
		assert.Zero(t, TextureEntropy(grayFlat(100, 100, 77)))
	})

	t.Run("noise exceeds the live-skin floor", func(t *testing.T) {
		e := TextureEntropy(grayNoise(100, 100, 3))
		assert.Greater(t, e, 4.5)
	})

	t.Run("entropy bounded by eight bits", func(t *testing.T) {
		e := TextureEntropy(grayNoise(100, 100, 4))
		assert.LessOrEqual(t, e, 8.0)
	})
}

func TestMoireRatio(t *testing.T) {
	t.Run("flat region concentrates energy at DC", func(t *testing.T) {
		r := MoireRatio(grayFlat(128, 128, 128))
		assert.Less(t, r, 0.1)
	})

	t.Run("ratio stays in unit range", func(t *testing.T) {
		r := MoireRatio(grayNoise(128, 128, 5))
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	})

	t.Run("broadband noise scores higher than smooth content", func(t *testing.T) {
		noise := MoireRatio(grayNoise(128, 128, 6))
		smooth := MoireRatio(vision.ResizeGray(grayNoise(16, 16, 6), 128, 128))
		assert.Greater(t, noise, smooth)
	})
}

func TestChromaVariance(t *testing.T) {
	region := vision.FaceRegion{X: 10, Y: 10, Width: 80, Height: 80}

	t.Run("flat colour yields near-zero variance", func(t *testing.T) {
		frame := rgbaFrame(t, 100, 100, func(x, y int) (uint8, uint8, uint8) {
			return 128, 128, 128
		})
		v := ChromaVariance(frame, region)
		assert.Less(t, v, 1.0)
	})

	t.Run("varied red channel yields high variance", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		frame := rgbaFrame(t, 100, 100, func(x, y int) (uint8, uint8, uint8) {
			return uint8(64 + rng.Intn(128)), 128, 128
		})
		v := ChromaVariance(frame, region)
		assert.Greater(t, v, 8.0)
	})

	t.Run("empty region reports the sentinel value", func(t *testing.T) {
		frame := rgbaFrame(t, 100, 100, func(x, y int) (uint8, uint8, uint8) {
			return 128, 128, 128
		})
		v := ChromaVariance(frame, vision.FaceRegion{X: 99, Y: 99, Width: 0, Height: 0})
		assert.Equal(t, 100.0, v)
	})
}

func TestAnalyzeDepth(t *testing.T) {
	region := vision.FaceRegion{X: 0, Y: 0, Width: 160, Height: 160}

	t.Run("dome surface passes both geometry floors", func(t *testing.T) {
		m := domeDepthMap(64, 64)
		st, ok := AnalyzeDepth(m, region, 160, 160)
		require.True(t, ok)
		assert.Greater(t, st.Std, 5.0)
		assert.Greater(t, st.Gradient, 15.0)
	})

	t.Run("flat surface fails both floors", func(t *testing.T) {
		m := flatDepthMap(64, 64, 50)
		st, ok := AnalyzeDepth(m, region, 160, 160)
		require.True(t, ok)
		assert.Less(t, st.Std, 5.0)
		assert.Less(t, st.Gradient, 15.0)
	})

	t.Run("tiny ROI is skipped", func(t *testing.T) {
		m := domeDepthMap(64, 64)
		small := vision.FaceRegion{X: 0, Y: 0, Width: 8, Height: 8}
		_, ok := AnalyzeDepth(m, small, 160, 160)
		assert.False(t, ok)
	})
}

func TestMotionScore(t *testing.T) {
	t.Run("identical frames have zero motion", func(t *testing.T) {
		a := grayNoise(64, 64, 8)
		b := grayNoise(64, 64, 8)
		assert.Zero(t, MotionScore([]*image.Gray{a, b}))
	})

	t.Run("independent noise frames have high motion", func(t *testing.T) {
		frames := []*image.Gray{
			grayNoise(64, 64, 9),
			grayNoise(64, 64, 10),
			grayNoise(64, 64, 11),
		}
		assert.Greater(t, MotionScore(frames), 0.8)
	})

	t.Run("single frame scores zero", func(t *testing.T) {
		assert.Zero(t, MotionScore([]*image.Gray{grayNoise(64, 64, 12)}))
	})
}

func rgbaFrame(t *testing.T, w, h int, pixel func(x, y int) (uint8, uint8, uint8)) *vision.Frame {
	t.Helper()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := pixel(x, y)
			i := rgba.PixOffset(x, y)
			rgba.Pix[i] = r
			rgba.Pix[i+1] = g
			rgba.Pix[i+2] = b
			rgba.Pix[i+3] = 255
		}
	}
	return &vision.Frame{
		RGBA:   rgba,
		Gray:   vision.Grayscale(rgba),
		Width:  w,
		Height: h,
	}
}

func domeDepthMap(rows, cols int) *provider.DepthMap {
	data := make([]float32, rows*cols)
	cy, cx := float64(rows)/2, float64(cols)/2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dy := (float64(r) - cy) / cy
			dx := (float64(c) - cx) / cx
			data[r*cols+c] = float32(100 * (1 - (dy*dy+dx*dx)/2))
		}
	}
	return &provider.DepthMap{Rows: rows, Cols: cols, Data: data}
}

func flatDepthMap(rows, cols int, value float32) *provider.DepthMap {
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = value
	}
	return &provider.DepthMap{Rows: rows, Cols: cols, Data: data}
}
