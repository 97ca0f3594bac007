package liveness

import (
	"image"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/veriface-labs/veriface/internal/vision"
)

const (
	moireSize      = 128
	moireLowRadius = 15.0
)

// MoireRatio measures high-frequency energy concentration via a 2-D FFT
// of a 128×128 face crop. Photographing a display interferes the camera
// sensor grid with the screen pixel grid, pushing spectral energy outside
// the low-frequency disk and raising this ratio toward 1.
func MoireRatio(grayFace *image.Gray) float64 {
	face := vision.ResizeGray(grayFace, moireSize, moireSize)
	n := moireSize

	buf := make([]complex128, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			buf[y*n+x] = complex(float64(face.Pix[y*face.Stride+x]), 0)
		}
	}

	fft := fourier.NewCmplxFFT(n)

	// Row pass, then column pass.
	scratch := make([]complex128, n)
	for y := 0; y < n; y++ {
		copy(scratch, buf[y*n:(y+1)*n])
		fft.Coefficients(buf[y*n:(y+1)*n], scratch)
	}
	out := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			scratch[y] = buf[y*n+x]
		}
		fft.Coefficients(out, scratch)
		for y := 0; y < n; y++ {
			buf[y*n+x] = out[y]
		}
	}

	// Log-magnitude spectrum, zero frequency shifted to the center.
	half := n / 2
	var total, low float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			mag := math.Log1p(cmplx.Abs(buf[y*n+x]))
			total += mag

			dy := float64((y+half)%n - half)
			dx := float64((x+half)%n - half)
			if math.Sqrt(dx*dx+dy*dy) <= moireLowRadius {
				low += mag
			}
		}
	}

	if total < 1e-10 {
		return 0
	}
	return (total - low) / total
}
