// Package vision holds the pixel-level primitives shared by the liveness
// engine and the face providers: frame decoding, grayscale conversion,
// cropping and resampling. Frames are ephemeral and caller-owned; nothing
// in this package retains pixel data between calls.
package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when the input bytes are not a decodable image.
var ErrDecode = errors.New("could not decode image")

// Frame is a decoded 8-bit color frame plus its grayscale projection.
type Frame struct {
	// Bytes is the original encoded payload, kept so providers that
	// consume compressed images (e.g. cloud detectors) need no re-encode.
	Bytes []byte

	RGBA *image.RGBA
	Gray *image.Gray

	Width  int
	Height int
}

// DecodeFrame decodes JPEG, PNG or WebP bytes into a Frame.
func DecodeFrame(data []byte) (*Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecode
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)

	return &Frame{
		Bytes:  data,
		RGBA:   rgba,
		Gray:   Grayscale(rgba),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Grayscale converts to 8-bit luma with the BT.601 weights
// (0.299 R + 0.587 G + 0.114 B).
func Grayscale(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r := uint32(src.Pix[si])
			g := uint32(src.Pix[si+1])
			bb := uint32(src.Pix[si+2])
			dst.Pix[di] = uint8((299*r + 587*g + 114*bb + 500) / 1000)
			si += 4
			di++
		}
	}

	return dst
}

// ResizeGray resamples a grayscale image to w×h using bilinear
// interpolation. Returns the source unchanged when already that size.
func ResizeGray(src *image.Gray, w, h int) *image.Gray {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// CropGray copies the region of the frame's grayscale plane into a
// standalone image. The region is clamped to frame bounds first.
func (f *Frame) CropGray(r FaceRegion) *image.Gray {
	r = r.Clamp(f.Width, f.Height)
	dst := image.NewGray(image.Rect(0, 0, r.Width, r.Height))

	for y := 0; y < r.Height; y++ {
		si := f.Gray.PixOffset(r.X, r.Y+y)
		di := dst.PixOffset(0, y)
		copy(dst.Pix[di:di+r.Width], f.Gray.Pix[si:si+r.Width])
	}

	return dst
}

// GrayAt returns the luma value at (x, y) without bounds checking helpers;
// callers stay inside the frame.
func (f *Frame) GrayAt(x, y int) uint8 {
	return f.Gray.Pix[f.Gray.PixOffset(x, y)]
}

// RGBAAt returns the color at (x, y).
func (f *Frame) RGBAAt(x, y int) color.RGBA {
	return f.RGBA.RGBAAt(x, y)
}
