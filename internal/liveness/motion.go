package liveness

import "image"

// MotionScore averages the mean absolute pixel difference of each
// consecutive frame pair over full grayscale frames. A live subject shows
// micro-movement (blinking, head drift); a replayed static image scores
// near zero.
func MotionScore(grays []*image.Gray) float64 {
	if len(grays) < 2 {
		return 0
	}

	var total float64
	pairs := 0

	for i := 1; i < len(grays); i++ {
		a, b := grays[i-1], grays[i]

		w := a.Bounds().Dx()
		if bw := b.Bounds().Dx(); bw < w {
			w = bw
		}
		h := a.Bounds().Dy()
		if bh := b.Bounds().Dy(); bh < h {
			h = bh
		}
		if w == 0 || h == 0 {
			continue
		}

		var sum float64
		for y := 0; y < h; y++ {
			ai := y * a.Stride
			bi := y * b.Stride
			for x := 0; x < w; x++ {
				d := int(a.Pix[ai+x]) - int(b.Pix[bi+x])
				if d < 0 {
					d = -d
				}
				sum += float64(d)
			}
		}

		total += sum / float64(w*h)
		pairs++
	}

	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}
