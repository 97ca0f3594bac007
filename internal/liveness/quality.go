package liveness

import "image"

// LaplacianVariance scores frame sharpness as the variance of the
// 4-neighbor Laplacian over the interior of a grayscale image. Higher
// means sharper; blurry captures and low-quality printouts score low.
func LaplacianVariance(gray *image.Gray) float64 {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	if w < 3 || h < 3 {
		return 0
	}

	var sum, sumSq float64
	n := 0

	for y := 1; y < h-1; y++ {
		row := gray.Pix[y*gray.Stride:]
		up := gray.Pix[(y-1)*gray.Stride:]
		down := gray.Pix[(y+1)*gray.Stride:]
		for x := 1; x < w-1; x++ {
			v := float64(int(up[x]) + int(down[x]) + int(row[x-1]) + int(row[x+1]) - 4*int(row[x]))
			sum += v
			sumSq += v * v
			n++
		}
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
