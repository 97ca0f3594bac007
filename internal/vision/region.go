package vision

// FaceRegion is an axis-aligned rectangle in frame coordinates.
type FaceRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the region has no area.
func (r FaceRegion) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// TooSmall reports whether either dimension is below min pixels; such
// regions carry too little signal for spatial anti-spoof analysis.
func (r FaceRegion) TooSmall(min int) bool {
	return r.Width < min || r.Height < min
}

// Clamp confines the region to a w×h frame.
func (r FaceRegion) Clamp(w, h int) FaceRegion {
	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.X+r.Width > w {
		r.Width = w - r.X
	}
	if r.Y+r.Height > h {
		r.Height = h - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Scale maps the region into another coordinate space by linear scaling,
// keeping at least one pixel in each dimension.
func (r FaceRegion) Scale(sx, sy float64) FaceRegion {
	scaled := FaceRegion{
		X:      int(float64(r.X) * sx),
		Y:      int(float64(r.Y) * sy),
		Width:  int(float64(r.Width) * sx),
		Height: int(float64(r.Height) * sy),
	}
	if scaled.Width < 1 {
		scaled.Width = 1
	}
	if scaled.Height < 1 {
		scaled.Height = 1
	}
	return scaled
}
