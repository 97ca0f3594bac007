package inference

// EmbedRequest is the request body for POST /embed
type EmbedRequest struct {
	Img   string `json:"img"`
	Model string `json:"model_name,omitempty"`
}

// EmbedResponse is the response from POST /embed
type EmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// DepthRequest is the request body for POST /depth
type DepthRequest struct {
	Img string `json:"img"`
}

// DepthResponse is the response from POST /depth. Depth is a row-major
// relative depth map, typically much smaller than the input image.
type DepthResponse struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Depth []float32 `json:"depth"`
}
