package inference

import "errors"

var (
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	ErrInvalidResponse      = errors.New("invalid response from inference service")
)
