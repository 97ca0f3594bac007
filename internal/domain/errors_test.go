package domain

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrUserNotFound,
			expected: "User not found",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
		{
			name:     "error with details",
			appErr:   ErrLivenessFailed.WithDetails("insufficient motion (0.120): possible photo replay"),
			expected: "Liveness check failed: insufficient motion (0.120): possible photo replay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	// Test with nil error
	appErrNoWrap := ErrUserNotFound
	if got := appErrNoWrap.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("connection refused")
	wrapped := ErrInternal.WithError(underlying)

	if wrapped == ErrInternal {
		t.Error("WithError() should return a copy, not mutate the sentinel")
	}
	if wrapped.Code != ErrInternal.Code {
		t.Errorf("Code = %v, want %v", wrapped.Code, ErrInternal.Code)
	}
	if !errors.Is(wrapped, underlying) {
		t.Error("wrapped error should unwrap to the underlying error")
	}
	if ErrInternal.Err != nil {
		t.Error("sentinel must stay unwrapped")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("at least %d frames are required", 2)

	if detailed == ErrValidationFailed {
		t.Error("WithDetails() should return a copy, not mutate the sentinel")
	}
	if detailed.Details != "at least 2 frames are required" {
		t.Errorf("Details = %q", detailed.Details)
	}
	if detailed.StatusCode != ErrValidationFailed.StatusCode {
		t.Errorf("StatusCode = %d, want %d", detailed.StatusCode, ErrValidationFailed.StatusCode)
	}
	if ErrValidationFailed.Details != "" {
		t.Error("sentinel must stay without details")
	}
}

func TestPredefinedErrorStatusCodes(t *testing.T) {
	tests := []struct {
		appErr *AppError
		status int
	}{
		{ErrInternal, 500},
		{ErrBadRequest, 400},
		{ErrUnauthorized, 401},
		{ErrInvalidToken, 401},
		{ErrUserNotFound, 404},
		{ErrUserExists, 409},
		{ErrInvalidImage, 422},
		{ErrImageTooLarge, 413},
		{ErrNoFaceDetected, 422},
		{ErrLivenessFailed, 401},
		{ErrFaceMismatch, 401},
		{ErrRateLimitExceeded, 429},
		{ErrValidationFailed, 422},
	}

	for _, tt := range tests {
		t.Run(tt.appErr.Code, func(t *testing.T) {
			if tt.appErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", tt.appErr.StatusCode, tt.status)
			}
		})
	}
}
