package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity enrolled by face. The embedding is the stored
// template: a unit-normalized 128-d vector created at enrollment and
// nudged toward recent live samples after every successful login.
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PhoneNumber   string    `json:"phone_number"`
	Embedding     []float64 `json:"-"`
	FaceEnrolled  bool      `json:"face_enrolled"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuthAttempt is the audit record written for every face login,
// successful or not.
type AuthAttempt struct {
	ID             uuid.UUID  `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	Success        bool       `json:"success"`
	Similarity     *float64   `json:"similarity,omitempty"`
	LivenessPassed *bool      `json:"liveness_passed,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	IPAddress      string     `json:"ip_address,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
