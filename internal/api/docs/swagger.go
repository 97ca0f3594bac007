package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// RegisterFaceResponse represents the response for a successful enrollment
type RegisterFaceResponse struct {
	UserID       string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string `json:"name" example:"alice"`
	FaceEnrolled bool   `json:"face_enrolled" example:"true"`
	CreatedAt    string `json:"created_at" example:"2024-01-01T00:00:00Z"`
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	ExpiresIn    int64  `json:"expires_in" example:"900"`
}

// LoginFaceResponse represents the response for a successful face login
type LoginFaceResponse struct {
	AccessToken  string  `json:"access_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	RefreshToken string  `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	ExpiresIn    int64   `json:"expires_in" example:"900"`
	Similarity   float64 `json:"similarity" example:"0.87"`
	MotionScore  float64 `json:"motion_score" example:"2.4"`
}

// RefreshTokenRequest represents the token refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
}

// TokenPairResponse represents a fresh token pair
type TokenPairResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	ExpiresIn    int64  `json:"expires_in" example:"900"`
}

// MeResponse represents the authenticated user
type MeResponse struct {
	UserID       string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string `json:"name" example:"alice"`
	PhoneNumber  string `json:"phone_number" example:"+15550100"`
	FaceEnrolled bool   `json:"face_enrolled" example:"true"`
	CreatedAt    string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"LIVENESS_FAILED"`
	Message string `json:"message" example:"Liveness check failed"`
	Details string `json:"details,omitempty" example:"insufficient motion (0.312): possible photo replay"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "VeriFace Authentication API",
		Version:     "v1.0.0",
		Description: "Face authentication with passive liveness detection: enrollment, spoof-resistant login over frame bursts, and JWT session management",
		Host:        "localhost:8000",
		Path:        "/api/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /api/v1/auth/register-face - Enroll a face
		endpoint.New(
			endpoint.POST,
			"/auth/register-face",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Enroll a user from a single still image"),
			endpoint.WithDescription("Runs quality and face-presence checks on the submitted image, extracts the face embedding and stores it as the user's template."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterFaceResponse{}, "201", "User enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "USER_EXISTS", Message: "User already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "IMAGE_TOO_LARGE", Message: "Image exceeds upload limit"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image failed quality checks"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /api/v1/auth/login/face - Face login
		endpoint.New(
			endpoint.POST,
			"/auth/login/face",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate a user from a short frame burst"),
			endpoint.WithDescription("Runs the full liveness pipeline (blur triage, texture, screen pattern, colour flatness, depth geometry, inter-frame motion) over the submitted frames, then compares the live embedding against the stored template and issues a JWT pair on match."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginFaceResponse{}, "200", "Login succeeded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "LIVENESS_FAILED", Message: "Liveness check failed"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "FACE_MISMATCH", Message: "Face does not match enrolled template"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "USER_NOT_FOUND", Message: "User not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Too many login attempts"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /api/v1/auth/token/refresh - Refresh tokens
		endpoint.New(
			endpoint.POST,
			"/auth/token/refresh",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Exchange a refresh token for a fresh token pair"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(RefreshTokenRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TokenPairResponse{}, "200", "Tokens refreshed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or expired token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /api/v1/auth/me - Current user
		endpoint.New(
			endpoint.GET,
			"/auth/me",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Return the authenticated user"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MeResponse{}, "200", "Authenticated user"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "USER_NOT_FOUND", Message: "User not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /health - Liveness probe
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Service health check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is healthy"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
