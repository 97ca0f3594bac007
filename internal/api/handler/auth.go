package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/veriface-labs/veriface/internal/api/middleware"
	"github.com/veriface-labs/veriface/internal/auth"
	"github.com/veriface-labs/veriface/internal/domain"
	"github.com/veriface-labs/veriface/internal/service"
)

const (
	// maxFrames caps a login burst; anything longer adds latency without
	// improving the liveness decision
	maxFrames = 10
	minFrames = 2
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AuthService interface for the service
type AuthService interface {
	RegisterFace(ctx context.Context, name, phoneNumber string, image []byte) (*service.RegisterResult, error)
	LoginFace(ctx context.Context, name string, frames [][]byte, clientIP string) (*service.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler handles face authentication requests
type AuthHandler struct {
	service      AuthService
	maxImageSize int64
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service AuthService, maxImageSize int64, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

// RegisterResponse response for the enrollment endpoint
type RegisterResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	FaceEnrolled bool   `json:"face_enrolled"`
	CreatedAt    string `json:"created_at"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse response for the face login endpoint
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"`
	Similarity   float64 `json:"similarity"`
	MotionScore  float64 `json:"motion_score"`
}

// RefreshRequest request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MeResponse response for the current-user endpoint
type MeResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	FaceEnrolled bool   `json:"face_enrolled"`
	CreatedAt    string `json:"created_at"`
}

// RegisterFace POST /api/v1/auth/register-face - enroll a user from one still
func (h *AuthHandler) RegisterFace(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}
	phoneNumber := strings.TrimSpace(c.FormValue("phone_number"))

	image, err := h.readImageFile(c, "face_image")
	if err != nil {
		return err
	}

	result, err := h.service.RegisterFace(c.Context(), name, phoneNumber, image)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		UserID:       result.User.ID.String(),
		Name:         result.User.Name,
		FaceEnrolled: result.User.FaceEnrolled,
		CreatedAt:    result.User.CreatedAt.Format("2006-01-02T15:04:05Z"),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
	})
}

// LoginFace POST /api/v1/auth/login/face - authenticate from a frame burst
func (h *AuthHandler) LoginFace(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	files := form.File["face_frames"]
	if len(files) < minFrames {
		return domain.ErrValidationFailed.WithDetails("at least %d frames are required", minFrames)
	}
	if len(files) > maxFrames {
		return domain.ErrValidationFailed.WithDetails("at most %d frames are accepted", maxFrames)
	}

	frames := make([][]byte, 0, len(files))
	for _, file := range files {
		data, err := h.readFile(file)
		if err != nil {
			return err
		}
		frames = append(frames, data)
	}

	result, err := h.service.LoginFace(c.Context(), name, frames, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		Similarity:   result.Similarity,
		MotionScore:  result.Liveness.MotionScore,
	})
}

// RefreshToken POST /api/v1/auth/token/refresh - exchange a refresh token
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.RefreshToken == "" {
		return domain.ErrValidationFailed.WithError(errors.New("refresh_token is required"))
	}

	tokens, err := h.service.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(tokens)
}

// Me GET /api/v1/auth/me - return the authenticated user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(MeResponse{
		UserID:       user.ID.String(),
		Name:         user.Name,
		PhoneNumber:  user.PhoneNumber,
		FaceEnrolled: user.FaceEnrolled,
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// readImageFile extracts and validates a single image form file
func (h *AuthHandler) readImageFile(c *fiber.Ctx, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}
	return h.readFile(file)
}

func (h *AuthHandler) readFile(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > h.maxImageSize {
		return nil, domain.ErrImageTooLarge
	}
	if file.Size == 0 {
		return nil, domain.ErrInvalidImage
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithDetails("unsupported content type %q", contentType)
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return data, nil
}
