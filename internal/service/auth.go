// Package service implements the face enrollment and login flows on top
// of the liveness engine, the matcher and the persistence layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veriface-labs/veriface/internal/auth"
	"github.com/veriface-labs/veriface/internal/domain"
	"github.com/veriface-labs/veriface/internal/liveness"
	"github.com/veriface-labs/veriface/internal/matcher"
	"github.com/veriface-labs/veriface/internal/provider"
	"github.com/veriface-labs/veriface/internal/vision"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByName(ctx context.Context, name string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error
}

type AuthAttemptRepositoryInterface interface {
	Create(ctx context.Context, attempt *domain.AuthAttempt) error
}

type RateLimiterInterface interface {
	CheckLoginLimit(ctx context.Context, name, ip string, limit int) error
}

type LivenessEngineInterface interface {
	CheckSingleFrame(ctx context.Context, data []byte) liveness.Verdict
	CheckSequence(ctx context.Context, frames [][]byte) liveness.Verdict
}

// RegisterResult is the outcome of a successful enrollment
type RegisterResult struct {
	User   *domain.User    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// LoginResult is the outcome of a face login attempt
type LoginResult struct {
	User       *domain.User    `json:"user"`
	Tokens     *auth.TokenPair `json:"tokens"`
	Similarity float64         `json:"similarity"`
	Liveness   liveness.Verdict `json:"liveness"`
}

type AuthService struct {
	userRepo    UserRepositoryInterface
	attemptRepo AuthAttemptRepositoryInterface
	limiter     RateLimiterInterface
	liveness    LivenessEngineInterface
	embedder    provider.EmbeddingExtractor
	jwt         *auth.JWTService
	threshold   float64
	alpha       float64
	loginLimit  int
	logger      *slog.Logger
}

func NewAuthService(
	userRepo UserRepositoryInterface,
	attemptRepo AuthAttemptRepositoryInterface,
	limiter RateLimiterInterface,
	livenessEngine LivenessEngineInterface,
	embedder provider.EmbeddingExtractor,
	jwtService *auth.JWTService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		limiter:     limiter,
		liveness:    livenessEngine,
		embedder:    embedder,
		jwt:         jwtService,
		threshold:   0.593,
		alpha:       0.05,
		loginLimit:  10,
		logger:      logger,
	}
}

func (s *AuthService) WithThreshold(threshold float64) *AuthService {
	s.threshold = threshold
	return s
}

func (s *AuthService) WithAdaptiveAlpha(alpha float64) *AuthService {
	s.alpha = alpha
	return s
}

func (s *AuthService) WithLoginLimit(limit int) *AuthService {
	s.loginLimit = limit
	return s
}

// RegisterFace enrolls a new user from a single still. Enrollment runs
// quality and presence checks but not the anti-spoof battery; the spoof
// gate sits on login, where impersonation attempts actually happen.
func (s *AuthService) RegisterFace(ctx context.Context, name, phoneNumber string, image []byte) (*RegisterResult, error) {
	verdict := s.liveness.CheckSingleFrame(ctx, image)
	if !verdict.Passed {
		return nil, domain.ErrInvalidImage.WithDetails("%s", verdict.Reason)
	}

	frame, err := vision.DecodeFrame(image)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	embedding, err := s.embedder.Embed(ctx, frame)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("extract embedding: %w", err))
	}
	if len(embedding) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	user := &domain.User{
		Name:         name,
		PhoneNumber:  phoneNumber,
		Embedding:    matcher.Normalize(embedding),
		FaceEnrolled: true,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.jwt.GeneratePair(user.ID, user.Name)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("generate tokens: %w", err))
	}

	s.logger.Info("user enrolled",
		slog.String("user_id", user.ID.String()),
		slog.Float64("blur_score", verdict.BlurScore),
	)

	return &RegisterResult{User: user, Tokens: tokens}, nil
}

// LoginFace authenticates a user from a frame burst: rate limit, sequence
// liveness, embedding of the middle frame, template comparison, audit
// record, adaptive template update, token issuance. The middle frame is
// used for identity because burst edges tend to carry motion blur.
func (s *AuthService) LoginFace(ctx context.Context, name string, frames [][]byte, clientIP string) (*LoginResult, error) {
	if err := s.limiter.CheckLoginLimit(ctx, name, clientIP, s.loginLimit); err != nil {
		return nil, domain.ErrRateLimitExceeded.WithError(err)
	}

	user, err := s.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized.WithDetails("account is disabled")
	}
	if !user.FaceEnrolled || len(user.Embedding) == 0 {
		return nil, domain.ErrUnauthorized.WithDetails("no face enrolled for this account")
	}

	verdict := s.liveness.CheckSequence(ctx, frames)
	if !verdict.Passed {
		s.audit(ctx, user.ID, false, nil, &verdict.Passed, verdict.Reason, clientIP)
		return nil, domain.ErrLivenessFailed.WithDetails("%s", verdict.Reason)
	}

	frame, err := vision.DecodeFrame(frames[len(frames)/2])
	if err != nil {
		s.audit(ctx, user.ID, false, nil, &verdict.Passed, "could not decode image", clientIP)
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	embedding, err := s.embedder.Embed(ctx, frame)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("extract embedding: %w", err))
	}
	if len(embedding) == 0 {
		s.audit(ctx, user.ID, false, nil, &verdict.Passed, "no face detected in frames", clientIP)
		return nil, domain.ErrNoFaceDetected
	}

	live := matcher.Normalize(embedding)
	result := matcher.Compare(live, user.Embedding, s.threshold)

	s.audit(ctx, user.ID, result.IsMatch, &result.Similarity, &verdict.Passed, "", clientIP)

	if !result.IsMatch {
		s.logger.Info("face mismatch",
			slog.String("user_id", user.ID.String()),
			slog.Float64("similarity", result.Similarity),
		)
		return nil, domain.ErrFaceMismatch
	}

	// Template drift update is best-effort: a failed write must not block
	// a login that already succeeded.
	updated := matcher.AdaptiveUpdate(user.Embedding, live, s.alpha)
	if err := s.userRepo.UpdateEmbedding(ctx, user.ID, updated); err != nil {
		s.logger.Warn("adaptive template update failed",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err),
		)
	}

	tokens, err := s.jwt.GeneratePair(user.ID, user.Name)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("issue tokens: %w", err))
	}

	s.logger.Info("face login succeeded",
		slog.String("user_id", user.ID.String()),
		slog.Float64("similarity", result.Similarity),
		slog.Float64("motion_score", verdict.MotionScore),
	)

	return &LoginResult{
		User:       user,
		Tokens:     tokens,
		Similarity: result.Similarity,
		Liveness:   verdict,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken.WithError(err)
	}

	// The account may have been disabled since the token was issued
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized.WithDetails("account is disabled")
	}

	tokens, err := s.jwt.GeneratePair(user.ID, user.Name)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("issue tokens: %w", err))
	}

	return tokens, nil
}

// GetUser fetches a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// audit records a login attempt. Errors are intentionally not returned;
// the authentication decision was already made.
func (s *AuthService) audit(ctx context.Context, userID uuid.UUID, success bool, similarity *float64, livenessPassed *bool, reason, ip string) {
	attempt := &domain.AuthAttempt{
		UserID:         &userID,
		Success:        success,
		Similarity:     similarity,
		LivenessPassed: livenessPassed,
		FailureReason:  reason,
		IPAddress:      ip,
		CreatedAt:      time.Now(),
	}
	_ = s.attemptRepo.Create(ctx, attempt)
}
