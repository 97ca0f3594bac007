package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veriface-labs/veriface/internal/domain"
)

type AuthAttemptRepository struct {
	pool PgxPool
}

func NewAuthAttemptRepository(pool PgxPool) *AuthAttemptRepository {
	return &AuthAttemptRepository{pool: pool}
}

// Create records one login attempt, successful or not
func (r *AuthAttemptRepository) Create(ctx context.Context, attempt *domain.AuthAttempt) error {
	query := `
		INSERT INTO auth_attempts (id, user_id, success, similarity, liveness_passed, failure_reason, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.Success,
		attempt.Similarity,
		attempt.LivenessPassed,
		attempt.FailureReason,
		attempt.IPAddress,
	).Scan(&attempt.CreatedAt)

	if err != nil {
		return fmt.Errorf("create auth attempt: %w", err)
	}

	return nil
}

// CountRecentFailures counts failed attempts for a user inside the window
func (r *AuthAttemptRepository) CountRecentFailures(ctx context.Context, userID uuid.UUID, window time.Duration) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM auth_attempts
		WHERE user_id = $1 AND success = FALSE AND created_at > $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, userID, time.Now().Add(-window)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent failures: %w", err)
	}

	return count, nil
}

var _ AuthAttemptRepositoryInterface = (*AuthAttemptRepository)(nil)
