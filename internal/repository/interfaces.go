package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veriface-labs/veriface/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it for unit tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepositoryInterface defines operations for user data access
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByName(ctx context.Context, name string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error
}

// AuthAttemptRepositoryInterface defines operations for login audit records
type AuthAttemptRepositoryInterface interface {
	Create(ctx context.Context, attempt *domain.AuthAttempt) error
	CountRecentFailures(ctx context.Context, userID uuid.UUID, window time.Duration) (int, error)
}
