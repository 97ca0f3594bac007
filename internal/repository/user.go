package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/veriface-labs/veriface/internal/domain"
)

type UserRepository struct {
	pool PgxPool
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, phone_number, embedding, face_enrolled, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	var embedding *pgvector.Vector
	if len(user.Embedding) > 0 {
		vec := pgvector.NewVector(toVectorFloats(user.Embedding))
		embedding = &vec
	}

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.PhoneNumber,
		embedding,
		user.FaceEnrolled,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	query := `
		SELECT id, name, phone_number, embedding, face_enrolled, is_active, created_at, updated_at
		FROM users
		WHERE name = $1
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, name), "name")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, phone_number, embedding, face_enrolled, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, id), "id")
}

func (r *UserRepository) scanUser(row pgx.Row, by string) (*domain.User, error) {
	var user domain.User
	var embedding *pgvector.Vector

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.PhoneNumber,
		&embedding,
		&user.FaceEnrolled,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by %s: %w", by, err)
	}

	if embedding != nil && embedding.Slice() != nil {
		user.Embedding = fromVectorFloats(embedding.Slice())
	}

	return &user, nil
}

// UpdateEmbedding replaces the stored template. Used both at enrollment
// and for the adaptive blend after a successful login.
func (r *UserRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error {
	query := `
		UPDATE users
		SET embedding = $2, face_enrolled = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	vec := pgvector.NewVector(toVectorFloats(embedding))
	result, err := r.pool.Exec(ctx, query, id, &vec)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
