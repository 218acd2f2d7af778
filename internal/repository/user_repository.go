package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkleiven/coursequeue-api/internal/models"
)

// UserRepository manages teacher login credentials.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a teacher user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.TeacherUser, error) {
	const query = `SELECT id, email, password_hash, teacher_id, created_at FROM teacher_users WHERE LOWER(email) = LOWER($1)`
	var user models.TeacherUser
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a teacher user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.TeacherUser, error) {
	const query = `SELECT id, email, password_hash, teacher_id, created_at FROM teacher_users WHERE id = $1`
	var user models.TeacherUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a teacher user.
func (r *UserRepository) Create(ctx context.Context, user *models.TeacherUser) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_users (id, email, password_hash, teacher_id, created_at) VALUES (:id, :email, :password_hash, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create teacher user: %w", err)
	}
	return nil
}

// ExistsByEmail checks if a teacher user with the email already exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM teacher_users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher user email: %w", err)
	}
	return true, nil
}
