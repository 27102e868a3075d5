package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation PostgreSQL unique_violation
const uniqueViolation = "23505"

type UpdateUserParams struct {
	IsStaff     *bool
	IsSuperuser *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, id int, params UpdateUserParams) (*model.User, error)
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsStaff, user.IsSuperuser,
	).Scan(
		&user.ID,
		&user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_staff, is_superuser, created_at
		FROM users
		WHERE ` + where

	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id int, params UpdateUserParams) (*model.User, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.IsStaff != nil {
		sets = append(sets, fmt.Sprintf("is_staff = $%d", argPos))
		args = append(args, *params.IsStaff)
		argPos++
	}

	if params.IsSuperuser != nil {
		sets = append(sets, fmt.Sprintf("is_superuser = $%d", argPos))
		args = append(args, *params.IsSuperuser)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING id, username, email, password_hash, is_staff, is_superuser, created_at
	`, strings.Join(sets, ", "), argPos)

	var updatedUser model.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&updatedUser.ID,
		&updatedUser.Username,
		&updatedUser.Email,
		&updatedUser.PasswordHash,
		&updatedUser.IsStaff,
		&updatedUser.IsSuperuser,
		&updatedUser.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &updatedUser, nil
}
