package service

import (
	"context"
	"errors"
	"fmt"

	"auralink/internal/model"
	"auralink/internal/repository"
	apperrors "auralink/pkg/app_errors"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Signup 建立一般使用者（非 staff）
	Signup(ctx context.Context, input model.SignupInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	// UserByID session 中介層用來還原目前使用者
	UserByID(ctx context.Context, id int) (*model.User, error)
}

type AuthServiceImpl struct {
	userRepo repository.UserRepository
	cost     int
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, cost: bcrypt.DefaultCost}
}

// NewAuthServiceWithCost 測試時降低 bcrypt cost
func NewAuthServiceWithCost(userRepo repository.UserRepository, cost int) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, cost: cost}
}

// HashPassword 供 seed 等工具共用
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthServiceImpl) Signup(ctx context.Context, input model.SignupInput) (*model.User, error) {
	trimStrings(&input.Username, &input.Email)

	verr := validateStruct(input)
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := HashPassword(input.Password1, s.cost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			verr.Add("username", "A user with that username already exists.")
			return nil, verr
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthServiceImpl) UserByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
