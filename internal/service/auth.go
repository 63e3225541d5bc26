package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

type AuthService struct {
	users store.UserStore
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, login, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return model.User{}, ErrLoginTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *AuthService) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	u, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
