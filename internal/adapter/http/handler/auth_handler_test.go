package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: input.Email, Name: input.Name, HashedPassword: "bcrypt-hash"}, nil
		},
	}, newTestJWTManager(), nil)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "bcrypt-hash") {
		t.Fatal("response must not leak the password hash")
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Email != "ana@example.com" {
		t.Fatalf("expected email ana@example.com, got %s", resp.Email)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, usecase.ErrEmailTaken
		},
	}, newTestJWTManager(), nil)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	jwtManager := newTestJWTManager()
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email, Name: "Ana"}, nil
		},
	}, jwtManager, nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1 in claims, got %s", claims.UserID)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, usecase.ErrInvalidCredentials
		},
	}, newTestJWTManager(), nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
