package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC     UserService
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(userUC UserService, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{userUC: userUC, jwtManager: jwtManager, metrics: m}
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login authenticates a user and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.countAuth("failure")
		writeError(w, mapDomainError(err), "failed to authenticate", err.Error())
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		h.countAuth("failure")
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	h.countAuth("success")
	writeJSON(w, http.StatusOK, &dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

func (h *AuthHandler) countAuth(status string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(status).Inc()
	}
}
