package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	renameFn func(ctx context.Context, ownerID, id, name string) (*domain.Account, error)
	deleteFn func(ctx context.Context, ownerID, id string) (bool, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	return s.listFn(ctx, ownerID, limit, offset)
}

func (s *accountServiceStub) RenameAccount(ctx context.Context, ownerID, id, name string) (*domain.Account, error) {
	return s.renameFn(ctx, ownerID, id, name)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, ownerID, id string) (bool, error) {
	return s.deleteFn(ctx, ownerID, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:           "acc-1",
		OwnerID:      testOwnerID,
		Name:         "checking",
		CurrentValue: decimal.Zero,
	}

	var capturedOwner string
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error) {
			capturedOwner = ownerID
			captured = input
			return account, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "checking"})
	req := authedRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedOwner != testOwnerID {
		t.Fatalf("expected owner %s, got %s", testOwnerID, capturedOwner)
	}
	if captured.Name != "checking" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Unauthenticated(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called without auth")
			return nil, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "checking"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, nil)

	req := withURLParam(authedRequest(http.MethodGet, "/api/v1/accounts/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Update_Renames(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		renameFn: func(ctx context.Context, ownerID, id, name string) (*domain.Account, error) {
			if id != "acc-1" || name != "savings" {
				t.Fatalf("unexpected rename args: id=%s name=%s", id, name)
			}
			return &domain.Account{ID: id, OwnerID: ownerID, Name: name}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.UpdateAccountRequest{Name: "savings"})
	req := withURLParam(authedRequest(http.MethodPut, "/api/v1/accounts/acc-1", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	t.Run("in use", func(t *testing.T) {
		handler := NewAccountHandler(&accountServiceStub{
			deleteFn: func(ctx context.Context, ownerID, id string) (bool, error) {
				return false, domain.ErrEntityInUse
			},
		}, nil)

		req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil), "id", "acc-1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		handler := NewAccountHandler(&accountServiceStub{
			deleteFn: func(ctx context.Context, ownerID, id string) (bool, error) {
				return true, nil
			},
		}, nil)

		req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil), "id", "acc-1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("missing is no-op", func(t *testing.T) {
		handler := NewAccountHandler(&accountServiceStub{
			deleteFn: func(ctx context.Context, ownerID, id string) (bool, error) {
				return false, nil
			},
		}, nil)

		req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/accounts/gone", nil), "id", "gone")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
