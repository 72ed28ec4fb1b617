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

type transactionServiceStub struct {
	createFn func(ctx context.Context, ownerID string, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	updateFn func(ctx context.Context, ownerID, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	deleteFn func(ctx context.Context, ownerID, id string) (bool, error)
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, ownerID string, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, ownerID string, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, ownerID, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, ownerID, id, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error) {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, ownerID string, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, ownerID, input)
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	transaction := &domain.Transaction{
		ID:        "tx-1",
		OwnerID:   testOwnerID,
		Type:      domain.TypeExpense,
		Amount:    decimal.RequireFromString("25.50"),
		AccountID: "acc-1",
	}

	var captured usecase.CreateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, ownerID string, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return transaction, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type:      "expense",
		Amount:    decimal.RequireFromString("25.50"),
		AccountID: "acc-1",
	})
	req := authedRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Type != domain.TypeExpense || captured.AccountID != "acc-1" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.Amount.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("expected amount 25.50, got %s", captured.Amount)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tx-1" {
		t.Fatalf("expected transaction ID tx-1, got %s", resp.ID)
	}
}

func TestTransactionHandler_Create_ForeignCategory(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, ownerID string, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrReferenceNotFound
		},
	}, nil)

	catID := "cat-other"
	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type:       "expense",
		Amount:     decimal.RequireFromString("10"),
		AccountID:  "acc-1",
		CategoryID: &catID,
	})
	req := authedRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransactionHandler_Update_ClearFlags(t *testing.T) {
	var captured usecase.UpdateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		updateFn: func(ctx context.Context, ownerID, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{ID: id, OwnerID: ownerID, Type: domain.TypeTransfer, Amount: decimal.RequireFromString("40")}, nil
		},
	}, nil)

	body := []byte(`{"type":"transfer","clear_category":true,"transfer_account_id":"acc-2"}`)
	req := withURLParam(authedRequest(http.MethodPut, "/api/v1/transactions/tx-1", bytes.NewReader(body)), "id", "tx-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Type == nil || *captured.Type != domain.TypeTransfer {
		t.Fatalf("expected type transfer, got %+v", captured.Type)
	}
	if !captured.ClearCategory {
		t.Fatal("expected ClearCategory to be set")
	}
	if captured.TransferAccountID == nil || *captured.TransferAccountID != "acc-2" {
		t.Fatalf("expected transfer account acc-2, got %+v", captured.TransferAccountID)
	}
}

func TestTransactionHandler_Delete_MissingIsNoContent(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, ownerID, id string) (bool, error) {
			return false, nil
		},
	}, nil)

	req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/transactions/gone", nil), "id", "gone")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_ParsesFilter(t *testing.T) {
	var captured usecase.ListTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, ownerID string, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return nil, nil
		},
	}, nil)

	target := "/api/v1/transactions?type=expense&account_id=acc-1&settled=true&from=2026-03-01T00:00:00Z&to=2026-04-01T00:00:00Z&limit=20&offset=40"
	req := authedRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 20 || captured.Offset != 40 {
		t.Fatalf("expected limit 20 offset 40, got %d/%d", captured.Limit, captured.Offset)
	}
	f := captured.Filter
	if f.Type == nil || *f.Type != domain.TypeExpense {
		t.Fatalf("expected type filter expense, got %+v", f.Type)
	}
	if f.AccountID == nil || *f.AccountID != "acc-1" {
		t.Fatalf("expected account filter acc-1, got %+v", f.AccountID)
	}
	if f.Settled == nil || !*f.Settled {
		t.Fatal("expected settled filter true")
	}
	if f.From == nil || f.From.Month() != 3 {
		t.Fatalf("expected from in March, got %+v", f.From)
	}
	if f.To == nil || f.To.Month() != 4 {
		t.Fatalf("expected to in April, got %+v", f.To)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	}, nil)

	req := withURLParam(authedRequest(http.MethodGet, "/api/v1/transactions/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
