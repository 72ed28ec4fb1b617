package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/usecase"
)

type summaryServiceStub struct {
	summaryFn  func(ctx context.Context, ownerID string, from, to *time.Time) (*usecase.TransactionSummary, error)
	monthlyFn  func(ctx context.Context, ownerID string, year int, month time.Month) (*usecase.TransactionSummary, error)
	overviewFn func(ctx context.Context, ownerID string) (*usecase.Overview, error)
}

func (s *summaryServiceStub) GetSummary(ctx context.Context, ownerID string, from, to *time.Time) (*usecase.TransactionSummary, error) {
	return s.summaryFn(ctx, ownerID, from, to)
}

func (s *summaryServiceStub) GetMonthlySummary(ctx context.Context, ownerID string, year int, month time.Month) (*usecase.TransactionSummary, error) {
	return s.monthlyFn(ctx, ownerID, year, month)
}

func (s *summaryServiceStub) GetOverview(ctx context.Context, ownerID string) (*usecase.Overview, error) {
	return s.overviewFn(ctx, ownerID)
}

func TestSummaryHandler_Summary_ParsesRange(t *testing.T) {
	var gotFrom, gotTo *time.Time
	handler := NewSummaryHandler(&summaryServiceStub{
		summaryFn: func(ctx context.Context, ownerID string, from, to *time.Time) (*usecase.TransactionSummary, error) {
			gotFrom, gotTo = from, to
			return &usecase.TransactionSummary{
				TotalIncome:   decimal.RequireFromString("1000"),
				TotalExpenses: decimal.RequireFromString("200"),
				NetAmount:     decimal.RequireFromString("800"),
				Count:         3,
			}, nil
		},
	})

	target := "/api/v1/summary?from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z"
	req := authedRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotFrom == nil || gotFrom.Month() != time.January {
		t.Fatalf("expected from in January, got %+v", gotFrom)
	}
	if gotTo == nil || gotTo.Month() != time.February {
		t.Fatalf("expected to in February, got %+v", gotTo)
	}

	var resp usecase.TransactionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.NetAmount.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("expected net 800, got %s", resp.NetAmount)
	}
}

func TestSummaryHandler_Summary_InvalidFrom(t *testing.T) {
	handler := NewSummaryHandler(&summaryServiceStub{
		summaryFn: func(ctx context.Context, ownerID string, from, to *time.Time) (*usecase.TransactionSummary, error) {
			t.Fatal("GetSummary should not be called with an invalid range")
			return nil, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/summary?from=yesterday", nil)
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSummaryHandler_MonthlySummary(t *testing.T) {
	var gotYear int
	var gotMonth time.Month
	handler := NewSummaryHandler(&summaryServiceStub{
		monthlyFn: func(ctx context.Context, ownerID string, year int, month time.Month) (*usecase.TransactionSummary, error) {
			gotYear, gotMonth = year, month
			return &usecase.TransactionSummary{Count: 2}, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/summary/monthly?year=2026&month=3", nil)
	rec := httptest.NewRecorder()

	handler.MonthlySummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotYear != 2026 || gotMonth != time.March {
		t.Fatalf("expected March 2026, got %v %v", gotYear, gotMonth)
	}
}

func TestSummaryHandler_MonthlySummary_InvalidMonth(t *testing.T) {
	handler := NewSummaryHandler(&summaryServiceStub{
		monthlyFn: func(ctx context.Context, ownerID string, year int, month time.Month) (*usecase.TransactionSummary, error) {
			t.Fatal("GetMonthlySummary should not be called with an invalid month")
			return nil, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/summary/monthly?month=13", nil)
	rec := httptest.NewRecorder()

	handler.MonthlySummary(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSummaryHandler_Overview(t *testing.T) {
	handler := NewSummaryHandler(&summaryServiceStub{
		overviewFn: func(ctx context.Context, ownerID string) (*usecase.Overview, error) {
			return &usecase.Overview{
				TotalBalance:    decimal.RequireFromString("1500"),
				TotalDebt:       decimal.RequireFromString("250"),
				TotalLimit:      decimal.RequireFromString("1000"),
				AvailableCredit: decimal.RequireFromString("750"),
				UtilizationPct:  decimal.RequireFromString("25"),
			}, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/overview", nil)
	rec := httptest.NewRecorder()

	handler.Overview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp usecase.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.AvailableCredit.Equal(decimal.RequireFromString("750")) {
		t.Fatalf("expected available credit 750, got %s", resp.AvailableCredit)
	}
}
