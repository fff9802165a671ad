package services

import (
	"context"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HistorySvc answers point-in-time and analytical questions about address timelines.
type HistorySvc interface {
	Snapshot(ctx context.Context, companyID string, date time.Time) (*domain.AddressSnapshot, error)
	ChangesInPeriod(ctx context.Context, companyID string, from, to time.Time) ([]domain.AddressChangeEvent, error)
	ValidateHistory(ctx context.Context, companyID string) (*domain.HistoryValidation, error)
	StabilityScore(history []domain.Address, now time.Time) decimal.Decimal
	AnalyzeHistory(ctx context.Context, companyID string) (*domain.HistoryReport, error)
}
