package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
)

// TemporalEngine keeps the intervals of each company and address type disjoint.
// Callers run its write operations inside WithAddressLock so the check and the write see the same state.
type TemporalEngine struct {
	BaseService
}

// NewTemporalEngine creates a TemporalEngine.
func NewTemporalEngine(opts ...Option) *TemporalEngine {
	return &TemporalEngine{BaseService: newBaseService(opts)}
}

// HasOverlap reports whether [from, to] shares a day with a stored address other than excludeID.
func (e *TemporalEngine) HasOverlap(ctx context.Context, repo portsrepo.AddressReader, companyID string, addressType domain.AddressType, from time.Time, to *time.Time, excludeID string) (bool, error) {
	conflicts, err := repo.FindOverlapping(ctx, companyID, addressType, domain.NewInterval(from, to), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check for overlapping addresses: %w", err)
	}
	return len(conflicts) > 0, nil
}

// checkOverlap returns an OverlapConflictError naming the first stored address that collides with address.
func (e *TemporalEngine) checkOverlap(ctx context.Context, repo portsrepo.AddressReader, address domain.Address, excludeID string) error {
	conflicts, err := repo.FindOverlapping(ctx, address.CompanyID, address.AddressType, address.Interval(), excludeID)
	if err != nil {
		return fmt.Errorf("failed to check for overlapping addresses: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}
	e.Metrics.IncrementOverlapConflict(string(address.AddressType))
	e.LogInfo(ctx, "Address interval overlaps an existing address",
		slog.String("company_id", address.CompanyID),
		slog.String("address_type", string(address.AddressType)),
		slog.String("conflicting_address_id", conflicts[0].AddressID))
	return &apperrors.OverlapConflictError{
		CompanyID:     address.CompanyID,
		AddressType:   string(address.AddressType),
		From:          address.EffectiveFrom,
		To:            address.EffectiveTo,
		ConflictingID: conflicts[0].AddressID,
	}
}

// CloseCurrent ends the open-ended address of a company and type on the day before closeDate.
// It returns nil, nil when there is no current address.
func (e *TemporalEngine) CloseCurrent(ctx context.Context, repo portsrepo.AddressRepository, companyID string, addressType domain.AddressType, closeDate time.Time, actor string) (*domain.Address, error) {
	current, err := repo.FindCurrent(ctx, companyID, addressType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find current address: %w", err)
	}

	lastDay := domain.AddDays(closeDate, -1)
	if lastDay.Before(current.EffectiveFrom) {
		return nil, apperrors.NewValidationError(apperrors.FieldIssue{
			Field: "effectiveDate",
			Rule:  "after_current",
			Message: fmt.Sprintf("effective date must be after the current address's effective from date %s",
				current.EffectiveFrom.Format(time.DateOnly)),
		})
	}

	closed := current.ClosedAt(lastDay, actor, e.Now())
	if err := repo.UpdateAddress(ctx, closed); err != nil {
		return nil, fmt.Errorf("failed to close current address %s: %w", current.AddressID, err)
	}
	e.LogDebug(ctx, "Closed current address",
		slog.String("address_id", closed.AddressID),
		slog.String("effective_to", lastDay.Format(time.DateOnly)))
	return &closed, nil
}

// OpenNew inserts address after checking it overlaps nothing.
func (e *TemporalEngine) OpenNew(ctx context.Context, repo portsrepo.AddressRepository, address domain.Address) (*domain.Address, error) {
	if err := e.checkOverlap(ctx, repo, address, ""); err != nil {
		return nil, err
	}
	if err := repo.SaveAddress(ctx, address); err != nil {
		return nil, err
	}
	return &address, nil
}
