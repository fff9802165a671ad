package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	changePenalty     = 10
	recencyBonusMax   = 50
	recencyWindowDays = 365
)

// historyService reconstructs and analyses address timelines. It only reads.
type historyService struct {
	BaseService
	addresses portssvc.AddressReaderSvc
}

// NewHistoryService creates the history and analysis service.
func NewHistoryService(addresses portssvc.AddressReaderSvc, opts ...Option) portssvc.HistorySvc {
	return &historyService{BaseService: newBaseService(opts), addresses: addresses}
}

var _ portssvc.HistorySvc = (*historyService)(nil)

// Snapshot resolves every address type of a company on date. It is complete when a REGISTERED address was in force.
func (s *historyService) Snapshot(ctx context.Context, companyID string, date time.Time) (*domain.AddressSnapshot, error) {
	day := domain.DateOf(date)
	var (
		mu       sync.Mutex
		resolved = make(map[domain.AddressType]domain.Address, len(domain.AddressTypes))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range domain.AddressTypes {
		g.Go(func() error {
			address, err := s.addresses.GetAddressAtDate(gctx, companyID, t, day)
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to resolve %s address: %w", t, err)
			}
			mu.Lock()
			resolved[t] = *address
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build address snapshot", slog.String("company_id", companyID))
		return nil, err
	}

	_, complete := resolved[domain.Registered]
	return &domain.AddressSnapshot{CompanyID: companyID, Date: day, Addresses: resolved, Complete: complete}, nil
}

// ChangesInPeriod classifies every transition whose effective date falls within [from, to].
func (s *historyService) ChangesInPeriod(ctx context.Context, companyID string, from, to time.Time) ([]domain.AddressChangeEvent, error) {
	start, end := domain.DateOf(from), domain.DateOf(to)
	if end.Before(start) {
		return nil, apperrors.NewValidationError(apperrors.FieldIssue{Field: "to", Rule: "after_from", Message: "period end must not be before its start"})
	}
	history, err := s.addresses.GetAddressHistory(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}

	changes := []domain.AddressChangeEvent{}
	for _, c := range classifyChanges(history) {
		if !c.EffectiveDate.Before(start) && !c.EffectiveDate.After(end) {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

// ValidateHistory reports integrity problems in a company's stored timeline.
func (s *historyService) ValidateHistory(ctx context.Context, companyID string) (*domain.HistoryValidation, error) {
	history, err := s.addresses.GetAddressHistory(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}
	v := validateTimeline(companyID, history)
	if !v.IsValid() {
		s.GetLogger(ctx).Warn("Address history has integrity errors", slog.String("company_id", companyID), slog.Any("errors", v.Errors))
	}
	return &v, nil
}

// StabilityScore averages a change-count score and a recency bonus into [0, 75], rounded to 2 places.
// An empty history scores 0.
func (s *historyService) StabilityScore(history []domain.Address, now time.Time) decimal.Decimal {
	return stabilityScore(history, now)
}

// AnalyzeHistory bundles the classified changes, the integrity check and the stability score.
func (s *historyService) AnalyzeHistory(ctx context.Context, companyID string) (*domain.HistoryReport, error) {
	history, err := s.addresses.GetAddressHistory(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	changes := classifyChanges(history)
	return &domain.HistoryReport{
		CompanyID:      companyID,
		GeneratedAt:    now,
		Changes:        changes,
		TotalChanges:   countAddressChanges(changes),
		Validation:     validateTimeline(companyID, history),
		StabilityScore: stabilityScore(history, now),
	}, nil
}

// byType groups addresses per type, each group sorted by EffectiveFrom.
func byType(history []domain.Address) map[domain.AddressType][]domain.Address {
	grouped := make(map[domain.AddressType][]domain.Address)
	for _, a := range history {
		grouped[a.AddressType] = append(grouped[a.AddressType], a)
	}
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool { return group[i].EffectiveFrom.Before(group[j].EffectiveFrom) })
	}
	return grouped
}

func classifyChanges(history []domain.Address) []domain.AddressChangeEvent {
	grouped := byType(history)
	changes := make([]domain.AddressChangeEvent, 0, len(history))
	for _, t := range domain.AddressTypes {
		var prev *domain.Address
		for _, a := range grouped[t] {
			change := domain.AddressChangeEvent{AddressType: t, EffectiveDate: a.EffectiveFrom, Address: a}
			switch {
			case prev == nil:
				change.ChangeType = domain.InitialRegistration
			case prev.SameLocation(a):
				change.ChangeType = domain.AdministrativeUpdate
			default:
				change.ChangeType = domain.AddressChange
			}
			if prev != nil {
				p := *prev
				change.Previous = &p
			}
			changes = append(changes, change)
			current := a
			prev = &current
		}
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].EffectiveDate.Before(changes[j].EffectiveDate) })
	return changes
}

func countAddressChanges(changes []domain.AddressChangeEvent) int {
	n := 0
	for _, c := range changes {
		if c.ChangeType == domain.AddressChange {
			n++
		}
	}
	return n
}

func validateTimeline(companyID string, history []domain.Address) domain.HistoryValidation {
	v := domain.HistoryValidation{CompanyID: companyID, Errors: []string{}, Warnings: []string{}}
	grouped := byType(history)

	hasCurrentRegistered := false
	for _, a := range grouped[domain.Registered] {
		if a.IsCurrent() {
			hasCurrentRegistered = true
		}
	}
	if !hasCurrentRegistered {
		v.Errors = append(v.Errors, "company has no current REGISTERED address")
	}

	for _, t := range domain.AddressTypes {
		group := grouped[t]
		for i := 1; i < len(group); i++ {
			pred, succ := group[i-1], group[i]
			switch {
			case pred.EffectiveTo == nil:
				v.Errors = append(v.Errors, fmt.Sprintf("%s address %s is open-ended but is followed by %s from %s",
					t, pred.AddressID, succ.AddressID, succ.EffectiveFrom.Format(time.DateOnly)))
			case !pred.EffectiveTo.Before(succ.EffectiveFrom):
				v.Errors = append(v.Errors, fmt.Sprintf("%s address %s ending %s overlaps %s starting %s",
					t, pred.AddressID, pred.EffectiveTo.Format(time.DateOnly), succ.AddressID, succ.EffectiveFrom.Format(time.DateOnly)))
			case !domain.AddDays(*pred.EffectiveTo, 1).Equal(succ.EffectiveFrom):
				gap := domain.DaysBetween(*pred.EffectiveTo, succ.EffectiveFrom) - 1
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s address has a %d day gap between %s and %s",
					t, gap, pred.EffectiveTo.Format(time.DateOnly), succ.EffectiveFrom.Format(time.DateOnly)))
			}
		}
	}
	return v
}

func stabilityScore(history []domain.Address, now time.Time) decimal.Decimal {
	if len(history) == 0 {
		return decimal.Zero
	}
	today := domain.DateOf(now)

	changes := countAddressChanges(classifyChanges(history))
	changeScore := decimal.NewFromInt(int64(max(0, 100-changePenalty*changes)))

	var lastChange time.Time
	for _, a := range history {
		if !a.EffectiveFrom.After(today) && a.EffectiveFrom.After(lastChange) {
			lastChange = a.EffectiveFrom
		}
	}
	days := 0
	if !lastChange.IsZero() {
		days = min(domain.DaysBetween(lastChange, today), recencyWindowDays)
	}
	recency := decimal.NewFromInt(int64(recencyBonusMax * days)).Div(decimal.NewFromInt(recencyWindowDays))

	return changeScore.Add(recency).Div(decimal.NewFromInt(2)).Round(2)
}
