package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/utils/keylock"
)

// AddressStore keeps addresses in memory. Writes made inside WithAddressLock are staged and
// applied in one step, so readers never see half of a close/open pair.
type AddressStore struct {
	mu        sync.RWMutex
	addresses map[string]domain.Address
	locks     *keylock.Locker
}

func NewAddressStore() *AddressStore {
	return &AddressStore{addresses: make(map[string]domain.Address), locks: keylock.New()}
}

var _ portsrepo.AddressRepositoryFacade = (*AddressStore)(nil)

func lockKey(companyID string, addressType domain.AddressType) string {
	return companyID + "|" + string(addressType)
}

func (s *AddressStore) FindAddressByID(_ context.Context, addressID string) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.addresses[addressID]; ok {
		return &a, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *AddressStore) FindCurrent(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	return findCurrent(s.snapshot(companyID, addressType, nil))
}

func (s *AddressStore) FindAtDate(_ context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	return findAtDate(s.snapshot(companyID, addressType, nil), date)
}

func (s *AddressStore) FindHistory(_ context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Address{}
	for _, a := range s.addresses {
		if a.CompanyID == companyID && (addressType == nil || a.AddressType == *addressType) {
			out = append(out, a)
		}
	}
	domain.SortHistory(out)
	return out, nil
}

func (s *AddressStore) FindOverlapping(_ context.Context, companyID string, addressType domain.AddressType, interval domain.Interval, excludeID string) ([]domain.Address, error) {
	return findOverlapping(s.snapshot(companyID, addressType, nil), interval, excludeID), nil
}

// SaveAddress inserts a single address outside any lock, enforcing the same constraints the database does.
func (s *AddressStore) SaveAddress(_ context.Context, address domain.Address) error {
	return s.apply(map[string]domain.Address{address.AddressID: address}, map[string]bool{address.AddressID: true})
}

func (s *AddressStore) UpdateAddress(_ context.Context, address domain.Address) error {
	return s.apply(map[string]domain.Address{address.AddressID: address}, nil)
}

// WithAddressLock serialises writers of one company and address type and commits their staged writes together.
func (s *AddressStore) WithAddressLock(ctx context.Context, companyID string, addressType domain.AddressType, fn func(repo portsrepo.AddressRepository) error) error {
	unlock := s.locks.Lock(lockKey(companyID, addressType))
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &addressTx{store: s, staged: make(map[string]domain.Address), inserted: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}
	return s.apply(tx.staged, tx.inserted)
}

// snapshot returns the addresses of one company and type, with staged writes laid over committed ones.
func (s *AddressStore) snapshot(companyID string, addressType domain.AddressType, staged map[string]domain.Address) []domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mergedLocked(companyID, addressType, staged)
}

func (s *AddressStore) mergedLocked(companyID string, addressType domain.AddressType, staged map[string]domain.Address) []domain.Address {
	out := make([]domain.Address, 0)
	for id, a := range s.addresses {
		if _, overridden := staged[id]; overridden {
			continue
		}
		if a.CompanyID == companyID && a.AddressType == addressType {
			out = append(out, a)
		}
	}
	for _, a := range staged {
		if a.CompanyID == companyID && a.AddressType == addressType {
			out = append(out, a)
		}
	}
	return out
}

// apply checks the writes against the non-overlap and single-current constraints and then stores them.
func (s *AddressStore) apply(writes map[string]domain.Address, inserted map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range writes {
		_, exists := s.addresses[id]
		if inserted[id] && exists {
			return apperrors.ErrDuplicate
		}
		if !inserted[id] && !exists {
			return apperrors.ErrNotFound
		}
		for _, other := range s.mergedLocked(a.CompanyID, a.AddressType, writes) {
			if other.AddressID == id {
				continue
			}
			if other.Interval().Overlaps(a.Interval()) || (other.IsCurrent() && a.IsCurrent()) {
				return &apperrors.OverlapConflictError{
					CompanyID:     a.CompanyID,
					AddressType:   string(a.AddressType),
					From:          a.EffectiveFrom,
					To:            a.EffectiveTo,
					ConflictingID: other.AddressID,
				}
			}
		}
	}
	for id, a := range writes {
		s.addresses[id] = a
	}
	return nil
}

// addressTx is the view of the store handed to WithAddressLock callbacks.
type addressTx struct {
	store    *AddressStore
	staged   map[string]domain.Address
	inserted map[string]bool
}

func (t *addressTx) FindAddressByID(ctx context.Context, addressID string) (*domain.Address, error) {
	if a, ok := t.staged[addressID]; ok {
		return &a, nil
	}
	return t.store.FindAddressByID(ctx, addressID)
}

func (t *addressTx) FindCurrent(_ context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	return findCurrent(t.store.snapshot(companyID, addressType, t.staged))
}

func (t *addressTx) FindAtDate(_ context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	return findAtDate(t.store.snapshot(companyID, addressType, t.staged), date)
}

func (t *addressTx) FindHistory(_ context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	types := domain.AddressTypes
	if addressType != nil {
		types = []domain.AddressType{*addressType}
	}
	out := []domain.Address{}
	for _, at := range types {
		out = append(out, t.store.snapshot(companyID, at, t.staged)...)
	}
	domain.SortHistory(out)
	return out, nil
}

func (t *addressTx) FindOverlapping(_ context.Context, companyID string, addressType domain.AddressType, interval domain.Interval, excludeID string) ([]domain.Address, error) {
	return findOverlapping(t.store.snapshot(companyID, addressType, t.staged), interval, excludeID), nil
}

func (t *addressTx) SaveAddress(_ context.Context, address domain.Address) error {
	if _, ok := t.staged[address.AddressID]; ok {
		return apperrors.ErrDuplicate
	}
	t.staged[address.AddressID] = address
	t.inserted[address.AddressID] = true
	return nil
}

func (t *addressTx) UpdateAddress(ctx context.Context, address domain.Address) error {
	if _, err := t.FindAddressByID(ctx, address.AddressID); err != nil {
		return err
	}
	t.staged[address.AddressID] = address
	return nil
}

func findCurrent(addresses []domain.Address) (*domain.Address, error) {
	for _, a := range addresses {
		if a.IsCurrent() {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func findAtDate(addresses []domain.Address, date time.Time) (*domain.Address, error) {
	for _, a := range addresses {
		if a.ActiveOn(date) {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func findOverlapping(addresses []domain.Address, interval domain.Interval, excludeID string) []domain.Address {
	out := []domain.Address{}
	for _, a := range addresses {
		if excludeID != "" && a.AddressID == excludeID {
			continue
		}
		if a.Interval().Overlaps(interval) {
			out = append(out, a)
		}
	}
	domain.SortHistory(out)
	return out
}
