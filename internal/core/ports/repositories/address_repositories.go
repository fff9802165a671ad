package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// AddressReader defines read operations over time-sliced addresses.
type AddressReader interface {
	// FindAddressByID retrieves a specific address by its ID.
	FindAddressByID(ctx context.Context, addressID string) (*domain.Address, error)

	// FindCurrent retrieves the open-ended address of a company and type.
	// Returns apperrors.ErrNotFound when the company has none.
	FindCurrent(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error)

	// FindAtDate retrieves the address whose interval contains date.
	FindAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error)

	// FindHistory lists every address of a company ordered by type and then EffectiveFrom.
	// A nil addressType lists all types.
	FindHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error)

	// FindOverlapping lists addresses of the company and type whose interval shares a day with the given one,
	// skipping excludeID when it is not empty.
	FindOverlapping(ctx context.Context, companyID string, addressType domain.AddressType, interval domain.Interval, excludeID string) ([]domain.Address, error)
}

// AddressWriter defines write operations for addresses. Addresses are never deleted.
type AddressWriter interface {
	// SaveAddress inserts a new address.
	SaveAddress(ctx context.Context, address domain.Address) error

	// UpdateAddress replaces the stored fields of an existing address.
	UpdateAddress(ctx context.Context, address domain.Address) error
}

// AddressRepository combines reads and writes against one consistent view of the store.
type AddressRepository interface {
	AddressReader
	AddressWriter
}

// AddressRepositoryFacade is the address store as seen by services.
type AddressRepositoryFacade interface {
	AddressRepository

	// WithAddressLock runs fn while holding an exclusive lock on the (companyID, addressType) pair.
	// Everything fn writes through repo commits together when fn returns nil and is discarded otherwise.
	WithAddressLock(ctx context.Context, companyID string, addressType domain.AddressType, fn func(repo AddressRepository) error) error
}
