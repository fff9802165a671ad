package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/models"
	"github.com/SscSPs/company_register_app/internal/utils/mapping"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const addressColumns = `
	address_id, company_id, address_type, line1, line2, city, region, postcode, country, email, phone,
	effective_from, effective_to, created_at, created_by, last_updated_at, last_updated_by`

// addressOrder sorts by address type rank and then by effective_from.
const addressOrder = `
	ORDER BY CASE address_type WHEN 'REGISTERED' THEN 0 WHEN 'SERVICE' THEN 1 ELSE 2 END, effective_from`

// PgxAddressRepository stores address slices. Outside WithAddressLock it runs on the pool;
// inside, on the callback's transaction.
type PgxAddressRepository struct {
	BaseRepository
	q querier
}

func newPgxAddressRepository(pool *pgxpool.Pool) portsrepo.AddressRepositoryFacade {
	return &PgxAddressRepository{BaseRepository: BaseRepository{Pool: pool}, q: pool}
}

var _ portsrepo.AddressRepositoryFacade = (*PgxAddressRepository)(nil)

// WithAddressLock runs fn in a transaction holding an advisory lock on the company and address type.
// The lock is released when the transaction ends.
func (r *PgxAddressRepository) WithAddressLock(ctx context.Context, companyID string, addressType domain.AddressType, fn func(repo portsrepo.AddressRepository) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+"|"+string(addressType)); err != nil {
		return apperrors.NewAppError(500, "failed to acquire address lock", err)
	}
	if err := fn(&PgxAddressRepository{BaseRepository: r.BaseRepository, q: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxAddressRepository) SaveAddress(ctx context.Context, address domain.Address) error {
	m := mapping.ToModelAddress(address)
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.q.Exec(ctx, query,
		m.AddressID, m.CompanyID, m.AddressType, m.Line1, m.Line2, m.City, m.Region, m.Postcode, m.Country, m.Email, m.Phone,
		m.EffectiveFrom, m.EffectiveTo, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return addressWriteError(err, address)
	}
	return nil
}

func (r *PgxAddressRepository) UpdateAddress(ctx context.Context, address domain.Address) error {
	m := mapping.ToModelAddress(address)
	query := `
		UPDATE addresses
		SET line1 = $2, line2 = $3, city = $4, region = $5, postcode = $6, country = $7, email = $8, phone = $9,
		    effective_from = $10, effective_to = $11, last_updated_at = $12, last_updated_by = $13
		WHERE address_id = $1;
	`
	tag, err := r.q.Exec(ctx, query,
		m.AddressID, m.Line1, m.Line2, m.City, m.Region, m.Postcode, m.Country, m.Email, m.Phone,
		m.EffectiveFrom, m.EffectiveTo, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return addressWriteError(err, address)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAddressRepository) FindAddressByID(ctx context.Context, addressID string) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE address_id = $1;`
	return r.findOne(ctx, query, addressID)
}

func (r *PgxAddressRepository) FindCurrent(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE company_id = $1 AND address_type = $2 AND effective_to IS NULL;`
	return r.findOne(ctx, query, companyID, string(addressType))
}

func (r *PgxAddressRepository) FindAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE company_id = $1 AND address_type = $2
		  AND effective_from <= $3 AND (effective_to IS NULL OR effective_to >= $3);`
	return r.findOne(ctx, query, companyID, string(addressType), domain.DateOf(date))
}

func (r *PgxAddressRepository) FindHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	var typeFilter *string
	if addressType != nil {
		t := string(*addressType)
		typeFilter = &t
	}
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE company_id = $1 AND ($2::text IS NULL OR address_type = $2)` + addressOrder + `;`
	return r.findMany(ctx, query, companyID, typeFilter)
}

// FindOverlapping uses the same inclusive daterange the exclusion constraint is declared on.
func (r *PgxAddressRepository) FindOverlapping(ctx context.Context, companyID string, addressType domain.AddressType, interval domain.Interval, excludeID string) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE company_id = $1 AND address_type = $2
		  AND daterange(effective_from, effective_to, '[]') && daterange($3::date, $4::date, '[]')
		  AND address_id <> $5` + addressOrder + `;`
	return r.findMany(ctx, query, companyID, string(addressType), interval.From, interval.To, excludeID)
}

func (r *PgxAddressRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Address, error) {
	m, err := scanAddress(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query address", err)
	}
	a := mapping.ToDomainAddress(m)
	return &a, nil
}

func (r *PgxAddressRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.Address, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query addresses", err)
	}
	defer rows.Close()

	ms := []models.Address{}
	for rows.Next() {
		m, err := scanAddress(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan address", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate addresses", err)
	}
	return mapping.ToDomainAddressSlice(ms), nil
}

func scanAddress(row pgx.Row) (models.Address, error) {
	var m models.Address
	err := row.Scan(
		&m.AddressID, &m.CompanyID, &m.AddressType, &m.Line1, &m.Line2, &m.City, &m.Region, &m.Postcode, &m.Country,
		&m.Email, &m.Phone, &m.EffectiveFrom, &m.EffectiveTo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// addressWriteError turns constraint violations into the errors the core understands.
func addressWriteError(err error, address domain.Address) error {
	pgErr, ok := asPgError(err)
	if !ok {
		return apperrors.NewAppError(500, "failed to write address "+address.AddressID, err)
	}
	switch {
	case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "addresses_pkey":
		return apperrors.ErrDuplicate
	case pgErr.Code == pgerrcode.ExclusionViolation, pgErr.Code == pgerrcode.UniqueViolation:
		return &apperrors.OverlapConflictError{
			CompanyID:   address.CompanyID,
			AddressType: string(address.AddressType),
			From:        address.EffectiveFrom,
			To:          address.EffectiveTo,
			Err:         err,
		}
	case pgErr.Code == pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("company %s: %w", address.CompanyID, apperrors.ErrNotFound)
	case pgErr.Code == pgerrcode.CheckViolation:
		return apperrors.NewValidationError(apperrors.FieldIssue{Field: "effectiveTo", Rule: "after_from", Message: "effective to date must not be before the effective from date"})
	}
	return apperrors.NewAppError(500, "failed to write address "+address.AddressID, err)
}
