package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/core/services"
	"github.com/SscSPs/company_register_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporalEngine_HasOverlap(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAddressStore()
	for _, a := range scenarioHistory() {
		require.NoError(t, store.SaveAddress(ctx, a))
	}
	engine := services.NewTemporalEngine()

	tests := []struct {
		name    string
		from    string
		to      string
		exclude string
		want    bool
	}{
		{name: "before everything", from: "2023-01-01", to: "2023-12-31", want: false},
		{name: "inside first slice", from: "2024-03-01", to: "2024-04-01", want: true},
		{name: "open ended in the future", from: "2030-01-01", want: true},
		{name: "excluding the only collision", from: "2030-01-01", exclude: "r2", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.HasOverlap(ctx, store, "c1", domain.Registered, day(tt.from), datePtr(tt.to), tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemporalEngine_CloseThenOpen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAddressStore()
	require.NoError(t, store.SaveAddress(ctx, slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "")))
	engine := services.NewTemporalEngine()

	next := slice("r2", domain.Registered, "2 Queen St", "2024-06-01", "")
	err := store.WithAddressLock(ctx, "c1", domain.Registered, func(repo portsrepo.AddressRepository) error {
		// Opening before closing collides with the current address.
		_, err := engine.OpenNew(ctx, repo, next)
		assert.ErrorIs(t, err, apperrors.ErrOverlapConflict)

		closed, err := engine.CloseCurrent(ctx, repo, "c1", domain.Registered, next.EffectiveFrom, "bob")
		require.NoError(t, err)
		assert.Equal(t, day("2024-05-31"), *closed.EffectiveTo)

		_, err = engine.OpenNew(ctx, repo, next)
		return err
	})
	require.NoError(t, err)

	current, err := store.FindCurrent(ctx, "c1", domain.Registered)
	require.NoError(t, err)
	assert.Equal(t, "r2", current.AddressID)
}

func TestTemporalEngine_CloseWithoutCurrent(t *testing.T) {
	closed, err := services.NewTemporalEngine().CloseCurrent(context.Background(), memory.NewAddressStore(), "c1", domain.Service, day("2024-06-01"), "bob")
	require.NoError(t, err)
	assert.Nil(t, closed)
}

func datePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	d := day(s)
	return &d
}
