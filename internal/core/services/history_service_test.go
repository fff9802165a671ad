package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/core/services"
	"github.com/SscSPs/company_register_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAddressReader is a mock type for the AddressReaderSvc interface
type MockAddressReader struct {
	mock.Mock
}

func (m *MockAddressReader) GetCurrentAddress(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	args := m.Called(ctx, companyID, addressType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressReader) GetAddressAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	args := m.Called(ctx, companyID, addressType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressReader) GetAddressHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	args := m.Called(ctx, companyID, addressType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressReader) ValidateCompanyRequiredAddresses(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func slice(id string, t domain.AddressType, line1, from string, to string) domain.Address {
	a := queenStreet("1", "1010")
	a.Line1 = line1
	a.AddressID = id
	a.CompanyID = "c1"
	a.AddressType = t
	a.EffectiveFrom = day(from)
	if to != "" {
		end := day(to)
		a.EffectiveTo = &end
	}
	return a
}

// scenarioHistory is an address created on 2024-01-01 and changed on 2024-06-01.
func scenarioHistory() []domain.Address {
	return []domain.Address{
		slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "2024-05-31"),
		slice("r2", domain.Registered, "2 Queen St", "2024-06-01", ""),
	}
}

func TestSnapshot_BeforeAndAfterChange(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	for _, a := range scenarioHistory() {
		require.NoError(t, repos.AddressRepo.SaveAddress(ctx, a))
	}
	addresses := services.NewAddressService(repos.AddressRepo, nil, services.NewAddressValidator(nil))
	history := services.NewHistoryService(addresses)

	snapshot, err := history.Snapshot(ctx, "c1", day("2024-03-15"))
	require.NoError(t, err)
	assert.True(t, snapshot.Complete)
	assert.Equal(t, "r1", snapshot.Addresses[domain.Registered].AddressID)
	assert.Len(t, snapshot.Addresses, 1)

	snapshot, err = history.Snapshot(ctx, "c1", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, "r2", snapshot.Addresses[domain.Registered].AddressID)

	snapshot, err = history.Snapshot(ctx, "c1", day("2023-06-01"))
	require.NoError(t, err)
	assert.False(t, snapshot.Complete)
	assert.Empty(t, snapshot.Addresses)
}

func TestSnapshot_PropagatesStoreFailure(t *testing.T) {
	reader := new(MockAddressReader)
	reader.On("GetAddressAtDate", mock.Anything, "c1", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := services.NewHistoryService(reader).Snapshot(context.Background(), "c1", day("2024-03-15"))
	assert.ErrorContains(t, err, "connection reset")
}

func TestChangesInPeriod(t *testing.T) {
	reader := new(MockAddressReader)
	history := append(scenarioHistory(),
		slice("s1", domain.Service, "5 Queen St", "2024-02-01", "2024-08-31"),
		slice("s2", domain.Service, "5 Queen St", "2024-09-01", ""),
	)
	reader.On("GetAddressHistory", mock.Anything, "c1", (*domain.AddressType)(nil)).Return(history, nil)
	svc := services.NewHistoryService(reader)

	changes, err := svc.ChangesInPeriod(context.Background(), "c1", day("2024-01-15"), day("2024-12-31"))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, domain.InitialRegistration, changes[0].ChangeType)
	assert.Equal(t, "s1", changes[0].Address.AddressID)
	assert.Nil(t, changes[0].Previous)

	assert.Equal(t, domain.AddressChange, changes[1].ChangeType)
	assert.Equal(t, "r2", changes[1].Address.AddressID)
	require.NotNil(t, changes[1].Previous)
	assert.Equal(t, "r1", changes[1].Previous.AddressID)

	assert.Equal(t, domain.AdministrativeUpdate, changes[2].ChangeType)
	assert.Equal(t, "s2", changes[2].Address.AddressID)

	_, err = svc.ChangesInPeriod(context.Background(), "c1", day("2024-12-31"), day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateHistory(t *testing.T) {
	tests := []struct {
		name         string
		history      []domain.Address
		wantErrors   int
		wantWarnings int
	}{
		{name: "contiguous", history: scenarioHistory()},
		{name: "empty", history: []domain.Address{}, wantErrors: 1},
		{
			name: "gap",
			history: []domain.Address{
				slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "2024-04-30"),
				slice("r2", domain.Registered, "2 Queen St", "2024-06-01", ""),
			},
			wantWarnings: 1,
		},
		{
			name: "overlap",
			history: []domain.Address{
				slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "2024-06-01"),
				slice("r2", domain.Registered, "2 Queen St", "2024-06-01", ""),
			},
			wantErrors: 1,
		},
		{
			name: "open ended followed by another",
			history: []domain.Address{
				slice("r1", domain.Registered, "1 Queen St", "2024-01-01", ""),
				slice("r2", domain.Registered, "2 Queen St", "2024-06-01", ""),
			},
			wantErrors: 1,
		},
		{
			name: "no current registered",
			history: []domain.Address{
				slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "2024-05-31"),
				slice("s1", domain.Service, "5 Queen St", "2024-01-01", ""),
			},
			wantErrors: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockAddressReader)
			reader.On("GetAddressHistory", mock.Anything, "c1", (*domain.AddressType)(nil)).Return(tt.history, nil)

			v, err := services.NewHistoryService(reader).ValidateHistory(context.Background(), "c1")
			require.NoError(t, err)
			assert.Len(t, v.Errors, tt.wantErrors, "errors: %v", v.Errors)
			assert.Len(t, v.Warnings, tt.wantWarnings, "warnings: %v", v.Warnings)
			assert.Equal(t, tt.wantErrors == 0, v.IsValid())
		})
	}
}

func TestStabilityScore(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := services.NewHistoryService(new(MockAddressReader))

	tests := []struct {
		name    string
		history []domain.Address
		want    string
	}{
		{name: "empty", history: nil, want: "0"},
		{name: "settled for over a year", history: []domain.Address{slice("r1", domain.Registered, "1 Queen St", "2023-01-01", "")}, want: "75"},
		{name: "one recent change", history: scenarioHistory(), want: "45.96"},
		{
			name: "administrative update is not a change",
			history: []domain.Address{
				slice("r1", domain.Registered, "1 Queen St", "2024-01-01", "2024-05-31"),
				slice("r2", domain.Registered, "1 Queen St", "2024-06-01", ""),
			},
			want: "50.96",
		},
		{name: "only future addresses", history: []domain.Address{slice("r1", domain.Registered, "1 Queen St", "2024-07-01", "")}, want: "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.StabilityScore(tt.history, now)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestAnalyzeHistory(t *testing.T) {
	reader := new(MockAddressReader)
	reader.On("GetAddressHistory", mock.Anything, "c1", (*domain.AddressType)(nil)).Return(scenarioHistory(), nil)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	report, err := services.NewHistoryService(reader, services.WithClock(func() time.Time { return now })).AnalyzeHistory(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", report.CompanyID)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Len(t, report.Changes, 2)
	assert.Equal(t, 1, report.TotalChanges)
	assert.True(t, report.Validation.IsValid())
	assert.Equal(t, "45.96", report.StabilityScore.String())
	reader.AssertExpectations(t)
}
