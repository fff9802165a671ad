package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AddressService ---
type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) GetCurrentAddress(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	args := m.Called(ctx, companyID, addressType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressService) GetAddressAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	args := m.Called(ctx, companyID, addressType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressService) GetAddressHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	args := m.Called(ctx, companyID, addressType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressService) ValidateCompanyRequiredAddresses(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAddressService) CreateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error) {
	args := m.Called(ctx, address, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressService) UpdateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error) {
	args := m.Called(ctx, address, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressService) ChangeAddress(ctx context.Context, companyID string, addressType domain.AddressType, newAddress domain.Address, effectiveDate time.Time, actor string) (*domain.Address, error) {
	args := m.Called(ctx, companyID, addressType, newAddress, effectiveDate, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

var _ portssvc.AddressSvcFacade = (*MockAddressService)(nil)

// --- Mock AddressValidator ---
type MockAddressValidator struct {
	mock.Mock
}

func (m *MockAddressValidator) Validate(ctx context.Context, address domain.Address) domain.ValidationResult {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.ValidationResult)
}

func (m *MockAddressValidator) ValidateUpdate(ctx context.Context, current, proposed domain.Address, effectiveDate time.Time) domain.ValidationResult {
	args := m.Called(ctx, current, proposed, effectiveDate)
	return args.Get(0).(domain.ValidationResult)
}

var _ portssvc.AddressValidatorSvc = (*MockAddressValidator)(nil)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) GetWorkflow(ctx context.Context, workflowID string) (*domain.AddressChangeWorkflow, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressChangeWorkflow), args.Error(1)
}

func (m *MockWorkflowService) ListPendingWorkflows(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.AddressChangeWorkflow), next, args.Error(2)
}

func (m *MockWorkflowService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.AddressChangeWorkflow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressChangeWorkflow), args.Error(1)
}

func (m *MockWorkflowService) Approve(ctx context.Context, workflowID, approver string) (*domain.AddressChangeWorkflow, error) {
	args := m.Called(ctx, workflowID, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressChangeWorkflow), args.Error(1)
}

func (m *MockWorkflowService) Reject(ctx context.Context, workflowID, reason, actor string) (*domain.AddressChangeWorkflow, error) {
	args := m.Called(ctx, workflowID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressChangeWorkflow), args.Error(1)
}

func (m *MockWorkflowService) BulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) (*domain.BulkUpdateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkUpdateResult), args.Error(1)
}

var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

// --- Mock HistoryService ---
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Snapshot(ctx context.Context, companyID string, date time.Time) (*domain.AddressSnapshot, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressSnapshot), args.Error(1)
}

func (m *MockHistoryService) ChangesInPeriod(ctx context.Context, companyID string, from, to time.Time) ([]domain.AddressChangeEvent, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddressChangeEvent), args.Error(1)
}

func (m *MockHistoryService) ValidateHistory(ctx context.Context, companyID string) (*domain.HistoryValidation, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryValidation), args.Error(1)
}

func (m *MockHistoryService) StabilityScore(history []domain.Address, now time.Time) decimal.Decimal {
	args := m.Called(history, now)
	return args.Get(0).(decimal.Decimal)
}

func (m *MockHistoryService) AnalyzeHistory(ctx context.Context, companyID string) (*domain.HistoryReport, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryReport), args.Error(1)
}

var _ portssvc.HistorySvc = (*MockHistoryService)(nil)

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, name, registrationNumber, actor string) (*domain.Company, error) {
	args := m.Called(ctx, name, registrationNumber, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

var _ portssvc.CompanySvc = (*MockCompanyService)(nil)
