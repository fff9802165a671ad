package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/core/services"
	"github.com/SscSPs/company_register_app/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	repos     portsrepo.RepositoryProvider
	audit     *recordingAuditSink
	notifier  *MockNotifier
	addresses portssvc.AddressSvcFacade
	service   portssvc.WorkflowSvcFacade
	company   string
	original  *domain.Address
	validator portssvc.AddressValidatorSvc
	opts      []services.Option
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	suite.repos = memory.NewRepositoryProvider()
	suite.audit = &recordingAuditSink{}
	suite.notifier = new(MockNotifier)
	suite.notifier.On("Dispatch", mock.Anything, mock.Anything).
		Return(domain.DeliveryReport{Results: []domain.RecipientDelivery{{Recipient: "registry@acme.example", Delivered: true}}}, nil).
		Maybe()

	opts := []services.Option{
		services.WithClock(func() time.Time { return suite.now }),
		services.WithAuditSink(suite.audit),
	}
	suite.opts = opts
	suite.validator = services.NewAddressValidator(nil, opts...)
	suite.addresses = services.NewAddressService(suite.repos.AddressRepo, suite.repos.CompanyRepo, suite.validator, opts...)
	suite.service = suite.workflowService(suite.addresses, suite.repos.WorkflowRepo)

	suite.company = "company-1"
	suite.Require().NoError(suite.repos.CompanyRepo.SaveCompany(suite.ctx, domain.Company{CompanyID: suite.company, Name: "Acme Ltd", RegistrationNumber: "1234567", IsActive: true}))

	a := queenStreet("1", "1010")
	a.CompanyID = suite.company
	a.AddressType = domain.Registered
	a.EffectiveFrom = day("2024-01-01")
	created, err := suite.addresses.CreateAddress(suite.ctx, a, "alice")
	suite.Require().NoError(err)
	suite.original = created
}

func (suite *WorkflowServiceTestSuite) workflowService(addresses portssvc.AddressSvcFacade, workflows portsrepo.WorkflowRepositoryFacade) portssvc.WorkflowSvcFacade {
	return services.NewWorkflowService(addresses, suite.validator, workflows, services.WorkflowConfig{
		Companies:  suite.repos.CompanyRepo,
		Notifier:   suite.notifier,
		Recipients: []string{"registry@acme.example"},
	}, suite.opts...)
}

// flakyWorkflowRepo fails UpdateWorkflow while failUpdates is set.
type flakyWorkflowRepo struct {
	portsrepo.WorkflowRepositoryFacade
	failUpdates bool
}

func (r *flakyWorkflowRepo) UpdateWorkflow(ctx context.Context, wf domain.AddressChangeWorkflow) error {
	if r.failUpdates {
		return errors.New("connection reset")
	}
	return r.WorkflowRepositoryFacade.UpdateWorkflow(ctx, wf)
}

// unavailableForType fails ChangeAddress for a single address type.
type unavailableForType struct {
	portssvc.AddressSvcFacade
	addressType domain.AddressType
}

func (a unavailableForType) ChangeAddress(ctx context.Context, companyID string, addressType domain.AddressType, newAddress domain.Address, effectiveDate time.Time, actor string) (*domain.Address, error) {
	if addressType == a.addressType {
		return nil, errors.New("postal registry unavailable")
	}
	return a.AddressSvcFacade.ChangeAddress(ctx, companyID, addressType, newAddress, effectiveDate, actor)
}

func (suite *WorkflowServiceTestSuite) initiate(address domain.Address, effective string) *domain.AddressChangeWorkflow {
	wf, err := suite.service.Initiate(suite.ctx, domain.InitiateRequest{
		CompanyID:     suite.company,
		AddressType:   domain.Registered,
		Address:       address,
		EffectiveDate: day(effective),
		RequestedBy:   "alice",
	})
	suite.Require().NoError(err)
	return wf
}

func (suite *WorkflowServiceTestSuite) currentRegistered() domain.Address {
	current, err := suite.addresses.GetCurrentAddress(suite.ctx, suite.company, domain.Registered)
	suite.Require().NoError(err)
	return *current
}

func (suite *WorkflowServiceTestSuite) notified(subjectPrefix string) bool {
	for _, call := range suite.notifier.Calls {
		n := call.Arguments.Get(1).(domain.Notification)
		if strings.HasPrefix(n.Subject, subjectPrefix) {
			return true
		}
	}
	return false
}

func (suite *WorkflowServiceTestSuite) TestInitiate_AutoApprovesCleanChange() {
	wf := suite.initiate(queenStreet("2", "1011"), "2024-06-15")

	suite.Equal(domain.StatusApproved, wf.Status)
	suite.Equal(services.AutoApprover, wf.ApprovedBy)
	suite.Require().NotNil(wf.ExecutedAddress)
	suite.Require().NotNil(wf.CurrentAddress)
	suite.Equal(suite.original.AddressID, wf.CurrentAddress.AddressID)

	current := suite.currentRegistered()
	suite.Equal(wf.ExecutedAddress.AddressID, current.AddressID)
	suite.Equal("2 Queen St", current.Line1)

	old, err := suite.addresses.GetAddressAtDate(suite.ctx, suite.company, domain.Registered, day("2024-06-14"))
	suite.Require().NoError(err)
	suite.Equal(suite.original.AddressID, old.AddressID)
	suite.Equal(day("2024-06-14"), *old.EffectiveTo)

	stored, err := suite.service.GetWorkflow(suite.ctx, wf.WorkflowID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, stored.Status)

	events := suite.audit.For(domain.ResourceAddressChange, wf.WorkflowID)
	suite.Require().Len(events, 2)
	suite.Equal(domain.AuditCreate, events[0].Action)
	suite.Equal(domain.AuditUpdate, events[1].Action)
	suite.Equal(true, events[1].Details["auto_approved"])
	suite.True(suite.notified("Address change approved"))
}

func (suite *WorkflowServiceTestSuite) TestInitiate_CountryChangeWaitsForApproval() {
	wf := suite.initiate(georgeStreet(), "2024-06-15")

	suite.Equal(domain.StatusPendingApproval, wf.Status)
	suite.True(wf.ValidationResult.IsValid())
	suite.True(wf.ValidationResult.HasWarning(domain.WarningCountryChange))
	suite.Nil(wf.ExecutedAddress)
	suite.Equal(suite.original.AddressID, suite.currentRegistered().AddressID)
	suite.True(suite.notified("Address change awaiting approval"))
}

func (suite *WorkflowServiceTestSuite) TestInitiate_BeyondHorizonWaitsForApproval() {
	wf := suite.initiate(queenStreet("2", "1011"), "2025-01-06")

	suite.Equal(domain.StatusPendingApproval, wf.Status)
	suite.Empty(wf.ValidationResult.Warnings)
}

func (suite *WorkflowServiceTestSuite) TestInitiate_InvalidAddressIsRecordedAsFailed() {
	wf := suite.initiate(queenStreet("2", "abc"), "2024-06-15")

	suite.Equal(domain.StatusValidationFailed, wf.Status)
	suite.False(wf.ValidationResult.IsValid())

	stored, err := suite.service.GetWorkflow(suite.ctx, wf.WorkflowID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusValidationFailed, stored.Status)
	suite.Equal(suite.original.AddressID, suite.currentRegistered().AddressID)

	_, err = suite.service.Approve(suite.ctx, wf.WorkflowID, "bob")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *WorkflowServiceTestSuite) TestInitiate_UnknownCompanyOrType() {
	_, err := suite.service.Initiate(suite.ctx, domain.InitiateRequest{
		CompanyID: "ghost", AddressType: domain.Registered, Address: queenStreet("2", "1011"), EffectiveDate: day("2024-06-15"),
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.Initiate(suite.ctx, domain.InitiateRequest{
		CompanyID: suite.company, AddressType: "POSTAL", Address: queenStreet("2", "1011"), EffectiveDate: day("2024-06-15"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WorkflowServiceTestSuite) TestApprove_ExecutesPendingChange() {
	pending := suite.initiate(georgeStreet(), "2024-07-01")

	approved, err := suite.service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Equal("bob", approved.ApprovedBy)
	suite.Equal(suite.now, *approved.ApprovedAt)
	suite.Equal("AU", suite.currentRegistered().Country)

	_, err = suite.service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	_, err = suite.service.Reject(suite.ctx, pending.WorkflowID, "changed my mind", "bob")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *WorkflowServiceTestSuite) TestApprove_NotFound() {
	_, err := suite.service.Approve(suite.ctx, "missing", "bob")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WorkflowServiceTestSuite) TestApprove_ConcurrentApproversExecuteOnce() {
	pending := suite.initiate(georgeStreet(), "2024-07-01")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.Approve(suite.ctx, pending.WorkflowID, "bob")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrInvalidState)
	}
	suite.Equal(1, succeeded)

	registeredOnly := domain.Registered
	history, err := suite.addresses.GetAddressHistory(suite.ctx, suite.company, &registeredOnly)
	suite.Require().NoError(err)
	suite.Len(history, 2)
}

func (suite *WorkflowServiceTestSuite) TestApprove_StaleProposalStaysPending() {
	pending := suite.initiate(georgeStreet(), "2024-06-20")

	// Someone else moves the address to a later date in the meantime.
	_, err := suite.addresses.ChangeAddress(suite.ctx, suite.company, domain.Registered, queenStreet("9", "1010"), day("2024-07-01"), "carol")
	suite.Require().NoError(err)

	_, err = suite.service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)

	stored, err := suite.service.GetWorkflow(suite.ctx, pending.WorkflowID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingApproval, stored.Status)
	suite.Equal("9 Queen St", suite.currentRegistered().Line1)
}

func (suite *WorkflowServiceTestSuite) TestApprove_RetryAfterLostApprovalDoesNotChangeTwice() {
	pending := suite.initiate(georgeStreet(), "2024-07-01")

	workflows := &flakyWorkflowRepo{WorkflowRepositoryFacade: suite.repos.WorkflowRepo, failUpdates: true}
	service := suite.workflowService(suite.addresses, workflows)

	_, err := service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.Require().Error(err)
	moved := suite.currentRegistered()
	suite.Equal("1 George St", moved.Line1)
	stored, err := service.GetWorkflow(suite.ctx, pending.WorkflowID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingApproval, stored.Status)

	workflows.failUpdates = false
	approved, err := service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Require().NotNil(approved.ExecutedAddress)
	suite.Equal(moved.AddressID, approved.ExecutedAddress.AddressID)
	suite.Equal(moved.AddressID, suite.currentRegistered().AddressID)

	registeredOnly := domain.Registered
	history, err := suite.addresses.GetAddressHistory(suite.ctx, suite.company, &registeredOnly)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(suite.original.AddressID, history[0].AddressID)
	suite.Equal(day("2024-06-30"), *history[0].EffectiveTo)
}

func (suite *WorkflowServiceTestSuite) TestReject() {
	pending := suite.initiate(georgeStreet(), "2024-07-01")

	_, err := suite.service.Reject(suite.ctx, pending.WorkflowID, "   ", "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.NotErrorIs(err, apperrors.ErrInvalidState)

	rejected, err := suite.service.Reject(suite.ctx, pending.WorkflowID, "wrong country", "bob")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Equal("wrong country", rejected.RejectionReason)
	suite.Equal("bob", rejected.RejectedBy)
	suite.Equal(suite.original.AddressID, suite.currentRegistered().AddressID)
	suite.True(suite.notified("Address change rejected"))

	_, err = suite.service.Approve(suite.ctx, pending.WorkflowID, "bob")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *WorkflowServiceTestSuite) TestListPendingWorkflows() {
	first := suite.initiate(georgeStreet(), "2024-07-01")
	suite.now = suite.now.Add(time.Minute)
	second := suite.initiate(lambtonQuay(), "2024-07-01")
	suite.now = suite.now.Add(time.Minute)
	suite.initiate(queenStreet("2", "1011"), "2024-06-15") // approved at once

	page, next, err := suite.service.ListPendingWorkflows(suite.ctx, suite.company, 1, nil)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(first.WorkflowID, page[0].WorkflowID)
	suite.Require().NotNil(next)

	page, next, err = suite.service.ListPendingWorkflows(suite.ctx, suite.company, 1, next)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(second.WorkflowID, page[0].WorkflowID)
	suite.Nil(next)
}

func (suite *WorkflowServiceTestSuite) bulk(items ...domain.BulkItem) *domain.BulkUpdateResult {
	result, err := suite.service.BulkUpdate(suite.ctx, domain.BulkUpdateRequest{
		CompanyID:     suite.company,
		Items:         items,
		EffectiveDate: day("2024-06-15"),
		RequestedBy:   "alice",
	})
	suite.Require().NoError(err)
	return result
}

func serviceAddress() domain.Address {
	a := queenStreet("5", "1010")
	a.Email = "ops@acme.example"
	return a
}

func communicationAddress() domain.Address {
	a := queenStreet("7", "1010")
	a.Phone = "09 123 4567"
	return a
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_OneInvalidItemStopsEverything() {
	badService := serviceAddress()
	badService.Postcode = "abc"

	result := suite.bulk(
		domain.BulkItem{AddressType: domain.Registered, Address: queenStreet("2", "1011")},
		domain.BulkItem{AddressType: domain.Service, Address: badService},
		domain.BulkItem{AddressType: domain.Communication, Address: communicationAddress()},
	)

	suite.Equal(domain.BulkValidationFailed, result.Status)
	suite.Equal(0, result.Approved)
	suite.Require().Len(result.Errors, 1)
	suite.Equal(2, result.Errors[0].Item)
	suite.Equal(domain.Service, result.Errors[0].AddressType)
	suite.NotEmpty(result.Errors[0].Messages)

	suite.Equal(suite.original.AddressID, suite.currentRegistered().AddressID)
	history, err := suite.addresses.GetAddressHistory(suite.ctx, suite.company, nil)
	suite.Require().NoError(err)
	suite.Len(history, 1)

	suite.Require().Len(result.Workflows, 1)
	suite.Equal(domain.StatusValidationFailed, result.Workflows[0].Status)
	pending, _, err := suite.service.ListPendingWorkflows(suite.ctx, suite.company, 10, nil)
	suite.Require().NoError(err)
	suite.Empty(pending)
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_AllCleanCompletes() {
	result := suite.bulk(
		domain.BulkItem{AddressType: domain.Registered, Address: queenStreet("2", "1011")},
		domain.BulkItem{AddressType: domain.Service, Address: serviceAddress()},
		domain.BulkItem{AddressType: domain.Communication, Address: communicationAddress()},
	)

	suite.Equal(domain.BulkCompleted, result.Status)
	suite.Equal(3, result.Approved)
	suite.Equal(0, result.Pending)
	suite.Empty(result.Errors)
	for _, wf := range result.Workflows {
		suite.Equal(domain.StatusApproved, wf.Status)
	}

	snapshot, err := services.NewHistoryService(suite.addresses).Snapshot(suite.ctx, suite.company, day("2024-06-15"))
	suite.Require().NoError(err)
	suite.Len(snapshot.Addresses, 3)
	suite.True(snapshot.Complete)
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_SignificantItemWaits() {
	result := suite.bulk(
		domain.BulkItem{AddressType: domain.Registered, Address: georgeStreet()},
		domain.BulkItem{AddressType: domain.Service, Address: serviceAddress()},
	)

	suite.Equal(domain.BulkPendingApproval, result.Status)
	suite.Equal(1, result.Approved)
	suite.Equal(1, result.Pending)
	suite.Equal(suite.original.AddressID, suite.currentRegistered().AddressID)
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_ExecutionFailureKeepsEarlierItems() {
	service := suite.workflowService(unavailableForType{AddressSvcFacade: suite.addresses, addressType: domain.Service}, suite.repos.WorkflowRepo)

	result, err := service.BulkUpdate(suite.ctx, domain.BulkUpdateRequest{
		CompanyID: suite.company,
		Items: []domain.BulkItem{
			{AddressType: domain.Registered, Address: queenStreet("2", "1011")},
			{AddressType: domain.Service, Address: serviceAddress()},
			{AddressType: domain.Communication, Address: communicationAddress()},
		},
		EffectiveDate: day("2024-06-15"),
		RequestedBy:   "alice",
	})
	suite.Require().NoError(err)

	suite.Equal(domain.BulkPartiallyFailed, result.Status)
	suite.Equal(2, result.Approved)
	suite.Equal(0, result.Pending)
	suite.Require().Len(result.Errors, 1)
	suite.Equal(2, result.Errors[0].Item)
	suite.Equal(domain.Service, result.Errors[0].AddressType)
	suite.Equal([]string{"postal registry unavailable"}, result.Errors[0].Messages)

	suite.Equal("2 Queen St", suite.currentRegistered().Line1)
	communication, err := suite.addresses.GetCurrentAddress(suite.ctx, suite.company, domain.Communication)
	suite.Require().NoError(err)
	suite.Equal("7 Queen St", communication.Line1)
	_, err = suite.addresses.GetCurrentAddress(suite.ctx, suite.company, domain.Service)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Require().Len(result.Workflows, 3)
	statuses := map[domain.AddressType]domain.WorkflowStatus{}
	for _, wf := range result.Workflows {
		statuses[wf.AddressType] = wf.Status
	}
	suite.Equal(domain.StatusApproved, statuses[domain.Registered])
	suite.Equal(domain.StatusPendingApproval, statuses[domain.Service])
	suite.Equal(domain.StatusApproved, statuses[domain.Communication])

	pending, _, err := service.ListPendingWorkflows(suite.ctx, suite.company, 10, nil)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(domain.Service, pending[0].AddressType)
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_DuplicateType() {
	result := suite.bulk(
		domain.BulkItem{AddressType: domain.Service, Address: serviceAddress()},
		domain.BulkItem{AddressType: domain.Service, Address: serviceAddress()},
	)

	suite.Equal(domain.BulkValidationFailed, result.Status)
	suite.Require().Len(result.Errors, 1)
	suite.Equal(2, result.Errors[0].Item)
	suite.Contains(result.Errors[0].Messages[0], "already appears in item 1")
}

func (suite *WorkflowServiceTestSuite) TestBulkUpdate_Empty() {
	_, err := suite.service.BulkUpdate(suite.ctx, domain.BulkUpdateRequest{CompanyID: suite.company, EffectiveDate: day("2024-06-15")})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
