package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/dto"
	"github.com/SscSPs/company_register_app/internal/handlers"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/SscSPs/company_register_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	addresses *MockAddressService
	validator *MockAddressValidator
	workflows *MockWorkflowService
	history   *MockHistoryService
	companies *MockCompanyService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.addresses = new(MockAddressService)
	suite.validator = new(MockAddressValidator)
	suite.workflows = new(MockWorkflowService)
	suite.history = new(MockHistoryService)
	suite.companies = new(MockCompanyService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Address:   suite.addresses,
		Validator: suite.validator,
		Workflow:  suite.workflows,
		History:   suite.history,
		Company:   suite.companies,
	}, nil)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.addresses.AssertExpectations(suite.T())
	suite.validator.AssertExpectations(suite.T())
	suite.workflows.AssertExpectations(suite.T())
	suite.history.AssertExpectations(suite.T())
	suite.companies.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) do(method, path string, body any, actor string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func storedAddress() *domain.Address {
	return &domain.Address{
		AddressID:     "addr-1",
		CompanyID:     "co-1",
		AddressType:   domain.Registered,
		Line1:         "1 Queen Street",
		City:          "Auckland",
		Postcode:      "1010",
		Country:       "NZ",
		EffectiveFrom: day("2024-01-01"),
	}
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestCreateAddress_Success() {
	suite.addresses.On("CreateAddress", mock.Anything, mock.MatchedBy(func(a domain.Address) bool {
		return a.CompanyID == "co-1" && a.AddressType == domain.Registered &&
			a.EffectiveFrom.Equal(day("2024-01-01")) && a.EffectiveTo == nil && a.Line1 == "1 Queen Street"
	}), "alice").Return(storedAddress(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/addresses", map[string]any{
		"addressType":   "registered",
		"line1":         "1 Queen Street",
		"city":          "Auckland",
		"postcode":      "1010",
		"country":       "NZ",
		"effectiveFrom": "2024-01-01",
	}, "alice")

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AddressResponse
	suite.decode(w, &res)
	suite.Equal("addr-1", res.AddressID)
	suite.Equal("2024-01-01", res.EffectiveFrom)
	suite.Nil(res.EffectiveTo)
	suite.True(res.IsCurrent)
}

func (suite *HandlerTestSuite) TestCreateAddress_ValidationIssues() {
	suite.addresses.On("CreateAddress", mock.Anything, mock.Anything, middleware.AnonymousActor).Return(nil,
		apperrors.NewValidationError(
			apperrors.FieldIssue{Field: "line1", Rule: "required", Message: "address line 1 is required"},
			apperrors.FieldIssue{Field: "postcode", Rule: "postcode_format", Message: "New Zealand postcode must be 4 digits between 0110 and 9999"},
		)).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/addresses", map[string]any{
		"addressType":   "REGISTERED",
		"city":          "Auckland",
		"postcode":      "abc",
		"country":       "NZ",
		"effectiveFrom": "2024-01-01",
	}, "")

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var res dto.ValidationErrorResponse
	suite.decode(w, &res)
	suite.Require().Len(res.Issues, 2)
	suite.Equal("line1", res.Issues[0].Field)
	suite.Equal("postcode_format", res.Issues[1].Rule)
}

func (suite *HandlerTestSuite) TestCreateAddress_Overlap() {
	suite.addresses.On("CreateAddress", mock.Anything, mock.Anything, "alice").Return(nil, &apperrors.OverlapConflictError{
		CompanyID: "co-1", AddressType: "REGISTERED", From: day("2024-03-01"), ConflictingID: "addr-1",
	}).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/addresses", map[string]any{
		"addressType": "REGISTERED", "line1": "x", "city": "Auckland", "country": "NZ", "effectiveFrom": "2024-03-01",
	}, "alice")

	suite.Equal(http.StatusConflict, w.Code)
	var res dto.ConflictResponse
	suite.decode(w, &res)
	suite.Equal("addr-1", res.ConflictingAddressID)
}

func (suite *HandlerTestSuite) TestCreateAddress_BadInput() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "bad date", body: map[string]any{"addressType": "REGISTERED", "effectiveFrom": "01/02/2024"}},
		{name: "bad effective to", body: map[string]any{"addressType": "REGISTERED", "effectiveFrom": "2024-01-01", "effectiveTo": "soon"}},
		{name: "unknown type", body: map[string]any{"addressType": "BILLING", "effectiveFrom": "2024-01-01"}},
		{name: "missing type", body: map[string]any{"effectiveFrom": "2024-01-01"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/companies/co-1/addresses", tt.body, "alice")
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.addresses.AssertNotCalled(suite.T(), "CreateAddress", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestUpdateAddress_UsesPathIdentity() {
	suite.addresses.On("UpdateAddress", mock.Anything, mock.MatchedBy(func(a domain.Address) bool {
		return a.AddressID == "addr-1" && a.CompanyID == "co-1" && a.EffectiveTo != nil && a.EffectiveTo.Equal(day("2024-05-31"))
	}), "alice").Return(storedAddress(), nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/companies/co-1/addresses/addr-1", map[string]any{
		"addressType": "REGISTERED", "line1": "1 Queen Street", "city": "Auckland", "country": "NZ",
		"effectiveFrom": "2024-01-01", "effectiveTo": "2024-05-31",
	}, "alice")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestChangeAddress() {
	opened := storedAddress()
	opened.AddressID = "addr-2"
	opened.EffectiveFrom = day("2024-06-01")
	suite.addresses.On("ChangeAddress", mock.Anything, "co-1", domain.Service, mock.MatchedBy(func(a domain.Address) bool {
		return a.Line1 == "2 George Street"
	}), day("2024-06-01"), "alice").Return(opened, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/addresses/service/change", map[string]any{
		"address":       map[string]any{"line1": "2 George Street", "city": "Auckland", "country": "NZ"},
		"effectiveDate": "2024-06-01",
	}, "alice")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AddressResponse
	suite.decode(w, &res)
	suite.Equal("addr-2", res.AddressID)
}

func (suite *HandlerTestSuite) TestGetCurrentAddress() {
	suite.addresses.On("GetCurrentAddress", mock.Anything, "co-1", domain.Registered).Return(storedAddress(), nil).Once()
	suite.addresses.On("GetCurrentAddress", mock.Anything, "co-2", domain.Registered).
		Return(nil, fmt.Errorf("no current REGISTERED address for company co-2: %w", apperrors.ErrNotFound)).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses/REGISTERED/current", nil, "").Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/companies/co-2/addresses/REGISTERED/current", nil, "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses/POSTAL/current", nil, "").Code)
}

func (suite *HandlerTestSuite) TestGetAddressAtDate() {
	suite.addresses.On("GetAddressAtDate", mock.Anything, "co-1", domain.Registered, day("2024-03-15")).Return(storedAddress(), nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses/REGISTERED/at?date=2024-03-15", nil, "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses/REGISTERED/at", nil, "").Code)
}

func (suite *HandlerTestSuite) TestGetAddressHistory() {
	suite.addresses.On("GetAddressHistory", mock.Anything, "co-1", mock.MatchedBy(func(t *domain.AddressType) bool {
		return t != nil && *t == domain.Communication
	})).Return([]domain.Address{*storedAddress()}, nil).Once()
	suite.addresses.On("GetAddressHistory", mock.Anything, "co-1", (*domain.AddressType)(nil)).Return([]domain.Address{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses?type=communication", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AddressResponse
	suite.decode(w, &res)
	suite.Len(res, 1)

	w = suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *HandlerTestSuite) TestRequirements() {
	suite.addresses.On("ValidateCompanyRequiredAddresses", mock.Anything, "co-1").
		Return([]string{"Company must have a current SERVICE address"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/companies/co-1/addresses/requirements", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var res dto.RequirementsResponse
	suite.decode(w, &res)
	suite.False(res.Compliant)
	suite.Equal([]string{"Company must have a current SERVICE address"}, res.Missing)
}

func (suite *HandlerTestSuite) TestValidateDryRun() {
	result := domain.NewValidationResult()
	result.AddWarning(domain.WarningPostcodeMissing, "postcode", "postcode is missing for a New Zealand address")
	suite.validator.On("Validate", mock.Anything, mock.MatchedBy(func(a domain.Address) bool {
		return a.AddressType == domain.Service && a.CompanyID == "co-1" && a.EffectiveFrom.Equal(day("2024-02-01"))
	})).Return(result).Once()

	w := suite.do(http.MethodPost, "/api/v1/addresses/validate", map[string]any{
		"companyID": "co-1", "addressType": " service ", "line1": "1 Queen Street", "city": "Auckland", "country": "NZ", "effectiveFrom": "2024-02-01",
	}, "")

	suite.Equal(http.StatusOK, w.Code)
	var res domain.ValidationResult
	suite.decode(w, &res)
	suite.True(res.IsValid())
	suite.True(res.HasWarning(domain.WarningPostcodeMissing))
}

func pendingWorkflow() *domain.AddressChangeWorkflow {
	current := storedAddress()
	return &domain.AddressChangeWorkflow{
		WorkflowID:       "wf-1",
		CompanyID:        "co-1",
		AddressType:      domain.Registered,
		CurrentAddress:   current,
		ProposedAddress:  domain.Address{CompanyID: "co-1", AddressType: domain.Registered, Line1: "1 George Street", City: "Sydney", Country: "AU"},
		EffectiveDate:    day("2024-07-01"),
		Status:           domain.StatusPendingApproval,
		ValidationResult: domain.NewValidationResult(),
		RequestedBy:      "alice",
		RequestedAt:      time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (suite *HandlerTestSuite) TestInitiateChange() {
	suite.workflows.On("Initiate", mock.Anything, mock.MatchedBy(func(req domain.InitiateRequest) bool {
		return req.CompanyID == "co-1" && req.AddressType == domain.Registered &&
			req.EffectiveDate.Equal(day("2024-07-01")) && req.RequestedBy == middleware.AnonymousActor && req.Address.Country == "AU"
	})).Return(pendingWorkflow(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/address-changes", map[string]any{
		"addressType":   "REGISTERED",
		"address":       map[string]any{"line1": "1 George Street", "city": "Sydney", "country": "AU"},
		"effectiveDate": "2024-07-01",
	}, "")

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.WorkflowResponse
	suite.decode(w, &res)
	suite.Equal("PENDING_APPROVAL", res.Status)
	suite.Equal("2024-07-01", res.EffectiveDate)
	suite.Require().NotNil(res.CurrentAddress)
	suite.Equal("addr-1", res.CurrentAddress.AddressID)
	suite.Nil(res.ExecutedAddress)
}

func (suite *HandlerTestSuite) TestApprove_InvalidState() {
	suite.workflows.On("Approve", mock.Anything, "wf-1", "bob").
		Return(nil, &apperrors.StateError{WorkflowID: "wf-1", Status: "APPROVED", Action: "approve"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/address-changes/wf-1/approve", nil, "bob")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "cannot approve workflow wf-1 in status APPROVED")
}

func (suite *HandlerTestSuite) TestReject() {
	rejected := pendingWorkflow()
	rejected.Status = domain.StatusRejected
	rejected.RejectionReason = "not requested by a director"
	suite.workflows.On("Reject", mock.Anything, "wf-1", "not requested by a director", "bob").Return(rejected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/address-changes/wf-1/reject", map[string]any{"reason": "not requested by a director"}, "bob")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/address-changes/wf-1/reject", map[string]any{}, "bob")
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.workflows.On("Reject", mock.Anything, "wf-1", "   ", "bob").
		Return(nil, apperrors.NewValidationError(apperrors.FieldIssue{Field: "reason", Rule: "required", Message: "a rejection reason is required"})).Once()
	w = suite.do(http.MethodPost, "/api/v1/address-changes/wf-1/reject", map[string]any{"reason": "   "}, "bob")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), `"field":"reason"`)
}

func (suite *HandlerTestSuite) TestGetWorkflow_NotFound() {
	suite.workflows.On("GetWorkflow", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/address-changes/missing", nil, "").Code)
}

func (suite *HandlerTestSuite) TestListPending() {
	next := "token-2"
	suite.workflows.On("ListPendingWorkflows", mock.Anything, "co-1", 1, (*string)(nil)).
		Return([]domain.AddressChangeWorkflow{*pendingWorkflow()}, &next, nil).Once()
	suite.workflows.On("ListPendingWorkflows", mock.Anything, "", 0, mock.MatchedBy(func(t *string) bool { return t != nil && *t == "garbage" })).
		Return(nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", errors.New("illegal base64 data"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/address-changes/pending?companyID=co-1&limit=1", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListWorkflowsResponse
	suite.decode(w, &res)
	suite.Len(res.Workflows, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("token-2", *res.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/address-changes/pending?nextToken=garbage", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"error":"invalid nextToken"}`, w.Body.String())

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/address-changes/pending?limit=500", nil, "").Code)
}

func (suite *HandlerTestSuite) TestBulkChange() {
	suite.workflows.On("BulkUpdate", mock.Anything, mock.MatchedBy(func(req domain.BulkUpdateRequest) bool {
		return len(req.Items) == 2 && req.Items[1].AddressType == domain.Service && req.RequestedBy == "alice"
	})).Return(&domain.BulkUpdateResult{
		Status: domain.BulkValidationFailed,
		Errors: []domain.BulkItemError{{Item: 2, AddressType: domain.Service, Messages: []string{"New Zealand postcode must be 4 digits between 0110 and 9999"}}},
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies/co-1/address-changes/bulk", map[string]any{
		"effectiveDate": "2024-07-01",
		"items": []map[string]any{
			{"addressType": "REGISTERED", "address": map[string]any{"line1": "1 Queen Street", "city": "Auckland", "country": "NZ"}},
			{"addressType": "SERVICE", "address": map[string]any{"line1": "1 Queen Street", "city": "Auckland", "country": "NZ", "postcode": "abc"}},
		},
	}, "alice")

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BulkChangeResponse
	suite.decode(w, &res)
	suite.Equal("VALIDATION_FAILED", res.Status)
	suite.Equal(0, res.Approved)
	suite.Require().Len(res.Errors, 1)
	suite.Equal(2, res.Errors[0].Item)
	suite.Empty(res.Workflows)

	w = suite.do(http.MethodPost, "/api/v1/companies/co-1/address-changes/bulk", map[string]any{"effectiveDate": "2024-07-01", "items": []any{}}, "alice")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestHistoryEndpoints() {
	addr := *storedAddress()
	suite.history.On("Snapshot", mock.Anything, "co-1", day("2024-03-15")).Return(&domain.AddressSnapshot{
		CompanyID: "co-1", Date: day("2024-03-15"), Complete: true,
		Addresses: map[domain.AddressType]domain.Address{domain.Registered: addr},
	}, nil).Once()
	suite.history.On("AnalyzeHistory", mock.Anything, "co-1").Return(&domain.HistoryReport{
		CompanyID: "co-1", TotalChanges: 1, StabilityScore: decimal.RequireFromString("50.96"),
		Changes: []domain.AddressChangeEvent{}, Validation: domain.HistoryValidation{CompanyID: "co-1", Errors: []string{}, Warnings: []string{}},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/companies/co-1/address-history/snapshot?date=2024-03-15", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var snap dto.SnapshotResponse
	suite.decode(w, &snap)
	suite.True(snap.Complete)
	suite.Equal("addr-1", snap.Addresses["REGISTERED"].AddressID)

	w = suite.do(http.MethodGet, "/api/v1/companies/co-1/address-history/analysis", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"stabilityScore":"50.96"`)

	w = suite.do(http.MethodGet, "/api/v1/companies/co-1/address-history/changes?from=2024-06-01&to=2024-01-01", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCompanies() {
	suite.companies.On("CreateCompany", mock.Anything, "Acme Ltd", "1234567", "alice").
		Return(&domain.Company{CompanyID: "co-1", Name: "Acme Ltd", RegistrationNumber: "1234567", IsActive: true}, nil).Once()
	suite.companies.On("CreateCompany", mock.Anything, "Acme Again Ltd", "1234567", "alice").
		Return(nil, fmt.Errorf("registration number 1234567: %w", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme Ltd", "registrationNumber": "1234567"}, "alice")
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme Again Ltd", "registrationNumber": "1234567"}, "alice")
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestUnexpectedErrorsDoNotLeak() {
	suite.companies.On("GetCompany", mock.Anything, "co-1").Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")).Once()

	w := suite.do(http.MethodGet, "/api/v1/companies/co-1", nil, "")
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to retrieve company"}`, w.Body.String())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
