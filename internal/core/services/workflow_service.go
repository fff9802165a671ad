package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/utils/keylock"
	"github.com/SscSPs/company_register_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// AutoApprover is recorded as the approver of changes executed without manual sign-off.
const AutoApprover = "system:auto-approval"

// WorkflowConfig carries the optional collaborators and settings of the workflow service.
type WorkflowConfig struct {
	// Companies, when set, rejects proposals for unknown companies.
	Companies portsrepo.CompanyReader
	// Notifier and Recipients receive hold, approval and rejection notices.
	Notifier   portssvc.NotificationDispatcher
	Recipients []string
	// AutoApproveHorizonMonths defaults to domain.DefaultAutoApproveHorizonMonths.
	AutoApproveHorizonMonths int
}

// workflowService implements the WorkflowSvcFacade interface
type workflowService struct {
	BaseService
	addresses    portssvc.AddressSvcFacade
	validator    portssvc.AddressValidatorSvc
	workflowRepo portsrepo.WorkflowRepositoryFacade
	companies    portsrepo.CompanyReader
	notifier     portssvc.NotificationDispatcher
	recipients   []string
	horizon      int
	inFlight     *keylock.Locker
}

// NewWorkflowService creates the address change workflow service.
func NewWorkflowService(addresses portssvc.AddressSvcFacade, validator portssvc.AddressValidatorSvc, workflowRepo portsrepo.WorkflowRepositoryFacade, cfg WorkflowConfig, opts ...Option) portssvc.WorkflowSvcFacade {
	horizon := cfg.AutoApproveHorizonMonths
	if horizon <= 0 {
		horizon = domain.DefaultAutoApproveHorizonMonths
	}
	return &workflowService{
		BaseService:  newBaseService(opts),
		addresses:    addresses,
		validator:    validator,
		workflowRepo: workflowRepo,
		companies:    cfg.Companies,
		notifier:     cfg.Notifier,
		recipients:   cfg.Recipients,
		horizon:      horizon,
		inFlight:     keylock.New(),
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// Initiate validates a proposal, records it and acts on the decision for it.
func (s *workflowService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.AddressChangeWorkflow, error) {
	wf, err := s.propose(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, wf); err != nil {
		return nil, err
	}

	switch s.decide(ctx, wf) {
	case domain.IntentReject:
		return &wf, nil
	case domain.IntentAutoApprove:
		approved, err := s.execute(ctx, wf, AutoApprover)
		if err != nil {
			return nil, err
		}
		return &approved, nil
	default:
		s.notify(ctx, holdNotification(wf))
		return &wf, nil
	}
}

// Approve executes a pending workflow on behalf of approver.
func (s *workflowService) Approve(ctx context.Context, workflowID, approver string) (*domain.AddressChangeWorkflow, error) {
	unlock := s.inFlight.Lock(workflowID)
	defer unlock()

	wf, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	approved, err := s.execute(ctx, *wf, approver)
	if err != nil {
		return nil, err
	}
	return &approved, nil
}

// Reject discards a pending workflow. No address is touched.
func (s *workflowService) Reject(ctx context.Context, workflowID, reason, actor string) (*domain.AddressChangeWorkflow, error) {
	unlock := s.inFlight.Lock(workflowID)
	defer unlock()

	wf, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	rejected, err := wf.Rejected(strings.TrimSpace(reason), actor, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.workflowRepo.UpdateWorkflow(ctx, rejected); err != nil {
		s.LogError(ctx, err, "Failed to persist rejected workflow", slog.String("workflow_id", workflowID))
		return nil, fmt.Errorf("failed to reject workflow %s: %w", workflowID, err)
	}

	s.Metrics.IncrementTransition(string(rejected.Status))
	s.RecordAudit(ctx, domain.AuditUpdate, domain.ResourceAddressChange, rejected.WorkflowID, actor, map[string]any{
		"status":           string(rejected.Status),
		"rejection_reason": rejected.RejectionReason,
	})
	s.notify(ctx, rejectedNotification(rejected))
	s.LogInfo(ctx, "Address change rejected", slog.String("workflow_id", workflowID), slog.String("rejected_by", actor))
	return &rejected, nil
}

// BulkUpdate proposes every item first. If any item fails, nothing executes. Otherwise each workflow is
// decided on its own and auto-approvable ones execute; an execution failure does not undo earlier items.
func (s *workflowService) BulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) (*domain.BulkUpdateResult, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError(apperrors.FieldIssue{Field: "items", Rule: "required", Message: "at least one address is required"})
	}

	result := &domain.BulkUpdateResult{Workflows: []domain.AddressChangeWorkflow{}, Errors: []domain.BulkItemError{}}
	proposed := make([]domain.AddressChangeWorkflow, 0, len(req.Items))
	failed := make([]domain.AddressChangeWorkflow, 0)
	seen := make(map[domain.AddressType]int, len(req.Items))

	for i, item := range req.Items {
		itemNo := i + 1
		if first, dup := seen[item.AddressType]; dup {
			result.Errors = append(result.Errors, domain.BulkItemError{
				Item:        itemNo,
				AddressType: item.AddressType,
				Messages:    []string{fmt.Sprintf("address type %s already appears in item %d", item.AddressType, first)},
			})
			continue
		}
		seen[item.AddressType] = itemNo

		wf, err := s.proposeSafely(ctx, domain.InitiateRequest{
			CompanyID:     req.CompanyID,
			AddressType:   item.AddressType,
			Address:       item.Address,
			EffectiveDate: req.EffectiveDate,
			RequestedBy:   req.RequestedBy,
		})
		switch {
		case err != nil:
			result.Errors = append(result.Errors, domain.BulkItemError{Item: itemNo, AddressType: item.AddressType, Messages: errorMessages(err)})
		case wf.Status == domain.StatusValidationFailed:
			result.Errors = append(result.Errors, domain.BulkItemError{Item: itemNo, AddressType: item.AddressType, Messages: wf.ValidationResult.ErrorMessages()})
			failed = append(failed, wf)
		default:
			proposed = append(proposed, wf)
		}
	}

	if len(result.Errors) > 0 {
		for _, wf := range failed {
			if err := s.record(ctx, wf); err != nil {
				s.LogError(ctx, err, "Failed to record failed bulk item", slog.String("workflow_id", wf.WorkflowID))
				continue
			}
			result.Workflows = append(result.Workflows, wf)
		}
		result.Status = domain.BulkValidationFailed
		s.LogInfo(ctx, "Bulk address update failed validation", slog.String("company_id", req.CompanyID), slog.Int("failed_items", len(result.Errors)))
		return result, nil
	}

	executionFailed := false
	for i, wf := range proposed {
		itemNo := i + 1
		if err := s.record(ctx, wf); err != nil {
			result.Errors = append(result.Errors, domain.BulkItemError{Item: itemNo, AddressType: wf.AddressType, Messages: errorMessages(err)})
			executionFailed = true
			continue
		}
		switch s.decide(ctx, wf) {
		case domain.IntentAutoApprove:
			approved, err := s.execute(ctx, wf, AutoApprover)
			if err != nil {
				result.Errors = append(result.Errors, domain.BulkItemError{Item: itemNo, AddressType: wf.AddressType, Messages: errorMessages(err)})
				result.Workflows = append(result.Workflows, wf)
				executionFailed = true
				continue
			}
			result.Approved++
			result.Workflows = append(result.Workflows, approved)
		default:
			result.Pending++
			result.Workflows = append(result.Workflows, wf)
			s.notify(ctx, holdNotification(wf))
		}
	}

	switch {
	case executionFailed:
		result.Status = domain.BulkPartiallyFailed
	case result.Pending > 0:
		result.Status = domain.BulkPendingApproval
	default:
		result.Status = domain.BulkCompleted
	}
	s.LogInfo(ctx, "Bulk address update processed",
		slog.String("company_id", req.CompanyID),
		slog.String("status", string(result.Status)),
		slog.Int("approved", result.Approved),
		slog.Int("pending", result.Pending))
	return result, nil
}

// GetWorkflow returns a workflow by ID.
func (s *workflowService) GetWorkflow(ctx context.Context, workflowID string) (*domain.AddressChangeWorkflow, error) {
	wf, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find workflow", slog.String("workflow_id", workflowID))
		}
		return nil, err
	}
	return wf, nil
}

// ListPendingWorkflows returns a page of the approval queue.
func (s *workflowService) ListPendingWorkflows(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error) {
	workflows, next, err := s.workflowRepo.ListPendingWorkflows(ctx, companyID, pagination.ClampLimit(limit), nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending workflows", slog.String("company_id", companyID))
		return nil, nil, err
	}
	if workflows == nil {
		workflows = []domain.AddressChangeWorkflow{}
	}
	return workflows, next, nil
}

// propose validates a request against the current address and builds the workflow without storing it.
func (s *workflowService) propose(ctx context.Context, req domain.InitiateRequest) (domain.AddressChangeWorkflow, error) {
	if !req.AddressType.IsValid() {
		return domain.AddressChangeWorkflow{}, apperrors.NewValidationError(apperrors.FieldIssue{
			Field: "addressType", Rule: "enum", Message: fmt.Sprintf("address type %q is not one of REGISTERED, SERVICE, COMMUNICATION", req.AddressType),
		})
	}
	if req.EffectiveDate.IsZero() {
		return domain.AddressChangeWorkflow{}, apperrors.NewValidationError(apperrors.FieldIssue{
			Field: "effectiveDate", Rule: "required", Message: "effective date is required",
		})
	}
	if s.companies != nil {
		if _, err := s.companies.FindCompanyByID(ctx, req.CompanyID); err != nil {
			return domain.AddressChangeWorkflow{}, err
		}
	}

	effective := domain.DateOf(req.EffectiveDate)
	proposed := req.Address.Normalized()
	proposed.AddressID = ""
	proposed.CompanyID = req.CompanyID
	proposed.AddressType = req.AddressType
	proposed.EffectiveFrom = effective
	proposed.EffectiveTo = nil
	req.Address = proposed
	req.EffectiveDate = effective

	current, err := s.addresses.GetCurrentAddress(ctx, req.CompanyID, req.AddressType)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.AddressChangeWorkflow{}, fmt.Errorf("failed to load current address: %w", err)
	}

	var result domain.ValidationResult
	if current != nil {
		result = s.validator.ValidateUpdate(ctx, *current, proposed, effective)
	} else {
		result = s.validator.Validate(ctx, proposed)
	}

	return domain.NewAddressChangeWorkflow(uuid.NewString(), req, current, result, s.Now()), nil
}

// proposeSafely turns a panic while proposing one bulk item into an error for that item.
func (s *workflowService) proposeSafely(ctx context.Context, req domain.InitiateRequest) (wf domain.AddressChangeWorkflow, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("panic: %v", r), "Recovered while proposing bulk item", slog.String("address_type", string(req.AddressType)))
			err = fmt.Errorf("%w: unexpected failure while validating the address", apperrors.ErrInternal)
		}
	}()
	return s.propose(ctx, req)
}

// record persists a new workflow and audits its creation.
func (s *workflowService) record(ctx context.Context, wf domain.AddressChangeWorkflow) error {
	if err := s.workflowRepo.SaveWorkflow(ctx, wf); err != nil {
		s.LogError(ctx, err, "Failed to save workflow", slog.String("workflow_id", wf.WorkflowID))
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	s.Metrics.IncrementTransition(string(wf.Status))
	details := map[string]any{
		"company_id":        wf.CompanyID,
		"address_type":      string(wf.AddressType),
		"effective_date":    wf.EffectiveDate.Format(time.DateOnly),
		"status":            string(wf.Status),
		"validation_failed": !wf.ValidationResult.IsValid(),
	}
	if len(wf.ValidationResult.Warnings) > 0 {
		codes := make([]string, 0, len(wf.ValidationResult.Warnings))
		for _, w := range wf.ValidationResult.Warnings {
			codes = append(codes, string(w.Code))
		}
		details["warnings"] = codes
	}
	s.RecordAudit(ctx, domain.AuditCreate, domain.ResourceAddressChange, wf.WorkflowID, wf.RequestedBy, details)
	return nil
}

func (s *workflowService) decide(ctx context.Context, wf domain.AddressChangeWorkflow) domain.TransitionIntent {
	intent := domain.Decide(wf.ValidationResult, wf.EffectiveDate, s.Today(), s.horizon)
	s.Metrics.IncrementDecision(intent.String())
	s.LogDebug(ctx, "Address change decided", slog.String("workflow_id", wf.WorkflowID), slog.String("intent", intent.String()))
	return intent
}

// execute is the single path by which a workflow changes an address, for automatic and manual approval alike.
func (s *workflowService) execute(ctx context.Context, wf domain.AddressChangeWorkflow, approver string) (domain.AddressChangeWorkflow, error) {
	if err := wf.CheckApprovable(); err != nil {
		return wf, err
	}

	executed, err := s.previouslyExecuted(ctx, wf)
	if err != nil {
		return wf, err
	}
	if executed == nil {
		executed, err = s.addresses.ChangeAddress(ctx, wf.CompanyID, wf.AddressType, wf.ProposedAddress, wf.EffectiveDate, approver)
		if err != nil {
			return wf, err
		}
	} else {
		s.LogInfo(ctx, "Address change already applied, recording approval only",
			slog.String("workflow_id", wf.WorkflowID), slog.String("address_id", executed.AddressID))
	}

	approved, err := wf.Approved(*executed, approver, s.Now())
	if err != nil {
		return wf, err
	}
	if err := s.workflowRepo.UpdateWorkflow(ctx, approved); err != nil {
		s.LogError(ctx, err, "Address changed but workflow could not be marked approved",
			slog.String("workflow_id", wf.WorkflowID), slog.String("address_id", executed.AddressID))
		return wf, fmt.Errorf("failed to persist approval of workflow %s: %w", wf.WorkflowID, err)
	}

	s.Metrics.IncrementTransition(string(approved.Status))
	s.RecordAudit(ctx, domain.AuditUpdate, domain.ResourceAddressChange, approved.WorkflowID, approver, map[string]any{
		"status":              string(approved.Status),
		"executed_address_id": executed.AddressID,
		"auto_approved":       approver == AutoApprover,
	})
	s.notify(ctx, approvedNotification(approved))
	s.LogInfo(ctx, "Address change approved",
		slog.String("workflow_id", approved.WorkflowID),
		slog.String("approved_by", approver),
		slog.String("address_id", executed.AddressID))
	return approved, nil
}

// previouslyExecuted returns the current address when an earlier run of wf already opened it, that is when it
// matches the proposal, starts on the effective date and was created after wf was requested.
// It returns nil, nil when the change still has to be made.
func (s *workflowService) previouslyExecuted(ctx context.Context, wf domain.AddressChangeWorkflow) (*domain.Address, error) {
	current, err := s.addresses.GetCurrentAddress(ctx, wf.CompanyID, wf.AddressType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !current.EffectiveFrom.Equal(domain.DateOf(wf.EffectiveDate)) ||
		current.CreatedAt.Before(wf.RequestedAt) ||
		!current.SameLocation(wf.ProposedAddress) {
		return nil, nil
	}
	return current, nil
}

// notify delivers a notification if a dispatcher is configured. Delivery problems are logged only.
func (s *workflowService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil || len(s.recipients) == 0 {
		return
	}
	n.Recipients = s.recipients
	report, err := s.notifier.Dispatch(ctx, n)
	if err != nil {
		s.Metrics.IncrementNotification(false)
		s.LogError(ctx, err, "Failed to dispatch notification", slog.String("subject", n.Subject))
		return
	}
	s.Metrics.IncrementNotification(report.Success())
	if !report.Success() {
		s.GetLogger(ctx).Warn("Notification not delivered to every recipient", slog.String("subject", n.Subject), slog.Any("results", report.Results))
	}
}

func errorMessages(err error) []string {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Messages()
	}
	return []string{err.Error()}
}
