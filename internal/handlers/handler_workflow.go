package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/dto"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler handles HTTP requests related to address change workflows.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

func newWorkflowHandler(ws portssvc.WorkflowSvcFacade) *workflowHandler {
	return &workflowHandler{workflowService: ws}
}

// registerWorkflowRoutes registers routes related to address change workflows.
func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := newWorkflowHandler(workflowService)

	companyChanges := rg.Group("/companies/:companyID/address-changes")
	{
		companyChanges.POST("", h.initiateChange)
		companyChanges.POST("/bulk", h.bulkChange)
	}

	changes := rg.Group("/address-changes")
	{
		changes.GET("/pending", h.listPending)
		changes.GET("/:workflowID", h.getWorkflow)
		changes.POST("/:workflowID/approve", h.approve)
		changes.POST("/:workflowID/reject", h.reject)
	}
}

// initiateChange godoc
// @Summary Propose an address change
// @Description Validates the proposal and either applies it immediately, holds it for approval or records it as failed.
// @Tags address-changes
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   companyID path string true "Company ID"
// @Param   change body dto.InitiateChangeRequest true "Proposed change"
// @Success 201 {object} dto.WorkflowResponse "Workflow recorded; see status"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ConflictResponse "Interval overlaps an existing address"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Failed to initiate change"
// @Router /companies/{companyID}/address-changes [post]
func (h *workflowHandler) initiateChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InitiateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	addressType, err := domain.ParseAddressType(req.AddressType)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	effective, err := dto.ParseDate("effectiveDate", req.EffectiveDate)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	wf, err := h.workflowService.Initiate(c.Request.Context(), domain.InitiateRequest{
		CompanyID:     c.Param("companyID"),
		AddressType:   addressType,
		Address:       req.Address.ToDomain(),
		EffectiveDate: effective,
		RequestedBy:   actor,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to initiate change")
		return
	}

	logger.Info("Address change initiated", slog.String("workflow_id", wf.WorkflowID), slog.String("status", string(wf.Status)))
	c.JSON(http.StatusCreated, dto.ToWorkflowResponse(wf))
}

// bulkChange godoc
// @Summary Propose several address changes at once
// @Description Every item is validated first; any failure stops the batch. Valid items then execute independently.
// @Tags address-changes
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   companyID path string true "Company ID"
// @Param   changes body dto.BulkChangeRequest true "Proposed changes"
// @Success 200 {object} dto.BulkChangeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Failed to process bulk change"
// @Router /companies/{companyID}/address-changes/bulk [post]
func (h *workflowHandler) bulkChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	effective, err := dto.ParseDate("effectiveDate", req.EffectiveDate)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	items := make([]domain.BulkItem, len(req.Items))
	for i, item := range req.Items {
		addressType, err := domain.ParseAddressType(item.AddressType)
		if err != nil {
			badRequest(c, logger, err.Error())
			return
		}
		items[i] = domain.BulkItem{AddressType: addressType, Address: item.Address.ToDomain()}
	}

	actor, _ := middleware.GetActorFromContext(c)
	result, err := h.workflowService.BulkUpdate(c.Request.Context(), domain.BulkUpdateRequest{
		CompanyID:     c.Param("companyID"),
		Items:         items,
		EffectiveDate: effective,
		RequestedBy:   actor,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to process bulk change")
		return
	}

	logger.Info("Bulk address change processed", slog.String("status", string(result.Status)), slog.Int("approved", result.Approved), slog.Int("pending", result.Pending))
	c.JSON(http.StatusOK, dto.ToBulkChangeResponse(result))
}

// listPending godoc
// @Summary List address changes awaiting approval
// @Description Oldest first, using token-based pagination.
// @Tags address-changes
// @Produce  json
// @Param   companyID query string false "Only this company"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListWorkflowsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list workflows"
// @Router /address-changes/pending [get]
func (h *workflowHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPendingWorkflowsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters: "+err.Error())
		return
	}

	workflows, next, err := h.workflowService.ListPendingWorkflows(c.Request.Context(), params.CompanyID, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list workflows")
		return
	}
	c.JSON(http.StatusOK, dto.ListWorkflowsResponse{Workflows: dto.ToWorkflowResponses(workflows), NextToken: next})
}

// getWorkflow godoc
// @Summary Get an address change workflow
// @Tags address-changes
// @Produce  json
// @Param   workflowID path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 404 {object} dto.ErrorResponse "Workflow not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve workflow"
// @Router /address-changes/{workflowID} [get]
func (h *workflowHandler) getWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wf, err := h.workflowService.GetWorkflow(c.Request.Context(), c.Param("workflowID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve workflow")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkflowResponse(wf))
}

// approve godoc
// @Summary Approve a pending address change
// @Description Applies the proposed address. The caller named in X-Actor-ID is recorded as approver.
// @Tags address-changes
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   workflowID path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 404 {object} dto.ErrorResponse "Workflow not found"
// @Failure 409 {object} dto.ErrorResponse "Workflow is not pending or the address timeline changed"
// @Failure 422 {object} dto.ValidationErrorResponse "Proposal no longer valid"
// @Failure 500 {object} dto.ErrorResponse "Failed to approve workflow"
// @Router /address-changes/{workflowID}/approve [post]
func (h *workflowHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, _ := middleware.GetActorFromContext(c)

	wf, err := h.workflowService.Approve(c.Request.Context(), c.Param("workflowID"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve workflow")
		return
	}

	logger.Info("Address change approved", slog.String("workflow_id", wf.WorkflowID))
	c.JSON(http.StatusOK, dto.ToWorkflowResponse(wf))
}

// reject godoc
// @Summary Reject a pending address change
// @Tags address-changes
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   workflowID path string true "Workflow ID"
// @Param   rejection body dto.RejectWorkflowRequest true "Reason"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 400 {object} dto.ErrorResponse "Reason missing"
// @Failure 404 {object} dto.ErrorResponse "Workflow not found"
// @Failure 409 {object} dto.ErrorResponse "Workflow is not pending"
// @Failure 500 {object} dto.ErrorResponse "Failed to reject workflow"
// @Router /address-changes/{workflowID}/reject [post]
func (h *workflowHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	actor, _ := middleware.GetActorFromContext(c)

	wf, err := h.workflowService.Reject(c.Request.Context(), c.Param("workflowID"), req.Reason, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reject workflow")
		return
	}

	logger.Info("Address change rejected", slog.String("workflow_id", wf.WorkflowID))
	c.JSON(http.StatusOK, dto.ToWorkflowResponse(wf))
}
