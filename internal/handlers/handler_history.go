package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/dto"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// historyHandler handles HTTP requests about address timelines.
type historyHandler struct {
	historyService portssvc.HistorySvc
}

func newHistoryHandler(hs portssvc.HistorySvc) *historyHandler {
	return &historyHandler{historyService: hs}
}

func registerHistoryRoutes(rg *gin.RouterGroup, historyService portssvc.HistorySvc) {
	h := newHistoryHandler(historyService)

	history := rg.Group("/companies/:companyID/address-history")
	{
		history.GET("/snapshot", h.snapshot)
		history.GET("/changes", h.changes)
		history.GET("/validation", h.validation)
		history.GET("/analysis", h.analysis)
	}
}

// snapshot godoc
// @Summary Addresses in force on a date
// @Tags address-history
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 500 {object} dto.ErrorResponse "Failed to build snapshot"
// @Router /companies/{companyID}/address-history/snapshot [get]
func (h *historyHandler) snapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, err := dto.ParseDate("date", c.Query("date"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	snap, err := h.historyService.Snapshot(c.Request.Context(), c.Param("companyID"), date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build snapshot")
		return
	}
	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snap))
}

// changes godoc
// @Summary Classified address changes in a period
// @Tags address-history
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   from query string true "First day (YYYY-MM-DD)"
// @Param   to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {array} dto.ChangeEventResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Failure 500 {object} dto.ErrorResponse "Failed to list changes"
// @Router /companies/{companyID}/address-history/changes [get]
func (h *historyHandler) changes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, err := dto.ParseDate("from", c.Query("from"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	to, err := dto.ParseDate("to", c.Query("to"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	if to.Before(from) {
		badRequest(c, logger, "to must not be before from")
		return
	}

	events, err := h.historyService.ChangesInPeriod(c.Request.Context(), c.Param("companyID"), from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list changes")
		return
	}
	c.JSON(http.StatusOK, dto.ToChangeEventResponses(events))
}

// validation godoc
// @Summary Check the integrity of an address timeline
// @Tags address-history
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} domain.HistoryValidation
// @Failure 500 {object} dto.ErrorResponse "Failed to validate history"
// @Router /companies/{companyID}/address-history/validation [get]
func (h *historyHandler) validation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	result, err := h.historyService.ValidateHistory(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to validate history")
		return
	}
	c.JSON(http.StatusOK, result)
}

// analysis godoc
// @Summary Analyse an address timeline
// @Description Changes, integrity check and stability score (0-75) in one report.
// @Tags address-history
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.HistoryReportResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to analyse history"
// @Router /companies/{companyID}/address-history/analysis [get]
func (h *historyHandler) analysis(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.historyService.AnalyzeHistory(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to analyse history")
		return
	}
	c.JSON(http.StatusOK, dto.ToHistoryReportResponse(report))
}
