package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondWithError maps a service error onto a status code and body.
// fallback is the message used when the cause must not leak to the caller.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var (
		validationErr *apperrors.ValidationError
		overlapErr    *apperrors.OverlapConflictError
		appErr        *apperrors.AppError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Error: "validation failed", Issues: validationErr.Issues})
	case errors.As(err, &overlapErr):
		logger.Warn("Address interval conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ConflictResponse{Error: overlapErr.Error(), ConflictingAddressID: overlapErr.ConflictingID})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid workflow transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		logger.Warn("Bad request", slog.String("error", err.Error()))
		c.JSON(appErr.Code, dto.ErrorResponse{Error: appErr.Message})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	}
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string) {
	logger.Warn("Bad request", slog.String("error", msg))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}
