package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/dto"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// addressHandler handles HTTP requests related to company addresses.
type addressHandler struct {
	addressService portssvc.AddressSvcFacade
	validator      portssvc.AddressValidatorSvc
	clock          func() time.Time
}

func newAddressHandler(as portssvc.AddressSvcFacade, v portssvc.AddressValidatorSvc) *addressHandler {
	return &addressHandler{addressService: as, validator: v, clock: time.Now}
}

// registerAddressRoutes registers routes related to addresses.
func registerAddressRoutes(rg *gin.RouterGroup, addressService portssvc.AddressSvcFacade, validator portssvc.AddressValidatorSvc) {
	h := newAddressHandler(addressService, validator)

	addresses := rg.Group("/companies/:companyID/addresses")
	{
		addresses.POST("", h.createAddress)
		addresses.GET("", h.getAddressHistory)
		addresses.GET("/requirements", h.getRequirements)
		addresses.PUT("/:addressID", h.updateAddress)
		addresses.POST("/:type/change", h.changeAddress)
		addresses.GET("/:type/current", h.getCurrentAddress)
		addresses.GET("/:type/at", h.getAddressAtDate)
	}

	rg.POST("/addresses/validate", h.validateAddress)
}

// createAddress godoc
// @Summary Record an address
// @Description Validates and records an address slice. Intervals of the same company and type may not overlap.
// @Tags addresses
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   companyID path string true "Company ID"
// @Param   address body dto.CreateAddressRequest true "Address details"
// @Success 201 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ConflictResponse "Interval overlaps an existing address"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Failed to create address"
// @Router /companies/{companyID}/addresses [post]
func (h *addressHandler) createAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	addressType, err := domain.ParseAddressType(req.AddressType)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	from, err := dto.ParseDate("effectiveFrom", req.EffectiveFrom)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	to, err := dto.ParseOptionalDate("effectiveTo", req.EffectiveTo)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	address := req.AddressFields.ToDomain()
	address.CompanyID = c.Param("companyID")
	address.AddressType = addressType
	address.EffectiveFrom = from
	address.EffectiveTo = to

	actor, _ := middleware.GetActorFromContext(c)
	created, err := h.addressService.CreateAddress(c.Request.Context(), address, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create address")
		return
	}

	logger.Info("Address created successfully", slog.String("address_id", created.AddressID))
	c.JSON(http.StatusCreated, dto.ToAddressResponse(created))
}

// updateAddress godoc
// @Summary Correct an address
// @Description Replaces the stored fields of an address slice. The company and address type cannot change.
// @Tags addresses
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   companyID path string true "Company ID"
// @Param   addressID path string true "Address ID"
// @Param   address body dto.UpdateAddressRequest true "Address details"
// @Success 200 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Address not found"
// @Failure 409 {object} dto.ConflictResponse "Interval overlaps an existing address"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Failed to update address"
// @Router /companies/{companyID}/addresses/{addressID} [put]
func (h *addressHandler) updateAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	addressType, err := domain.ParseAddressType(req.AddressType)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	from, err := dto.ParseDate("effectiveFrom", req.EffectiveFrom)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	to, err := dto.ParseOptionalDate("effectiveTo", req.EffectiveTo)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	address := req.AddressFields.ToDomain()
	address.AddressID = c.Param("addressID")
	address.CompanyID = c.Param("companyID")
	address.AddressType = addressType
	address.EffectiveFrom = from
	address.EffectiveTo = to

	actor, _ := middleware.GetActorFromContext(c)
	updated, err := h.addressService.UpdateAddress(c.Request.Context(), address, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update address")
		return
	}

	logger.Info("Address updated successfully", slog.String("address_id", updated.AddressID))
	c.JSON(http.StatusOK, dto.ToAddressResponse(updated))
}

// changeAddress godoc
// @Summary Change an address directly
// @Description Closes the current address the day before the effective date and opens the new one from it, atomically.
// @Tags addresses
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Address type" Enums(REGISTERED, SERVICE, COMMUNICATION)
// @Param   change body dto.ChangeAddressRequest true "New address"
// @Success 200 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ConflictResponse "Interval overlaps an existing address"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Failed to change address"
// @Router /companies/{companyID}/addresses/{type}/change [post]
func (h *addressHandler) changeAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	addressType, err := domain.ParseAddressType(c.Param("type"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	var req dto.ChangeAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}
	effective, err := dto.ParseDate("effectiveDate", req.EffectiveDate)
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	opened, err := h.addressService.ChangeAddress(c.Request.Context(), c.Param("companyID"), addressType, req.Address.ToDomain(), effective, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to change address")
		return
	}

	logger.Info("Address changed successfully", slog.String("address_id", opened.AddressID), slog.String("address_type", string(addressType)))
	c.JSON(http.StatusOK, dto.ToAddressResponse(opened))
}

// getCurrentAddress godoc
// @Summary Get the current address of a type
// @Tags addresses
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Address type" Enums(REGISTERED, SERVICE, COMMUNICATION)
// @Success 200 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid address type"
// @Failure 404 {object} dto.ErrorResponse "No current address"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve address"
// @Router /companies/{companyID}/addresses/{type}/current [get]
func (h *addressHandler) getCurrentAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	addressType, err := domain.ParseAddressType(c.Param("type"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	address, err := h.addressService.GetCurrentAddress(c.Request.Context(), c.Param("companyID"), addressType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve address")
		return
	}
	c.JSON(http.StatusOK, dto.ToAddressResponse(address))
}

// getAddressAtDate godoc
// @Summary Get the address of a type in force on a date
// @Tags addresses
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Address type" Enums(REGISTERED, SERVICE, COMMUNICATION)
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "No address in force on that date"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve address"
// @Router /companies/{companyID}/addresses/{type}/at [get]
func (h *addressHandler) getAddressAtDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	addressType, err := domain.ParseAddressType(c.Param("type"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}
	date, err := dto.ParseDate("date", c.Query("date"))
	if err != nil {
		badRequest(c, logger, err.Error())
		return
	}

	address, err := h.addressService.GetAddressAtDate(c.Request.Context(), c.Param("companyID"), addressType, date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve address")
		return
	}
	c.JSON(http.StatusOK, dto.ToAddressResponse(address))
}

// getAddressHistory godoc
// @Summary List the address history of a company
// @Description Lists every address slice ordered by type (REGISTERED, SERVICE, COMMUNICATION) and then effective from date.
// @Tags addresses
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type query string false "Only this address type" Enums(REGISTERED, SERVICE, COMMUNICATION)
// @Success 200 {array} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid address type"
// @Failure 500 {object} dto.ErrorResponse "Failed to list addresses"
// @Router /companies/{companyID}/addresses [get]
func (h *addressHandler) getAddressHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var addressType *domain.AddressType
	if raw := c.Query("type"); raw != "" {
		t, err := domain.ParseAddressType(raw)
		if err != nil {
			badRequest(c, logger, err.Error())
			return
		}
		addressType = &t
	}

	history, err := h.addressService.GetAddressHistory(c.Request.Context(), c.Param("companyID"), addressType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list addresses")
		return
	}
	c.JSON(http.StatusOK, dto.ToAddressResponses(history))
}

// getRequirements godoc
// @Summary Check required addresses
// @Description Lists the address requirements the company does not currently meet.
// @Tags addresses
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.RequirementsResponse
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to check requirements"
// @Router /companies/{companyID}/addresses/requirements [get]
func (h *addressHandler) getRequirements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	missing, err := h.addressService.ValidateCompanyRequiredAddresses(c.Request.Context(), companyID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to check requirements")
		return
	}
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, dto.RequirementsResponse{CompanyID: companyID, Compliant: len(missing) == 0, Missing: missing})
}

// validateAddress godoc
// @Summary Validate an address without storing it
// @Tags addresses
// @Accept  json
// @Produce  json
// @Param   address body dto.ValidateAddressRequest true "Address details"
// @Success 200 {object} domain.ValidationResult
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /addresses/validate [post]
func (h *addressHandler) validateAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ValidateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format: "+err.Error())
		return
	}

	from := domain.DateOf(h.clock())
	if req.EffectiveFrom != "" {
		d, err := dto.ParseDate("effectiveFrom", req.EffectiveFrom)
		if err != nil {
			badRequest(c, logger, err.Error())
			return
		}
		from = d
	}

	address := req.AddressFields.ToDomain()
	address.CompanyID = req.CompanyID
	address.AddressType = domain.AddressType(strings.ToUpper(strings.TrimSpace(req.AddressType)))
	address.EffectiveFrom = from

	c.JSON(http.StatusOK, h.validator.Validate(c.Request.Context(), address))
}
