package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corduroy/collector/internal/api/shared/dto"
	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/api/shared/executor"
	"github.com/corduroy/collector/internal/domain"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// Claim mints an edition to a wallet resolved from a PIN or artwork id
	// POST /claim
	Claim(c *gin.Context)

	// ClaimDev mints a legacy collectible keyed by artwork id
	// POST /claim-dev
	ClaimDev(c *gin.Context)

	// ListEditions lists the known editions held by a wallet
	// GET /editions?wallet=<address>&meta=<0|1>&fromBlock=<ignored>
	ListEditions(c *gin.Context)

	// SetEditionURI updates the metadata URI of an edition (requires admin bearer token)
	// POST /admin/edition
	SetEditionURI(c *gin.Context)

	// PinMetadata pins an edition metadata document to IPFS (requires admin bearer token)
	// POST /admin/metadata
	PinMetadata(c *gin.Context)

	// NotFound answers requests that match no route
	NotFound(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	registerValidators()
	return &handler{executor: exec}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true})
}

// Claim mints an edition unless the wallet already owns it
func (h *handler) Claim(c *gin.Context) {
	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewInvalidRequestError(validationDetails(err)))
		return
	}

	if req.PIN == nil && req.ArtID == nil {
		details := apierrors.NewValidationDetails()
		details.AddForm("Provide pin or artId")
		respondError(c, apierrors.NewInvalidRequestError(details))
		return
	}

	resp, err := h.executor.Claim(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ClaimDev mints a legacy collectible
func (h *handler) ClaimDev(c *gin.Context) {
	var req dto.ClaimDevRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewInvalidRequestError(validationDetails(err)))
		return
	}

	resp, err := h.executor.ClaimDev(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListEditions lists the editions held by a wallet
func (h *handler) ListEditions(c *gin.Context) {
	var query dto.EditionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, apierrors.NewInvalidQueryError(validationDetails(err)))
		return
	}

	wallet, err := domain.ParseAddress(query.Wallet)
	if err != nil {
		details := apierrors.NewValidationDetails()
		details.AddField("wallet", err.Error())
		respondError(c, apierrors.NewInvalidQueryError(details))
		return
	}

	resp, err := h.executor.ListEditions(c.Request.Context(), wallet, query.IncludeMeta())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetEditionURI updates an edition's metadata URI and returns the value read back
func (h *handler) SetEditionURI(c *gin.Context) {
	var req dto.SetEditionURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewInvalidBodyError(validationDetails(err)))
		return
	}

	resp, err := h.executor.SetEditionURI(c.Request.Context(), *req.ID, req.URI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PinMetadata pins a metadata document
func (h *handler) PinMetadata(c *gin.Context) {
	var req dto.PinMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewInvalidBodyError(validationDetails(err)))
		return
	}

	resp, err := h.executor.PinMetadata(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// NotFound returns the JSON 404 body for unmatched routes
func (h *handler) NotFound(c *gin.Context) {
	respondError(c, apierrors.NewNotFoundError("route not found"))
}
