package handlers

import (
	"net/http"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SchemeHandlers serves the scheme catalogue.
type SchemeHandlers struct {
	logger  *logging.SafeLogger
	schemes *services.SchemeService
}

// NewSchemeHandlers creates a new scheme handlers instance
func NewSchemeHandlers(logger *logging.SafeLogger, schemes *services.SchemeService) *SchemeHandlers {
	return &SchemeHandlers{logger: logger, schemes: schemes}
}

// ListSchemes godoc
// @Summary List schemes
// @Description Returns the full catalogue in creation order.
// @Tags schemes
// @Produce json
// @Success 200 {array} models.Scheme
// @Router /schemes [get]
func (h *SchemeHandlers) ListSchemes(c *gin.Context) {
	schemes, err := h.schemes.ListSchemes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list schemes", err)
		return
	}
	c.JSON(http.StatusOK, schemes)
}

// GetScheme godoc
// @Summary Get a scheme
// @Tags schemes
// @Produce json
// @Param id path string true "Scheme ID"
// @Success 200 {object} models.Scheme
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schemes/{id} [get]
func (h *SchemeHandlers) GetScheme(c *gin.Context) {
	scheme, err := h.schemes.GetScheme(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get scheme", err)
		return
	}
	setETag(c, scheme.Version)
	c.JSON(http.StatusOK, scheme)
}

// CreateScheme godoc
// @Summary Create a scheme
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body models.SchemeInput true "Scheme"
// @Success 201 {object} models.Scheme
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/schemes [post]
func (h *SchemeHandlers) CreateScheme(c *gin.Context) {
	var in models.SchemeInput
	if !bindJSON(c, &in) {
		return
	}

	scheme, err := h.schemes.CreateScheme(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.logger, "create scheme", err)
		return
	}
	setETag(c, scheme.Version)
	c.JSON(http.StatusCreated, scheme)
}

// UpdateScheme godoc
// @Summary Replace a scheme
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Scheme ID"
// @Param If-Match header string false "Expected version"
// @Param body body models.SchemeInput true "Scheme"
// @Success 200 {object} models.Scheme
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/schemes/{id} [put]
func (h *SchemeHandlers) UpdateScheme(c *gin.Context) {
	var in models.SchemeInput
	if !bindJSON(c, &in) {
		return
	}
	version, ok := expectedVersion(c, in.Version)
	if !ok {
		return
	}

	scheme, err := h.schemes.UpdateScheme(c.Request.Context(), c.Param("id"), &in, version)
	if err != nil {
		respondError(c, h.logger, "update scheme", err)
		return
	}
	setETag(c, scheme.Version)
	c.JSON(http.StatusOK, scheme)
}

// DeleteScheme godoc
// @Summary Delete a scheme
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Scheme ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/schemes/{id} [delete]
func (h *SchemeHandlers) DeleteScheme(c *gin.Context) {
	if err := h.schemes.DeleteScheme(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete scheme", err)
		return
	}
	c.Status(http.StatusNoContent)
}
