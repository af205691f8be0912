package handlers

import (
	"net/http"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/middleware"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProfileHandlers serves citizen profiles.
type ProfileHandlers struct {
	logger   *logging.SafeLogger
	profiles *services.ProfileService
}

// NewProfileHandlers creates a new profile handlers instance
func NewProfileHandlers(logger *logging.SafeLogger, profiles *services.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{logger: logger, profiles: profiles}
}

// CreateProfile godoc
// @Summary Create the caller's profile
// @Description Each account has at most one profile. Age is derived from the date of birth.
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body models.ProfileInput true "Profile fields"
// @Success 201 {object} models.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /profile [post]
func (h *ProfileHandlers) CreateProfile(c *gin.Context) {
	var in models.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), middleware.UserID(c), &in)
	if err != nil {
		respondError(c, h.logger, "create profile", err)
		return
	}
	setETag(c, profile.Version)
	c.JSON(http.StatusCreated, profile)
}

// GetProfile godoc
// @Summary Get a profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.Profile
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/{userId} [get]
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}
	setETag(c, profile.Version)
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update a profile
// @Description Merges the provided fields. Only the profile owner may update it. Send If-Match or a body version to reject stale writes.
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Param If-Match header string false "Expected version"
// @Param body body models.ProfileInput true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /profile/{userId} [put]
func (h *ProfileHandlers) UpdateProfile(c *gin.Context) {
	var in models.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	version, ok := expectedVersion(c, in.Version)
	if !ok {
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), c.Param("userId"), &in, version)
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	setETag(c, profile.Version)
	c.JSON(http.StatusOK, profile)
}
