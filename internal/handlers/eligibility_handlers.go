package handlers

import (
	"net/http"

	"github.com/entescheme/ente-api/internal/eligibility"
	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/gin-gonic/gin"
)

// EligibilityHandlers serves scheme matching for a citizen.
type EligibilityHandlers struct {
	logger      *logging.SafeLogger
	eligibility *services.EligibilityService
}

// NewEligibilityHandlers creates a new eligibility handlers instance
func NewEligibilityHandlers(logger *logging.SafeLogger, svc *services.EligibilityService) *EligibilityHandlers {
	return &EligibilityHandlers{logger: logger, eligibility: svc}
}

// Matches godoc
// @Summary Schemes the citizen qualifies for
// @Description Only active schemes are considered. Order follows the catalogue.
// @Tags eligibility
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {array} eligibility.Match
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /eligibility/{userId}/matches [get]
func (h *EligibilityHandlers) Matches(c *gin.Context) {
	matches, err := h.eligibility.MatchForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, "match schemes", err)
		return
	}
	c.JSON(http.StatusOK, nonNilMatches(matches))
}

// Evaluate godoc
// @Summary Verdict for every active scheme
// @Tags eligibility
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {array} eligibility.Match
// @Failure 404 {object} ErrorResponse
// @Router /eligibility/{userId}/schemes [get]
func (h *EligibilityHandlers) Evaluate(c *gin.Context) {
	matches, err := h.eligibility.EvaluateAllForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, "evaluate schemes", err)
		return
	}
	c.JSON(http.StatusOK, nonNilMatches(matches))
}

// Explain godoc
// @Summary Explain the verdict for one scheme
// @Description Lists every unmet criterion and any missing documents.
// @Tags eligibility
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Param schemeId path string true "Scheme ID"
// @Success 200 {object} eligibility.Result
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /eligibility/{userId}/schemes/{schemeId} [get]
func (h *EligibilityHandlers) Explain(c *gin.Context) {
	result, err := h.eligibility.ExplainForUser(c.Request.Context(), c.Param("userId"), c.Param("schemeId"))
	if err != nil {
		respondError(c, h.logger, "explain scheme", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func nonNilMatches(matches []eligibility.Match) []eligibility.Match {
	if matches == nil {
		return []eligibility.Match{}
	}
	return matches
}
