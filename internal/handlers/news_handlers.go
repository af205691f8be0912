package handlers

import (
	"net/http"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/gin-gonic/gin"
)

// NewsHandlers serves portal announcements.
type NewsHandlers struct {
	logger *logging.SafeLogger
	news   *services.NewsService
}

// NewNewsHandlers creates a new news handlers instance
func NewNewsHandlers(logger *logging.SafeLogger, news *services.NewsService) *NewsHandlers {
	return &NewsHandlers{logger: logger, news: news}
}

// ListNews godoc
// @Summary List news
// @Description Newest first.
// @Tags news
// @Produce json
// @Success 200 {array} models.News
// @Router /news [get]
func (h *NewsHandlers) ListNews(c *gin.Context) {
	items, err := h.news.ListNews(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list news", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateNews godoc
// @Summary Create a news item
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body models.NewsInput true "News item"
// @Success 201 {object} models.News
// @Failure 400 {object} ErrorResponse
// @Router /admin/news [post]
func (h *NewsHandlers) CreateNews(c *gin.Context) {
	var in models.NewsInput
	if !bindJSON(c, &in) {
		return
	}

	item, err := h.news.CreateNews(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.logger, "create news", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateNews godoc
// @Summary Replace a news item
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "News ID"
// @Param body body models.NewsInput true "News item"
// @Success 200 {object} models.News
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/news/{id} [put]
func (h *NewsHandlers) UpdateNews(c *gin.Context) {
	var in models.NewsInput
	if !bindJSON(c, &in) {
		return
	}

	item, err := h.news.UpdateNews(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.logger, "update news", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteNews godoc
// @Summary Delete a news item
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "News ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/news/{id} [delete]
func (h *NewsHandlers) DeleteNews(c *gin.Context) {
	if err := h.news.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete news", err)
		return
	}
	c.Status(http.StatusNoContent)
}
