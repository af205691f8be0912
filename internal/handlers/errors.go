package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

// statusFor maps service errors to HTTP status codes.
var statusFor = []struct {
	err    error
	status int
}{
	{models.ErrInvalidID, http.StatusBadRequest},
	{models.ErrProfileNotFound, http.StatusNotFound},
	{models.ErrSchemeNotFound, http.StatusNotFound},
	{models.ErrNewsNotFound, http.StatusNotFound},
	{models.ErrUserNotFound, http.StatusNotFound},
	{models.ErrDuplicateProfile, http.StatusConflict},
	{models.ErrVersionConflict, http.StatusConflict},
	{models.ErrEmailTaken, http.StatusConflict},
	{models.ErrUsernameTaken, http.StatusConflict},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrNotAdmin, http.StatusForbidden},
	{models.ErrOTPInvalid, http.StatusBadRequest},
	{models.ErrEmailNotVerified, http.StatusBadRequest},
	{models.ErrOTPCooldown, http.StatusTooManyRequests},
	{models.ErrOTPRateLimited, http.StatusTooManyRequests},
	{models.ErrMailDelivery, http.StatusBadGateway},
}

// respondError writes the response for err. Unknown errors are logged and
// reported as 500 without details.
func respondError(c *gin.Context, logger *logging.SafeLogger, operation string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			c.JSON(m.status, ErrorResponse{Error: m.err.Error()})
			return
		}
	}

	logger.Error(operation+" failed", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// bindJSON decodes the body into dst, writing a 400 on malformed JSON.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// expectedVersion reads the optimistic-lock version from If-Match, falling
// back to the body's version field.
func expectedVersion(c *gin.Context, body *int64) (*int64, bool) {
	header := strings.Trim(strings.TrimPrefix(c.GetHeader("If-Match"), "W/"), `"`)
	if header == "" {
		return body, true
	}
	v, err := strconv.ParseInt(header, 10, 64)
	if err != nil || v < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Fields: []models.FieldError{{Field: "If-Match", Message: "must be a positive version number"}},
		})
		return nil, false
	}
	return &v, true
}

// setETag exposes the current version for If-Match round trips.
func setETag(c *gin.Context, version int64) {
	c.Header("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}
