package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/mssola/useragent"
)

// AuditSubmitter accepts audit records without blocking.
type AuditSubmitter interface {
	Submit(record models.AuditRecord) bool
}

// AuditMiddleware submits one record for every write request. Health and
// metrics endpoints are skipped.
func AuditMiddleware(submitter AuditSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) || skipAudit(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		record := models.AuditRecord{
			Timestamp: start.UTC(),
			RequestID: c.GetString(RequestIDKey),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IPAddress: c.ClientIP(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if claims, ok := Claims(c); ok {
			record.UserID = claims.Subject
			record.Role = claims.Role
		}
		if raw := c.Request.UserAgent(); raw != "" {
			ua := useragent.New(raw)
			browser, version := ua.Browser()
			if version != "" {
				browser += " " + version
			}
			record.Browser = browser
			record.OS = ua.OS()
			record.Mobile = ua.Mobile()
		}

		submitter.Submit(record)
	}
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func skipAudit(path string) bool {
	return strings.HasPrefix(path, "/v1/health") || strings.HasPrefix(path, "/metrics")
}
