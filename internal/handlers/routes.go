package handlers

import (
	"github.com/entescheme/ente-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler set the API exposes.
type Handlers struct {
	Auth        *AuthHandlers
	Profile     *ProfileHandlers
	Scheme      *SchemeHandlers
	News        *NewsHandlers
	Eligibility *EligibilityHandlers
	Health      *HealthHandlers
}

// RegisterRoutes mounts the API on v1.
func RegisterRoutes(v1 *gin.RouterGroup, h *Handlers, tokens middleware.TokenParser) {
	v1.GET("/health", h.Health.Health)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.POST("/otp/send", h.Auth.SendOTP)
		auth.POST("/otp/verify", h.Auth.VerifyOTP)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
	}

	v1.GET("/schemes", h.Scheme.ListSchemes)
	v1.GET("/schemes/:id", h.Scheme.GetScheme)
	v1.GET("/news", h.News.ListNews)

	authed := v1.Group("", middleware.AuthMiddleware(tokens))
	{
		own := middleware.RequireOwnUser("userId")

		authed.GET("/users/:userId", own, h.Auth.GetUser)

		authed.POST("/profile", h.Profile.CreateProfile)
		authed.GET("/profile/:userId", own, h.Profile.GetProfile)
		authed.PUT("/profile/:userId", middleware.RequireSelf("userId"), h.Profile.UpdateProfile)

		authed.GET("/eligibility/:userId/matches", own, h.Eligibility.Matches)
		authed.GET("/eligibility/:userId/schemes", own, h.Eligibility.Evaluate)
		authed.GET("/eligibility/:userId/schemes/:schemeId", own, h.Eligibility.Explain)
	}

	admin := v1.Group("/admin", middleware.AuthMiddleware(tokens), middleware.RequireAdmin())
	{
		admin.GET("/schemes", h.Scheme.ListSchemes)
		admin.POST("/schemes", h.Scheme.CreateScheme)
		admin.PUT("/schemes/:id", h.Scheme.UpdateScheme)
		admin.DELETE("/schemes/:id", h.Scheme.DeleteScheme)

		admin.POST("/news", h.News.CreateNews)
		admin.PUT("/news/:id", h.News.UpdateNews)
		admin.DELETE("/news/:id", h.News.DeleteNews)
	}
}
