package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the transport-level settings of the router.
type RouterConfig struct {
	CORSOrigin string
	// AvatarDir, when set, is served read-only under /uploads/avatars.
	AvatarDir string
	// MaxUploadBody caps multipart request bodies. Zero disables the cap.
	MaxUploadBody int64
}

// NewRouter wires gin routes and middleware.
func NewRouter(cfg RouterConfig, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))
	r.Use(CORS(cfg.CORSOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/send-otp", h.SendOTP)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-otp", h.VerifyOTP)
		authGroup.GET("/me", h.RequireSession, h.Me)
		authGroup.GET("/logout", h.Logout)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/verify-forgot-password-otp", h.VerifyForgotPasswordOTP)
		authGroup.POST("/reset-password", h.ResetPassword)
	}

	uploads := r.Group("/uploads")
	{
		guarded := uploads.Group("", h.RequireSession)
		if cfg.MaxUploadBody > 0 {
			guarded.POST("/avatar", LimitBody(cfg.MaxUploadBody), h.UploadAvatar)
			guarded.POST("/document", LimitBody(cfg.MaxUploadBody), h.UploadDocument)
		} else {
			guarded.POST("/avatar", h.UploadAvatar)
			guarded.POST("/document", h.UploadDocument)
		}
		guarded.GET("/documents", h.ListDocuments)
		guarded.GET("/documents/:id", h.DownloadDocument)

		if cfg.AvatarDir != "" {
			uploads.Static("/avatars", cfg.AvatarDir)
		}
	}

	return r
}
