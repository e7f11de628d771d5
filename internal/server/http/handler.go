package http

import (
	"net/http"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/services"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Handler serves the account and upload endpoints.
type Handler struct {
	auth          *services.AuthService
	uploads       *services.UploadService
	secureCookies bool
	logger        logging.Logger
}

func NewHandler(auth *services.AuthService, uploads *services.UploadService, secureCookies bool, l logging.Logger) *Handler {
	return &Handler{
		auth:          auth,
		uploads:       uploads,
		secureCookies: secureCookies,
		logger:        l.With("module", "http"),
	}
}

// RequireSession resolves the session cookie to a user and stores it on the
// context. Requests without a valid session stop here with 401.
func (h *Handler) RequireSession(c *gin.Context) {
	token, err := c.Cookie(common.SessionCookieName)
	if err != nil || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Set(currentUserKey, user)
	c.Next()
}

// CurrentUser returns the user stored by RequireSession.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, token, maxAge, "/", "", h.secureCookies, true)
}
