package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/gin-gonic/gin"
)

// errorResponses maps service errors to statuses and client-safe messages.
// Order matters: more specific errors wrap the generic ones below them.
var errorResponses = []struct {
	target  error
	status  int
	message string
}{
	{common.ErrInvalidOrExpiredToken, http.StatusUnauthorized, "invalid or expired token"},
	{common.ErrOTPExpired, http.StatusBadRequest, "verification code has expired"},
	{common.ErrOTPInvalid, http.StatusBadRequest, "verification code is incorrect"},
	{common.ErrUnsupportedFileType, http.StatusBadRequest, "unsupported file type"},
	{common.ErrFileTooLarge, http.StatusBadRequest, "file too large"},
	{common.ErrNoFile, http.StatusBadRequest, "no file uploaded"},
	{common.ErrorAlreadyExists, http.StatusConflict, "email already registered"},
	{common.ErrorNotFound, http.StatusNotFound, "not found"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "invalid credentials"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
	{common.ErrDeliveryFailed, http.StatusInternalServerError, "failed to send email"},
	{common.ErrBadRequest, http.StatusBadRequest, "bad request"},
}

// statusFor returns the HTTP status and message for err. Validation errors
// carry their own message.
func statusFor(err error) (int, string) {
	if errors.Is(err, common.ErrorValidation) {
		msg := strings.TrimSuffix(err.Error(), ": "+common.ErrorValidation.Error())
		return http.StatusBadRequest, msg
	}
	for _, r := range errorResponses {
		if errors.Is(err, r.target) {
			return r.status, r.message
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
