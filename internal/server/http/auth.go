package http

import (
	"net/http"

	"github.com/dmitrijs2005/poshtyar/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	CompanyName        string `json:"companyName"`
	CompanyEmail       string `json:"companyEmail"`
	Password           string `json:"password"`
	VoicePhoneNumber   string `json:"voicePhoneNumber"`
	Website            string `json:"website"`
	OrganizationalRole string `json:"organizationalRole"`
}

type emailRequest struct {
	CompanyEmail string `json:"companyEmail"`
}

type loginRequest struct {
	CompanyEmail string `json:"companyEmail"`
	Password     string `json:"password"`
}

type otpRequest struct {
	CompanyEmail string `json:"companyEmail"`
	OTP          string `json:"otp"`
}

type resetRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

// Register creates a pending account and mails the first code.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		CompanyName:        req.CompanyName,
		CompanyEmail:       req.CompanyEmail,
		Password:           req.Password,
		VoicePhoneNumber:   req.VoicePhoneNumber,
		Website:            req.Website,
		OrganizationalRole: req.OrganizationalRole,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Registration successful, OTP sent to email",
		"companyEmail": user.CompanyEmail,
	})
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.SendOTP(c.Request.Context(), req.CompanyEmail); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
}

// Login checks the password and mails a code. No cookie is set here.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.CompanyEmail, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Password is valid, OTP sent to email",
		"companyEmail": user.CompanyEmail,
	})
}

// VerifyOTP exchanges a code for the session cookie.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req otpRequest
	if !bind(c, &req) {
		return
	}

	token, user, err := h.auth.VerifyOTP(c.Request.Context(), req.CompanyEmail, req.OTP)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.auth.SessionMaxAge())
	c.JSON(http.StatusOK, gin.H{
		"message": "Verification successful",
		"user": gin.H{
			"id":           user.ID,
			"companyEmail": user.CompanyEmail,
			"isVerified":   user.IsVerified,
		},
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"companyEmail": user.CompanyEmail,
		"role":         user.Role,
		"companyName":  user.CompanyName,
		"isVerified":   user.IsVerified,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.CompanyEmail); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP for password reset sent to email"})
}

func (h *Handler) VerifyForgotPasswordOTP(c *gin.Context) {
	var req otpRequest
	if !bind(c, &req) {
		return
	}

	resetToken, err := h.auth.VerifyForgotPasswordOTP(c.Request.Context(), req.CompanyEmail, req.OTP)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resetToken": resetToken})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
