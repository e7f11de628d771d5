package api

import (
	"context"
	"net/http"
)

type RegisterRequest struct {
	CompanyName        string `json:"companyName"`
	CompanyEmail       string `json:"companyEmail"`
	Password           string `json:"password"`
	VoicePhoneNumber   string `json:"voicePhoneNumber"`
	Website            string `json:"website,omitempty"`
	OrganizationalRole string `json:"organizationalRole"`
}

// Profile is what /auth/me and verify-otp report about the account.
type Profile struct {
	ID           string `json:"id"`
	CompanyEmail string `json:"companyEmail"`
	CompanyName  string `json:"companyName,omitempty"`
	Role         string `json:"role,omitempty"`
	IsVerified   bool   `json:"isVerified"`
}

type messageResponse struct {
	Message      string `json:"message"`
	CompanyEmail string `json:"companyEmail,omitempty"`
}

type emailRequest struct {
	CompanyEmail string `json:"companyEmail"`
}

type otpRequest struct {
	CompanyEmail string `json:"companyEmail"`
	OTP          string `json:"otp"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) SendOTP(ctx context.Context, email string) (string, error) {
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/send-otp", emailRequest{email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login checks the password; the server answers by mailing a code.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out messageResponse
	in := struct {
		CompanyEmail string `json:"companyEmail"`
		Password     string `json:"password"`
	}{email, password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyOTP exchanges a code for a session. The cookie lands in the jar.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*Profile, error) {
	var out struct {
		Message string  `json:"message"`
		User    Profile `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", otpRequest{email, code}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/auth/logout", nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", emailRequest{email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyForgotPasswordOTP returns the reset token for ResetPassword.
func (c *Client) VerifyForgotPasswordOTP(ctx context.Context, email, code string) (string, error) {
	var out struct {
		ResetToken string `json:"resetToken"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-forgot-password-otp", otpRequest{email, code}, &out); err != nil {
		return "", err
	}
	return out.ResetToken, nil
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	var out messageResponse
	in := struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}{resetToken, newPassword}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/reset-password", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
