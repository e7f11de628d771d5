// Package auth mints and verifies the signed tokens handed to clients and
// hashes account passwords.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Reasons a token can be rejected. They are for logs only; clients always
// see the same message.
const (
	ReasonMalformed        = "malformed"
	ReasonInvalidSignature = "invalid_signature"
	ReasonExpired          = "expired"
	ReasonWrongPurpose     = "wrong_purpose"
	ReasonConsumed         = "consumed"
	ReasonInvalid          = "invalid"
)

// Claims is the payload of both token kinds. Session tokens carry Role and
// no Purpose; reset tokens carry Purpose and PasswordBinding, a MAC of the
// password hash they were minted against.
type Claims struct {
	jwt.RegisteredClaims
	Email           string `json:"email"`
	Role            string `json:"role,omitempty"`
	Purpose         string `json:"purpose,omitempty"`
	PasswordBinding string `json:"pwb,omitempty"`
}

const bindingPrefix = "reset-binding:"

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// TokenValidationError is returned for every verification failure.
// errors.Is(err, common.ErrInvalidToken) holds for all of them.
type TokenValidationError struct {
	Reason string
	Err    error
}

func (e *TokenValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid token (%s)", e.Reason)
}

func (e *TokenValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{common.ErrInvalidToken}
	}
	return []error{common.ErrInvalidToken, e.Err}
}

// Issuer signs tokens with a single HS256 secret.
type Issuer struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewIssuer fails on an empty secret. Non-positive TTLs fall back to the
// package defaults.
func NewIssuer(secret []byte, sessionTTL, resetTTL time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	if sessionTTL <= 0 {
		sessionTTL = common.SessionTTL
	}
	if resetTTL <= 0 {
		resetTTL = common.ResetTokenTTL
	}
	return &Issuer{
		secret:     append([]byte(nil), secret...),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// SessionTTL is the lifetime embedded in session tokens.
func (i *Issuer) SessionTTL() time.Duration { return i.sessionTTL }

// IssueSession mints a session token for a verified user.
func (i *Issuer) IssueSession(user *models.User) (string, error) {
	return i.sign(&Claims{
		RegisteredClaims: i.registered(user.ID, i.sessionTTL),
		Email:            user.CompanyEmail,
		Role:             user.Role,
	})
}

// IssueReset mints a short-lived password-reset token bound to the user's
// current password hash.
func (i *Issuer) IssueReset(user *models.User) (string, error) {
	mac, err := jwt.SigningMethodHS256.Sign(bindingPrefix+user.PasswordHash, i.secret)
	if err != nil {
		return "", fmt.Errorf("bind reset token: %w", err)
	}
	return i.sign(&Claims{
		RegisteredClaims: i.registered(user.ID, i.resetTTL),
		Email:            user.CompanyEmail,
		Purpose:          common.ResetPasswordPurpose,
		PasswordBinding:  base64.RawURLEncoding.EncodeToString(mac),
	})
}

// CheckResetBinding fails unless the reset token was minted against
// passwordHash. Once the password changes every earlier reset token fails
// here, so each token authorizes at most one change.
func (i *Issuer) CheckResetBinding(claims *Claims, passwordHash string) error {
	mac, err := base64.RawURLEncoding.DecodeString(claims.PasswordBinding)
	if err != nil || len(mac) == 0 {
		return &TokenValidationError{Reason: ReasonConsumed, Err: errors.New("missing password binding")}
	}
	if err := jwt.SigningMethodHS256.Verify(bindingPrefix+passwordHash, mac, i.secret); err != nil {
		return &TokenValidationError{Reason: ReasonConsumed, Err: err}
	}
	return nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, &TokenValidationError{Reason: reasonFor(err), Err: err}
	}
	if claims.Subject == "" {
		return nil, &TokenValidationError{Reason: ReasonInvalid, Err: errors.New("missing subject")}
	}
	return claims, nil
}

// VerifySession accepts only session tokens. A reset token is rejected.
func (i *Issuer) VerifySession(tokenString string) (*Claims, error) {
	claims, err := i.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, &TokenValidationError{Reason: ReasonWrongPurpose}
	}
	return claims, nil
}

// VerifyReset accepts only password-reset tokens.
func (i *Issuer) VerifyReset(tokenString string) (*Claims, error) {
	claims, err := i.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != common.ResetPasswordPurpose {
		return nil, &TokenValidationError{Reason: ReasonWrongPurpose}
	}
	return claims, nil
}

func (i *Issuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *Issuer) sign(c *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonInvalidSignature
	default:
		return ReasonInvalid
	}
}
