// Package services contains server-side business logic: the OTP-gated
// account flows and file uploads.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/dbx"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/server/auth"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/notifications"
	"github.com/dmitrijs2005/poshtyar/internal/server/otp"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/repomanager"
)

// AuthService drives registration, OTP-gated login and password reset.
//
// An account starts pending verification and becomes verified the first time
// an OTP is accepted. Login never yields a session directly: a correct
// password only triggers a code, and the session token is minted by
// VerifyOTP. Reset works the same way but mints a reset token instead.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	otp         *otp.Engine
	tokens      *auth.Issuer
	passwords   *auth.PasswordHasher
	sender      notifications.Sender
	logger      logging.Logger
}

func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	engine *otp.Engine,
	tokens *auth.Issuer,
	passwords *auth.PasswordHasher,
	sender notifications.Sender,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		otp:         engine,
		tokens:      tokens,
		passwords:   passwords,
		sender:      sender,
		logger:      logger.With("module", "auth"),
	}
}

// Register creates a pending account and mails its first code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	challenge, err := s.otp.NewChallenge()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		CompanyName:        in.CompanyName,
		CompanyEmail:       in.CompanyEmail,
		PasswordHash:       hash,
		Role:               common.RoleUser,
		VoicePhoneNumber:   in.VoicePhoneNumber,
		Website:            in.Website,
		OrganizationalRole: in.OrganizationalRole,
		Challenge:          challenge,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.CompanyEmail)

	if err := s.deliver(ctx, user, challenge.Code, "register"); err != nil {
		return nil, err
	}
	return user, nil
}

// SendOTP issues a fresh code to an existing account.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	_, err := s.issue(ctx, email, "send-otp")
	return err
}

// Login checks the password and, on success, mails a code. It never returns
// a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, invalid("password is required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "login rejected", "user_id", user.ID)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return s.issue(ctx, email, "login")
}

// VerifyOTP accepts a code and mints a session token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (string, *models.User, error) {
	user, err := s.verify(ctx, email, code, "verify-otp")
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "session issued", "user_id", user.ID)
	return token, user, nil
}

// ForgotPassword mails a code that can be exchanged for a reset token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.issue(ctx, email, "forgot-password")
	return err
}

// VerifyForgotPasswordOTP accepts a code and mints a reset token.
func (s *AuthService) VerifyForgotPasswordOTP(ctx context.Context, email, code string) (string, error) {
	user, err := s.verify(ctx, email, code, "verify-forgot-password")
	if err != nil {
		return "", err
	}

	token, err := s.tokens.IssueReset(user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "reset token issued", "user_id", user.ID)
	return token, nil
}

// ResetPassword replaces the password of the reset token's subject and
// thereby consumes the token. Every token problem, including an unknown
// subject or a token that was already used, is reported as
// common.ErrInvalidOrExpiredToken.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.VerifyReset(resetToken)
	if err != nil {
		s.logger.Warn(ctx, "reset token rejected", "error", err)
		return common.ErrInvalidOrExpiredToken
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByEmailForUpdate(ctx, claims.Email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "reset token for unknown user", "user_id", claims.UserID())
				return common.ErrInvalidOrExpiredToken
			}
			return err
		}
		if user.ID != claims.UserID() {
			s.logger.Warn(ctx, "reset token subject mismatch", "user_id", claims.UserID())
			return common.ErrInvalidOrExpiredToken
		}
		if err := s.tokens.CheckResetBinding(claims, user.PasswordHash); err != nil {
			s.logger.Warn(ctx, "reset token already used", "user_id", user.ID, "error", err)
			return common.ErrInvalidOrExpiredToken
		}

		if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredToken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset", "user_id", claims.UserID())
	return nil
}

// CurrentUser resolves a session token to its user. Any failure is
// common.ErrorUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, sessionToken string) (*models.User, error) {
	if sessionToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.VerifySession(sessionToken)
	if err != nil {
		s.logger.Debug(ctx, "session token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// SessionMaxAge is the session lifetime in seconds, for the cookie.
func (s *AuthService) SessionMaxAge() int {
	return int(s.tokens.SessionTTL().Seconds())
}

func (s *AuthService) issue(ctx context.Context, email, flow string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	code, user, err := s.otp.Generate(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.deliver(ctx, user, code, flow); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) verify(ctx context.Context, email, code, flow string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}

	user, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		if errors.Is(err, common.ErrOTPInvalid) || errors.Is(err, common.ErrOTPExpired) {
			s.logger.Info(ctx, "otp rejected", "email", email, "flow", flow, "reason", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) deliver(ctx context.Context, user *models.User, code, flow string) error {
	if err := s.sender.SendOTPEmail(ctx, user.CompanyEmail, user.CompanyName, code); err != nil {
		s.logger.Error(ctx, "otp delivery failed", "user_id", user.ID, "flow", flow, "error", err)
		if errors.Is(err, common.ErrDeliveryFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}
	s.logger.Info(ctx, "otp sent", "user_id", user.ID, "flow", flow)
	return nil
}
