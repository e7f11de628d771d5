// Package otp issues and checks the six-digit one-time codes that gate
// account verification, login and password reset.
package otp

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/dbx"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/repomanager"
)

const (
	minCode = 100000
	maxCode = 999999
)

// NewCode returns a uniformly random code in [100000, 999999].
func NewCode() (string, error) {
	n, err := common.RandomIntInRange(minCode, maxCode)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Engine keeps at most one pending challenge per user. A new challenge
// replaces the old one; a successful Verify consumes it.
type Engine struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	now         func() time.Time
	newCode     func() (string, error)
}

// NewEngine uses common.OTPTTL when ttl is not positive.
func NewEngine(db *sql.DB, m repomanager.RepositoryManager, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = common.OTPTTL
	}
	return &Engine{db: db, repomanager: m, ttl: ttl, now: time.Now, newCode: NewCode}
}

// WithClock replaces the time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// NewChallenge creates a challenge without persisting it, for records that
// are about to be inserted.
func (e *Engine) NewChallenge() (*models.OTPChallenge, error) {
	code, err := e.newCode()
	if err != nil {
		return nil, err
	}
	return &models.OTPChallenge{Code: code, ExpiresAt: e.now().Add(e.ttl)}, nil
}

// Generate stores a fresh challenge on the user identified by email and
// returns the code together with the user it was issued to.
func (e *Engine) Generate(ctx context.Context, email string) (string, *models.User, error) {
	repo := e.repomanager.Users(e.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	c, err := e.NewChallenge()
	if err != nil {
		return "", nil, err
	}
	if err := repo.SetChallenge(ctx, user.ID, *c); err != nil {
		return "", nil, fmt.Errorf("store otp: %w", err)
	}
	user.Challenge = c

	return c.Code, user, nil
}

// Verify checks code against the pending challenge and consumes it on a
// match. A missing or expired challenge yields common.ErrOTPExpired, a
// mismatch common.ErrOTPInvalid; in both cases nothing is written.
func (e *Engine) Verify(ctx context.Context, email, code string) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repomanager.Users(tx)

		u, err := repo.GetByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}

		if u.Challenge == nil || u.Challenge.Expired(e.now()) {
			return common.ErrOTPExpired
		}
		if subtle.ConstantTimeCompare([]byte(u.Challenge.Code), []byte(code)) != 1 {
			return common.ErrOTPInvalid
		}

		if err := repo.ConsumeChallenge(ctx, u.ID); err != nil {
			return fmt.Errorf("consume otp: %w", err)
		}
		u.Challenge = nil
		u.IsVerified = true
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
