package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/dbx"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, company_name, company_email, password_hash, role, is_verified,
		otp_code, otp_expires_at, avatar, voice_phone_number, website,
		organizational_role, active_operators_count, balance, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (company_name, company_email, password_hash, role,
			voice_phone_number, website, organizational_role, otp_code, otp_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`

	var code sql.NullString
	var expires sql.NullTime
	if user.Challenge != nil {
		code = sql.NullString{String: user.Challenge.Code, Valid: true}
		expires = sql.NullTime{Time: user.Challenge.ExpiresAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		user.CompanyName, user.CompanyEmail, user.PasswordHash, user.Role,
		user.VoicePhoneNumber, user.Website, user.OrganizationalRole, code, expires,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByEmailForUpdate(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_email = $1 FOR UPDATE`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u       models.User
		code    sql.NullString
		expires sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.CompanyName, &u.CompanyEmail, &u.PasswordHash, &u.Role, &u.IsVerified,
		&code, &expires, &u.Avatar, &u.VoicePhoneNumber, &u.Website,
		&u.OrganizationalRole, &u.ActiveOperatorsCount, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if code.Valid && expires.Valid {
		u.Challenge = &models.OTPChallenge{Code: code.String, ExpiresAt: expires.Time}
	}

	return &u, nil
}

func (r *PostgresRepository) SetChallenge(ctx context.Context, userID string, c models.OTPChallenge) error {
	query :=
		`UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = now()
		 WHERE id = $1`
	return r.execOne(ctx, query, userID, c.Code, c.ExpiresAt)
}

func (r *PostgresRepository) ConsumeChallenge(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET otp_code = NULL, otp_expires_at = NULL, is_verified = TRUE, updated_at = now()
		 WHERE id = $1`
	return r.execOne(ctx, query, userID)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, userID, passwordHash)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, userID, avatar string) error {
	query := `UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, userID, avatar)
}

// execOne runs an UPDATE that must touch exactly one user row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
