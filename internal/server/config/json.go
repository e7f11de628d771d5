package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/poshtyar/internal/flagx"
	"github.com/dmitrijs2005/poshtyar/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either strings such as "10m" or integer nanoseconds. Absent fields keep
// their current value.
type JsonConfig struct {
	HTTPAddr    string `json:"http_addr"`
	GRPCAddr    string `json:"grpc_addr"`
	BaseURL     string `json:"base_url"`
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`
	CORSOrigin  string `json:"cors_origin"`

	DatabaseDSN string `json:"database_dsn"`

	SecretKey     string         `json:"secret_key"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	ResetTokenTTL timex.Duration `json:"reset_token_ttl"`
	OTPTTL        timex.Duration `json:"otp_ttl"`
	BcryptCost    int            `json:"bcrypt_cost"`
	EncryptionKey string         `json:"encryption_key"`

	StorageBackend  string `json:"storage_backend"`
	UploadDir       string `json:"upload_dir"`
	MaxAvatarSize   int64  `json:"max_avatar_size"`
	MaxDocumentSize int64  `json:"max_document_size"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	MailProvider    string `json:"mail_provider"`
	MailFromName    string `json:"mail_from_name"`
	MailFromAddress string `json:"mail_from_address"`
	BrevoAPIKey     string `json:"brevo_api_key"`
	BrevoURL        string `json:"brevo_url"`
	SMTPHost        string `json:"smtp_host"`
	SMTPPort        int    `json:"smtp_port"`
	SMTPUser        string `json:"smtp_user"`
	SMTPPassword    string `json:"smtp_password"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setNumber[T int | int64](dst *T, v T) {
	if v != 0 {
		*dst = v
	}
}

// parseJson overlays the file named by -c/-config (or $CONFIG) onto cfg.
// No file configured is not an error.
func parseJson(cfg *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var c JsonConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.GRPCAddr, c.GRPCAddr)
	setString(&cfg.BaseURL, c.BaseURL)
	setString(&cfg.Environment, c.Environment)
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.CORSOrigin, c.CORSOrigin)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	if c.SessionTTL.Duration != 0 {
		cfg.SessionTTL = c.SessionTTL.Duration
	}
	if c.ResetTokenTTL.Duration != 0 {
		cfg.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
	if c.OTPTTL.Duration != 0 {
		cfg.OTPTTL = c.OTPTTL.Duration
	}
	setNumber(&cfg.BcryptCost, c.BcryptCost)
	setString(&cfg.EncryptionKey, c.EncryptionKey)
	setString(&cfg.StorageBackend, c.StorageBackend)
	setString(&cfg.UploadDir, c.UploadDir)
	setNumber(&cfg.MaxAvatarSize, c.MaxAvatarSize)
	setNumber(&cfg.MaxDocumentSize, c.MaxDocumentSize)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.MailProvider, c.MailProvider)
	setString(&cfg.MailFromName, c.MailFromName)
	setString(&cfg.MailFromAddress, c.MailFromAddress)
	setString(&cfg.BrevoAPIKey, c.BrevoAPIKey)
	setString(&cfg.BrevoURL, c.BrevoURL)
	setString(&cfg.SMTPHost, c.SMTPHost)
	setNumber(&cfg.SMTPPort, c.SMTPPort)
	setString(&cfg.SMTPUser, c.SMTPUser)
	setString(&cfg.SMTPPassword, c.SMTPPassword)

	return nil
}
