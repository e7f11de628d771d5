// Package notifications delivers one-time codes to account owners by email.
package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/logging"
)

// Subject of every OTP email.
const Subject = "کد تأیید پشتیار"

// Providers.
const (
	ProviderBrevo = "brevo"
	ProviderSMTP  = "smtp"
	ProviderLog   = "log"
)

// Sender delivers an OTP to a single recipient. A returned error means the
// code was not delivered; it wraps common.ErrDeliveryFailed.
type Sender interface {
	SendOTPEmail(ctx context.Context, to, displayName, code string) error
}

// Address is a display name plus mailbox.
type Address struct {
	Name  string
	Email string
}

// Config selects and configures a provider.
type Config struct {
	Provider     string
	From         Address
	BrevoAPIKey  string
	BrevoURL     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

//go:embed templates/otp_email.html
var templatesFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templatesFS, "templates/otp_email.html"))

func renderOTP(name, code string) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, struct{ Name, Code string }{name, code}); err != nil {
		return "", fmt.Errorf("render otp email: %w", err)
	}
	return buf.String(), nil
}

// New builds the sender named by cfg.Provider.
func New(cfg Config, logger logging.Logger) (Sender, error) {
	logger = logger.With("module", "notifications", "provider", cfg.Provider)

	switch strings.ToLower(cfg.Provider) {
	case ProviderBrevo:
		return NewBrevoSender(cfg.BrevoAPIKey, cfg.BrevoURL, cfg.From, nil, logger)
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From, logger)
	case ProviderLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
