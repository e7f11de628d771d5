package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/logging"
	"github.com/dmitrijs2005/poshtyar/internal/netx"
)

// DefaultBrevoURL is the transactional email endpoint.
const DefaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
}

// BrevoSender sends through the Brevo transactional email API.
type BrevoSender struct {
	apiKey string
	url    string
	from   Address
	client *http.Client
	logger logging.Logger
}

// NewBrevoSender requires an API key. A nil client gets a 10s timeout.
func NewBrevoSender(apiKey, url string, from Address, client *http.Client, logger logging.Logger) (*BrevoSender, error) {
	if apiKey == "" {
		return nil, errors.New("brevo api key is missing")
	}
	if url == "" {
		url = DefaultBrevoURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &BrevoSender{apiKey: apiKey, url: url, from: from, client: client, logger: logger}, nil
}

func (s *BrevoSender) SendOTPEmail(ctx context.Context, to, displayName, code string) error {
	start := time.Now()

	html, err := renderOTP(displayName, code)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	req := brevoEmail{
		Sender:      brevoContact{Name: s.from.Name, Email: s.from.Email},
		To:          []brevoContact{{Name: displayName, Email: to}},
		Subject:     Subject,
		HTMLContent: html,
	}

	var resp brevoResponse
	if err := netx.PostJSON(ctx, s.client, s.url, map[string]string{"api-key": s.apiKey}, req, &resp); err != nil {
		s.logger.Error(ctx, "otp email failed", "to", to, "duration", time.Since(start), "error", err)
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	s.logger.Info(ctx, "otp email sent", "to", to, "message_id", resp.MessageID, "duration", time.Since(start))
	return nil
}
