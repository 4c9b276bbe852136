package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"recepce/internal/config"
)

// Sender delivers SMS through Twilio's REST API and operator mail through
// plain SMTP. Both are thin enough that a leaner dependency than the full
// provider SDKs suffices.
type Sender struct {
	twilio config.TwilioConfig
	smtp   config.SMTPConfig
	client *http.Client
}

func NewSender(twilio config.TwilioConfig, smtpCfg config.SMTPConfig) *Sender {
	return &Sender{
		twilio: twilio,
		smtp:   smtpCfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Sender) SendSMS(ctx context.Context, phone, body string) error {
	if s.twilio.AccountSID == "" || s.twilio.AuthToken == "" {
		return fmt.Errorf("twilio is not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.twilio.AccountSID)
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.twilio.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.twilio.AccountSID, s.twilio.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(payload))
	}

	return nil
}

func (s *Sender) SendEmail(ctx context.Context, subject, body, to string) error {
	if s.smtp.Server == "" {
		return fmt.Errorf("smtp is not configured")
	}

	msg := strings.Join([]string{
		"From: " + s.smtp.Username,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.smtp.Server, s.smtp.Port)
	auth := smtp.PlainAuth("", s.smtp.Username, s.smtp.Password, s.smtp.Server)
	return smtp.SendMail(addr, auth, s.smtp.Username, []string{to}, []byte(msg))
}
