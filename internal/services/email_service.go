package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
)

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

// EmailService delivers registration and recovery codes through SendGrid.
// It is a one-way notification sink: callers run it in a goroutine and a
// failed send is logged, never retried and never surfaced to the client.
type EmailService struct {
	apiKey     string
	from       string
	fromName   string
	baseURL    string
	httpClient *http.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		apiKey:   cfg.SendGridAPIKey,
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
		baseURL:  cfg.ConfirmBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *EmailService) SendRegistrationEmail(email, code string) {
	body := fmt.Sprintf(`<h1>Thank you for your registration</h1>
<p>To finish registration please follow the link below:
    <a href='%s/confirm-email?code=%s'>complete registration</a>
</p>`, s.baseURL, code)

	if err := s.send(email, "Finish registration", body); err != nil {
		slog.Error("registration email failed", "error", err, "action", "send_registration_email")
	}
}

func (s *EmailService) SendPasswordRecovery(email, code string) {
	body := fmt.Sprintf(`<h1>Password recovery</h1>
<p>To finish password recovery please follow the link below:
    <a href='%s/password-recovery?recoveryCode=%s'>recover password</a>
</p>`, s.baseURL, code)

	if err := s.send(email, "Password recovery", body); err != nil {
		slog.Error("recovery email failed", "error", err, "action", "send_recovery_email")
	}
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key not configured")
	}

	payload := sendGridPayload{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: to}}}},
		From:             sgAddress{Email: s.from, Name: s.fromName},
		Subject:          subject,
		Content:          []sgContent{{Type: "text/html", Value: htmlBody}},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, sendGridURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
