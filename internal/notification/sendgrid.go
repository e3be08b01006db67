package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridMailer delivers email through the SendGrid v3 REST API.
type SendGridMailer struct {
	apiKey  string
	from    string
	baseURL string // verification link prefix, e.g. https://shop.example/verify
	client  *http.Client
}

// NewSendGridMailer constructs a SendGrid-backed mailer.
func NewSendGridMailer(apiKey, from, verifyBaseURL string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: verifyBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendOTP emails the 4-digit code.
func (m *SendGridMailer) SendOTP(ctx context.Context, email, code, name string) error {
	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>", greeting, code)
	return m.send(ctx, email, "Your Stride verification code", body)
}

// SendVerificationLink emails the redemption URL for the link flow.
func (m *SendGridMailer) SendVerificationLink(ctx context.Context, email, token string) error {
	url := fmt.Sprintf("%s?token=%s", m.baseURL, token)
	body := fmt.Sprintf("<p>Welcome to Stride!</p><p><a href=%q>Verify your email</a></p><p>Or copy this link: %s</p>", url, url)
	return m.send(ctx, email, "Verify your Stride account", body)
}

// SendOrderConfirmation emails an order receipt.
func (m *SendGridMailer) SendOrderConfirmation(ctx context.Context, email, orderNumber string, total int64) error {
	body := fmt.Sprintf("<p>Your order %s has been placed.</p><p>Total: %d.%02d</p>", orderNumber, total/100, total%100)
	return m.send(ctx, email, "Order confirmed: "+orderNumber, body)
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridRequest struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (m *SendGridMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	var payload sendGridRequest
	payload.Personalizations = make([]struct {
		To []sendGridAddress `json:"to"`
	}, 1)
	payload.Personalizations[0].To = []sendGridAddress{{Email: to}}
	payload.From = sendGridAddress{Email: m.from}
	payload.Subject = subject
	payload.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{{Type: "text/html", Value: htmlBody}}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridEndpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, detail)
	}
	return nil
}
