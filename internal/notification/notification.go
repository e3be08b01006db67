package notification

import (
	"context"
	"log/slog"
)

// Mailer delivers transactional email out of band.
type Mailer interface {
	SendOTP(ctx context.Context, email, code, name string) error
	SendVerificationLink(ctx context.Context, email, token string) error
	SendOrderConfirmation(ctx context.Context, email, orderNumber string, total int64) error
}

// LogMailer is a development stub that writes mail to the structured logger
// instead of a real channel.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer stub.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendOTP logs the code that would have been emailed.
func (m *LogMailer) SendOTP(_ context.Context, email, code, name string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("otp email", "to", email, "name", name, "code", code)
	return nil
}

// SendVerificationLink logs the link token that would have been emailed.
func (m *LogMailer) SendVerificationLink(_ context.Context, email, token string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("verification email", "to", email, "token", token)
	return nil
}

// SendOrderConfirmation logs the order receipt that would have been emailed.
func (m *LogMailer) SendOrderConfirmation(_ context.Context, email, orderNumber string, total int64) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("order confirmation email", "to", email, "order_number", orderNumber, "total", total)
	return nil
}
