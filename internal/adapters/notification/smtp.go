// Package notification delivers workflow notices to approvers over SMTP.
package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/go-playground/validator/v10"
	"gopkg.in/gomail.v2"
)

// recipients must be bare addresses; display-name forms are rejected.
var validate = validator.New()

// ErrNoRecipients is returned when a notification has nobody to go to.
var ErrNoRecipients = errors.New("notification has no recipients")

// messageSender is the part of *gomail.Dialer the dispatcher needs.
type messageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPDispatcher sends one plain-text e-mail per recipient so a bad address
// cannot stop the others from being notified.
type SMTPDispatcher struct {
	from   string
	sender messageSender
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Dispatch opens a new server connection per recipient and closes it after sending.
func (d *SMTPDispatcher) Dispatch(ctx context.Context, n domain.Notification) (domain.DeliveryReport, error) {
	report := domain.DeliveryReport{Results: make([]domain.RecipientDelivery, 0, len(n.Recipients))}
	if len(n.Recipients) == 0 {
		return report, ErrNoRecipients
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, recipient := range n.Recipients {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, domain.RecipientDelivery{Recipient: recipient, Error: err.Error()})
			continue
		}
		if err := validate.Var(recipient, "required,email"); err != nil {
			report.Results = append(report.Results, domain.RecipientDelivery{Recipient: recipient, Error: "invalid address"})
			continue
		}

		m := gomail.NewMessage()
		m.SetHeader("From", d.from)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", n.Subject)
		m.SetBody("text/plain", n.Body)

		if err := d.sender.DialAndSend(m); err != nil {
			logger.Warn("Failed to send notification", slog.String("recipient", recipient), slog.String("error", err.Error()))
			report.Results = append(report.Results, domain.RecipientDelivery{Recipient: recipient, Error: err.Error()})
			continue
		}
		report.Results = append(report.Results, domain.RecipientDelivery{Recipient: recipient, Delivered: true})
	}

	logger.Debug("Notification dispatched", slog.String("subject", n.Subject), slog.Bool("success", report.Success()))
	return report, nil
}
