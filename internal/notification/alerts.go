// Package notification sends operational alert emails. Currently one alert
// exists: a submission exhausting its delivery attempts.
package notification

import (
	"context"
	"fmt"

	"leadrouting_backend/internal/events"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// Alerter emails the operations recipient when a submission fails terminally.
// With email disabled it only logs, which is the default in development.
type Alerter struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewAlerter(cfg config.EmailConfig, log *logger.Logger) *Alerter {
	if !cfg.GetEmailEnabled() {
		log.Warn("email alerts disabled")
	}
	return &Alerter{cfg: cfg, log: log}
}

// Subscribe wires the alerter to the event bus.
func (a *Alerter) Subscribe(bus events.Bus) {
	bus.Subscribe(events.SubmissionFailed{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			failed, ok := event.(events.SubmissionFailed)
			if !ok {
				return nil
			}
			return a.alertSubmissionFailed(failed)
		}))
}

func (a *Alerter) alertSubmissionFailed(failed events.SubmissionFailed) error {
	a.log.Error("submission failed terminally",
		"submissionId", failed.SubmissionID,
		"reportId", failed.ReportID,
		"category", failed.CategoryKey,
		"lastError", failed.LastError,
		"retryCount", failed.RetryCount)

	if !a.cfg.GetEmailEnabled() {
		return nil
	}

	subject := fmt.Sprintf("Lead submission failed: report %s / %s", failed.ReportID, failed.CategoryKey)
	body := fmt.Sprintf(
		"Submission %s for report %s (category %s, partner %s) failed after %d attempts.\n\nLast error:\n%s\n",
		failed.SubmissionID, failed.ReportID, failed.CategoryKey,
		failed.PartnerID, failed.RetryCount, failed.LastError)

	return a.send(subject, body)
}

func (a *Alerter) send(subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(a.cfg.GetEmailFromName(), a.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("set alert sender: %w", err)
	}
	if err := msg.To(a.cfg.GetAlertRecipient()); err != nil {
		return fmt.Errorf("set alert recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(a.cfg.GetSMTPHost(),
		mail.WithPort(a.cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(a.cfg.GetSMTPUsername()),
		mail.WithPassword(a.cfg.GetSMTPPassword()),
	)
	if err != nil {
		return fmt.Errorf("init smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	a.log.Info("alert email sent", "subject", subject)
	return nil
}
