package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/rubankumarsankar/new-b/internal/jobs"
)

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Configured reports whether a mail server was set up at all.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// sendMailFunc matches smtp.SendMail, injectable for tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailJob delivers notify:email tasks over SMTP.
type EmailJob struct {
	cfg      SMTPConfig
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
	sendMail sendMailFunc
}

// NewEmailJob constructs the email delivery handler.
func NewEmailJob(cfg SMTPConfig, logger *slog.Logger, metrics *jobmetrics.Metrics) *EmailJob {
	return &EmailJob{cfg: cfg, logger: logger, metrics: metrics, sendMail: smtp.SendMail}
}

// Handle executes one email delivery.
func (j *EmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("email job: handler not configured")
	}
	var payload NotifyEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track(TaskTypeNotifyEmail)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if !j.cfg.Configured() {
		j.logger.Warn("email delivery skipped, smtp not configured", "to", payload.To)
		return nil
	}
	resultErr = j.send(payload)
	if resultErr != nil {
		j.logger.Error("email delivery failed", "to", payload.To, "error", resultErr)
		return resultErr
	}
	j.logger.Info("email delivered", "to", payload.To, "subject", payload.Subject)
	return nil
}

func (j *EmailJob) send(payload NotifyEmailPayload) error {
	from := j.cfg.From
	if j.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", j.cfg.FromName, j.cfg.From)
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(payload.Body)

	addr := fmt.Sprintf("%s:%d", j.cfg.Host, j.cfg.Port)
	var auth smtp.Auth
	if j.cfg.Username != "" {
		auth = smtp.PlainAuth("", j.cfg.Username, j.cfg.Password, j.cfg.Host)
	}
	return j.sendMail(addr, auth, j.cfg.From, []string{payload.To}, []byte(msg.String()))
}
