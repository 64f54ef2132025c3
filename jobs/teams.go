package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/rubankumarsankar/new-b/internal/jobs"
)

// messageCard is the legacy Office 365 connector card format Teams
// incoming webhooks accept.
type messageCard struct {
	Type       string `json:"@type"`
	Context    string `json:"@context"`
	ThemeColor string `json:"themeColor"`
	Summary    string `json:"summary"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

// TeamsJob delivers notify:teams tasks to an incoming webhook.
type TeamsJob struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
	metrics    *jobmetrics.Metrics
}

// NewTeamsJob constructs the Teams delivery handler.
func NewTeamsJob(webhookURL string, logger *slog.Logger, metrics *jobmetrics.Metrics) *TeamsJob {
	return &TeamsJob{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		metrics:    metrics,
	}
}

// Handle executes one webhook delivery.
func (j *TeamsJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("teams job: handler not configured")
	}
	var payload NotifyTeamsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track(TaskTypeNotifyTeams)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if j.webhookURL == "" {
		j.logger.Warn("teams delivery skipped, webhook not configured")
		return nil
	}
	resultErr = j.post(ctx, payload)
	if resultErr != nil {
		j.logger.Error("teams delivery failed", "error", resultErr)
		return resultErr
	}
	j.logger.Info("teams card delivered", "title", payload.Title)
	return nil
}

func (j *TeamsJob) post(ctx context.Context, payload NotifyTeamsPayload) error {
	card := messageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "0076D7",
		Summary:    payload.Title,
		Title:      payload.Title,
		Text:       payload.Text,
	}
	body, err := json.Marshal(card)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
