// Package jobs defines the background task types and the Asynq worker
// that delivers notifications over email and Microsoft Teams.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyEmail delivers a notification by email.
	TaskTypeNotifyEmail = "notify:email"
	// TaskTypeNotifyTeams posts a notification card to a Teams webhook.
	TaskTypeNotifyTeams = "notify:teams"
)

// NotifyEmailPayload describes an email delivery.
type NotifyEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotifyTeamsPayload describes a Teams webhook delivery.
type NotifyTeamsPayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewNotifyEmailTask constructs an Asynq task for email delivery.
func NewNotifyEmailTask(payload NotifyEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyEmail, data), nil
}

// NewNotifyTeamsTask constructs an Asynq task for Teams delivery.
func NewNotifyTeamsTask(payload NotifyTeamsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyTeams, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueEmail enqueues an email delivery task.
func (c *Client) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	task, err := NewNotifyEmailTask(NotifyEmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// EnqueueTeams enqueues a Teams webhook delivery task.
func (c *Client) EnqueueTeams(ctx context.Context, title, text string) error {
	task, err := NewNotifyTeamsTask(NotifyTeamsPayload{Title: title, Text: text})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
