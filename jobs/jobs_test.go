package jobs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/rubankumarsankar/new-b/internal/jobs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmailJobSendsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	job := NewEmailJob(SMTPConfig{
		Host: "mail.example.com", Port: 587,
		From: "noreply@example.com", FromName: "EMS",
	}, discardLogger(), nil)
	job.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	task, err := NewNotifyEmailTask(NotifyEmailPayload{
		To: "dev@example.com", Subject: "Late arrival recorded", Body: "Checked in late at 09:50.",
	})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"dev@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Late arrival recorded")
	assert.Contains(t, string(gotMsg), "Checked in late at 09:50.")
}

func TestEmailJobSkipsWhenUnconfigured(t *testing.T) {
	job := NewEmailJob(SMTPConfig{}, discardLogger(), nil)
	called := false
	job.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}
	task, err := NewNotifyEmailTask(NotifyEmailPayload{To: "dev@example.com"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.False(t, called)
}

func TestEmailJobBadPayloadSkipsRetry(t *testing.T) {
	job := NewEmailJob(SMTPConfig{Host: "h", From: "f"}, discardLogger(), nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeNotifyEmail, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestTeamsJobPostsMessageCard(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	job := NewTeamsJob(srv.URL, discardLogger(), nil)
	task, err := NewNotifyTeamsTask(NotifyTeamsPayload{Title: "New task assigned", Text: "Ship the thing"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	body := string(gotBody)
	assert.Contains(t, body, `"@type":"MessageCard"`)
	assert.Contains(t, body, "New task assigned")
	assert.Contains(t, body, "Ship the thing")
}

func TestTeamsJobFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	job := NewTeamsJob(srv.URL, discardLogger(), nil)
	task, err := NewNotifyTeamsTask(NotifyTeamsPayload{Title: "t", Text: "x"})
	require.NoError(t, err)
	assert.Error(t, job.Handle(context.Background(), task))
}

func TestTeamsJobSkipsWhenUnconfigured(t *testing.T) {
	job := NewTeamsJob("", discardLogger(), nil)
	task, err := NewNotifyTeamsTask(NotifyTeamsPayload{Title: "t", Text: "x"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestMetricsTrackerPassesErrorThrough(t *testing.T) {
	m := jobmetrics.NewMetrics(nil)
	tracker := m.Track(TaskTypeNotifyEmail)
	assert.NoError(t, tracker.End(nil))
}
