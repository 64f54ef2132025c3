package auth

import (
	"io"
	"regexp"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func extractCode(t *testing.T, body string) string {
	t.Helper()
	match := codePattern.FindStringSubmatch(body)
	require.NotNil(t, match, "no reset code in mail body: %s", body)
	return match[1]
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.Issue(&User{ID: 42, Role: "admin"})
	require.NoError(t, err)

	userID, role, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "admin", role)
}

func TestTokenExpires(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, err := tm.Issue(&User{ID: 42, Role: "admin"})
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Issue(&User{ID: 1, Role: "employee"})
	require.NoError(t, err)

	_, _, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.Error(t, err)
}
