package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// ResetCodeStore keeps password-reset codes in Redis, keyed by email with a
// wall-clock TTL. Redis rather than a process map so multiple instances see
// the same codes.
type ResetCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetCodeStore constructs a ResetCodeStore.
func NewResetCodeStore(client *redis.Client, ttl time.Duration) *ResetCodeStore {
	return &ResetCodeStore{client: client, ttl: ttl}
}

func resetKey(email string) string {
	return "pwreset:" + email
}

// Issue generates a six-digit code and stores it under the email.
// Re-issuing replaces the previous code and restarts the TTL.
func (s *ResetCodeStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("auth: generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	if err := s.client.Set(ctx, resetKey(email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store reset code: %w", err)
	}
	return code, nil
}

// Redeem consumes the code for the email. The code is deleted on first use
// regardless of match, so a guessed retry cannot brute-force the same code.
func (s *ResetCodeStore) Redeem(ctx context.Context, email, code string) error {
	stored, err := s.client.GetDel(ctx, resetKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: invalid or expired reset code", httpx.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("auth: redeem reset code: %w", err)
	}
	if stored != code {
		return fmt.Errorf("%w: invalid or expired reset code", httpx.ErrValidation)
	}
	return nil
}
