package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleStore rate-limits claim attempts per code in Redis. Codes are
// capability tokens, so an attacker who can spray guesses fast enough
// could eventually claim someone else's trip; the throttle makes that
// impractical. It is rate limiting only, never a correctness lock: the
// at-most-one-claim guarantee comes from the conditional update in the
// trip repository.
type ThrottleStore struct {
	client *redis.Client
}

// NewThrottleStore creates a new ThrottleStore.
func NewThrottleStore(client *redis.Client) *ThrottleStore {
	return &ThrottleStore{client: client}
}

const claimAttemptLimit = 5

// AllowClaim reports whether another claim attempt against the code is
// allowed within the window. Attempts beyond the limit are refused until
// the window expires.
func (s *ThrottleStore) AllowClaim(ctx context.Context, code string, window time.Duration) (bool, error) {
	key := fmt.Sprintf("throttle:claim:%s", code)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= claimAttemptLimit, nil
}

// ResetClaim clears the attempt counter for a code, e.g. after a
// successful claim consumed it.
func (s *ThrottleStore) ResetClaim(ctx context.Context, code string) error {
	key := fmt.Sprintf("throttle:claim:%s", code)

	return s.client.Del(ctx, key).Err()
}
