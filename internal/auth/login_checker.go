package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// UserID resolves the session token to its owner.
func (c *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return "", err
	}

	createdAt, userID, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", err
	}

	if c.now().Sub(createdAt) > c.ttl {
		return "", ErrSessionExpired
	}

	return userID, nil
}
