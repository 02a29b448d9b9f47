package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*StaticChecker)(nil)

type Checker interface {
	UserID(ctx context.Context, token string) (string, error)
}

// StaticChecker resolves tokens from a fixed map. Used in dev setups and tests.
type StaticChecker struct {
	Sessions map[string]string
}

func NewStaticChecker(sessions map[string]string) *StaticChecker {
	return &StaticChecker{Sessions: sessions}
}

func (c *StaticChecker) UserID(_ context.Context, token string) (string, error) {
	userID, ok := c.Sessions[token]
	if !ok {
		return "", ErrSessionExpired
	}
	return userID, nil
}
