package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"

	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

const EventsScope = "https://www.googleapis.com/auth/calendar.events"

var (
	ErrNotConnected   = errors.New("google calendar is not connected for this user")
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// TokenCache holds each user's Google credentials. Concurrent refreshes for the
// same user share one token endpoint call.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
	group  singleflight.Group
	oauth  *oauth2.Config
	state  stateCodec
	now    func() time.Time
}

func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       []string{EventsScope},
	}
}

func NewTokenCache(oauthCfg *oauth2.Config) *TokenCache {
	return &TokenCache{
		tokens: make(map[string]*oauth2.Token),
		oauth:  oauthCfg,
		state:  stateCodec{now: time.Now},
		now:    time.Now,
	}
}

// WithStateSecret makes AuthCodeURL sign the OAuth state so the callback can
// trust the user id without a bearer token.
func (c *TokenCache) WithStateSecret(secret string) *TokenCache {
	c.state.secret = []byte(secret)
	return c
}

func (c *TokenCache) Put(userID string, tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *tok
	c.tokens[userID] = &copied
}

func (c *TokenCache) Get(userID string) (*oauth2.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tok, ok := c.tokens[userID]
	if !ok {
		return nil, false
	}
	copied := *tok
	return &copied, true
}

// Expiring lists users whose access token expires within window, at most limit of them.
func (c *TokenCache) Expiring(window time.Duration, limit int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	deadline := c.now().Add(window)
	users := []string{}
	for userID, tok := range c.tokens {
		if limit > 0 && len(users) >= limit {
			break
		}
		if tok.RefreshToken == "" || tok.Expiry.IsZero() {
			continue
		}
		if tok.Expiry.Before(deadline) {
			users = append(users, userID)
		}
	}
	return users
}

// AuthCodeURL is where the user is sent to grant calendar access; state carries the user id.
func (c *TokenCache) AuthCodeURL(userID string) (string, error) {
	state, err := c.state.encode(userID)
	if err != nil {
		return "", err
	}
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// UserFromState returns the user id carried by a state value from AuthCodeURL.
func (c *TokenCache) UserFromState(state string) (string, error) {
	return c.state.decode(state)
}

// Exchange trades an authorization code for tokens and caches them for userID.
func (c *TokenCache) Exchange(ctx context.Context, userID, code string) (*oauth2.Token, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("Calendar: code exchange failed", err, zap.String("user_id", userID))
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	c.Put(userID, tok)
	logger.Info("Calendar: connected", zap.String("user_id", userID), zap.Time("expiry", tok.Expiry))
	return tok, nil
}

// Refresh obtains a new access token for userID using the cached refresh token.
func (c *TokenCache) Refresh(ctx context.Context, userID string) (*oauth2.Token, error) {
	v, err, shared := c.group.Do(userID, func() (any, error) {
		current, ok := c.Get(userID)
		if !ok {
			return nil, ErrNotConnected
		}
		if current.RefreshToken == "" {
			return nil, ErrNoRefreshToken
		}

		tok, err := c.RefreshWithToken(ctx, current.RefreshToken)
		if err != nil {
			return nil, err
		}
		c.Put(userID, tok)
		return tok, nil
	})
	if err != nil {
		logger.Error("Calendar: token refresh failed", err, zap.String("user_id", userID))
		return nil, err
	}
	logger.Info("Calendar: token refreshed", zap.String("user_id", userID), zap.Bool("shared", shared))
	return v.(*oauth2.Token), nil
}

// RefreshWithToken runs the refresh-token grant. Google usually omits the refresh
// token in the reply, so the one passed in is kept.
func (c *TokenCache) RefreshWithToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	src := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}
