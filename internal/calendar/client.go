package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jryandunlap/brain-dump/internal/logger"
)

const (
	EventDuration = time.Hour
	// DefaultEndpoint is the Calendar API base path; events go to calendars/primary/events below it.
	DefaultEndpoint = "https://www.googleapis.com/calendar/v3/"
	primaryCalendar = "primary"
)

// NewEvent builds a one hour event starting at start.
func NewEvent(summary string, start time.Time) *gcal.Event {
	return &gcal.Event{
		Summary: summary,
		Start:   &gcal.EventDateTime{DateTime: start.UTC().Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: start.Add(EventDuration).UTC().Format(time.RFC3339)},
	}
}

type Client struct {
	endpoint string
	timeout  time.Duration
	tokens   *TokenCache
}

func NewClient(endpoint string, tokens *TokenCache) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		timeout:  30 * time.Second,
		tokens:   tokens,
	}
}

// CreateEvent inserts a one hour event on the user's primary calendar and returns its id.
// A 401 triggers exactly one token refresh and one retry.
func (c *Client) CreateEvent(ctx context.Context, userID, summary string, start time.Time) (string, error) {
	tok, ok := c.tokens.Get(userID)
	if !ok {
		return "", ErrNotConnected
	}
	event := NewEvent(summary, start)

	created, err := c.insert(ctx, tok.AccessToken, event)
	if IsUnauthorized(err) {
		logger.Info("Calendar: access token rejected, refreshing", zap.String("user_id", userID))
		refreshed, refreshErr := c.tokens.Refresh(ctx, userID)
		if refreshErr != nil {
			return "", fmt.Errorf("refresh after 401: %w", refreshErr)
		}
		created, err = c.insert(ctx, refreshed.AccessToken, event)
	}
	if err != nil {
		logger.Error("Calendar: failed to create event", err, zap.String("user_id", userID))
		return "", err
	}

	logger.Info("Calendar: event created",
		zap.String("user_id", userID),
		zap.String("event_id", created.Id))
	return created.Id, nil
}

// IsUnauthorized reports whether err is a 401 reply from the Calendar API.
func IsUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

// insert sends one request with the given access token. The token source is
// static so a rejected token surfaces as a 401 instead of being refreshed here.
func (c *Client) insert(ctx context.Context, accessToken string, event *gcal.Event) (*gcal.Event, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = c.timeout

	svc, err := gcal.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(c.endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	created, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}
