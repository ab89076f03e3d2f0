package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jryandunlap/brain-dump/internal/logger"
)

type TokenRefresher interface {
	Expiring(window time.Duration, limit int) []string
	Refresh(ctx context.Context, userID string) (*oauth2.Token, error)
}

// TokenRefreshWorker renews cached calendar tokens shortly before they expire,
// so scheduling rarely has to go through the 401 path.
type TokenRefreshWorker struct {
	tokens    TokenRefresher
	interval  time.Duration
	window    time.Duration
	batchSize int
}

func NewTokenRefreshWorker(tokens TokenRefresher, interval, window *time.Duration, batchSize *int) *TokenRefreshWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	var windowToSet time.Duration
	if window == nil || *window <= 0 {
		windowToSet = 5 * time.Minute
	} else {
		windowToSet = *window
	}

	var batchToSet int
	if batchSize == nil || *batchSize <= 0 {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}
	return &TokenRefreshWorker{
		tokens:    tokens,
		interval:  intervalToSet,
		window:    windowToSet,
		batchSize: batchToSet,
	}
}

func (w *TokenRefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: token refresh stopping")
			return
		}
	}
}

// Check refreshes every token expiring within the window, up to batchSize users.
// It returns how many refreshes succeeded.
func (w *TokenRefreshWorker) Check(ctx context.Context) int {
	start := time.Now()

	users := w.tokens.Expiring(w.window, w.batchSize)
	if len(users) == 0 {
		return 0
	}

	refreshed := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		if _, err := w.tokens.Refresh(ctx, userID); err != nil {
			logger.Warn("Worker: token refresh failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		refreshed++
	}

	logger.Info("Worker: token refresh finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(users)),
		zap.Int("refreshed", refreshed),
	)
	return refreshed
}
