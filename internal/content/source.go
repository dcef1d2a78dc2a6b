// Package content supplies the items classified in a sorting session.
package content

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/lophoc/internal/model"
)

var (
	// ErrNoCredential is returned when a provider has no API key configured.
	ErrNoCredential = errors.New("no provider credential configured")
	// ErrMalformed is returned when a provider response violates the item schema.
	ErrMalformed = errors.New("malformed provider response")
)

const defaultFetchTimeout = 30 * time.Second

// Source produces a list of items. Implementations may fail.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Batch is the result of a fetch that always succeeds.
type Batch struct {
	Items  []model.Item
	Source string
}

// Fetcher wraps an optional primary source and substitutes the fallback list
// on any failure.
type Fetcher struct {
	primary Source
	logger  *zap.Logger
	timeout time.Duration
}

// NewFetcher returns a Fetcher. A nil primary always yields the fallback list.
func NewFetcher(primary Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{primary: primary, logger: logger, timeout: defaultFetchTimeout}
}

// FetchItems never fails and never returns an empty batch.
func (f *Fetcher) FetchItems(ctx context.Context) Batch {
	if f.primary == nil {
		f.logger.Debug("no content provider configured; using fallback items")
		return fallbackBatch()
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	items, err := f.primary.Fetch(ctx)
	if err != nil {
		f.logger.Warn("content provider failed; using fallback items",
			zap.String("source", f.primary.Name()),
			zap.Error(err))
		return fallbackBatch()
	}
	if len(items) == 0 {
		f.logger.Warn("content provider returned no items; using fallback items",
			zap.String("source", f.primary.Name()))
		return fallbackBatch()
	}
	f.logger.Debug("fetched items",
		zap.String("source", f.primary.Name()),
		zap.Int("count", len(items)))
	return Batch{Items: items, Source: f.primary.Name()}
}

func fallbackBatch() Batch {
	return Batch{Items: FallbackItems(), Source: FallbackName}
}
