package source

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/ndexsearch/core"
)

// Adapter normalizes one backend's submit/poll/cancel/stream protocol.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Name returns the source name this adapter serves.
	Name() string

	// Submit issues the query to the backend. It never returns an error:
	// failures are reported as a failed sub-result.
	Submit(ctx context.Context, query *core.Query) *core.SourceQueryResults

	// Refresh polls the backend for a non-terminal sub-result and updates it
	// in place. Refreshing a terminal sub-result is a no-op.
	Refresh(ctx context.Context, result *core.SourceQueryResults)

	// UpdateCatalog writes live backend metadata into entry. On failure the
	// entry status becomes error and the other fields keep their values.
	UpdateCatalog(ctx context.Context, entry *core.SourceResult)

	// Delete asks the backend to discard the remote task identified by handle.
	Delete(ctx context.Context, handle string) error

	// StreamOverlayNetwork fetches one result network for the remote task.
	StreamOverlayNetwork(ctx context.Context, handle, networkID string) (io.ReadCloser, error)

	// Shutdown releases backend client resources.
	Shutdown() error
}

const (
	defaultStatusAttempts     = 3
	defaultStatusRetryDelay   = 500 * time.Millisecond
	defaultOverlayRetryDelay  = 200 * time.Millisecond
	defaultKeywordResultLimit = 100
)

type settings struct {
	logger             *slog.Logger
	unsetImageURL      string
	hostURL            string
	statusAttempts     int
	statusRetryDelay   time.Duration
	overlayRetryDelay  time.Duration
	keywordResultLimit int
}

func defaultSettings() *settings {
	return &settings{
		logger:             slog.Default(),
		statusAttempts:     defaultStatusAttempts,
		statusRetryDelay:   defaultStatusRetryDelay,
		overlayRetryDelay:  defaultOverlayRetryDelay,
		keywordResultLimit: defaultKeywordResultLimit,
	}
}

func applyOptions(opts []Option) (*settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Option configures an adapter.
type Option func(*settings) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithUnsetImageURL sets the image URL used for results that carry none.
func WithUnsetImageURL(url string) Option {
	return func(s *settings) error {
		s.unsetImageURL = url
		return nil
	}
}

// WithHostURL sets the public NDEx host used to build result deep links.
func WithHostURL(url string) Option {
	return func(s *settings) error {
		s.hostURL = url
		return nil
	}
}

// WithStatusRetry sets how many times a status poll is attempted and the
// base delay between attempts. Defaults are 3 attempts and 500ms.
func WithStatusRetry(attempts int, delay time.Duration) Option {
	return func(s *settings) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		s.statusAttempts = attempts
		s.statusRetryDelay = delay
		return nil
	}
}

// WithOverlayRetryDelay sets the pause before the single overlay retry.
// Default is 200ms.
func WithOverlayRetryDelay(delay time.Duration) Option {
	return func(s *settings) error {
		s.overlayRetryDelay = delay
		return nil
	}
}

// WithKeywordResultLimit sets the maximum number of networks a keyword search returns.
// Default is 100.
func WithKeywordResultLimit(limit int) Option {
	return func(s *settings) error {
		if limit < 1 {
			limit = defaultKeywordResultLimit
		}
		s.keywordResultLimit = limit
		return nil
	}
}

// newSubResult creates the sub-result skeleton every adapter starts from.
func newSubResult(name string) *core.SourceQueryResults {
	return &core.SourceQueryResults{
		SourceName: name,
		SourceRank: core.SourceRank(name),
	}
}

// failedSubResult creates a terminal failed sub-result.
func failedSubResult(name, message string) *core.SourceQueryResults {
	sqr := newSubResult(name)
	sqr.Fail(message)
	return sqr
}
