package cache

import (
	"strings"

	"github.com/rs/zerolog"
)

// EvictCallback is called when an entry is evicted from the cache.
// The redis provider relies on key expiry and never calls it.
type EvictCallback func(key string, value []byte)

// Cache stores fetched page bodies keyed by URL.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. If the key already exists, it is overwritten.
	Set(key string, value []byte)

	// Contains checks whether a key exists without refreshing it.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}

// PageKey maps a page URL to its cache key. The fragment is dropped because it never
// reaches the server, so a URL with and without "#top" share one entry.
func PageKey(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[:i]
	}
	return url
}

// Logger receives error reports from cache backends that cannot return them to the caller.
type Logger interface {
	Error(msg string, err error)
}

// zerologLogger adapts a zerolog.Logger to Logger.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps logger so cache backends can report errors through it.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

func (z zerologLogger) Error(msg string, err error) {
	z.logger.Error().Err(err).Msg(msg)
}
