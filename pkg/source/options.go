package source

import (
	"net/http"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/dlogger"
)

const (
	// DefaultMaxSize is the default limit on the size of a fetched archive
	DefaultMaxSize = 1 * units.GiB

	defaultRetries       = 3
	defaultRetryInterval = 500 * time.Millisecond
	defaultTimeout       = 5 * time.Minute
)

// Option for a Fetcher
type Option func(*fetcherOptions)

type fetcherOptions struct {
	client        *http.Client
	files         afero.Fs
	s3            S3API
	l             *zap.Logger
	retries       uint64
	retryInterval time.Duration
	maxSize       int64
}

func defaultFetcherOptions() fetcherOptions {
	return fetcherOptions{
		client:        &http.Client{Timeout: defaultTimeout},
		files:         afero.NewOsFs(),
		l:             zap.NewNop(),
		retries:       defaultRetries,
		retryInterval: defaultRetryInterval,
		maxSize:       DefaultMaxSize,
	}
}

// HTTPClient sets the client used for http(s) sources
func HTTPClient(client *http.Client) Option {
	return func(o *fetcherOptions) {
		if client != nil {
			o.client = client
		}
	}
}

// Files sets the filesystem used to read file:// sources
func Files(fs afero.Fs) Option {
	return func(o *fetcherOptions) {
		if fs != nil {
			o.files = fs
		}
	}
}

// S3 enables s3:// sources, fetched with client
func S3(client S3API) Option {
	return func(o *fetcherOptions) {
		o.s3 = client
	}
}

// Logger injects a logger
func Logger(l *zap.Logger) Option {
	return func(o *fetcherOptions) {
		o.l = dlogger.Or(l)
	}
}

// Retries sets how many times a failed remote fetch is retried
func Retries(retries uint64) Option {
	return func(o *fetcherOptions) {
		o.retries = retries
	}
}

// RetryInterval sets the initial interval between retries, growing exponentially
func RetryInterval(interval time.Duration) Option {
	return func(o *fetcherOptions) {
		o.retryInterval = interval
	}
}

// MaxSize limits the size of a fetched source. 0 means unlimited.
func MaxSize(size int64) Option {
	return func(o *fetcherOptions) {
		o.maxSize = size
	}
}
