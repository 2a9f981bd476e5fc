// Package source acquires archives from remote or local locations.
//
// Supported locations are http(s):// URLs, file:// paths read through an
// injected filesystem, s3://bucket/key objects, and any io.Reader.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/source/status"
)

// Fetcher retrieves the bytes of an archive from a URI
type Fetcher struct {
	fetcherOptions
}

// New Fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		fetcherOptions: defaultFetcherOptions(),
	}
	for _, apply := range opts {
		apply(&f.fetcherOptions)
	}
	return f
}

// Fetch the content located by uri.
//
// A URI without a scheme is a local path.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}

	l := f.l.With(zap.String("source", uri))
	start := time.Now()
	var b []byte
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		b, err = f.fetchHTTP(ctx, uri, l)
	case "file", "":
		p := u.Path
		if u.Scheme == "" {
			p = uri
		}
		b, err = f.fetchFile(uri, p)
	case "s3":
		b, err = f.fetchS3(ctx, uri, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, status.ErrUnsupportedScheme.Wrap(fmt.Errorf("%q", u.Scheme))
	}
	if err != nil {
		return nil, err
	}

	l.Debug("source fetched", zap.Int("size", len(b)), zap.Duration("elapsed", time.Since(start)))
	return b, nil
}

// FromReader reads a source from r, such as a file picked by a user
func FromReader(r io.Reader, maxSize int64) ([]byte, error) {
	return readLimited(r, maxSize)
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxSize {
		return nil, status.ErrSourceTooLarge.Wrap(fmt.Errorf("more than %d bytes", maxSize))
	}
	return b, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, uri string, l *zap.Logger) ([]byte, error) {
	var b []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return backoff.Permanent(&FetchError{URI: uri, Err: err})
		}
		resp, err := f.client.Do(req)
		if err != nil {
			l.Debug("fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return &FetchError{URI: uri, Err: err}
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			ferr := &FetchError{URI: uri, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(ferr)
			}
			l.Debug("fetch attempt failed", zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			return ferr
		}

		b, err = readLimited(resp.Body, f.maxSize)
		if err != nil {
			if errors.Is(err, status.ErrSourceTooLarge) {
				return backoff.Permanent(err)
			}
			return &FetchError{URI: uri, Status: resp.StatusCode, Err: err}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryInterval
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, f.retries), ctx)); err != nil {
		return nil, err
	}
	return b, nil
}

func (f *Fetcher) fetchFile(uri, p string) ([]byte, error) {
	file, err := f.files.Open(p)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	b, err := readLimited(file, f.maxSize)
	if err != nil {
		if errors.Is(err, status.ErrSourceTooLarge) {
			return nil, err
		}
		return nil, &FetchError{URI: uri, Err: err}
	}
	return b, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, uri, bucket, key string) ([]byte, error) {
	if f.s3 == nil {
		return nil, status.ErrUnsupportedScheme.WrapMessage("no s3 client configured")
	}
	if bucket == "" || key == "" {
		return nil, &FetchError{URI: uri, Err: errors.New("expected s3://bucket/key")}
	}

	out, err := f.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			return nil, &FetchError{URI: uri, Status: re.HTTPStatusCode(), Err: err}
		}
		return nil, &FetchError{URI: uri, Err: err}
	}
	defer func() {
		_ = out.Body.Close()
	}()

	b, err := readLimited(out.Body, f.maxSize)
	if err != nil {
		if errors.Is(err, status.ErrSourceTooLarge) {
			return nil, err
		}
		return nil, &FetchError{URI: uri, Err: err}
	}
	return b, nil
}
