package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type GetOptions struct {
	MaxSize  int
	Timeout  time.Duration
	Cache    bool
	CacheTTL time.Duration

	// Number of additional attempts after a failed request, and
	// the initial wait before the first of them.
	Retries   int
	RetryWait time.Duration
}

// A thing capable of downloading a file, optionally with caching
type Downloader interface {
	Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

// Implemented by downloaders that keep cached files around.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Gets a file. Doesn't cache. Provided as convenience for
// implementing custom Downloaders.
//
// Transport errors and 5xx responses are retried with exponential
// backoff, up to options.Retries times. Other non-200 responses fail
// immediately.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	exp := backoff.NewExponentialBackOff()
	if options.RetryWait > 0 {
		exp.InitialInterval = options.RetryWait
	}

	var body []byte
	err := backoff.Retry(func() error {
		var err error
		body, err = httpGetOnce(ctx, client, url, headers, options)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(exp, uint64(options.Retries)), ctx))
	if err != nil {
		return nil, err
	}

	return body, nil
}

func httpGetOnce(
	ctx context.Context,
	client *http.Client,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	// One byte past MaxSize tells a complete body from a cut one.
	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize)+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if options.MaxSize > 0 && len(body) > options.MaxSize {
		return nil, backoff.Permanent(fmt.Errorf("body exceeds %d bytes", options.MaxSize))
	}

	return body, nil
}
