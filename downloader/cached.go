package downloader

import (
	"context"
	"fmt"
	"time"

	"tidbyt.dev/departures/storage"
)

// Caches downloaded files in a Storage backend, such as sqlite,
// postgres or redis.
type Cached struct {
	Storage storage.Storage

	TimeNow func() time.Time
}

func NewCached(s storage.Storage) *Cached {
	return &Cached{
		Storage: s,
		TimeNow: time.Now,
	}
}

func (c *Cached) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if options.Cache {
		doc, err := c.Storage.GetDocument(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if doc != nil && doc.RetrievedAt.Add(options.CacheTTL).After(c.TimeNow()) {
			countCached("storage")
			return doc.Body, nil
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	countDownload("storage", err)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}

	if options.Cache {
		err = c.Storage.WriteDocument(ctx, &storage.Document{
			URL:         url,
			Body:        body,
			RetrievedAt: c.TimeNow().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("writing cache: %w", err)
		}
	}

	return body, nil
}

// Removes documents retrieved before the cutoff from storage.
func (c *Cached) Prune(ctx context.Context, before time.Time) (int64, error) {
	return c.Storage.DeleteDocuments(ctx, before)
}
