package downloader

import (
	"context"

	"github.com/bluele/gcache"
)

const DefaultMemorySize = 1024

// Caches downloaded files in memory. At most size files are kept,
// least recently used ones are evicted first.
type Memory struct {
	cache gcache.Cache
}

func NewMemory(size int) *Memory {
	return NewMemoryWithClock(size, gcache.NewRealClock())
}

func NewMemoryWithClock(size int, clock gcache.Clock) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{
		cache: gcache.New(size).LRU().Clock(clock).Build(),
	}
}

func (d *Memory) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if options.Cache {
		if cached, err := d.cache.Get(url); err == nil {
			countCached("memory")
			return cached.([]byte), nil
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	countDownload("memory", err)
	if err != nil {
		return nil, err
	}

	if options.Cache {
		err = d.cache.SetWithExpire(url, body, options.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	return body, nil
}
