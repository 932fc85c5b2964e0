package downloader

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Caches downloaded files on disk, one file per URL. A file is fresh
// for CacheTTL after it was last written.
type Filesystem struct {
	Directory string

	TimeNow func() time.Time
}

func NewFilesystem(directory string) (*Filesystem, error) {
	err := os.MkdirAll(directory, 0755)
	if err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Filesystem{
		Directory: directory,
		TimeNow:   time.Now,
	}, nil
}

func (f *Filesystem) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {

	path := f.Path(url)

	if options.Cache {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().Add(options.CacheTTL).After(f.TimeNow()) {
			body, err := os.ReadFile(path)
			if err == nil {
				countCached("file")
				return body, nil
			}
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	countDownload("file", err)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}

	if options.Cache {
		err = f.save(path, body)
		if err != nil {
			return nil, fmt.Errorf("saving: %w", err)
		}
	}

	return body, nil
}

// Location of the cache file for a URL.
func (f *Filesystem) Path(url string) string {
	return filepath.Join(f.Directory, fmt.Sprintf("departures-%x.html", sha256.Sum256([]byte(url))))
}

// Writes to a temporary file first, so that concurrent readers never
// see a partial document.
func (f *Filesystem) save(path string, body []byte) error {
	tmp, err := os.CreateTemp(f.Directory, ".departures-*")
	if err != nil {
		return fmt.Errorf("creating: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing: %w", err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return fmt.Errorf("renaming: %w", err)
	}

	return nil
}

// Removes cache files last written before the cutoff.
func (f *Filesystem) Prune(ctx context.Context, before time.Time) (int64, error) {
	paths, err := filepath.Glob(filepath.Join(f.Directory, "departures-*.html"))
	if err != nil {
		return 0, fmt.Errorf("listing cache: %w", err)
	}

	var n int64
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Before(before) {
			continue
		}

		if err := os.Remove(path); err != nil {
			return n, fmt.Errorf("removing %s: %w", path, err)
		}
		n++
	}

	return n, nil
}
