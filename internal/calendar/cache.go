package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)

// cacheEntry is the on-disk payload: when the document was fetched and the
// raw document itself.
type cacheEntry struct {
	CreatedAt int64  `json:"created_at"`
	Content   string `json:"content"`
}

func (e cacheEntry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Before(time.Unix(e.CreatedAt, 0).Add(ttl))
}

// fileCache stores raw feeds as calendar-<year>-<country>.<locale>.cache
type fileCache struct {
	folder   string
	fileMode *os.FileMode
	dirMode  *os.FileMode
}

func (c *fileCache) path(country, locale string, year int) string {
	name := "calendar-" + strconv.Itoa(year) + "-" + country + "." + locale + ".cache"
	return filepath.Join(c.folder, name)
}

// read returns the entry stored at file. A missing file is reported as
// (nil, nil); anything unreadable or undecodable is ErrCacheIO.
// Writers replace the file by rename, so a reader never sees a partial entry.
func (c *fileCache) read(file string) (*cacheEntry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read cache file: %w", ErrCacheIO, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: cache file %s is empty", ErrCacheIO, file)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: failed to parse cache file: %w", ErrCacheIO, err)
	}
	if entry.CreatedAt <= 0 || entry.Content == "" {
		return nil, fmt.Errorf("%w: cache file %s is corrupt", ErrCacheIO, file)
	}

	return &entry, nil
}

// write stores the entry in a temporary file and renames it over file.
// Writers from different processes are serialized by an exclusive lock on
// file+".lock".
func (c *fileCache) write(file string, entry cacheEntry) error {
	dirMode := defaultDirMode
	if c.dirMode != nil {
		dirMode = *c.dirMode
	}
	if err := os.MkdirAll(c.folder, dirMode); err != nil {
		return fmt.Errorf("%w: failed to create cache folder: %w", ErrCacheIO, err)
	}
	if c.dirMode != nil {
		if err := os.Chmod(c.folder, *c.dirMode); err != nil {
			return fmt.Errorf("%w: failed to set cache folder mode: %w", ErrCacheIO, err)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal cache entry: %w", ErrCacheIO, err)
	}

	fileMode := defaultFileMode
	if c.fileMode != nil {
		fileMode = *c.fileMode
	}

	lf, err := os.OpenFile(file+".lock", os.O_CREATE|os.O_RDWR, fileMode)
	if err != nil {
		return fmt.Errorf("%w: failed to open cache lock: %w", ErrCacheIO, err)
	}
	defer lf.Close()

	if err := lockExclusive(lf); err != nil {
		return fmt.Errorf("%w: failed to lock cache file: %w", ErrCacheIO, err)
	}
	defer unlock(lf)

	tmp, err := os.CreateTemp(c.folder, "."+filepath.Base(file)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp cache file: %w", ErrCacheIO, err)
	}
	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write cache file: %w", ErrCacheIO, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return fmt.Errorf("%w: failed to set cache file mode: %w", ErrCacheIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync cache file: %w", ErrCacheIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close cache file: %w", ErrCacheIO, err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("%w: failed to replace cache file: %w", ErrCacheIO, err)
	}
	renamed = true

	return nil
}
