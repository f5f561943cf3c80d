package calendar

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheDuration is how long a cached feed stays valid
	DefaultCacheDuration = 24 * time.Hour
	// DefaultMaxLookahead bounds day scans (three years)
	DefaultMaxLookahead = 1098
)

// Options configures a WorkCalendar
type Options struct {
	Country string // "ru" or combined "ru:en"
	Locale  string // defaults to Country

	// CacheFolder enables the on-disk cache when set together with a
	// positive CacheDuration. Zero CacheDuration disables caching.
	CacheFolder   string
	CacheDuration time.Duration
	FileMode      *os.FileMode
	DirMode       *os.FileMode

	// Source defaults to an HTTPSource on DefaultSourceURL
	Source Source

	// MaxLookahead is the maximum number of days a scan may visit
	MaxLookahead int

	// Now defaults to time.Now
	Now func() time.Time
}

// WorkCalendar answers work-calendar queries for one country and locale.
// Years are loaded lazily on first use and kept for the lifetime of the
// instance. Safe for concurrent use.
type WorkCalendar struct {
	country       string
	locale        string
	cacheDuration time.Duration
	cache         *fileCache
	source        Source
	maxLookahead  int
	now           func() time.Time
	logger        *zap.Logger

	mu      sync.RWMutex
	years   map[int]*YearCalendar
	movedTo map[Date]Date
	loads   singleflight.Group
}

// New creates a new WorkCalendar instance.
// The on-disk cache is used only when both CacheFolder and a positive
// CacheDuration are set; a folder with a zero duration is logged and ignored.
func New(opts Options, logger *zap.Logger) (*WorkCalendar, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	country, locale, err := ParseCountryLocale(opts.Country, opts.Locale)
	if err != nil {
		return nil, err
	}

	if opts.CacheDuration < 0 {
		return nil, fmt.Errorf("%w: negative cache duration %s", ErrInvalidConfiguration, opts.CacheDuration)
	}
	if opts.MaxLookahead < 0 {
		return nil, fmt.Errorf("%w: negative lookahead %d", ErrInvalidConfiguration, opts.MaxLookahead)
	}

	wc := &WorkCalendar{
		country:       country,
		locale:        locale,
		cacheDuration: opts.CacheDuration,
		source:        opts.Source,
		maxLookahead:  opts.MaxLookahead,
		now:           opts.Now,
		logger:        logger,
		years:         make(map[int]*YearCalendar),
		movedTo:       make(map[Date]Date),
	}

	if opts.CacheFolder != "" {
		wc.cache = &fileCache{
			folder:   opts.CacheFolder,
			fileMode: opts.FileMode,
			dirMode:  opts.DirMode,
		}
		if opts.CacheDuration == 0 {
			logger.Warn("Cache folder set without a cache duration, caching disabled",
				zap.String("cache_folder", opts.CacheFolder))
		}
	}
	if wc.source == nil {
		wc.source = NewHTTPSource(DefaultSourceURL, HTTPSourceOptions{}, logger)
	}
	if wc.maxLookahead == 0 {
		wc.maxLookahead = DefaultMaxLookahead
	}
	if wc.now == nil {
		wc.now = time.Now
	}

	return wc, nil
}

// Country returns the lower-cased country code
func (c *WorkCalendar) Country() string {
	return c.country
}

// Locale returns the lower-cased locale code
func (c *WorkCalendar) Locale() string {
	return c.locale
}

// CacheFolder returns the cache folder, empty when none is configured
func (c *WorkCalendar) CacheFolder() string {
	if c.cache == nil {
		return ""
	}
	return c.cache.folder
}

// CacheDuration returns how long cached feeds stay valid
func (c *WorkCalendar) CacheDuration() time.Duration {
	return c.cacheDuration
}

// SourceURL returns the feed location root, empty for custom sources
func (c *WorkCalendar) SourceURL() string {
	switch s := c.source.(type) {
	case *HTTPSource:
		return s.BaseURL()
	case *DirSource:
		return "file://" + s.Root()
	default:
		return ""
	}
}

func (c *WorkCalendar) cachingEnabled() bool {
	return c.cache != nil && c.cacheDuration > 0
}

// Year returns the calendar of year, loading it on first use.
// Concurrent callers for the same year share a single load, which is not
// canceled when one of them gives up; each caller stops waiting when its
// own ctx is done. A failed load is not remembered.
func (c *WorkCalendar) Year(ctx context.Context, year int) (*YearCalendar, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}

	if yc, ok := c.loaded(year); ok {
		return yc, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(strconv.Itoa(year), func() (interface{}, error) {
		if yc, ok := c.loaded(year); ok {
			return yc, nil
		}

		yc, err := c.loadYear(loadCtx, year)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.years[year] = yc
		for from, to := range yc.MovedTo {
			c.movedTo[from] = to
		}
		c.mu.Unlock()

		c.logger.Info("Calendar year loaded",
			zap.String("country", c.country),
			zap.String("locale", c.locale),
			zap.Int("year", year),
			zap.Int("days", len(yc.Days)))

		return yc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*YearCalendar), nil
	}
}

func (c *WorkCalendar) loaded(year int) (*YearCalendar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	yc, ok := c.years[year]
	return yc, ok
}

// record returns the published record of d, loading d's year if needed
func (c *WorkCalendar) record(ctx context.Context, d Date) (DayRecord, bool, error) {
	yc, err := c.Year(ctx, d.Year)
	if err != nil {
		return DayRecord{}, false, err
	}
	rec, ok := yc.Record(d)
	return rec, ok, nil
}

func (c *WorkCalendar) movedToOf(d Date) (Date, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	to, ok := c.movedTo[d]
	return to, ok
}
