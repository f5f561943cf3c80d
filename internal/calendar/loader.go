package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// loadYear produces the calendar of year from the cache or the source.
// Fetched content is parsed before it is cached.
func (c *WorkCalendar) loadYear(ctx context.Context, year int) (*YearCalendar, error) {
	if !c.cachingEnabled() {
		content, err := c.fetch(ctx, year)
		if err != nil {
			return nil, err
		}
		return Parse(content, year)
	}

	file := c.cache.path(c.country, c.locale, year)

	entry, err := c.cache.read(file)
	if err != nil {
		return nil, err
	}

	now := c.now()
	if entry != nil {
		if entry.fresh(now, c.cacheDuration) {
			c.logger.Debug("Using cached calendar",
				zap.String("file", file),
				zap.Int("year", year),
				zap.Time("created_at", time.Unix(entry.CreatedAt, 0)))
			return Parse(entry.Content, year)
		}

		c.logger.Warn("Cached calendar expired",
			zap.String("file", file),
			zap.Int("year", year),
			zap.Time("created_at", time.Unix(entry.CreatedAt, 0)))
	}

	content, err := c.fetch(ctx, year)
	if err != nil {
		return nil, err
	}

	yc, err := Parse(content, year)
	if err != nil {
		return nil, err
	}

	if err := c.cache.write(file, cacheEntry{CreatedAt: now.Unix(), Content: content}); err != nil {
		return nil, err
	}

	c.logger.Info("Calendar cached",
		zap.String("file", file),
		zap.Int("year", year))

	return yc, nil
}

func (c *WorkCalendar) fetch(ctx context.Context, year int) (string, error) {
	content, err := c.source.Fetch(ctx, c.country, c.locale, year)
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			err = fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty content for %d", ErrFetch, year)
	}
	return content, nil
}
