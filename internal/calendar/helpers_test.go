package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// countingSource wraps a Source and records how often each year was fetched
type countingSource struct {
	inner Source

	mu    sync.Mutex
	calls map[int]int
	fail  map[int]error
}

func newCountingSource(inner Source) *countingSource {
	return &countingSource{
		inner: inner,
		calls: make(map[int]int),
		fail:  make(map[int]error),
	}
}

func (s *countingSource) Fetch(ctx context.Context, country, locale string, year int) (string, error) {
	s.mu.Lock()
	s.calls[year]++
	err := s.fail[year]
	s.mu.Unlock()

	if err != nil {
		return "", err
	}
	return s.inner.Fetch(ctx, country, locale, year)
}

func (s *countingSource) count(year int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[year]
}

func (s *countingSource) failYear(year int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, year)
		return
	}
	s.fail[year] = err
}

func (s *countingSource) withFailure(year int, err error) *countingSource {
	s.failYear(year, err)
	return s
}

// staticSource serves fixed content for every year
type staticSource string

func (s staticSource) Fetch(context.Context, string, string, int) (string, error) {
	return string(s), nil
}

var errUnavailable = errors.New("source unavailable")

func fixtureSource(t *testing.T) Source {
	t.Helper()
	return NewDirSource("testdata", zaptest.NewLogger(t))
}

func newTestCalendar(t *testing.T, opts Options) *WorkCalendar {
	t.Helper()
	if opts.Country == "" {
		opts.Country = "ru"
	}
	if opts.Source == nil {
		opts.Source = fixtureSource(t)
	}
	cal, err := New(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return cal
}

func day(t *testing.T, s string) Date {
	t.Helper()
	parsed, err := time.Parse(ISODate, s)
	require.NoError(t, err)
	return DateOf(parsed)
}

func days(t *testing.T, ss ...string) []Date {
	t.Helper()
	out := make([]Date, len(ss))
	for i, s := range ss {
		out[i] = day(t, s)
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// blockingSource holds every fetch until release is closed
type blockingSource struct {
	inner   Source
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSource(inner Source) *blockingSource {
	return &blockingSource{
		inner:   inner,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingSource) Fetch(ctx context.Context, country, locale string, year int) (string, error) {
	s.once.Do(func() { close(s.started) })
	select {
	case <-s.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return s.inner.Fetch(ctx, country, locale, year)
}
