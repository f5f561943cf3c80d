package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	// DefaultSourceURL is the public mirror of the xmlcalendar.ru data
	DefaultSourceURL   = "https://raw.githubusercontent.com/xmlcalendar/data/refs/heads/master"
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 2
)

// Source fetches the raw feed document for one year
type Source interface {
	Fetch(ctx context.Context, country, locale string, year int) (string, error)
}

// feedPath returns "<country>/<year>/calendar.xml", or calendar.<locale>.xml
// when the locale differs from the country.
func feedPath(country, locale string, year int) string {
	name := "calendar.xml"
	if locale != "" && locale != country {
		name = "calendar." + locale + ".xml"
	}
	return path.Join(country, strconv.Itoa(year), name)
}

// HTTPSource downloads feeds from an xmlcalendar mirror
type HTTPSource struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     *zap.Logger
}

// HTTPSourceOptions tunes the transport. Zero values select defaults.
// HTTPClient is copied, never modified; its own Timeout is kept unless
// Timeout is set.
type HTTPSourceOptions struct {
	Timeout    time.Duration
	RetryMax   int // negative disables retries
	HTTPClient *http.Client
}

// NewHTTPSource creates a new HTTPSource instance
func NewHTTPSource(baseURL string, opts HTTPSourceOptions, logger *zap.Logger) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultSourceURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cl := retryablehttp.NewClient()
	cl.RetryMax = defaultRetries
	if opts.RetryMax > 0 {
		cl.RetryMax = opts.RetryMax
	} else if opts.RetryMax < 0 {
		cl.RetryMax = 0
	}
	cl.RetryWaitMin = 500 * time.Millisecond
	cl.RetryWaitMax = 5 * time.Second
	if opts.HTTPClient != nil {
		// copied so the timeout below does not leak into the caller's client
		hc := *opts.HTTPClient
		cl.HTTPClient = &hc
	}
	switch {
	case opts.Timeout > 0:
		cl.HTTPClient.Timeout = opts.Timeout
	case cl.HTTPClient.Timeout == 0:
		cl.HTTPClient.Timeout = defaultHTTPTimeout
	}
	cl.Logger = nil
	cl.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Warn("Retrying calendar download",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt))
		}
	}

	return &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cl,
		logger:     logger,
	}
}

// BaseURL returns the mirror root
func (s *HTTPSource) BaseURL() string {
	return s.baseURL
}

// URL returns the feed location for the given year
func (s *HTTPSource) URL(country, locale string, year int) string {
	return s.baseURL + "/" + feedPath(country, locale, year)
}

// Fetch downloads the year's document
func (s *HTTPSource) Fetch(ctx context.Context, country, locale string, year int) (string, error) {
	url := s.URL(country, locale, year)

	s.logger.Info("Downloading calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrFetch, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("%w: %s returned empty content", ErrFetch, url)
	}

	s.logger.Debug("Calendar data downloaded",
		zap.Int("year", year),
		zap.Int("bytes", len(body)))

	return string(body), nil
}

// DirSource reads feeds from a local checkout of the xmlcalendar data
// repository, laid out as <root>/<country>/<year>/calendar*.xml
type DirSource struct {
	root   string
	logger *zap.Logger
}

// NewDirSource creates a new DirSource instance
func NewDirSource(root string, logger *zap.Logger) *DirSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSource{root: root, logger: logger}
}

// Root returns the mirror directory
func (s *DirSource) Root() string {
	return s.root
}

// Fetch reads the year's document from disk
func (s *DirSource) Fetch(ctx context.Context, country, locale string, year int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	file := filepath.Join(s.root, filepath.FromSlash(feedPath(country, locale, year)))

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open calendar file: %w", ErrFetch, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", fmt.Errorf("%w: calendar file %s is empty", ErrFetch, file)
	}

	s.logger.Info("Calendar file loaded",
		zap.String("file", file),
		zap.Int("year", year))

	return string(data), nil
}
