package showroom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"

	"golang.org/x/text/transform"
)

// ErrNotFound marks a resource the upstream has not published
var ErrNotFound = errors.New("showroom: not published")

// Fetcher returns the UTF-8 body of src. The caller closes it.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (io.ReadCloser, error)
}

// HTTPFetcher fetches directly from the upstream
type HTTPFetcher struct {
	Client    *http.Client
	Metrics   *metrics.Pipeline
	UserAgent string

	logOnce sync.Once
	log     *logger.Logger
}

// NewHTTPFetcher builds a fetcher from cfg. m may be nil.
func NewHTTPFetcher(cfg Config, m *metrics.Pipeline) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: cfg.Timeout},
		Metrics:   m,
		UserAgent: cfg.UserAgent,
		log:       logger.Named("showroom"),
	}
}

// Fetch issues one GET. 404 and 410 wrap ErrNotFound; any other status or a
// transport failure is Unavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	enc, err := Encoding(src.Encoding)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "showroom: bad url %s", src.URL)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		f.Metrics.ObserveFetch(src.Label, metrics.OutcomeError, time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, perr.Wrapf(err, perr.ErrorCodeTimeout, "showroom: %s timed out", src.URL)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "showroom: get %s", src.URL)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		f.Metrics.ObserveFetch(src.Label, metrics.OutcomeOK, time.Since(start))
		f.logger().Debug().Str("url", src.URL).Str("month", src.Month.String()).Msg("fetched")
		return &decodedBody{Reader: transform.NewReader(resp.Body, enc.NewDecoder()), body: resp.Body}, nil
	case http.StatusNotFound, http.StatusGone:
		f.Metrics.ObserveFetch(src.Label, metrics.OutcomeNotFound, time.Since(start))
		drain(resp.Body)
		return nil, perr.Wrapf(ErrNotFound, perr.ErrorCodeNotFound, "showroom: %s not published", src.URL)
	default:
		f.Metrics.ObserveFetch(src.Label, metrics.OutcomeError, time.Since(start))
		drain(resp.Body)
		return nil, perr.Wrapf(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			perr.ErrorCodeUnavailable, "showroom: unexpected status %d for %s", resp.StatusCode, src.URL,
		)
	}
}

// logger is safe for a zero HTTPFetcher shared by month workers
func (f *HTTPFetcher) logger() *logger.Logger {
	f.logOnce.Do(func() {
		if f.log == nil {
			f.log = logger.Named("showroom")
		}
	})
	return f.log
}

// decodedBody reads through the decoder and closes the raw body
type decodedBody struct {
	io.Reader
	body io.Closer
}

func (b *decodedBody) Close() error { return b.body.Close() }

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
