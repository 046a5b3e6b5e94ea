package showroom

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/metrics"
	"liverkpi/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/text/encoding/japanese"
)

const sampleCSV = "アカウントID,配信日時,獲得支援point\nroom1,2024/06/01 20:00,1200\n"

func newFetcher(t *testing.T) (*HTTPFetcher, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	f := NewHTTPFetcher(Config{Timeout: 5 * time.Second, UserAgent: "test"}, metrics.New(reg, reg))
	return f, reg
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestHTTPFetcher_AllFeedStripsBOM(t *testing.T) {
	srv := testkit.NewFeedServer(t, map[string]testkit.Reply{
		"/csv/2024-06_all_all.csv": {Body: append([]byte("\xef\xbb\xbf"), sampleCSV...)},
	})
	f, reg := newFetcher(t)
	src, _ := Feed{Kind: FeedAll, Base: srv.URL + "/csv", Encoding: "utf-8-sig"}.Month(MonthRef{2024, 6}, "")

	rc, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := readAll(t, rc); got != sampleCSV {
		t.Fatalf("body = %q", got)
	}
	if n, _ := testutil.GatherAndCount(reg, "liverkpi_month_fetch_total"); n != 1 {
		t.Fatalf("fetch series = %d", n)
	}
}

func TestHTTPFetcher_MemberFeedDecodesShiftJIS(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String(sampleCSV)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := testkit.NewFeedServer(t, map[string]testkit.Reply{
		"/2024-06_all_room1.csv": {Body: []byte(sjis)},
	})
	f, _ := newFetcher(t)
	src, _ := Feed{Kind: FeedMember, Base: srv.URL, Encoding: "cp932"}.Month(MonthRef{2024, 6}, "room1")

	rc, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := readAll(t, rc); got != sampleCSV {
		t.Fatalf("body = %q", got)
	}
}

func TestHTTPFetcher_StatusMapping(t *testing.T) {
	srv := testkit.NewFeedServer(t, map[string]testkit.Reply{
		"/2024-07_all_all.csv": {Status: http.StatusGone},
		"/2024-08_all_all.csv": {Status: http.StatusBadGateway, Body: []byte("upstream")},
	})
	f, _ := newFetcher(t)
	feed := Feed{Kind: FeedAll, Base: srv.URL}

	for _, tc := range []struct {
		month    MonthRef
		code     perr.ErrorCode
		notFound bool
	}{
		{MonthRef{2024, 6}, perr.ErrorCodeNotFound, true},
		{MonthRef{2024, 7}, perr.ErrorCodeNotFound, true},
		{MonthRef{2024, 8}, perr.ErrorCodeUnavailable, false},
	} {
		src, _ := feed.Month(tc.month, "")
		_, err := f.Fetch(context.Background(), src)
		if !perr.IsCode(err, tc.code) {
			t.Fatalf("%s: code = %v, want %v (%v)", tc.month, perr.CodeOf(err), tc.code, err)
		}
		if errors.Is(err, ErrNotFound) != tc.notFound {
			t.Fatalf("%s: errors.Is(ErrNotFound) mismatch: %v", tc.month, err)
		}
	}
	if srv.Hits("/2024-08_all_all.csv") != 1 {
		t.Fatalf("failed fetch must not be retried: %v", srv.Paths())
	}
}

func TestHTTPFetcher_TransportFailure(t *testing.T) {
	srv := testkit.NewFeedServer(t, nil)
	base := srv.URL
	srv.Close()

	f, _ := newFetcher(t)
	src, _ := Feed{Kind: FeedAll, Base: base}.Month(MonthRef{2024, 6}, "")
	if _, err := f.Fetch(context.Background(), src); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestHTTPFetcher_UnknownEncoding(t *testing.T) {
	f, _ := newFetcher(t)
	if _, err := f.Fetch(context.Background(), Source{URL: "http://127.0.0.1:1/x.csv", Encoding: "klingon"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestHTTPFetcher_ZeroValueSharedByWorkers(t *testing.T) {
	srv := testkit.NewFeedServer(t, map[string]testkit.Reply{
		"/csv/2024-06_all_all.csv": {Body: []byte(sampleCSV)},
	})
	f := &HTTPFetcher{}
	src, _ := Feed{Kind: FeedAll, Base: srv.URL + "/csv", Encoding: "utf-8"}.Month(MonthRef{2024, 6}, "")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := f.Fetch(context.Background(), src)
			if err != nil {
				errs <- err
				return
			}
			_, _ = io.Copy(io.Discard, rc)
			_ = rc.Close()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("fetch: %v", err)
	}
	if f.logger() == nil {
		t.Fatal("logger not initialised")
	}
	if n := srv.Hits("/csv/2024-06_all_all.csv"); n != 8 {
		t.Fatalf("hits = %d, want 8", n)
	}
}
