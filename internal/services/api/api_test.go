package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"liverkpi/internal/modkit/module"
	"liverkpi/internal/platform/config"
	"liverkpi/internal/platform/metrics"
	phttp "liverkpi/internal/platform/net/http"
	"liverkpi/internal/platform/store"
	"liverkpi/internal/services/api"
)

func newAPI(t *testing.T) phttp.Router {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)
	t.Setenv("CORE_FEED_BASE_URL", "https://exports.test/csv")

	st, err := store.Open(context.Background(), store.Config{Backend: store.BackendMemory})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))
	api.Mount(srv.Router(), api.Options{
		Config:        config.New(),
		Store:         st,
		Metrics:       metrics.NewIsolated(),
		EnableSwagger: true,
	})
	return srv.Router()
}

func get(r phttp.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_Routes(t *testing.T) {
	r := newAPI(t)

	cases := []struct {
		path string
		want int
	}{
		{"/ping", http.StatusOK},
		{"/api/v1/meta/health", http.StatusOK},
		{"/api/v1/meta/ready", http.StatusOK},
		{"/api/v1/meta/policy", http.StatusOK},
		{"/api/v1/events?account=room_1", http.StatusOK},
		{"/api/v1/analysis/months?start=2025-01-15&end=2025-03-10", http.StatusOK},
		{"/api/v1/analysis/months?start=2025-03-01&end=2025-01-01", http.StatusUnprocessableEntity},
		{"/api/docs/doc.json", http.StatusOK},
		{"/debug/pprof/", http.StatusNotFound},
	}
	for _, tc := range cases {
		if rec := get(r, tc.path); rec.Code != tc.want {
			t.Errorf("GET %s = %d, want %d body=%s", tc.path, rec.Code, tc.want, rec.Body.String())
		}
	}

	names := module.Names()
	if len(names) != 3 {
		t.Fatalf("registered modules = %v", names)
	}
}

func TestMount_MonthsPreview(t *testing.T) {
	r := newAPI(t)

	rec := get(r, "/api/v1/analysis/months?start=2025-01-15&end=2025-03-10")
	var env struct {
		Data struct {
			Months []string `json:"months"`
			URLs   []string `json:"urls"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.Join(env.Data.Months, ","); got != "2025-01,2025-02,2025-03" {
		t.Fatalf("months = %s", got)
	}
	if env.Data.URLs[0] != "https://exports.test/csv/2025-01_all_all.csv" {
		t.Fatalf("url = %s", env.Data.URLs[0])
	}
}

func TestMount_Metrics(t *testing.T) {
	r := newAPI(t)
	_ = get(r, "/api/v1/meta/health")

	rec := get(r, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "liverkpi_http_requests_total") {
		t.Fatalf("http metrics missing:\n%s", rec.Body.String())
	}
}
