package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "liverkpi/internal/platform/errors"
	phttp "liverkpi/internal/platform/net/http"
	"liverkpi/internal/services/analysis/domain"
)

type fakeSvc struct{}

func (fakeSvc) Run(_ context.Context, req domain.Request) (domain.Result, error) {
	switch req.Account {
	case "ghost":
		return domain.Result{Request: req, Status: domain.StatusEmpty}, nil
	case "void":
		return domain.Result{}, perr.NoDataf("nothing published")
	}
	return domain.Result{RunID: "run-1", Request: req, Status: domain.StatusOK}, nil
}

func (fakeSvc) Months(_ context.Context, in domain.MonthsInput) (domain.MonthsOutput, error) {
	return domain.MonthsOutput{Months: []string{in.Start[:7]}}, nil
}

func newRouter() phttp.Router {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/analysis", func(rr phttp.Router) { Register(rr, fakeSvc{}) })
	return r
}

func post(r phttp.Router, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodPost, "/analysis/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.Mux().ServeHTTP(rec, req)
	return rec
}

func TestRun_StatusMapping(t *testing.T) {
	r := newRouter()
	cases := []struct {
		body   string
		status int
	}{
		{`{"account":"acc1","start":"2025-01-15","end":"2025-03-10"}`, stdhttp.StatusOK},
		{`{"account":"ghost","start":"2025-01-15","end":"2025-03-10"}`, stdhttp.StatusAccepted},
		{`{"account":"void","start":"2025-01-15","end":"2025-03-10"}`, stdhttp.StatusNotFound},
		{`{"account":"acc1","event":"Cup"}`, stdhttp.StatusOK},
		{`{"account":"acc1","start":"2025-01-15"}`, stdhttp.StatusBadRequest},
		{`{"account":"acc1","start":"15/01/2025","end":"2025-03-10"}`, stdhttp.StatusBadRequest},
		{`{"account":"acc1","start":"2025-01-15","end":"2025-03-10","feed":"daily"}`, stdhttp.StatusBadRequest},
		{`{"start":"2025-01-15","end":"2025-03-10"}`, stdhttp.StatusBadRequest},
		{`{"account":"acc1","start":"2025-01-15","end":"2025-03-10","extra":1}`, stdhttp.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := post(r, tc.body); rec.Code != tc.status {
			t.Fatalf("%s -> %d, want %d: %s", tc.body, rec.Code, tc.status, rec.Body.String())
		}
	}

	rec := post(r, `{"account":"acc1","start":"2025-01-15","end":"2025-03-10"}`)
	var env struct {
		Data domain.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.RunID != "run-1" || env.Data.Request.Start != "2025-01-15" {
		t.Fatalf("payload = %+v", env.Data)
	}
}

func TestMonths(t *testing.T) {
	r := newRouter()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/analysis/months?start=2025-01-15&end=2025-03-10", nil))
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"2025-01"`) {
		t.Fatalf("months -> %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/analysis/months?start=2025-01-15", nil))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("missing end -> %d", rec.Code)
	}
}
