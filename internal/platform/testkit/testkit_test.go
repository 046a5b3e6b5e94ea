package testkit

import (
	"io"
	"net/http"
	"testing"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "alpha beta gamma", "beta")
}

func TestMustApprox(t *testing.T) {
	t.Parallel()
	MustApprox(t, "third", 1.0/3.0, 0.3333333333333333)
}

func TestFeedServer(t *testing.T) {
	fs := NewFeedServer(t, map[string]Reply{
		"/2025-01_all_all.csv": {Body: []byte("a,b\n")},
		"/broken.csv":          {Status: http.StatusBadGateway},
	})

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(fs.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	if st, body := get("/2025-01_all_all.csv"); st != http.StatusOK || body != "a,b\n" {
		t.Fatalf("ok path = %d %q", st, body)
	}
	if st, _ := get("/broken.csv"); st != http.StatusBadGateway {
		t.Fatalf("status path = %d", st)
	}
	if st, _ := get("/2099-01_all_all.csv"); st != http.StatusNotFound {
		t.Fatalf("unknown path = %d", st)
	}

	fs.Set("/2099-01_all_all.csv", Reply{Body: []byte("x\n")})
	if st, _ := get("/2099-01_all_all.csv"); st != http.StatusOK {
		t.Fatalf("after Set = %d", st)
	}
	if fs.Hits("/2099-01_all_all.csv") != 2 || fs.Hits("/2025-01_all_all.csv") != 1 {
		t.Fatalf("hits = %v", fs.Paths())
	}
}
