package modkit

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "liverkpi/internal/platform/net/http"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("unexpected defaults %+v", b)
	}

	var r phttp.Router
	if r2 := b.Subrouter(r); r2 != r {
		t.Fatalf("default Subrouter should be identity")
	}
	b.Register(r)
}

func TestBuild_CopiesMiddlewares(t *testing.T) {
	t.Parallel()

	fnPtr := func(f func(http.Handler) http.Handler) uintptr {
		return reflect.ValueOf(f).Pointer()
	}
	mwA := func(next http.Handler) http.Handler { return next }
	mwB := func(next http.Handler) http.Handler { return next }
	mid := []func(http.Handler) http.Handler{mwA, mwB}

	type ports struct{ X int }
	b := Build(
		WithName("analysis"),
		WithPrefix("/analysis"),
		WithMiddlewares(mid...),
		WithPorts(ports{X: 7}),
	)
	if b.Name != "analysis" || b.Prefix != "/analysis" {
		t.Fatalf("name/prefix = %q/%q", b.Name, b.Prefix)
	}
	if got, ok := b.Ports.(ports); !ok || got.X != 7 {
		t.Fatalf("ports mismatch: %#v", b.Ports)
	}

	mid[0] = func(next http.Handler) http.Handler { return next }
	if fnPtr(b.Mw[0]) != fnPtr(mwA) || fnPtr(b.Mw[1]) != fnPtr(mwB) {
		t.Fatalf("Built.Mw changed after source slice mutation")
	}
}

func TestBuilt_Mount_OrderAndHooks(t *testing.T) {
	t.Parallel()

	var trail []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	subCalls := 0
	b := Build(
		WithPrefix("/events"),
		WithMiddlewares(tag("a"), tag("b")),
		WithSubrouter(func(r phttp.Router) phttp.Router { subCalls++; return r }),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("extra")) })
		}),
	)

	root := phttp.AdaptChi(chi.NewRouter())
	b.Mount(root, func(r phttp.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("own")) })
	})
	if subCalls != 1 {
		t.Fatalf("subrouter calls = %d", subCalls)
	}

	for path, want := range map[string]string{"/events/": "own", "/events/extra": "extra"} {
		trail = nil
		rr := httptest.NewRecorder()
		root.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK || rr.Body.String() != want {
			t.Fatalf("%s -> %d %q", path, rr.Code, rr.Body.String())
		}
		if strings.Join(trail, ",") != "a,b" {
			t.Fatalf("middleware order = %v", trail)
		}
	}
}
