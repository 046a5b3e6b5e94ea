package testkit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply is a canned upstream response
type Reply struct {
	Status int // 0 means 200
	Body   []byte
}

// FeedServer serves canned CSV bodies by request path and counts hits.
// Unknown paths get 404, like an unpublished month.
type FeedServer struct {
	*httptest.Server

	mu      sync.Mutex
	replies map[string]Reply
	hits    map[string]int
}

// NewFeedServer starts a FeedServer that is closed with the test
func NewFeedServer(t *testing.T, replies map[string]Reply) *FeedServer {
	t.Helper()
	fs := &FeedServer{replies: map[string]Reply{}, hits: map[string]int{}}
	for k, v := range replies {
		fs.replies[k] = v
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *FeedServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.hits[r.URL.Path]++
	rep, ok := fs.replies[r.URL.Path]
	fs.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if rep.Status != 0 {
		w.WriteHeader(rep.Status)
	}
	_, _ = w.Write(rep.Body)
}

// Set replaces the reply for path
func (fs *FeedServer) Set(path string, rep Reply) {
	fs.mu.Lock()
	fs.replies[path] = rep
	fs.mu.Unlock()
}

// Hits returns how often path was requested
func (fs *FeedServer) Hits(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

// Paths returns every requested path with its hit count
func (fs *FeedServer) Paths() map[string]int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make(map[string]int, len(fs.hits))
	for k, v := range fs.hits {
		out[k] = v
	}
	return out
}
