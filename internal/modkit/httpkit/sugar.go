package httpkit

import (
	"net/http"

	phttp "liverkpi/internal/platform/net/http"
)

// Get registers a no-body handler using the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// GetQuery registers a GET handler with the query string bound into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

// PostJSON registers a POST handler with the JSON body bound into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}
