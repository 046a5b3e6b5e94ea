package swaggerkit

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"liverkpi/internal/platform/config"
	perr "liverkpi/internal/platform/errors"

	docs "liverkpi/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// upstreamTags mark operations that read the broadcaster exports
var upstreamTags = []string{"Analysis", "Events"}

// Register adds a spec mutator
// call this from module init so it is wired automatically
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON serves the spec with the shared error responses filled in
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		// swagger ui does not render 3.1 yet
		ensureServers(spec, "/api/v1")

		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		eachOperation(spec, func(op map[string]any) {
			addDefault(op, http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered", "")
			addDefault(op, http.StatusBadRequest, perr.ErrorCodeValidation, "account is required", "account")
			if tagged(op, upstreamTags) {
				addDefault(op, http.StatusBadGateway, perr.ErrorCodeMalformed, "month 2025-01: row 12: timestamp \"soon\" not parseable", "")
				addDefault(op, http.StatusServiceUnavailable, perr.ErrorCodeUnavailable, "fetch 2025-01: upstream status 500", "")
				addDefault(op, http.StatusGatewayTimeout, perr.ErrorCodeTimeout, "fetch 2025-01: deadline exceeded", "")
			}
		})

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers lifts the document to OAS 3.0.3 and sets servers if missing
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponseDefinition adds the error envelope model if missing
// mirrors net.Envelope without the data member
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func eachOperation(spec map[string]any, fn func(op map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			if op, ok := opAny.(map[string]any); ok {
				fn(op)
			}
		}
	}
}

func tagged(op map[string]any, tags []string) bool {
	list, _ := op["tags"].([]any)
	for _, t := range list {
		if s, ok := t.(string); ok && slices.Contains(tags, s) {
			return true
		}
	}
	return false
}

// addDefault injects an error response for status unless the operation documents one
func addDefault(op map[string]any, status int, code perr.ErrorCode, msg, field string) {
	resps, ok := op["responses"].(map[string]any)
	if !ok {
		resps = map[string]any{}
		op["responses"] = resps
	}
	key := http.StatusText(status)
	num := strconv.Itoa(status)
	if _, exists := resps[num]; exists {
		return
	}
	example := map[string]any{
		"status_code": status,
		"status":      key,
		"code":        int(code),
		"error":       msg,
		"request_id":  "579f33bf50b1/abc-000001",
	}
	if field != "" {
		example["field"] = field
	}
	resps[num] = map[string]any{
		"description": key,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}
