// Package docs holds the OpenAPI template served under /api/docs.
// Regenerate from the handler annotations with
//
//	swag init --v3.1 -g internal/services/api/api.go -o internal/services/api/docs --instanceName api
package docs

import "github.com/swaggo/swag/v2"

const docTemplateapi = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/analysis": {
            "post": {
                "tags": ["Analysis"],
                "summary": "Run one analysis over a window",
                "description": "Fetches every month the window touches, assembles the rows and computes the KPI report. An empty selection answers 202 with status \"empty\".",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {"$ref": "#/components/schemas/domain.Request"}
                        }
                    }
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "202": {"description": "no rows matched", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "404": {"description": "no month published or unknown event", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
                    "422": {"description": "invalid request", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/analysis/months": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Months and export URLs a window touches",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "schema": {"type": "string"}, "example": "2025-01-15"},
                    {"name": "end", "in": "query", "required": true, "schema": {"type": "string"}, "example": "2025-03-10"},
                    {"name": "feed", "in": "query", "schema": {"type": "string", "enum": ["all", "member"]}},
                    {"name": "account", "in": "query", "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.MonthsOutput"}}}},
                    "422": {"description": "invalid window", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Linked events of an account",
                "parameters": [
                    {"name": "account", "in": "query", "required": true, "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness check with dependency status",
                "responses": {"200": {"description": "ok"}, "503": {"description": "a dependency failed"}}
            }
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/service": {
            "get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/policy": {
            "get": {"tags": ["Meta"], "summary": "Effective hit rules and insight thresholds", "responses": {"200": {"description": "ok"}}}
        }
    },
    "components": {
        "schemas": {
            "domain.Request": {
                "type": "object",
                "required": ["account"],
                "properties": {
                    "account": {"type": "string", "example": "room_1234"},
                    "start": {"type": "string", "example": "2025-01-15"},
                    "end": {"type": "string", "example": "2025-03-10"},
                    "event": {"type": "string", "example": "Spring Cup"},
                    "feed": {"type": "string", "enum": ["all", "member"]},
                    "benchmark": {"type": "boolean"},
                    "include_rows": {"type": "boolean"}
                }
            },
            "domain.Result": {
                "type": "object",
                "properties": {
                    "run_id": {"type": "string"},
                    "request": {"$ref": "#/components/schemas/domain.Request"},
                    "window": {"type": "object"},
                    "months": {"type": "object"},
                    "status": {"type": "string", "enum": ["ok", "empty"]},
                    "population": {"type": "integer"},
                    "report": {"type": "object"},
                    "rows": {"type": "array", "items": {"type": "object"}}
                }
            },
            "domain.MonthsOutput": {
                "type": "object",
                "properties": {
                    "months": {"type": "array", "items": {"type": "string"}},
                    "urls": {"type": "array", "items": {"type": "string"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "liverkpi API",
	Description:      "Monthly broadcaster exports in, KPI reports out.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplateapi,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
