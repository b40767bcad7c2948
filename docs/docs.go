// Package docs registers the payroll-check API document with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "payroll-check maintainers"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth": {
            "get": {
                "description": "Issues a single-use state and redirects to the freee consent page",
                "tags": ["Authorization"],
                "summary": "Start freee authorization",
                "responses": {
                    "302": {"description": "Found"},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "State could not be issued", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/callback": {
            "get": {
                "description": "Validates the state, exchanges the code and stores the credential",
                "produces": ["text/html"],
                "tags": ["Authorization"],
                "summary": "freee authorization callback",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "State issued by /auth", "name": "state", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing authorization code"},
                    "403": {"description": "Unknown, expired or replayed state"},
                    "502": {"description": "freee rejected the code or client credentials"},
                    "504": {"description": "freee unreachable"}
                }
            }
        },
        "/check": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Fetches the statements of a month from freee and reports rule violations",
                "produces": ["application/json"],
                "tags": ["Payroll"],
                "summary": "Check payroll statements",
                "parameters": [
                    {"type": "integer", "example": 2024, "description": "Target year", "name": "year", "in": "query", "required": true},
                    {"type": "integer", "example": 4, "description": "Target month", "name": "month", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/driving.CheckResult"}},
                    "400": {"description": "Missing or invalid year/month", "schema": {"$ref": "#/definitions/http.CheckErrorResponse"}},
                    "401": {"description": "Missing or invalid operator token", "schema": {"$ref": "#/definitions/http.CheckErrorResponse"}},
                    "500": {"description": "Authorization required or upstream failure", "schema": {"$ref": "#/definitions/http.CheckErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Pings the state and credential backends",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ReadyResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ReadyResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the current API version",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Get API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ValidationError": {
            "description": "Payroll statement rule violation",
            "type": "object",
            "properties": {
                "amount": {"type": "number", "example": 0},
                "employee": {"type": "string", "example": "山田 太郎"},
                "item": {"type": "string", "example": "合計支給金額"},
                "message": {"type": "string", "example": "合計支給金額が0以下です。"}
            }
        },
        "driving.CheckResult": {
            "description": "Payroll check result",
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/domain.ValidationError"}},
                "message": {"type": "string", "example": "エラーは見つかりませんでした。"}
            }
        },
        "http.CheckErrorItem": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "年と月を指定してください。"}
            }
        },
        "http.CheckErrorResponse": {
            "description": "Payroll check failure",
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/http.CheckErrorItem"}}
            }
        },
        "http.ErrorResponse": {
            "description": "API error response",
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "internal server error"}
            }
        },
        "http.ReadyResponse": {
            "description": "Readiness status per backend",
            "type": "object",
            "properties": {
                "backends": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string", "example": "ready"}
            }
        },
        "http.StatusResponse": {
            "description": "Simple status response",
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "http.VersionResponse": {
            "description": "API version response",
            "type": "object",
            "properties": {
                "version": {"type": "string", "example": "1.0.0"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Operator JWT. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:10000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "payroll-check API",
	Description:      "Connects to freee with OAuth2 and checks monthly payroll statements for anomalies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
