// Package docs holds the generated OpenAPI description. Regenerate with
// `swag init -g cmd/ledger_backend/main.go -o cmd/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Ledger status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Run a report",
                "parameters": [
                    {"type": "string", "description": "Report kind, e.g. balance_sheet", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Inclusive start date (YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "Inclusive end date (YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"type": "integer", "description": "Trend window in months", "name": "months", "in": "query"},
                    {"type": "string", "description": "Trend end date", "name": "asOf", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown report or invalid parameters"}}
            }
        },
        "/documents/spreadsheet": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Ingest a spreadsheet",
                "parameters": [
                    {"type": "file", "description": "Spreadsheet file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Free-form source label", "name": "source", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}}
            }
        },
        "/assistant/ask": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assistant"],
                "summary": "Ask the assistant",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ledger Assistant API",
	Description:      "Ingests sales and purchase documents into a double-entry ledger and answers questions over it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
