// Package docs registers the OpenAPI description served under /swagger.
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
        "/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "responses": {
                    "200": {"description": "Documents", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Store a document",
                "parameters": [
                    {"description": "Document record", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.DocumentInput"}}
                ],
                "responses": {
                    "201": {"description": "Stored document", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/export": {
            "get": {
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["documents"],
                "summary": "Export documents",
                "parameters": [
                    {"enum": ["csv", "xlsx"], "type": "string", "default": "csv", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/extract": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Extract fields from a document",
                "parameters": [
                    {"type": "file", "description": "Document to analyze (PDF, JPG, or PNG)", "name": "document", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Extracted record", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing file or unsupported type", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Upload failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Document", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Update a document",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"description": "Document record", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.DocumentInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated document", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid ID or validation error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "delete": {
                "tags": ["documents"],
                "summary": "Delete a document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}/image": {
            "get": {
                "tags": ["documents"],
                "summary": "Redirect to the stored document image",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "307": {"description": "Redirect to a presigned URL"},
                    "404": {"description": "Document or image not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "domain.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.LineItem": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "quantity": {"type": "string"},
                "unitPrice": {"type": "string"},
                "amount": {"type": "string"}
            }
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/domain.FieldError"}}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/handler.APIError"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {}
            }
        },
        "service.DocumentInput": {
            "type": "object",
            "properties": {
                "vendor": {"type": "string"},
                "documentType": {"type": "string"},
                "date": {"type": "string", "example": "2024-03-14"},
                "documentNumber": {"type": "string"},
                "totalAmount": {"type": "string"},
                "taxAmount": {"type": "string"},
                "lineItems": {"type": "array", "items": {"$ref": "#/definitions/domain.LineItem"}},
                "notes": {"type": "string"},
                "confidence": {"type": "integer"},
                "category": {"type": "string"},
                "ocrText": {"type": "string"},
                "imageUrl": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Document Analyzer API",
	Description:      "Extracts structured fields from receipts and invoices and manages the reviewed records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
