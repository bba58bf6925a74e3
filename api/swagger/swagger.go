package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Licensing API",
        "description": "License activation, checking, and admin lifecycle management",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Activation", "description": "Student-facing activation and runtime checks"},
        {"name": "Admin", "description": "Request review and license lifecycle (behind external gate)"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/request-activation": {
            "post": {
                "tags": ["Activation"],
                "summary": "Submit an activation request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recorded"},
                    "400": {"description": "Missing required field"}
                }
            }
        },
        "/api/check": {
            "post": {
                "tags": ["Activation"],
                "summary": "Check license state for a student and machine",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "Check result", "schema": {"$ref": "#/definitions/CheckResult"}},
                    "400": {"description": "Missing required field"}
                }
            }
        },
        "/activation-requests": {
            "post": {
                "tags": ["Activation"],
                "summary": "Submit an activation request (alias of /api/request-activation)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recorded"},
                    "400": {"description": "Missing required field"}
                }
            }
        },
        "/license-check": {
            "post": {
                "tags": ["Activation"],
                "summary": "Check license state (alias of /api/check)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "Check result", "schema": {"$ref": "#/definitions/CheckResult"}},
                    "400": {"description": "Missing required field"}
                }
            }
        },
        "/api/v1/admin/requests": {
            "get": {
                "tags": ["Admin"],
                "summary": "List activation requests, newest first",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "Requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/requests/{id}/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve a request and issue or replace the student's license",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Issued license", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Request not found"}
                }
            }
        },
        "/api/v1/admin/requests/{id}/reject": {
            "post": {
                "tags": ["Admin"],
                "summary": "Reject a request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Rejected"},
                    "404": {"description": "Request not found"}
                }
            }
        },
        "/api/v1/admin/licenses": {
            "get": {
                "tags": ["Admin"],
                "summary": "List licenses, newest first",
                "responses": {
                    "200": {"description": "Licenses", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/licenses/{studentId}/extend": {
            "post": {
                "tags": ["Admin"],
                "summary": "Extend a license additively from its stored expiry",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ExtendRequest"}}
                ],
                "responses": {
                    "204": {"description": "Extended"},
                    "404": {"description": "License not found"}
                }
            }
        },
        "/api/v1/admin/licenses/{studentId}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Revoke a license (no-op when absent)",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Revoked"}
                }
            }
        },
        "/api/v1/admin/licenses/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the license table as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered export"}
                }
            }
        }
    },
    "definitions": {
        "SubmitRequest": {
            "type": "object",
            "required": ["student_id", "hwid"],
            "properties": {
                "student_id": {"type": "string"},
                "hwid": {"type": "string"},
                "contact": {"type": "string"},
                "upi_txn": {"type": "string"}
            }
        },
        "CheckRequest": {
            "type": "object",
            "required": ["student_id", "hwid"],
            "properties": {
                "student_id": {"type": "string"},
                "hwid": {"type": "string"}
            }
        },
        "CheckResult": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "state": {"type": "string", "enum": ["active", "due", "blocked"]},
                "expiry": {"type": "string", "format": "date"},
                "reason": {"type": "string"},
                "bound_to": {"type": "string"}
            }
        },
        "ApproveRequest": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"}
            }
        },
        "ExtendRequest": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
