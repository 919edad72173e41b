package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Rooms API",
        "description": "Deterministic room allocation engine for weekly class schedules",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Allocations", "description": "Schedule ingestion, allocation runs, reports and exports"},
        {"name": "Priority", "description": "Operator-designated priority groups"}
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
        "/api/v1/allocations/ingest": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Upload the five normalized schedule CSVs (one per program)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "files", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/run": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Execute an allocation run over the ingested dataset",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/report": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Full report of a run",
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/rooms": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Per-room occupancy calendars of a run",
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/export.csv": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Download the assignment table of a run as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/api/v1/allocations/export.pdf": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Download the assignment table of a run as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/api/v1/priority-groups": {
            "get": {
                "tags": ["Priority"],
                "summary": "List priority group IDs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Priority"],
                "summary": "Replace the priority group set",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PriorityGroupsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Priority"],
                "summary": "Clear the priority group set",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "AllocateRequest": {
            "type": "object",
            "properties": {
                "priorityGroups": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "persist": {"type": "boolean"}
            }
        },
        "PriorityGroupsRequest": {
            "type": "object",
            "properties": {
                "groupIds": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["groupIds"]
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
