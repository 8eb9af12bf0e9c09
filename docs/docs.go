// Package docs registers the OpenAPI document served at /swagger-doc.json.
// Keep it in step with the handler annotations.
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
        "/api/boards": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Get all boards",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.BoardListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/board.ErrorResponse"}}
                }
            }
        },
        "/api/boards/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Recently active boards",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of slugs", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.SlugListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/board.ErrorResponse"}}
                }
            }
        },
        "/api/boards/suggest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Suggest board slugs",
                "parameters": [
                    {"type": "string", "description": "Partial slug", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Maximum number of slugs", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.SlugListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/board.ErrorResponse"}}
                }
            }
        },
        "/api/boards/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Get board by slug",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.Summary"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/board.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.HealthStatus"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.HealthStatus"}}
                }
            }
        },
        "/api/{board}/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Question"],
                "summary": "List or search questions",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "board", "in": "path", "required": true},
                    {"type": "string", "description": "Search query", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Maximum number of results", "name": "limit", "in": "query"},
                    {"type": "string", "description": "fuzzy or storage", "name": "strategy", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/question.Question"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/question.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Question"],
                "summary": "Create question",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "board", "in": "path", "required": true},
                    {"description": "Question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/question.CreateQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/question.CreateQuestionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/question.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/question.ErrorResponse"}}
                }
            }
        },
        "/api/{board}/questions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Question"],
                "summary": "Get question",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "board", "in": "path", "required": true},
                    {"type": "integer", "description": "Question ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/question.Question"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/question.ErrorResponse"}}
                }
            }
        },
        "/api/{board}/questions/{id}/vote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Question"],
                "summary": "Vote on question",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "board", "in": "path", "required": true},
                    {"type": "integer", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"description": "Vote", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/question.VoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/question.VoteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/question.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/question.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/question.ErrorResponse"}}
                }
            }
        },
        "/ws/{board}": {
            "get": {
                "tags": ["Realtime"],
                "summary": "Board event feed",
                "parameters": [
                    {"type": "string", "description": "Board slug", "name": "board", "in": "path", "required": true}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/question.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/question.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "board.BoardListResponse": {
            "type": "object",
            "properties": {
                "boards": {"type": "array", "items": {"$ref": "#/definitions/board.Summary"}}
            }
        },
        "board.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "board.SlugListResponse": {
            "type": "object",
            "properties": {
                "boards": {"type": "array", "items": {"type": "string"}}
            }
        },
        "board.Summary": {
            "type": "object",
            "properties": {
                "slug": {"type": "string"},
                "question_count": {"type": "integer"},
                "total_votes": {"type": "integer"}
            }
        },
        "question.CreateQuestionRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string"}}
        },
        "question.CreateQuestionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "question.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "question.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "board_slug": {"type": "string"},
                "content": {"type": "string"},
                "votes": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "question.VoteRequest": {
            "type": "object",
            "properties": {
                "direction": {"type": "string", "enum": ["up", "down"]},
                "amount": {"type": "integer"}
            }
        },
        "question.VoteResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "votes": {"type": "integer"}
            }
        },
        "utils.HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "services": {"type": "array", "items": {"$ref": "#/definitions/utils.Service"}}
            }
        },
        "utils.Service": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Question Board API",
	Description:      "Board-scoped questions with voting and fuzzy search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
