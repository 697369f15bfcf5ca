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
        "/feed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["feeds"],
                "summary": "Create a feed",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.createFeedResponse"}}
                }
            }
        },
        "/feed/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feeds"],
                "summary": "Read a feed",
                "parameters": [
                    {"type": "string", "description": "Feed id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.feedResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feeds"],
                "summary": "Update name and about",
                "parameters": [
                    {"type": "string", "description": "Feed id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Write key", "name": "X-Write-Key", "in": "header", "required": true},
                    {"description": "Profile fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.okResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/feed/{id}/post": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Publish a post",
                "parameters": [
                    {"type": "string", "description": "Feed id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Write key", "name": "X-Write-Key", "in": "header", "required": true},
                    {"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/render.ExportPost"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/feed/{id}/post/{postId}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "string", "description": "Feed id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Post id", "name": "postId", "in": "path", "required": true},
                    {"type": "string", "description": "Write key", "name": "X-Write-Key", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.okResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/feed/{id}/export": {
            "get": {
                "produces": ["application/json", "text/markdown"],
                "tags": ["feeds"],
                "summary": "Download a backup",
                "parameters": [
                    {"type": "string", "description": "Feed id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "json or md", "name": "format", "in": "query"},
                    {"type": "string", "description": "Write key", "name": "X-Write-Key", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.createFeedResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "writeKey": {"type": "string"}}
        },
        "handler.createPostRequest": {
            "type": "object",
            "properties": {"content": {"type": "string"}, "url": {"type": "string"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "kind": {"type": "string"}}
        },
        "handler.feedResponse": {
            "type": "object",
            "properties": {
                "about": {"type": "string"},
                "createdAt": {"type": "integer"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/render.ExportPost"}}
            }
        },
        "handler.okResponse": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}}
        },
        "handler.updateProfileRequest": {
            "type": "object",
            "properties": {"about": {"type": "string"}, "name": {"type": "string"}}
        },
        "render.ExportPost": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "id": {"type": "string"},
                "timestamp": {"type": "integer"},
                "url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "tinyfeed API",
	Description:      "Anonymous micro-feeds: one public id, one write key.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
