// Package docs registers the OpenAPI description served at /api/swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupInput"}}],
                "responses": {
                    "201": {"description": "User created"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in and receive a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {
                    "200": {"description": "Logged in"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "403": {"description": "Account suspended", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List approved posts newest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Post"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Submit a post for review",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePostInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Post"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/posts/search": {
            "get": {
                "tags": ["posts"],
                "summary": "Search approved posts by title or description",
                "parameters": [{"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Post"}}}}
            }
        },
        "/posts/{id}/vote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Vote a post true or false",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/VoteInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Post"}},
                    "400": {"description": "Invalid vote type", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Dashboard counts", "responses": {"200": {"description": "OK"}}}},
        "/admin/pending-posts": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Posts awaiting review", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/posts": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "All posts", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/posts/{id}/moderate": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Moderate a post",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ModerationUpdate"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid value"}, "404": {"description": "Post not found"}}
            }
        },
        "/admin/posts/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Delete a post and its votes",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted"}, "404": {"description": "Post not found"}}
            }
        },
        "/admin/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Users with vote tallies", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Set a user's status",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StatusInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}, "404": {"description": "User not found"}}
            }
        },
        "/admin/user-chart-stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Account breakdown for charts", "responses": {"200": {"description": "OK"}}}},
        "/admin/logs": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Audit log newest first", "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}, "code": {"type": "string"}}},
        "SignupInput": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "LoginInput": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "CreatePostInput": {"type": "object", "properties": {"title": {"type": "string"}, "source": {"type": "string"}, "description": {"type": "string"}}},
        "VoteInput": {"type": "object", "properties": {"voteType": {"type": "string", "enum": ["true", "false"]}}},
        "StatusInput": {"type": "object", "properties": {"status": {"type": "string", "enum": ["active", "temp-banned", "perm-banned"]}}},
        "ModerationUpdate": {"type": "object", "properties": {"status": {"type": "string", "enum": ["pending", "approved"]}, "adminFlag": {"type": "string", "enum": ["unverified", "true", "false"]}, "adminReason": {"type": "string"}}},
        "UserRef": {"type": "object", "properties": {"_id": {"type": "string"}, "username": {"type": "string"}}},
        "Post": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "source": {"type": "string"},
                "description": {"type": "string"},
                "submittedBy": {"$ref": "#/definitions/UserRef"},
                "status": {"type": "string"},
                "adminFlag": {"type": "string"},
                "adminReason": {"type": "string"},
                "trueVotes": {"type": "array", "items": {"type": "string"}},
                "falseVotes": {"type": "array", "items": {"type": "string"}},
                "truePercentage": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "UNFAKE API",
	Description:      "Crowd-moderated news verification: submit, vote and moderate posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
