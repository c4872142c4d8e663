// Package docs registers the Swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@bizmatters.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "Authenticate user and return JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/specifications": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Open a dialogue for a feature idea and return the first question",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["specifications"],
                "summary": "Start a specification dialogue",
                "parameters": [
                    {
                        "description": "Feature idea",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.StartRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/specifications/answer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Record an answer and return either the next question or the completed specification",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["specifications"],
                "summary": "Answer the current question",
                "parameters": [
                    {
                        "description": "Answer with the full dialogue state",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.AnswerRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CompletedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/specifications/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return a completed specification with its stakeholders and document",
                "produces": ["application/json"],
                "tags": ["specifications"],
                "summary": "Get an archived specification",
                "parameters": [
                    {"type": "string", "description": "Specification ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ArchivedSpecification"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/ws/specifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Send {type: start|answer, payload} messages; each is answered with {type: started|in_progress|completed|error, payload}",
                "tags": ["specifications"],
                "summary": "Run a specification dialogue over a websocket",
                "parameters": [
                    {"type": "string", "description": "JWT when the Authorization header cannot be set", "name": "token", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AnswerRequest": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "current_question": {"type": "string"},
                "initial_idea": {"type": "string"},
                "previous_answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "spec_id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.ArchivedSpecification": {
            "type": "object",
            "properties": {
                "spec_id": {"type": "string"},
                "title": {"type": "string"},
                "initial_idea": {"type": "string"},
                "questions_answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "completed_at": {"type": "string"},
                "stakeholders": {"type": "array", "items": {"$ref": "#/definitions/models.Stakeholder"}},
                "final_document": {"type": "string"},
                "completion_reason": {"type": "string"},
                "created_by": {"type": "string"}
            }
        },
        "models.CompletedResponse": {
            "type": "object",
            "properties": {
                "all_answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "completed_at": {"type": "string"},
                "completion_reason": {"type": "string"},
                "final_document": {"type": "string"},
                "spec_id": {"type": "string"},
                "stakeholders": {"type": "array", "items": {"$ref": "#/definitions/models.Stakeholder"}},
                "status": {"type": "string"},
                "summary": {"$ref": "#/definitions/models.Summary"},
                "total_questions": {"type": "integer"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "models.InProgressResponse": {
            "type": "object",
            "properties": {
                "next_question": {"type": "string"},
                "previous_answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "progress": {"$ref": "#/definitions/models.Progress"},
                "question_number": {"type": "integer"},
                "spec_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "token": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "models.Progress": {
            "type": "object",
            "properties": {
                "current": {"type": "integer"},
                "estimated_total": {"type": "integer"},
                "percentage": {"type": "integer"}
            }
        },
        "models.Stakeholder": {
            "type": "object",
            "properties": {
                "area": {"type": "string"},
                "priority": {"type": "string"},
                "reason": {"type": "string"},
                "validation_focus": {"type": "string"}
            }
        },
        "models.StartRequest": {
            "type": "object",
            "properties": {
                "created_by": {"type": "string"},
                "idea": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.StartResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "first_question": {"type": "string"},
                "question_number": {"type": "integer"},
                "spec_id": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "idea": {"type": "string"},
                "questions_count": {"type": "integer"},
                "stakeholder_count": {"type": "integer"},
                "title": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Spec Elicitor API",
	Description:      "Guided dialogue that turns a feature idea into a specification with stakeholders and a final document.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
