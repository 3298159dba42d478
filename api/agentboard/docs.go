// Package agentboard holds the Swagger document served at /swagger/.
// Regenerate with: swag init -g internal/agentboard/http/router.go -o api/agentboard --parseDependency
package agentboard

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/agentboard"
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
        "/.well-known/jwks.json": {
            "get": {
                "description": "Returns the JSON Web Key Set used to verify operator JWTs.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "well-known"
                ],
                "summary": "Get JWKS",
                "responses": {
                    "200": {
                        "description": "The JSON Web Key Set",
                        "schema": {
                            "$ref": "#/definitions/agentsdk.JWKSResponse"
                        }
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe. Always 200 while the process is serving.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/agentsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe: the database answers and operator token keys are loaded.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/agentsdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "service not ready",
                        "schema": {
                            "$ref": "#/definitions/agentsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/agents": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Oldest first. Follow pagination.nextCursor for the next page; cursors expire after 5 minutes.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "List agents",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Opaque cursor from a previous page",
                        "name": "cursor",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/agentsdk.Agent"
                                            }
                                        },
                                        "pagination": {
                                            "$ref": "#/definitions/pagination.Meta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "INVALID_CURSOR",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "403": {
                        "description": "FORBIDDEN - requires agents:read",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates an agent and returns its first API key. The key is shown once.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "Register an agent",
                "parameters": [
                    {
                        "description": "Agent",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/agentsdk.CreateAgentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/agentsdk.CreateAgentResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "VALIDATION_ERROR",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "403": {
                        "description": "FORBIDDEN - requires agents:write",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "CONFLICT - name in use",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/v1/agents/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "The calling agent",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/agentsdk.Agent"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "403": {
                        "description": "FORBIDDEN - operator tokens have no agent",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/v1/agents/{agentId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "Get an agent",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Agent ID",
                        "name": "agentId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/agentsdk.Agent"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "403": {
                        "description": "FORBIDDEN - requires agents:read",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/v1/agents/{agentId}/keys": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Newest first. Keys superseded by a rotation show status grace until they expire.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "List an agent's API keys",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Agent ID",
                        "name": "agentId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Opaque cursor from a previous page",
                        "name": "cursor",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/agentsdk.APIKey"
                                            }
                                        },
                                        "pagination": {
                                            "$ref": "#/definitions/pagination.Meta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "INVALID_CURSOR",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/v1/agents/{agentId}/rotations": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "List an agent's key rotations",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Agent ID",
                        "name": "agentId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Opaque cursor from a previous page",
                        "name": "cursor",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/agentsdk.KeyRotation"
                                            }
                                        },
                                        "pagination": {
                                            "$ref": "#/definitions/pagination.Meta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "INVALID_CURSOR",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/v1/agents/{agentId}/rotate-key": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Mints a new key. Every currently valid key keeps working until oldKeyExpiresAt = rotatedAt + gracePeriodSeconds.\nAt most 3 rotations per agent in any trailing hour; further attempts get 429 with retryAfterSeconds.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Agents"
                ],
                "summary": "Rotate an agent's API key",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Agent ID",
                        "name": "agentId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Rotation options",
                        "name": "body",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/agentsdk.RotateKeyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/httpx.Envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/agentsdk.RotateKeyResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "VALIDATION_ERROR",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "403": {
                        "description": "FORBIDDEN - requires agents:write",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        }
                    },
                    "429": {
                        "description": "RATE_LIMITED",
                        "schema": {
                            "$ref": "#/definitions/httpx.ErrorEnvelope"
                        },
                        "headers": {
                            "Retry-After": {
                                "type": "integer",
                                "description": "Seconds until a rotation slot frees up"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "agentsdk.Agent": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "01JQ8Z6V6K3XG9N1W2C4T5R7YB"
                },
                "name": {
                    "type": "string",
                    "example": "builder"
                },
                "description": {
                    "type": "string",
                    "example": "Runs CI builds"
                },
                "createdAt": {
                    "type": "integer",
                    "example": 1767225600000
                },
                "updatedAt": {
                    "type": "integer",
                    "example": 1767225600000
                }
            }
        },
        "agentsdk.CreateAgentRequest": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "maxLength": 100,
                    "minLength": 1,
                    "example": "builder"
                },
                "description": {
                    "type": "string",
                    "maxLength": 500,
                    "example": "Runs CI builds"
                }
            }
        },
        "agentsdk.CreateAgentResponse": {
            "type": "object",
            "properties": {
                "agent": {
                    "$ref": "#/definitions/agentsdk.Agent"
                },
                "apiKey": {
                    "type": "string",
                    "example": "ab_3q2-7wEvN5mZ0c1k9yXqTgq0q8hJb1m2YwFQd0aZb3c"
                }
            }
        },
        "agentsdk.APIKey": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "agentId": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string",
                    "example": "ab_3q2-7wEv"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "grace",
                        "expired"
                    ]
                },
                "createdAt": {
                    "type": "integer"
                },
                "expiresAt": {
                    "type": "integer"
                },
                "lastUsedAt": {
                    "type": "integer"
                }
            }
        },
        "agentsdk.KeyRotation": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "agentId": {
                    "type": "string"
                },
                "newKeyId": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "gracePeriodSeconds": {
                    "type": "integer"
                },
                "rotatedAt": {
                    "type": "integer"
                },
                "oldKeyExpiresAt": {
                    "type": "integer"
                }
            }
        },
        "agentsdk.RotateKeyRequest": {
            "type": "object",
            "properties": {
                "reason": {
                    "type": "string",
                    "enum": [
                        "scheduled",
                        "compromised",
                        "deployment",
                        "refresh"
                    ],
                    "example": "deployment"
                },
                "gracePeriodSeconds": {
                    "type": "integer",
                    "minimum": 0,
                    "maximum": 300,
                    "example": 60
                }
            }
        },
        "agentsdk.RotateKeyResponse": {
            "type": "object",
            "properties": {
                "newApiKey": {
                    "type": "string"
                },
                "rotatedAt": {
                    "type": "integer",
                    "example": 1767225600000
                },
                "oldKeyExpiresAt": {
                    "type": "integer",
                    "example": 1767225660000
                },
                "gracePeriodSeconds": {
                    "type": "integer",
                    "example": 60
                },
                "agentId": {
                    "type": "string"
                },
                "reason": {
                    "type": "string",
                    "example": "deployment"
                }
            }
        },
        "agentsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {
                    "type": "string"
                },
                "signer": {
                    "type": "string"
                }
            }
        },
        "agentsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                },
                "checks": {
                    "$ref": "#/definitions/agentsdk.HealthChecks"
                }
            }
        },
        "agentsdk.JWKSResponse": {
            "type": "object",
            "properties": {
                "keys": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/jwtx.JWK"
                    }
                }
            }
        },
        "jwtx.JWK": {
            "type": "object",
            "properties": {
                "kty": {
                    "type": "string",
                    "example": "OKP"
                },
                "crv": {
                    "type": "string",
                    "example": "Ed25519"
                },
                "x": {
                    "type": "string"
                },
                "kid": {
                    "type": "string"
                },
                "alg": {
                    "type": "string",
                    "example": "EdDSA"
                },
                "use": {
                    "type": "string",
                    "example": "sig"
                }
            }
        },
        "httpx.Envelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "data": {},
                "timestamp": {
                    "type": "string",
                    "example": "2026-01-01T00:00:00.000Z"
                }
            }
        },
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "RATE_LIMITED"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "httpx.ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "error": {
                    "$ref": "#/definitions/httpx.ErrorBody"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "pagination.Meta": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "offset": {
                    "type": "integer"
                },
                "cursor": {
                    "type": "string"
                },
                "nextCursor": {
                    "type": "string",
                    "x-nullable": true
                },
                "hasMore": {
                    "type": "boolean"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Agent API key or operator JWT. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "agentboard API",
	Description:      "Agent registry with paginated listings and rate-limited API key rotation.\n\nAgents authenticate with their API key (Bearer ab_...). Operators use EdDSA-signed JWTs carrying agents:read / agents:write scopes; the public keys are at /.well-known/jwks.json.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
