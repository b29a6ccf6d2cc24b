// Package docs serves the OpenAPI document for /swagger.
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
		"/health": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/sign-up": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register operator account",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"409": {
						"description": "Conflict"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				]
			}
		},
		"/auth/sign-in": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				]
			}
		},
		"/api/v1/sessions/start": {
			"post": {
				"tags": [
					"sessions"
				],
				"summary": "Start a run session",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"409": {
						"description": "Conflict"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.StartSessionRequest"
						}
					}
				]
			}
		},
		"/api/v1/sessions/{id}/stop": {
			"post": {
				"tags": [
					"sessions"
				],
				"summary": "Stop a run session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/sessions/{id}/emergency-stop": {
			"post": {
				"tags": [
					"sessions"
				],
				"summary": "Emergency stop",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.EmergencyStopRequest"
						}
					}
				]
			}
		},
		"/api/v1/sessions/active": {
			"get": {
				"tags": [
					"sessions"
				],
				"summary": "Active session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/sessions": {
			"get": {
				"tags": [
					"sessions"
				],
				"summary": "List sessions",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "from",
						"in": "query"
					},
					{
						"type": "string",
						"name": "to",
						"in": "query"
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					}
				]
			}
		},
		"/api/v1/maintenance/interval": {
			"get": {
				"tags": [
					"maintenance"
				],
				"summary": "Maintenance interval status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/maintenance/interval/history": {
			"get": {
				"tags": [
					"maintenance"
				],
				"summary": "Maintenance interval history",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/maintenance/interval/reset": {
			"post": {
				"tags": [
					"maintenance"
				],
				"summary": "Reset maintenance interval",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ResetIntervalRequest"
						}
					}
				]
			}
		},
		"/api/v1/cartridge/status": {
			"get": {
				"tags": [
					"cartridge"
				],
				"summary": "Cartridge status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/cartridge/changes": {
			"get": {
				"tags": [
					"cartridge"
				],
				"summary": "Cartridge changes",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"cartridge"
				],
				"summary": "Record cartridge change",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"403": {
						"description": "Forbidden"
					},
					"429": {
						"description": "Too Many Requests"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.RecordChangeRequest"
						}
					}
				]
			}
		},
		"/api/v1/cartridge/config": {
			"get": {
				"tags": [
					"cartridge"
				],
				"summary": "Active cartridge config",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"cartridge"
				],
				"summary": "Update cartridge config",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"403": {
						"description": "Forbidden"
					},
					"429": {
						"description": "Too Many Requests"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.UpdateConfigRequest"
						}
					}
				]
			}
		},
		"/api/v1/cartridge/config/history": {
			"get": {
				"tags": [
					"cartridge"
				],
				"summary": "Cartridge config history",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/ledger": {
			"get": {
				"tags": [
					"ledger"
				],
				"summary": "Ledger total",
				"description": "Cumulative operating hours; with since, only sessions started and corrections made at or after it.\nEach correction delta was computed against the all-time total, so a since total that includes a large downward correction can be negative.",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "since",
						"in": "query"
					}
				]
			}
		},
		"/api/v1/ledger/corrections": {
			"get": {
				"tags": [
					"ledger"
				],
				"summary": "Ledger corrections",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Apply ledger correction",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"403": {
						"description": "Forbidden"
					},
					"429": {
						"description": "Too Many Requests"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CorrectionRequest"
						}
					}
				]
			}
		},
		"/api/v1/dashboard": {
			"get": {
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard snapshot",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/logs": {
			"get": {
				"tags": [
					"logs"
				],
				"summary": "List audit log",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "from",
						"in": "query"
					},
					{
						"type": "string",
						"name": "to",
						"in": "query"
					},
					{
						"type": "string",
						"name": "type",
						"in": "query"
					}
				]
			}
		}
	},
	"definitions": {
		"handlers.authCredentials": {
			"type": "object",
			"required": [
				"username",
				"password"
			],
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handlers.StartSessionRequest": {
			"type": "object",
			"properties": {
				"operator": {
					"type": "string"
				},
				"pre_check": {
					"type": "object",
					"properties": {
						"tested": {
							"type": "boolean"
						},
						"result": {
							"type": "string"
						},
						"tester_name": {
							"type": "string"
						}
					}
				}
			}
		},
		"handlers.EmergencyStopRequest": {
			"type": "object",
			"properties": {
				"reason": {
					"type": "string"
				}
			}
		},
		"handlers.ResetIntervalRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"reason": {
					"type": "string"
				},
				"interval_length_hours": {
					"type": "number"
				},
				"operator": {
					"type": "string"
				}
			}
		},
		"handlers.RecordChangeRequest": {
			"type": "object",
			"properties": {
				"password": {
					"type": "string"
				},
				"operator": {
					"type": "string"
				},
				"components": {
					"type": "object",
					"additionalProperties": {
						"type": "boolean"
					}
				},
				"batch_codes": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				}
			}
		},
		"handlers.UpdateConfigRequest": {
			"type": "object",
			"properties": {
				"password": {
					"type": "string"
				},
				"interval_hours": {
					"type": "number"
				},
				"warning_lead_hours": {
					"type": "number"
				}
			}
		},
		"handlers.CorrectionRequest": {
			"type": "object",
			"properties": {
				"password": {
					"type": "string"
				},
				"target_total_hours": {
					"type": "number"
				},
				"reason": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Compressor Runtime API",
	Description:      "Run sessions, cumulative hours, maintenance interval and filter cartridge scheduling.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
