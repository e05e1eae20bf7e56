// Package docs registers the OpenAPI document served under /docs. It is
// maintained by hand and lists paths only; response schemas live in the
// handler annotations.
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
		"/": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"meta"
				],
				"summary": "API root info",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health/db": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Database health check",
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Service Unavailable"
					}
				}
			}
		},
		"/health/cache": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Cache health check",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/ws": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"stream"
				],
				"summary": "Live update stream",
				"responses": {
					"101": {
						"description": "Switching Protocols"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "league",
						"in": "query",
						"type": "string",
						"required": false,
						"description": "Only this league"
					},
					{
						"name": "significant",
						"in": "query",
						"type": "boolean",
						"required": false,
						"description": "Only goals, cards, phase changes, tables and season transitions"
					}
				]
			}
		},
		"/api/v1/leagues": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "List leagues",
				"responses": {
					"200": {
						"description": "OK"
					},
					"304": {
						"description": "Not Modified"
					}
				}
			}
		},
		"/api/v1/leagues/{leagueID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get league",
				"responses": {
					"200": {
						"description": "OK"
					},
					"304": {
						"description": "Not Modified"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/status": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get season status",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/standings": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get standings",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/fixture": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get current fixture",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/next-fixture": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get next fixture",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/live": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get live matches",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/results": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get results",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					},
					{
						"name": "matchweek",
						"in": "query",
						"type": "integer",
						"required": false,
						"description": "Only this matchweek"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/schedule": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leagues"
				],
				"summary": "Get season schedule",
				"responses": {
					"200": {
						"description": "OK"
					},
					"304": {
						"description": "Not Modified"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/top-scorers": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"statistics"
				],
				"summary": "Get top scorers",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					},
					{
						"name": "limit",
						"in": "query",
						"type": "integer",
						"required": false,
						"description": "Maximum rows (default 10, max 100)"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/summary": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"statistics"
				],
				"summary": "Get league summary",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					}
				]
			}
		},
		"/api/v1/leagues/{leagueID}/teams/{teamID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"statistics"
				],
				"summary": "Get team statistics",
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"503": {
						"description": "Service Unavailable"
					}
				},
				"parameters": [
					{
						"name": "leagueID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "League ID"
					},
					{
						"name": "teamID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Team ID"
					}
				]
			}
		},
		"/api/v1/matches/{matchID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"matches"
				],
				"summary": "Get match",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "matchID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Match ID (UUID)"
					}
				]
			}
		},
		"/api/v1/matches/{matchID}/events": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"matches"
				],
				"summary": "Get match events",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "matchID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Match ID (UUID)"
					}
				]
			}
		},
		"/api/v1/matches/{matchID}/events/significant": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"matches"
				],
				"summary": "Get significant match events",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "matchID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Match ID (UUID)"
					}
				]
			}
		},
		"/api/v1/matches/{matchID}/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"matches"
				],
				"summary": "Get match statistics",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "matchID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Match ID (UUID)"
					}
				]
			}
		},
		"/api/v1/predictions/matches/{matchID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"predictions"
				],
				"summary": "Get match prediction",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "matchID",
						"in": "path",
						"type": "string",
						"required": true,
						"description": "Match ID (UUID)"
					}
				]
			}
		},
		"/api/v1/predictions/head-to-head": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"predictions"
				],
				"summary": "Predict a head-to-head pairing",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"name": "league",
						"in": "query",
						"type": "string",
						"required": true,
						"description": "League ID"
					},
					{
						"name": "home",
						"in": "query",
						"type": "string",
						"required": true,
						"description": "Home team ID"
					},
					{
						"name": "away",
						"in": "query",
						"type": "string",
						"required": true,
						"description": "Away team ID"
					}
				]
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
	Title:            "Scoracle League Simulator API",
	Description:      "Simulated football leagues: live matches, standings, schedules, statistics and predictions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
