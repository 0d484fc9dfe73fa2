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
        "/ratings/default": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Rating given to members without history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ratings/{categoryID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Ratings of a category ordered by value",
                "parameters": [
                    {"type": "integer", "name": "categoryID", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/ratings/{categoryID}/members/{member}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Rating of one member",
                "parameters": [
                    {"type": "integer", "name": "categoryID", "in": "path", "required": true},
                    {"type": "string", "name": "member", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/ratings/{categoryID}/matches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Rate one match between two members of a category",
                "parameters": [
                    {"type": "integer", "name": "categoryID", "in": "path", "required": true},
                    {"name": "match", "in": "body", "required": true, "schema": {"$ref": "#/definitions/applyMatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/seeding": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Order seeded participants into first-round bracket positions",
                "parameters": [
                    {"name": "participants", "in": "body", "required": true, "schema": {"$ref": "#/definitions/seedRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/tournaments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create an elimination tournament and generate its bracket",
                "parameters": [
                    {"name": "tournament", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Tournament with its bracket",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/results": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Record match results of a tournament",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"name": "results", "in": "body", "required": true, "schema": {"$ref": "#/definitions/processResultsRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Final standings of a completed tournament",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/leagues": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "Create a round robin league and schedule its rounds",
                "parameters": [
                    {"name": "league", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateLeagueInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/leagues/{leagueID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "League with its schedule and adjustments",
                "parameters": [{"type": "integer", "name": "leagueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/leagues/{leagueID}/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "Points table up to a round",
                "parameters": [
                    {"type": "integer", "name": "leagueID", "in": "path", "required": true},
                    {"type": "integer", "name": "upto_round", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/leagues/{leagueID}/rounds/{round}/results": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "Record results of one league round",
                "parameters": [
                    {"type": "integer", "name": "leagueID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "path", "required": true},
                    {"name": "results", "in": "body", "required": true, "schema": {"$ref": "#/definitions/processResultsRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/leagues/{leagueID}/adjustments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "Add or remove league points of a member",
                "parameters": [
                    {"type": "integer", "name": "leagueID", "in": "path", "required": true},
                    {"name": "adjustment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.AdjustmentInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/leagues/{leagueID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leagues"],
                "summary": "Final standings of a completed league",
                "parameters": [{"type": "integer", "name": "leagueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        }
    },
    "definitions": {
        "models.BlockInfo": {
            "type": "object",
            "properties": {
                "height": {"type": "integer"},
                "time": {"type": "integer"}
            }
        },
        "models.MatchResultInput": {
            "type": "object",
            "required": ["match_number", "result"],
            "properties": {
                "match_number": {"type": "integer"},
                "result": {"type": "string", "enum": ["team_1", "team_2", "draw"]}
            }
        },
        "models.MatchPoints": {
            "type": "object",
            "properties": {
                "win": {"type": "integer"},
                "draw": {"type": "integer"},
                "lose": {"type": "integer"}
            }
        },
        "applyMatchRequest": {
            "type": "object",
            "required": ["block", "member_1", "member_2", "score_1", "score_2"],
            "properties": {
                "block": {"$ref": "#/definitions/models.BlockInfo"},
                "member_1": {"type": "string"},
                "member_2": {"type": "string"},
                "score_1": {"type": "string", "example": "1"},
                "score_2": {"type": "string", "example": "0"}
            }
        },
        "seedRequest": {
            "type": "object",
            "required": ["participants"],
            "properties": {
                "participants": {"type": "array", "minItems": 2, "items": {"type": "string"}}
            }
        },
        "processResultsRequest": {
            "type": "object",
            "required": ["results"],
            "properties": {
                "block": {"$ref": "#/definitions/models.BlockInfo"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.MatchResultInput"}}
            }
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "required": ["name", "members", "elimination_type"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category_id": {"type": "integer"},
                "members": {"type": "array", "items": {"type": "string"}},
                "elimination_type": {"type": "string", "enum": ["single_elimination", "double_elimination"]},
                "third_place": {"type": "boolean"},
                "distribution": {"type": "array", "items": {"type": "string"}}
            }
        },
        "services.CreateLeagueInput": {
            "type": "object",
            "required": ["name", "members"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category_id": {"type": "integer"},
                "members": {"type": "array", "items": {"type": "string"}},
                "points": {"$ref": "#/definitions/models.MatchPoints"},
                "double_round_robin": {"type": "boolean"},
                "distribution": {"type": "array", "items": {"type": "string"}}
            }
        },
        "services.AdjustmentInput": {
            "type": "object",
            "required": ["member", "amount"],
            "properties": {
                "member": {"type": "string"},
                "amount": {"type": "integer"},
                "reason": {"type": "string"}
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
	Title:            "Arena API",
	Description:      "Glicko-2 ratings, elimination brackets and round robin leagues.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
