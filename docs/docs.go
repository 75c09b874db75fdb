// Package docs registers the Swagger document served at /swagger/*any.
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
        "/digest/verify/{token}": {
            "get": {
                "description": "Consumes the email verification token and redirects to the site with the result.",
                "tags": ["digest"],
                "summary": "Verify digest subscription",
                "parameters": [
                    {"type": "string", "description": "Verification token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/homepage/stats": {
            "get": {
                "description": "Totals, year range, year-over-year change and the ten latest fines.",
                "produces": ["application/json"],
                "tags": ["homepage"],
                "summary": "Homepage statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HomepageStats"}},
                    "405": {"description": "Method Not Allowed"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/articles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "List blog articles",
                "parameters": [
                    {"type": "boolean", "description": "Only featured articles", "name": "featured", "in": "query"},
                    {"type": "integer", "description": "Articles discussing this enforcement year", "name": "year", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Article"}}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/articles/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Get a blog article by slug",
                "parameters": [
                    {"type": "string", "description": "Article slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Article"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "List yearly enforcement reviews",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.YearReview"}}}
                }
            }
        },
        "/reviews/{year}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Get the enforcement review for a year",
                "parameters": [
                    {"type": "integer", "description": "Year", "name": "year", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.YearReview"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "models.LatestFine": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "breachType": {"type": "string"},
                "date": {"type": "string"},
                "firm": {"type": "string"},
                "noticeUrl": {"type": "string"}
            }
        },
        "models.HomepageStats": {
            "type": "object",
            "properties": {
                "earliestYear": {"type": "integer"},
                "latestFines": {"type": "array", "items": {"$ref": "#/definitions/models.LatestFine"}},
                "latestYear": {"type": "integer"},
                "totalAmount": {"type": "number"},
                "totalFines": {"type": "integer"},
                "yearsCovered": {"type": "integer"},
                "yoyChange": {"type": "string"}
            }
        },
        "models.Article": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "body": {"type": "string"},
                "category": {"type": "string"},
                "excerpt": {"type": "string"},
                "featured": {"type": "boolean"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "published": {"type": "string"},
                "readTime": {"type": "integer"},
                "relatedYears": {"type": "array", "items": {"type": "integer"}},
                "slug": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.LargestFine": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "firm": {"type": "string"}
            }
        },
        "models.YearReview": {
            "type": "object",
            "properties": {
                "highlights": {"type": "array", "items": {"type": "string"}},
                "largestFine": {"$ref": "#/definitions/models.LargestFine"},
                "summary": {"type": "string"},
                "title": {"type": "string"},
                "topBreaches": {"type": "array", "items": {"type": "string"}},
                "totalAmount": {"type": "number"},
                "totalFines": {"type": "integer"},
                "year": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/",
	Schemes:          []string{},
	Title:            "FCA Fines API",
	Description:      "Homepage statistics, digest verification and content for the FCA fines dashboard",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
