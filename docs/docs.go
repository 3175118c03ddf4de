// Package docs is generated by swag from the handler annotations in
// cmd/order-service. Regenerate with: swag init -g cmd/order-service/main.go
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
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List active orders",
                "parameters": [
                    {"type": "string", "description": "takeaway | dine_in", "name": "type", "in": "query"},
                    {"type": "string", "description": "Opening employee", "name": "employee_id", "in": "query"},
                    {"type": "integer", "description": "Table number", "name": "table", "in": "query"},
                    {"type": "string", "description": "RFC3339, inclusive", "name": "from", "in": "query"},
                    {"type": "string", "description": "RFC3339, exclusive", "name": "to", "in": "query"},
                    {"type": "string", "description": "asc | desc", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/order.OrderResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "description": "Opens a dine-in order over one or more free tables, or a takeaway order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Open an order",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"description": "Tables or takeaway", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.OpenOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order with its items",
                "parameters": [{"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.OrderResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{id}/items": {
            "post": {
                "description": "The dish name and price are copied into the item; later menu edits do not affect it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Add a line item",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {"description": "Dish and quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.AddItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{id}/items/{item_id}": {
            "delete": {
                "description": "Without quantity the whole line goes. Removing an item the kitchen already printed creates an audit record.",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Remove or reduce a line item",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Line item id", "name": "item_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Units to remove", "name": "quantity", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{id}/close": {
            "post": {
                "description": "Freezes the order and frees its tables.",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Close an order",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.OrderResponse"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{id}/unprinted": {
            "get": {
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Items the kitchen has not received",
                "parameters": [{"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/order.ItemResponse"}}}
                }
            }
        },
        "/orders/{id}/printed": {
            "post": {
                "description": "Idempotent; ids already printed or not in the order are skipped.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Confirm items were printed",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {"description": "Printed item ids", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.ConfirmPrintedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}
                }
            }
        },
        "/orders/{id}/ticket": {
            "post": {
                "description": "Renders a ticket of the unprinted items and marks them printed once delivered.",
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Send new items to the kitchen",
                "parameters": [
                    {"type": "string", "description": "Employee id", "name": "X-Employee-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Employee PIN", "name": "X-Employee-PIN", "in": "header", "required": true},
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tables": {
            "get": {"produces": ["application/json"], "tags": ["tables"], "summary": "List tables with their state", "responses": {"200": {"description": "OK"}}}
        },
        "/tables/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tables"],
                "summary": "Get a table",
                "parameters": [{"type": "string", "description": "Table id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/dishes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dishes"],
                "summary": "List the menu",
                "parameters": [
                    {"type": "string", "description": "Search name and description", "name": "q", "in": "query"},
                    {"type": "boolean", "description": "Only available dishes", "name": "available", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/employees/{id}/scorecard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trust"],
                "summary": "Employee trust scorecard",
                "parameters": [{"type": "string", "description": "Employee id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/reports/monthly": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trust"],
                "summary": "Loss report for the current month",
                "parameters": [{"type": "integer", "description": "Entries per ranking", "name": "top", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trust"],
                "summary": "Employees ranked by suspicious deletions",
                "parameters": [{"type": "integer", "description": "Max entries", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "order.AddItemRequest": {
            "type": "object",
            "required": ["dish_id"],
            "properties": {
                "dish_id": {"type": "string", "example": "b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "order.ConfirmPrintedRequest": {
            "type": "object",
            "properties": {"item_ids": {"type": "array", "items": {"type": "string"}}}
        },
        "order.ItemResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "dish_id": {"type": "string"},
                "dish_name": {"type": "string"},
                "id": {"type": "string"},
                "printed": {"type": "boolean"},
                "quantity": {"type": "integer"},
                "subtotal": {"type": "string", "example": "50.00"},
                "unit_price": {"type": "string", "example": "25.00"}
            }
        },
        "order.OpenOrderRequest": {
            "type": "object",
            "properties": {
                "table_ids": {"type": "array", "items": {"type": "string"}, "example": ["4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"]},
                "takeaway": {"type": "boolean", "example": false}
            }
        },
        "order.OrderResponse": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "closed_at": {"type": "string"},
                "created_at": {"type": "string"},
                "employee_id": {"type": "string"},
                "id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.ItemResponse"}},
                "tables": {"type": "array", "items": {"$ref": "#/definitions/order.TableRef"}},
                "takeaway": {"type": "boolean"},
                "total": {"type": "string", "example": "50.00"}
            }
        },
        "order.TableRef": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "number": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Comandas order service",
	Description:      "Dine-in and takeaway orders, kitchen tickets and deletion audit.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
