package docs

import "github.com/swaggo/swag"

// docTemplate follows the swag annotations on the handlers. Edit both together.
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
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Request a ride",
                "parameters": [
                    {"description": "Ride request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateRideRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RideStatusResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/open": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Open ride requests, earliest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.OpenRide"}}}
                }
            }
        },
        "/rides/{ride_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Ride details for its passenger, assigned driver or an admin",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ride"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/{ride_id}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Start the trip after pickup",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RideStatusResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/{ride_id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Complete the trip",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RideStatusResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/{ride_id}/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Exactly one of several concurrent accepts succeeds; the others get 409.",
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Accept an open ride",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RideStatusResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/{ride_id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Cancel a requested or accepted ride",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RideStatusResponse"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rides/{ride_id}/location": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Pings older than the stored one are ignored and answered with accepted=false.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Report the driver's position for an active ride",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true},
                    {"description": "Ping", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LocationPingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}
                }
            }
        },
        "/rides/{ride_id}/tracking": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Ride status, driver position and ETA",
                "parameters": [
                    {"type": "string", "description": "Ride ID", "name": "ride_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TrackingSnapshot"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/drivers": {
            "post": {
                "description": "Creates a PENDING driver profile keyed by the lowercased e-mail.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drivers"],
                "summary": "Register a driver",
                "parameters": [
                    {"description": "Driver profile", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterDriverRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Driver"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/passengers/{passenger_id}/rides": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Rides of a passenger, newest first",
                "parameters": [
                    {"type": "string", "description": "Passenger ID", "name": "passenger_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Ride"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/drivers/{driver_id}/rides": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Rides assigned to a driver, newest first",
                "parameters": [
                    {"type": "string", "description": "Driver ID", "name": "driver_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Ride"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/drivers/{driver_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Drivers"],
                "summary": "Driver profile for the driver or an admin",
                "parameters": [
                    {"type": "string", "description": "Driver ID", "name": "driver_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Driver"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/admin/drivers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Drivers in one approval bucket",
                "parameters": [
                    {"type": "string", "description": "PENDING, APPROVED or REJECTED", "name": "bucket", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Driver"}}}
                }
            }
        },
        "/admin/drivers/{driver_id}/approval": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Setting the current status again is a no-op reported with changed=false.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Change a driver's approval status",
                "parameters": [
                    {"type": "string", "description": "Driver ID", "name": "driver_id", "in": "path", "required": true},
                    {"description": "Target status", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ApprovalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApprovalResult"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/admin/drivers/{driver_id}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Move an approved or rejected driver back to PENDING",
                "parameters": [
                    {"type": "string", "description": "Driver ID", "name": "driver_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApprovalResult"}}
                }
            }
        },
        "/admin/rides": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Paginated bookings list",
                "parameters": [
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "Sort key, prefix with - for descending", "name": "sort", "in": "query"},
                    {"type": "string", "description": "Ride status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "dto.LocationRequest": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "address": {"type": "string"}
            }
        },
        "dto.CreateRideRequest": {
            "type": "object",
            "properties": {
                "pickup": {"$ref": "#/definitions/dto.LocationRequest"},
                "destination": {"$ref": "#/definitions/dto.LocationRequest"},
                "requested_at": {"type": "string"},
                "special_needs": {"type": "string"}
            }
        },
        "dto.RideStatusResponse": {
            "type": "object",
            "properties": {
                "ride_id": {"type": "string"},
                "status": {"type": "string"},
                "driver_id": {"type": "string"}
            }
        },
        "dto.OpenRide": {
            "type": "object",
            "properties": {
                "ride_id": {"type": "string"},
                "pickup": {"$ref": "#/definitions/dto.LocationRequest"},
                "destination": {"$ref": "#/definitions/dto.LocationRequest"},
                "requested_at": {"type": "string"},
                "special_needs": {"type": "string"}
            }
        },
        "dto.LocationPingRequest": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "speed_mps": {"type": "number"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.RegisterDriverRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "ic_number": {"type": "string"},
                "license_number": {"type": "string"},
                "vehicle_type": {"type": "string"},
                "vehicle_plate": {"type": "string"},
                "address": {"type": "string"},
                "experience_years": {"type": "integer"},
                "languages": {"type": "array", "items": {"type": "string"}},
                "availability": {"type": "string"}
            }
        },
        "dto.ApprovalRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]}
            }
        },
        "models.Ride": {
            "type": "object",
            "properties": {
                "ride_id": {"type": "string"},
                "passenger_id": {"type": "string"},
                "pickup": {"$ref": "#/definitions/dto.LocationRequest"},
                "destination": {"$ref": "#/definitions/dto.LocationRequest"},
                "requested_at": {"type": "string"},
                "special_needs": {"type": "string"},
                "status": {"type": "string", "enum": ["REQUESTED", "ACCEPTED", "IN_PROGRESS", "COMPLETED", "CANCELLED"]},
                "driver_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.Driver": {
            "type": "object",
            "properties": {
                "driver_id": {"type": "string"},
                "full_name": {"type": "string"},
                "vehicle_type": {"type": "string"},
                "vehicle_plate": {"type": "string"},
                "approval_status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.ApprovalResult": {
            "type": "object",
            "properties": {
                "driver_id": {"type": "string"},
                "status": {"type": "string"},
                "changed": {"type": "boolean"},
                "warning": {"type": "string"}
            }
        },
        "models.TrackingSnapshot": {
            "type": "object",
            "properties": {
                "ride_id": {"type": "string"},
                "status": {"type": "string"},
                "driver_id": {"type": "string"},
                "eta_minutes": {"type": "integer"},
                "eta_target": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ride Coordinator API",
	Description:      "Books accessible rides, assigns approved drivers, tracks them live and lets admins review driver applications.",
	InfoInstanceName: "coordinator",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
