package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Queue API",
        "description": "Course administration and live help queue backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course lifecycle, membership and assignments"},
        {"name": "Queues", "description": "Live help queue"},
        {"name": "People", "description": "Student and teacher registration"},
        {"name": "Auth", "description": "Teacher authentication"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List all courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/addNew": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course with its queue and optional assignment groups",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/newGroup": {
            "post": {
                "tags": ["Courses"],
                "summary": "Add an assignment group; overlapping assignment numbers migrate to the new group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/archive": {
            "post": {
                "tags": ["Courses"],
                "summary": "Archive a course and drop its queue",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseReference"}}
                ],
                "responses": {
                    "200": {"description": "Archived", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/addStudent": {
            "post": {
                "tags": ["Courses"],
                "summary": "Enroll a student by email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MembershipRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course or student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/removeStudent": {
            "delete": {
                "tags": ["Courses"],
                "summary": "Unenroll a student; the student record is kept",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MembershipRequest"}}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get one course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/export": {
            "get": {
                "tags": ["Courses"],
                "summary": "Export the course roster as CSV or PDF",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/queues/newSiq": {
            "post": {
                "tags": ["Queues"],
                "summary": "Place a student in a course queue",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JoinQueueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course or student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student already queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/queues/status": {
            "post": {
                "tags": ["Queues"],
                "summary": "Open or close the queue of a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleQueueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Queue not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/queues/status/{courseId}": {
            "get": {
                "tags": ["Queues"],
                "summary": "Report whether the queue of a course is open",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a teacher user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "required": ["course_code", "name", "start_date", "expected_end_date", "assignment_count", "min_approved_assignments"],
            "properties": {
                "course_code": {"type": "string"},
                "name": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "expected_end_date": {"type": "string", "format": "date-time"},
                "assignment_count": {"type": "integer"},
                "min_approved_assignments": {"type": "integer"},
                "part_count": {"type": "integer"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/CreateGroupSpec"}}
            }
        },
        "CreateGroupSpec": {
            "type": "object",
            "properties": {
                "order_nr": {"type": "integer"},
                "min_approved_in_group": {"type": "integer"},
                "assignment_numbers": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "AddGroupRequest": {
            "type": "object",
            "required": ["course_id", "assignment_numbers"],
            "properties": {
                "course_id": {"type": "string"},
                "order_nr": {"type": "integer"},
                "min_approved_in_group": {"type": "integer"},
                "assignment_numbers": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "MembershipRequest": {
            "type": "object",
            "required": ["course_id", "email"],
            "properties": {
                "course_id": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "CourseReference": {
            "type": "object",
            "required": ["course_id"],
            "properties": {
                "course_id": {"type": "string"}
            }
        },
        "JoinQueueRequest": {
            "type": "object",
            "required": ["student_id", "course_id", "assignment_number", "location_type"],
            "properties": {
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "assignment_number": {"type": "integer"},
                "help_requested": {"type": "boolean"},
                "campus": {"type": "string"},
                "building": {"type": "string"},
                "room": {"type": "string"},
                "table_nr": {"type": "integer"},
                "location_type": {"type": "string", "enum": ["PHYSICAL", "DIGITAL"]}
            }
        },
        "ToggleQueueRequest": {
            "type": "object",
            "required": ["course_id"],
            "properties": {
                "course_id": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
