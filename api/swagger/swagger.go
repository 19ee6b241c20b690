package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Al-Manar Institute Grades API",
        "description": "Grade distribution and aggregation engine for the institute's three-year programmes",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Students", "description": "Student directory and grading roster"},
        {"name": "Catalog", "description": "Subjects, academic years and periods"},
        {"name": "Distributions", "description": "Per-cohort grade distributions"},
        {"name": "Grades", "description": "Grade entry, review workflow and batch saves"}
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
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Return the authenticated account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "academicYearId", "in": "query", "type": "string"},
                    {"name": "educationLevel", "in": "query", "type": "string"},
                    {"name": "studySystem", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Student"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/filtered": {
            "get": {
                "tags": ["Students"],
                "summary": "Cohort roster merged with saved grades",
                "parameters": [
                    {"name": "academicYearId", "in": "query", "required": true, "type": "string"},
                    {"name": "educationLevel", "in": "query", "required": true, "type": "string"},
                    {"name": "studySystem", "in": "query", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Student"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academic-years": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List academic years",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Periods a cohort can be graded in",
                "parameters": [
                    {"name": "educationLevel", "in": "query", "required": true, "type": "string"},
                    {"name": "studySystem", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/flexible-grade-distributions": {
            "get": {
                "tags": ["Distributions"],
                "summary": "Effective grade distribution for a cohort",
                "parameters": [
                    {"name": "educationLevel", "in": "query", "required": true, "type": "string"},
                    {"name": "studySystem", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Distributions"],
                "summary": "Store a distribution override",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DistributionPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failure"}
                }
            },
            "put": {
                "tags": ["Distributions"],
                "summary": "Replace the distribution override",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DistributionPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "Saved grade rows for a scope",
                "parameters": [
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "academicYearId", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Save a first or second period sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchSaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch committed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Approved record is locked"},
                    "412": {"description": "Unapproved records block the save"}
                }
            }
        },
        "/grades/third-period": {
            "post": {
                "tags": ["Grades"],
                "summary": "Save a third-period sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ThirdPeriodSaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch committed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Unapproved records block the save"}
                }
            }
        },
        "/grades/import-excel": {
            "post": {
                "tags": ["Grades"],
                "summary": "Parse an uploaded Excel grade sheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "subjectId", "in": "formData", "required": true, "type": "string"},
                    {"name": "academicYearId", "in": "formData", "required": true, "type": "string"},
                    {"name": "period", "in": "formData", "required": true, "type": "string"},
                    {"name": "educationLevel", "in": "formData", "required": true, "type": "string"},
                    {"name": "studySystem", "in": "formData", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Parse result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/export": {
            "get": {
                "tags": ["Grades"],
                "summary": "Download a grade sheet as CSV or PDF",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "academicYearId", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "string"},
                    {"name": "educationLevel", "in": "query", "required": true, "type": "string"},
                    {"name": "studySystem", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "education_level": {"type": "string"},
                "study_system": {"type": "string"},
                "academic_year_id": {"type": "string"},
                "specialization": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "DistributionPayload": {
            "type": "object",
            "required": ["education_level", "study_system", "distribution"],
            "properties": {
                "education_level": {"type": "string"},
                "study_system": {"type": "string"},
                "distribution": {"type": "object"}
            }
        },
        "GradeEntryInput": {
            "type": "object",
            "required": ["student_id", "review_state"],
            "properties": {
                "student_id": {"type": "string"},
                "month1": {"type": "number"},
                "month2": {"type": "number"},
                "month3": {"type": "number"},
                "period_exam": {"type": "number"},
                "review_state": {"type": "string", "enum": ["none", "pending", "reviewed", "approved"]}
            }
        },
        "BatchSaveRequest": {
            "type": "object",
            "required": ["subject_id", "academic_year_id", "period", "education_level", "study_system", "entries"],
            "properties": {
                "subject_id": {"type": "string"},
                "academic_year_id": {"type": "string"},
                "period": {"type": "string"},
                "education_level": {"type": "string"},
                "study_system": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/GradeEntryInput"}}
            }
        },
        "ThirdPeriodSaveRequest": {
            "type": "object",
            "required": ["subject_id", "academic_year_id", "education_level", "study_system", "entries"],
            "properties": {
                "subject_id": {"type": "string"},
                "academic_year_id": {"type": "string"},
                "education_level": {"type": "string"},
                "study_system": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/GradeEntryInput"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
