// Package docs declara a documentação OpenAPI da API de cadastro e consulta.
// O canal de streaming (WebSocket) fica fora do Swagger.
package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// IdentityResponse represents an enrolled identity
type IdentityResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string `json:"name" example:"Elena Alves"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt string `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt string `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

// CreateIdentityBody is the request body for identity creation
type CreateIdentityBody struct {
	Name string `json:"name" example:"Elena Alves"`
}

// UpdateIdentityBody is the request body for identity update
type UpdateIdentityBody struct {
	Name   string `json:"name" example:"Elena Alves"`
	Active bool   `json:"active" example:"true"`
}

// AddFaceBody is the request body for face enrollment
type AddFaceBody struct {
	Image string `json:"image" example:"<base64 JPEG>"`
	Label string `json:"label,omitempty" example:"frontal"`
}

// FaceResponse represents an enrolled face embedding
type FaceResponse struct {
	ID         string `json:"id" example:"7b8e1c1a-3f1d-4d2b-9a25-57e0b7e1c111"`
	IdentityID string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Label      string `json:"label,omitempty" example:"frontal"`
	CreatedAt  string `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

// RecognitionLogResponse represents one recognition event
type RecognitionLogResponse struct {
	ID         int64   `json:"id" example:"42"`
	IdentityID string  `json:"identity_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	TrackID    string  `json:"track_id" example:"f1db1c9e-0a5b-4a77-a5c0-6f3b3ce0a001"`
	SessionID  string  `json:"session_id" example:"c52c11b5-22c7-4cf5-8a9e-8e2f09a3b002"`
	Confidence float64 `json:"confidence" example:"0.93"`
	Unknown    bool    `json:"is_unknown" example:"false"`
	CreatedAt  string  `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

// StatsResponse aggregates recognition activity
type StatsResponse struct {
	TotalEvents    int64 `json:"total_events" example:"1280"`
	UnknownEvents  int64 `json:"unknown_events" example:"97"`
	UniqueSessions int64 `json:"unique_sessions" example:"14"`
}

// SessionsResponse lists live streaming sessions
type SessionsResponse struct {
	Count int `json:"count" example:"2"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "FaceStream API",
		Version:     "v0.1.0",
		Description: "Real-time face identification over WebSocket with identity enrollment and recognition analytics",
		Host:        "localhost:8000",
		Path:        "/api/v1",
	})

	internalError := response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	validationError := response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "400", "Bad Request")
	notFoundError := response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found")

	endpoints := []*endpoint.EndPoint{
		// POST /api/v1/identities
		endpoint.New(
			endpoint.POST,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Create an identity"),
			endpoint.WithDescription("Creates a named identity. Faces are enrolled separately so one identity can carry several reference embeddings."),
			endpoint.WithBody(CreateIdentityBody{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityResponse{}, "201", "Identity created"),
			}),
			endpoint.WithErrors([]response.Response{
				validationError,
				response.New(ErrorResponse{Code: "IDENTITY_EXISTS", Message: "Identity already exists"}, "409", "Conflict"),
				internalError,
			}),
		),

		// GET /api/v1/identities
		endpoint.New(
			endpoint.GET,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("List identities"),
			endpoint.WithParams(
				parameter.StrParam("active", parameter.Query, parameter.WithDescription("Return only active identities when true")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]IdentityResponse{}, "200", "Identities"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),

		// GET /api/v1/identities/{id}
		endpoint.New(
			endpoint.GET,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Get an identity"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityResponse{}, "200", "Identity"),
			}),
			endpoint.WithErrors([]response.Response{validationError, notFoundError, internalError}),
		),

		// PUT /api/v1/identities/{id}
		endpoint.New(
			endpoint.PUT,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Update an identity"),
			endpoint.WithDescription("Renames or toggles an identity. Deactivated identities leave the matching gallery immediately."),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithBody(UpdateIdentityBody{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityResponse{}, "200", "Identity updated"),
			}),
			endpoint.WithErrors([]response.Response{validationError, notFoundError, internalError}),
		),

		// DELETE /api/v1/identities/{id}
		endpoint.New(
			endpoint.DELETE,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an identity"),
			endpoint.WithDescription("Removes the identity and all of its reference embeddings."),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Identity deleted"),
			}),
			endpoint.WithErrors([]response.Response{validationError, notFoundError, internalError}),
		),

		// POST /api/v1/identities/{id}/faces
		endpoint.New(
			endpoint.POST,
			"/identities/{id}/faces",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Enroll a reference face"),
			endpoint.WithDescription("Extracts the embedding from an enrollment photo. The photo must contain exactly one face above the minimum size."),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithBody(AddFaceBody{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceResponse{}, "201", "Face enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				validationError,
				notFoundError,
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "FACE_TOO_SMALL", Message: "Face below minimum size"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		// GET /api/v1/identities/{id}/faces
		endpoint.New(
			endpoint.GET,
			"/identities/{id}/faces",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("List enrolled faces"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]FaceResponse{}, "200", "Faces"),
			}),
			endpoint.WithErrors([]response.Response{validationError, notFoundError, internalError}),
		),

		// DELETE /api/v1/identities/{id}/faces/{face_id}
		endpoint.New(
			endpoint.DELETE,
			"/identities/{id}/faces/{face_id}",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Delete an enrolled face"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
				parameter.StrParam("face_id", parameter.Path, parameter.WithDescription("Embedding UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Face deleted"),
			}),
			endpoint.WithErrors([]response.Response{validationError, notFoundError, internalError}),
		),

		// GET /api/v1/logs
		endpoint.New(
			endpoint.GET,
			"/logs",
			endpoint.WithTags("Analytics"),
			endpoint.WithSummary("List recognition events"),
			endpoint.WithParams(
				parameter.StrParam("session_id", parameter.Query, parameter.WithDescription("Filter by streaming session")),
				parameter.StrParam("identity_id", parameter.Query, parameter.WithDescription("Filter by identity UUID")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Max events (default 100, max 500)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Pagination offset")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]RecognitionLogResponse{}, "200", "Events"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),

		// GET /api/v1/logs/stats
		endpoint.New(
			endpoint.GET,
			"/logs/stats",
			endpoint.WithTags("Analytics"),
			endpoint.WithSummary("Recognition activity summary"),
			endpoint.WithParams(
				parameter.IntParam("hours", parameter.Query, parameter.WithDescription("Window in hours (default 24)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsResponse{}, "200", "Summary"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),

		// GET /api/v1/sessions
		endpoint.New(
			endpoint.GET,
			"/sessions",
			endpoint.WithTags("Analytics"),
			endpoint.WithSummary("List live streaming sessions"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionsResponse{}, "200", "Sessions"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
