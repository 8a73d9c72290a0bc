package handler

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// EnrollmentService is the interface the handler needs from the service layer
type EnrollmentService interface {
	CreateIdentity(ctx context.Context, name string) (*domain.Identity, error)
	GetIdentity(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	ListIdentities(ctx context.Context, activeOnly bool) ([]domain.Identity, error)
	UpdateIdentity(ctx context.Context, id uuid.UUID, name string, active bool) (*domain.Identity, error)
	DeleteIdentity(ctx context.Context, id uuid.UUID) error
	AddFace(ctx context.Context, identityID uuid.UUID, image []byte, label string) (*domain.FaceEmbedding, error)
	ListFaces(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEmbedding, error)
	DeleteFace(ctx context.Context, id uuid.UUID) error
}

// IdentityHandler handles identity enrollment requests
type IdentityHandler struct {
	service EnrollmentService
	logger  *slog.Logger
}

func NewIdentityHandler(service EnrollmentService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{service: service, logger: logger}
}

// CreateIdentityRequest body for POST /identities
type CreateIdentityRequest struct {
	Name string `json:"name"`
}

// UpdateIdentityRequest body for PUT /identities/:id
type UpdateIdentityRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// AddFaceRequest body for POST /identities/:id/faces
type AddFaceRequest struct {
	// Image is the base64-encoded enrollment photo
	Image string `json:"image"`
	Label string `json:"label,omitempty"`
}

// FaceResponse is the API view of an enrolled embedding (the vector itself
// never leaves the server).
type FaceResponse struct {
	ID         uuid.UUID `json:"id"`
	IdentityID uuid.UUID `json:"identity_id"`
	Label      string    `json:"label,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

// Create POST /identities
func (h *IdentityHandler) Create(c *fiber.Ctx) error {
	var req CreateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.ErrValidationFailed
	}

	identity, err := h.service.CreateIdentity(c.Context(), req.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(identity)
}

// List GET /identities?active=true
func (h *IdentityHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	identities, err := h.service.ListIdentities(c.Context(), activeOnly)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"identities": identities})
}

// Get GET /identities/:id
func (h *IdentityHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	identity, err := h.service.GetIdentity(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(identity)
}

// Update PUT /identities/:id
func (h *IdentityHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest
	}

	identity, err := h.service.UpdateIdentity(c.Context(), id, strings.TrimSpace(req.Name), req.Active)
	if err != nil {
		return err
	}

	return c.JSON(identity)
}

// Delete DELETE /identities/:id
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteIdentity(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddFace POST /identities/:id/faces
func (h *IdentityHandler) AddFace(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req AddFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil || len(image) == 0 {
		return domain.ErrInvalidImage
	}
	if len(image) > maxImageSize {
		return domain.ErrInvalidImage
	}

	face, err := h.service.AddFace(c.Context(), id, image, req.Label)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toFaceResponse(face))
}

// ListFaces GET /identities/:id/faces
func (h *IdentityHandler) ListFaces(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	faces, err := h.service.ListFaces(c.Context(), id)
	if err != nil {
		return err
	}

	out := make([]FaceResponse, 0, len(faces))
	for i := range faces {
		out = append(out, toFaceResponse(&faces[i]))
	}

	return c.JSON(fiber.Map{"faces": out})
}

// DeleteFace DELETE /identities/:id/faces/:face_id
func (h *IdentityHandler) DeleteFace(c *fiber.Ctx) error {
	faceID, err := parseID(c, "face_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteFace(c.Context(), faceID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toFaceResponse(face *domain.FaceEmbedding) FaceResponse {
	return FaceResponse{
		ID:         face.ID,
		IdentityID: face.IdentityID,
		Label:      face.Label,
		CreatedAt:  face.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed
	}
	return id, nil
}
