package domain

import (
	"fmt"
	"net/http"
)

// AppError carrega o código estável da API, a mensagem para o cliente e o
// status HTTP. Err guarda a causa interna e nunca vaza na resposta.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is equipara AppErrors pelo código estável, então errors.Is casa um erro
// devolvido por WithError com o sentinela de origem.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithError devolve uma cópia com a causa anexada, preservando o sentinela
// original para errors.Is.
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Identity not found",
		StatusCode: http.StatusNotFound,
	}

	ErrIdentityExists = &AppError{
		Code:       "IDENTITY_ALREADY_EXISTS",
		Message:    "An identity with this name already exists",
		StatusCode: http.StatusConflict,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Image is malformed or uses an unsupported format",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Enrollment images must contain exactly one face",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrFaceTooSmall = &AppError{
		Code:       "FACE_TOO_SMALL",
		Message:    "Detected face is below the minimum size for reliable recognition",
		StatusCode: http.StatusUnprocessableEntity,
	}

	// ErrDimensionMismatch is returned by the comparator when two embeddings
	// have different lengths. Surfaced to the caller of that comparison only.
	ErrDimensionMismatch = &AppError{
		Code:       "DIMENSION_MISMATCH",
		Message:    "Embeddings have mismatched dimensions",
		StatusCode: http.StatusUnprocessableEntity,
	}

	// ErrDegenerateEmbedding is returned for zero-norm vectors, which would
	// otherwise propagate NaN through the distance math.
	ErrDegenerateEmbedding = &AppError{
		Code:       "DEGENERATE_EMBEDDING",
		Message:    "Embedding has zero norm",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be a positive finite value",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrDetectionFailed = &AppError{
		Code:       "DETECTION_FAILED",
		Message:    "Face detection failed for this frame",
		StatusCode: http.StatusBadGateway,
	}

	ErrExtractionFailed = &AppError{
		Code:       "EXTRACTION_FAILED",
		Message:    "Embedding extraction failed for this face",
		StatusCode: http.StatusBadGateway,
	}

	ErrMalformedBoundingBox = &AppError{
		Code:       "MALFORMED_BBOX",
		Message:    "Bounding box has zero or negative area",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Frame rate above the session limit",
		StatusCode: http.StatusTooManyRequests,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: http.StatusUnprocessableEntity,
	}
)
