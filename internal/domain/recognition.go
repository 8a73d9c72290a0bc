package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a face region in pixel coordinates, in the detector's
// (top, right, bottom, left) order.
type BoundingBox struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

func (b BoundingBox) Width() int {
	return b.Right - b.Left
}

func (b BoundingBox) Height() int {
	return b.Bottom - b.Top
}

func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// Valid reports whether the box has positive area.
func (b BoundingBox) Valid() bool {
	return b.Right > b.Left && b.Bottom > b.Top
}

// Detection is one face found by the detector in the current frame. The
// embedding is filled in by the extractor and stays nil when extraction
// failed for this face.
type Detection struct {
	Box       BoundingBox
	Embedding []float64
}

// RecognitionResult is the per-face, per-frame output of the pipeline.
// Identity is nil for an unknown face.
type RecognitionResult struct {
	TrackID    uuid.UUID   `json:"track_id"`
	IdentityID *uuid.UUID  `json:"identity_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
	Unknown    bool        `json:"is_unknown"`
}

// RecognitionLog is one persisted recognition event, kept for analytics.
type RecognitionLog struct {
	ID         int64       `json:"id"`
	IdentityID *uuid.UUID  `json:"identity_id,omitempty"`
	TrackID    string      `json:"track_id"`
	SessionID  string      `json:"session_id"`
	Confidence float64     `json:"confidence"`
	Unknown    bool        `json:"is_unknown"`
	Box        BoundingBox `json:"bbox"`
	CreatedAt  time.Time   `json:"created_at"`
}
