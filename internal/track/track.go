package track

import (
	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Track follows one physical face across frames of a single stream. The track
// keeps its identity and last-known box while the detector briefly loses the
// face, up to the manager's expiry limit.
type Track struct {
	ID         uuid.UUID
	Box        domain.BoundingBox
	IdentityID *uuid.UUID
	Name       string
	Confidence float64
	LostCount  int

	// Matched reports whether a detection was associated with this track on
	// the most recent Update call. Carried-over tracks have Matched false.
	Matched bool
}

// Unknown reports whether the track has no assigned identity.
func (t *Track) Unknown() bool {
	return t.IdentityID == nil
}

// Observation is one frame detection already paired with the comparator's
// best-match result. IdentityID is nil for an unknown face.
type Observation struct {
	Box        domain.BoundingBox
	IdentityID *uuid.UUID
	Name       string
	Confidence float64
}

// IoU computes Intersection-over-Union of two pixel boxes. Boxes that do not
// overlap, or whose union has no area, score zero.
func IoU(a, b domain.BoundingBox) float64 {
	interTop := max(a.Top, b.Top)
	interLeft := max(a.Left, b.Left)
	interBottom := min(a.Bottom, b.Bottom)
	interRight := min(a.Right, b.Right)

	if interBottom <= interTop || interRight <= interLeft {
		return 0
	}

	intersection := (interBottom - interTop) * (interRight - interLeft)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
