// Package match compares face embeddings against the enrolled gallery.
//
// Distances blend Euclidean and cosine: Euclidean alone is sensitive to
// magnitude drift across capture conditions, while cosine ignores magnitude
// entirely. The mean of the two is mapped to a confidence in [0,1] with an
// exponential decay so the score degrades smoothly near the threshold.
package match

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
)

// highConfidenceCutoff and highConfidenceBoost sharpen the separation between
// excellent and merely good matches before downstream smoothing.
const (
	highConfidenceCutoff = 0.9
	highConfidenceBoost  = 1.05
)

// Candidate is one enrolled identity as seen by a single matching pass.
// Embeddings holds every captured angle for the identity.
type Candidate struct {
	ID         uuid.UUID
	Name       string
	Embeddings [][]float64
}

// BestMatch is the winning identity of a gallery search.
type BestMatch struct {
	IdentityID uuid.UUID
	Name       string
	Confidence float64
}

// Compare computes the blended distance between a known and an unknown
// embedding and maps it to a match decision plus confidence score.
func Compare(known, unknown []float64, threshold float64) (bool, float64, error) {
	if len(known) != len(unknown) || len(known) == 0 {
		return false, 0, domain.ErrDimensionMismatch.WithError(
			errors.New("embedding lengths differ or are zero"))
	}
	if threshold <= 0 || math.IsInf(threshold, 0) || math.IsNaN(threshold) {
		return false, 0, domain.ErrInvalidThreshold
	}

	var sqDist, dot, normKnown, normUnknown float64
	for i := range known {
		d := known[i] - unknown[i]
		sqDist += d * d
		dot += known[i] * unknown[i]
		normKnown += known[i] * known[i]
		normUnknown += unknown[i] * unknown[i]
	}

	if normKnown == 0 || normUnknown == 0 {
		return false, 0, domain.ErrDegenerateEmbedding
	}

	euclidean := math.Sqrt(sqDist)
	cosine := 1.0 - dot/(math.Sqrt(normKnown)*math.Sqrt(normUnknown))
	distance := (euclidean + cosine) / 2.0

	confidence := math.Exp(-distance / (threshold * 0.5))
	confidence = clamp01(confidence)

	return distance <= threshold, confidence, nil
}

// FindBestMatch searches the gallery for the identity that best explains the
// unknown embedding. Each identity is scored by its single best embedding, so
// an identity enrolled from several angles is matched by its closest angle.
// Returns ok=false when nothing reaches acceptThreshold or the gallery is
// empty. An identity with no embeddings can never be matched. Ties on
// confidence go to the lowest identity UUID in string order.
func FindBestMatch(unknown []float64, gallery []Candidate, matchThreshold, acceptThreshold float64) (BestMatch, bool) {
	var best BestMatch
	found := false

	for _, cand := range gallery {
		candBest := 0.0
		for _, emb := range cand.Embeddings {
			// A bad gallery entry only disqualifies itself, never the search.
			_, confidence, err := Compare(emb, unknown, matchThreshold)
			if err != nil {
				continue
			}
			if confidence > candBest {
				candBest = confidence
			}
		}

		switch {
		case !found && candBest > 0:
			best = BestMatch{IdentityID: cand.ID, Name: cand.Name, Confidence: candBest}
			found = true
		case candBest > best.Confidence:
			best = BestMatch{IdentityID: cand.ID, Name: cand.Name, Confidence: candBest}
		case candBest == best.Confidence && found && cand.ID.String() < best.IdentityID.String():
			best = BestMatch{IdentityID: cand.ID, Name: cand.Name, Confidence: candBest}
		}
	}

	if !found || best.Confidence < acceptThreshold {
		return BestMatch{}, false
	}

	if best.Confidence > highConfidenceCutoff {
		best.Confidence = clamp01(best.Confidence * highConfidenceBoost)
	}

	return best, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
