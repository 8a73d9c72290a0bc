// Package track maintains per-stream object tracks so the same physical face
// keeps a stable identity and box across frames despite detector jitter,
// occlusion and transient mis-matches.
package track

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// Config holds the tracking knobs. Zero values are replaced by defaults that
// mirror the service configuration.
type Config struct {
	// IoUThreshold is the minimum overlap for associating a detection with an
	// existing track.
	IoUThreshold float64
	// MaxLostFrames is how many consecutive unmatched frames a track survives
	// before expiry.
	MaxLostFrames int
	// SmoothingAlpha is the EMA factor applied to confidence when a track's
	// identity is confirmed by a new frame.
	SmoothingAlpha float64
}

// DefaultConfig returns the tracking defaults.
func DefaultConfig() Config {
	return Config{
		IoUThreshold:   0.3,
		MaxLostFrames:  12,
		SmoothingAlpha: 0.3,
	}
}

// Manager owns the set of active tracks for one stream. It is not safe for
// concurrent use; a session must drive it from a single goroutine.
type Manager struct {
	cfg    Config
	logger *slog.Logger
	tracks []*Track
}

// NewManager creates a track manager for one session.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	def := DefaultConfig()
	if cfg.IoUThreshold <= 0 {
		cfg.IoUThreshold = def.IoUThreshold
	}
	if cfg.MaxLostFrames <= 0 {
		cfg.MaxLostFrames = def.MaxLostFrames
	}
	if cfg.SmoothingAlpha <= 0 || cfg.SmoothingAlpha > 1 {
		cfg.SmoothingAlpha = def.SmoothingAlpha
	}

	return &Manager{
		cfg:    cfg,
		logger: logger,
	}
}

// pair is a candidate (track, observation) association.
type pair struct {
	trackIdx int
	obsIdx   int
	iou      float64
}

// Update associates the frame's observations with existing tracks, creates
// tracks for the leftovers, expires stale tracks and returns every track that
// is still active. Carried-over tracks (unmatched this frame but not yet
// expired) are returned with their last-known box and Matched false.
func (m *Manager) Update(observations []Observation) []*Track {
	valid := observations[:0:0]
	for _, obs := range observations {
		if !obs.Box.Valid() {
			m.logger.Warn("dropping detection with malformed bbox",
				slog.Int("top", obs.Box.Top),
				slog.Int("right", obs.Box.Right),
				slog.Int("bottom", obs.Box.Bottom),
				slog.Int("left", obs.Box.Left),
			)
			continue
		}
		valid = append(valid, obs)
	}

	for _, t := range m.tracks {
		t.Matched = false
	}

	// Score every (track, observation) combination above the overlap
	// threshold, then assign greedily from the strongest overlap down.
	pairs := make([]pair, 0, len(m.tracks)*len(valid))
	for ti, t := range m.tracks {
		for oi, obs := range valid {
			if iou := IoU(t.Box, obs.Box); iou > m.cfg.IoUThreshold {
				pairs = append(pairs, pair{trackIdx: ti, obsIdx: oi, iou: iou})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].iou != pairs[j].iou {
			return pairs[i].iou > pairs[j].iou
		}
		if pairs[i].trackIdx != pairs[j].trackIdx {
			return pairs[i].trackIdx < pairs[j].trackIdx
		}
		return pairs[i].obsIdx < pairs[j].obsIdx
	})

	obsTaken := make([]bool, len(valid))
	for _, p := range pairs {
		t := m.tracks[p.trackIdx]
		if t.Matched || obsTaken[p.obsIdx] {
			continue
		}
		m.apply(t, valid[p.obsIdx])
		obsTaken[p.obsIdx] = true
	}

	// Unmatched observations become new tracks, active immediately.
	for oi, obs := range valid {
		if obsTaken[oi] {
			continue
		}
		t := &Track{
			ID:         uuid.New(),
			Box:        obs.Box,
			IdentityID: obs.IdentityID,
			Name:       obs.Name,
			Confidence: obs.Confidence,
			Matched:    true,
		}
		m.tracks = append(m.tracks, t)
	}

	// Unmatched tracks age; expiry is the only terminal transition.
	kept := m.tracks[:0]
	for _, t := range m.tracks {
		if !t.Matched {
			t.LostCount++
			if t.LostCount > m.cfg.MaxLostFrames {
				m.logger.Debug("track expired",
					slog.String("track_id", t.ID.String()),
					slog.Int("lost_count", t.LostCount),
				)
				continue
			}
		}
		kept = append(kept, t)
	}
	m.tracks = kept

	active := make([]*Track, len(m.tracks))
	copy(active, m.tracks)
	return active
}

// apply updates a matched track with this frame's observation, following the
// identity smoothing rule: agreement smooths confidence, a more confident
// disagreement switches identity immediately, a weaker disagreement is noise.
func (m *Manager) apply(t *Track, obs Observation) {
	t.Box = obs.Box
	t.LostCount = 0
	t.Matched = true

	switch {
	case sameIdentity(t.IdentityID, obs.IdentityID):
		alpha := m.cfg.SmoothingAlpha
		t.Confidence = alpha*obs.Confidence + (1-alpha)*t.Confidence
		if obs.IdentityID != nil {
			t.Name = obs.Name
		}
	case t.IdentityID == nil || obs.Confidence > t.Confidence:
		// Identity switches are immediate, never smoothed.
		t.IdentityID = obs.IdentityID
		t.Name = obs.Name
		t.Confidence = obs.Confidence
	}
}

// Reset drops every track, for a fresh session.
func (m *Manager) Reset() {
	m.tracks = nil
}

// Len returns the number of live tracks.
func (m *Manager) Len() int {
	return len(m.tracks)
}

func sameIdentity(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
