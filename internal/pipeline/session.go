package pipeline

import (
	"log/slog"

	"github.com/facestream-labs/facestream/internal/ratelimit"
	"github.com/facestream-labs/facestream/internal/track"
)

// Session carrega o estado por conexão: o tracker com os rostos em cena e o
// limitador de frames. Todo o estado é descartado quando a conexão fecha.
type Session struct {
	ID      string
	Tracker *track.Manager
	Limiter *ratelimit.FrameLimiter
}

// SessionConfig holds the per-session knobs.
type SessionConfig struct {
	Tracker      track.Config
	MaxFrameRate float64
}

// NewSession creates a fresh session with empty tracking state.
func NewSession(id string, cfg SessionConfig, logger *slog.Logger) *Session {
	return &Session{
		ID:      id,
		Tracker: track.NewManager(cfg.Tracker, logger.With("session_id", id)),
		Limiter: ratelimit.NewFrameLimiter(cfg.MaxFrameRate),
	}
}

// Reset clears tracking state and the rate limiter window. The session keeps
// its ID so logs stay correlated to the same connection.
func (s *Session) Reset() {
	s.Tracker.Reset()
	s.Limiter.Reset()
}
