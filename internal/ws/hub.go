// Package ws implementa o transporte de streaming: cada conexão WebSocket é
// uma sessão de reconhecimento com estado próprio de tracking e rate limit.
package ws

import (
	"sync"
	"time"
)

// SessionInfo is a read-only view of one live connection.
type SessionInfo struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connected_at"`
	Frames      int64     `json:"frames"`
}

type liveSession struct {
	connectedAt time.Time
	frames      int64
}

// Hub registra as sessões ativas para observabilidade. O processamento de
// frames nunca passa por aqui; o hub só conta e lista conexões.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*liveSession),
	}
}

func (h *Hub) Register(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sessionID] = &liveSession{connectedAt: time.Now()}
}

func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// FrameProcessed increments the frame counter for a session.
func (h *Hub) FrameProcessed(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[sessionID]; ok {
		s.frames++
	}
}

// Count returns how many sessions are connected.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ActiveSessions lists the live sessions.
func (h *Hub) ActiveSessions() []SessionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(h.sessions))
	for id, s := range h.sessions {
		infos = append(infos, SessionInfo{
			ID:          id,
			ConnectedAt: s.connectedAt,
			Frames:      s.frames,
		})
	}
	return infos
}
