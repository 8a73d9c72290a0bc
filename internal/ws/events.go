package ws

import (
	"time"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Tipos de mensagem aceitos do cliente.
const (
	MessageFrame = "frame"
	MessagePing  = "ping"
	MessageReset = "reset"
)

// Tipos de mensagem enviados ao cliente.
const (
	MessageConnectionEstablished = "connection_established"
	MessageRecognitionResult     = "recognition_result"
	MessagePong                  = "pong"
	MessageResetConfirmed        = "reset_confirmed"
	MessageError                 = "error"
)

// InboundMessage is the envelope for every client message.
type InboundMessage struct {
	Type      string  `json:"type"`
	FrameID   string  `json:"frame_id,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	// Data carries the base64-encoded JPEG frame
	Data string `json:"data,omitempty"`
}

// ConnectionEstablished is sent once right after the upgrade.
type ConnectionEstablished struct {
	Type         string  `json:"type"`
	SessionID    string  `json:"session_id"`
	MaxFrameRate float64 `json:"max_frame_rate"`
}

// RecognitionResult carries the faces visible in one processed frame.
type RecognitionResult struct {
	Type          string                     `json:"type"`
	FrameID       string                     `json:"frame_id,omitempty"`
	FacesDetected int                        `json:"faces_detected"`
	Faces         []domain.RecognitionResult `json:"faces"`
	Timestamp     time.Time                  `json:"timestamp"`
}

// Pong answers a ping.
type Pong struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// ResetConfirmed acknowledges a reset request.
type ResetConfirmed struct {
	Type string `json:"type"`
}

// ErrorMessage reports a non-fatal failure; the session stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
