package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/pipeline"
)

// Handler upgrades the connection and runs one recognition session over it.
// Frames são processados estritamente na ordem de chegada; a resposta de um
// frame sempre sai antes do próximo ser lido.
func Handler(p *pipeline.Pipeline, sessionCfg pipeline.SessionConfig, hub *Hub, logger *slog.Logger) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		sessionID := uuid.NewString()
		session := pipeline.NewSession(sessionID, sessionCfg, logger)

		hub.Register(sessionID)
		defer hub.Unregister(sessionID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		log := logger.With("session_id", sessionID)
		log.Info("session connected")

		if err := c.WriteJSON(ConnectionEstablished{
			Type:         MessageConnectionEstablished,
			SessionID:    sessionID,
			MaxFrameRate: sessionCfg.MaxFrameRate,
		}); err != nil {
			log.Warn("failed to send connection_established", "error", err)
			return
		}

		conn := &connection{c: c, session: session, pipeline: p, hub: hub, logger: log}
		conn.readLoop(ctx)

		log.Info("session closed", "frames", conn.frames)
	})
}

// UpgradeMiddleware rejects plain HTTP requests on the websocket route.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

type connection struct {
	c        *websocket.Conn
	session  *pipeline.Session
	pipeline *pipeline.Pipeline
	hub      *Hub
	logger   *slog.Logger
	frames   int64
}

func (c *connection) readLoop(ctx context.Context) {
	for {
		_, raw, err := c.c.ReadMessage()
		if err != nil {
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError(domain.ErrBadRequest.Code, "malformed message")
			continue
		}

		switch msg.Type {
		case MessageFrame:
			c.handleFrame(ctx, msg)
		case MessagePing:
			c.send(Pong{Type: MessagePong, Timestamp: time.Now().UTC()})
		case MessageReset:
			c.session.Reset()
			c.send(ResetConfirmed{Type: MessageResetConfirmed})
		default:
			c.sendError(domain.ErrBadRequest.Code, "unknown message type: "+msg.Type)
		}
	}
}

func (c *connection) handleFrame(ctx context.Context, msg InboundMessage) {
	image, err := decodeFrame(msg.Data)
	if err != nil {
		c.sendError(domain.ErrInvalidImage.Code, "frame is not valid base64")
		return
	}

	result, err := c.pipeline.ProcessFrame(ctx, c.session, image)
	if err != nil {
		// Falha de frame não derruba a sessão.
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			c.sendError(appErr.Code, appErr.Message)
		} else {
			c.sendError(domain.ErrInternal.Code, "frame processing failed")
		}
		return
	}

	if result.Dropped {
		// Acima da taxa máxima o frame é descartado em silêncio.
		return
	}

	c.frames++
	c.hub.FrameProcessed(c.session.ID)

	c.send(RecognitionResult{
		Type:          MessageRecognitionResult,
		FrameID:       msg.FrameID,
		FacesDetected: result.FacesDetected,
		Faces:         result.Faces,
		Timestamp:     time.Now().UTC(),
	})
}

func (c *connection) send(v interface{}) {
	if err := c.c.WriteJSON(v); err != nil {
		c.logger.Warn("failed to write message", "error", err)
	}
}

func (c *connection) sendError(code, message string) {
	c.send(ErrorMessage{Type: MessageError, Code: code, Message: message})
}

// decodeFrame aceita o payload base64 puro ou com prefixo data URL.
func decodeFrame(data string) ([]byte, error) {
	if data == "" {
		return nil, errors.New("empty frame data")
	}
	if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
