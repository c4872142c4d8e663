package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/orchestration"
)

// Client message types.
const (
	MessageStart  = "start"
	MessageAnswer = "answer"
)

// Server message types. Dialogue statuses are sent as-is.
const (
	MessageStarted = models.StatusStarted
	MessageError   = "error"
)

const maxMessageBytes = 64 << 10

// Message is the envelope exchanged in both directions over the socket.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DialogueSocket runs a whole dialogue over one websocket connection. Each
// client message is one request; the server answers each with exactly one
// message and closes the session once the dialogue completes.
type DialogueSocket struct {
	service  *orchestration.Service
	logger   *zap.Logger
	tracer   trace.Tracer
	upgrader websocket.Upgrader
}

// NewDialogueSocket creates a websocket dialogue endpoint.
func NewDialogueSocket(service *orchestration.Service, logger *zap.Logger) *DialogueSocket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogueSocket{
		service: service,
		logger:  logger,
		tracer:  otel.Tracer("dialogue-websocket"),
		upgrader: websocket.Upgrader{
			// Same open policy as the CORS headers.
			CheckOrigin:      func(r *http.Request) bool { return true },
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Serve handles GET /api/ws/specifications
// @Summary Run a specification dialogue over a websocket
// @Description Send {type: start|answer, payload} messages; each is answered with {type: started|in_progress|completed|error, payload}
// @Tags specifications
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ws/specifications [get]
func (s *DialogueSocket) Serve(c *gin.Context) {
	ctx, span := s.tracer.Start(c.Request.Context(), "websocket.dialogue_session")
	defer span.End()

	userID := auth.UserID(c)
	email := c.GetString(auth.EmailKey)
	span.SetAttributes(attribute.String("user.id", userID))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	logger := s.logger.With(zap.String("user_id", userID))
	logger.Info("Dialogue session opened")

	turns := 0
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Dialogue session read error", zap.Error(err))
			}
			break
		}
		turns++

		reply, done := s.handle(ctx, msg, userID, email)
		if err := conn.WriteJSON(reply); err != nil {
			span.RecordError(err)
			logger.Warn("Dialogue session write error", zap.Error(err))
			break
		}
		if done {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "dialogue completed"),
				time.Now().Add(time.Second))
			break
		}
	}

	span.SetAttributes(attribute.Int("session.messages", turns))
	logger.Info("Dialogue session closed", zap.Int("messages", turns))
}

// handle answers one client message. done reports that the dialogue completed.
func (s *DialogueSocket) handle(ctx context.Context, msg Message, userID, email string) (reply Message, done bool) {
	switch msg.Type {
	case MessageStart:
		var req models.StartRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return invalidMessage("Invalid start payload"), false
		}
		if strings.TrimSpace(req.CreatedBy) == "" {
			req.CreatedBy = email
		}
		resp, err := s.service.StartSpecification(ctx, req)
		if err != nil {
			return errorMessage(err), false
		}
		return newMessage(MessageStarted, resp), false

	case MessageAnswer:
		var req models.AnswerRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return invalidMessage("Invalid answer payload"), false
		}
		result, err := s.service.ProcessAnswer(ctx, req, userID)
		if err != nil {
			return errorMessage(err), false
		}
		return newMessage(result.Status(), result.Body()), result.Completed != nil

	default:
		return invalidMessage("Unknown message type " + msg.Type), false
	}
}

func newMessage(kind string, payload interface{}) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorMessage(err)
	}
	return Message{Type: kind, Payload: data}
}

func errorMessage(err error) Message {
	_, body := errorResponse(err)
	data, _ := json.Marshal(body)
	return Message{Type: MessageError, Payload: data}
}

func invalidMessage(text string) Message {
	data, _ := json.Marshal(models.ErrorResponse{Error: text, Code: models.ErrCodeInvalidRequest})
	return Message{Type: MessageError, Payload: data}
}
