package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"project-field-api/internal/dto"
	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 64 * 1024
	evaluateTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSEvaluateMessage is one client frame: the full current form values
type WSEvaluateMessage struct {
	Values map[string]any `json:"values"`
}

// WSEvaluateReply answers exactly one client frame
type WSEvaluateReply struct {
	Type     string                               `json:"type"`
	States   map[string]*dto.DerivedStateResponse `json:"states,omitempty"`
	Warnings []dto.RuleWarningResponse            `json:"warnings,omitempty"`
	Error    *response.AppError                   `json:"error,omitempty"`
}

// Reply types
const (
	WSReplyStates = "STATES"
	WSReplyError  = "ERROR"
)

// EvaluationWSHandler streams live rule evaluation over a websocket
type EvaluationWSHandler struct {
	evaluationService service.EvaluationService
	logger            *zap.Logger
}

func NewEvaluationWSHandler(evaluationService service.EvaluationService, logger *zap.Logger) *EvaluationWSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationWSHandler{
		evaluationService: evaluationService,
		logger:            logger,
	}
}

// HandleWebSocket godoc
// @Summary      실시간 규칙 평가 (WebSocket)
// @Description  {"values":{...}} 메시지마다 {"type":"STATES","states":...,"warnings":...} 로 응답합니다
// @Tags         evaluation
// @Param        projectId query string false "Project ID"
// @Router       /evaluate/ws [get]
func (h *EvaluationWSHandler) HandleWebSocket(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid projectId")
			return
		}
		projectID = &id
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	send := make(chan []byte, 16)
	go h.writePump(conn, send)
	h.readPump(c.Request.Context(), conn, projectID, send)
}

// readPump evaluates each frame in order and queues the reply; it owns closing send.
// A client that stops reading until the queue is full is disconnected.
func (h *EvaluationWSHandler) readPump(ctx context.Context, conn *websocket.Conn, projectID *uuid.UUID, send chan<- []byte) {
	defer close(send)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		reply := h.evaluate(ctx, projectID, message)
		payload, err := json.Marshal(reply)
		if err != nil {
			h.logger.Error("Failed to encode evaluation reply", zap.Error(err))
			continue
		}
		select {
		case send <- payload:
		default:
			h.logger.Warn("WebSocket send buffer full, dropping connection")
			conn.Close()
			return
		}
	}
}

func (h *EvaluationWSHandler) evaluate(ctx context.Context, projectID *uuid.UUID, message []byte) *WSEvaluateReply {
	var msg WSEvaluateMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return &WSEvaluateReply{Type: WSReplyError, Error: response.NewValidationError("Invalid message", err.Error())}
	}

	evalCtx, cancel := context.WithTimeout(ctx, evaluateTimeout)
	defer cancel()

	result, err := h.evaluationService.Evaluate(evalCtx, &dto.EvaluateRequest{ProjectID: projectID, Values: msg.Values})
	if err != nil {
		h.logger.Warn("Live evaluation failed", zap.Error(err))
		var appErr *response.AppError
		if !errors.As(err, &appErr) {
			appErr = response.NewInternalError("Evaluation failed", nil)
		}
		return &WSEvaluateReply{Type: WSReplyError, Error: appErr}
	}

	return &WSEvaluateReply{Type: WSReplyStates, States: result.States, Warnings: result.Warnings}
}

func (h *EvaluationWSHandler) writePump(conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
