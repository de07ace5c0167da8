package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-dreamteam/internal/registry"
	"github.com/stitts-dev/dfs-dreamteam/internal/services"
	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
	"github.com/stitts-dev/dfs-dreamteam/pkg/utils"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream message types
const (
	MessageRoster  = "roster"
	MessageSummary = "summary"
	MessageError   = "error"
)

// StreamMessage is one frame sent to a streaming client
type StreamMessage struct {
	Type    string                 `json:"type"`
	Roster  *services.RosterReport `json:"roster,omitempty"`
	Summary *services.Summary      `json:"summary,omitempty"`
	Error   *utils.AppError        `json:"error,omitempty"`
}

// StreamHandler runs a build over a websocket and streams every roster as it is found
type StreamHandler struct {
	service *services.DreamTeamService
	logger  *logrus.Entry
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(service *services.DreamTeamService) *StreamHandler {
	return &StreamHandler{
		service: service,
		logger:  logger.WithService("stream-handler"),
	}
}

// HandleWebSocket expects one BuildRequest message, then sends a roster
// message per saved roster followed by a summary. A client that disconnects
// cancels the build.
func (h *StreamHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	var req services.BuildRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.send(conn, StreamMessage{
			Type:  MessageError,
			Error: utils.NewAppError(utils.ErrCodeValidation, "Invalid request format", err.Error()),
		})
		h.close(conn, websocket.CloseUnsupportedData)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go h.readPump(conn, cancel)

	var writeMu sync.Mutex
	onRoster := func(e registry.Entry) {
		report := services.NewRosterReport(e)
		writeMu.Lock()
		defer writeMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := h.send(conn, StreamMessage{Type: MessageRoster, Roster: &report}); err != nil {
			cancel()
		}
	}

	run, err := h.service.Build(ctx, req, onRoster)
	if err != nil {
		if ctx.Err() != nil {
			h.logger.WithError(err).Info("Stream client went away during build")
			return
		}
		_, appErr := buildError(err)
		h.send(conn, StreamMessage{Type: MessageError, Error: appErr})
		h.close(conn, websocket.CloseNormalClosure)
		return
	}

	summary := run.Summary()
	if err := h.send(conn, StreamMessage{Type: MessageSummary, Summary: &summary}); err != nil {
		return
	}
	h.logger.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"rosters": summary.Rosters,
	}).Info("Streamed roster build")
	h.close(conn, websocket.CloseNormalClosure)
}

// readPump drains client frames so close messages are seen, cancelling the build on disconnect
func (h *StreamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("WebSocket read error")
			}
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.WithError(err).Debug("Failed to write WebSocket message")
		return err
	}
	return nil
}

func (h *StreamHandler) close(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
