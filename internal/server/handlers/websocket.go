// internal/server/handlers/websocket.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"resonance/internal/domain/optimization"
	"resonance/internal/logger"
	"resonance/internal/service/workflow"
)

// errSlowClient is returned to the monitor when the send buffer is full
var errSlowClient = errors.New("websocket client is not keeping up")

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are already filtered by the CORS middleware
		return true
	},
}

// ProgressMessage is the frame sent for every workflow update
type ProgressMessage struct {
	Type     string                `json:"type"`
	Workflow optimization.Workflow `json:"workflow"`
}

// workflowClient is one connected progress watcher
type workflowClient struct {
	conn       *websocket.Conn
	send       chan []byte
	workflowID string
	config     WebSocketConfig
	logger     *logger.Logger
}

// WorkflowWebSocketHandler streams workflow progress until the workflow finishes or the client disconnects
func WorkflowWebSocketHandler(workflows Workflows, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get workflow ID from URL
		id := chi.URLParam(r, "id")

		// Reject unknown workflows before upgrading
		if _, err := workflows.Status(r.Context(), id); err != nil {
			if errors.Is(err, optimization.ErrWorkflowNotFound) {
				respondWithError(w, log, http.StatusNotFound, "Workflow not found", nil)
			} else {
				respondWithError(w, log, http.StatusInternalServerError, "Failed to load workflow", err)
			}
			return
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("Failed to upgrade to WebSocket", "workflow_id", id, "error", err)
			return
		}

		client := &workflowClient{
			conn:       conn,
			send:       make(chan []byte, 16),
			workflowID: id,
			config:     DefaultWebSocketConfig(),
			logger:     log,
		}

		ctx, cancel := context.WithCancel(context.Background())
		session := workflows.Watch(ctx, id, client.emit)

		// Start client
		go client.writePump()
		go client.readPump(session, cancel)

		// No more emits once the watch loop has exited
		go func() {
			<-session.Done()
			cancel()
			close(client.send)
		}()

		log.Debug("New workflow progress stream", "workflow_id", id)
	}
}

// emit queues a progress frame without blocking the monitor
func (c *workflowClient) emit(wf optimization.Workflow) error {
	msg := ProgressMessage{Type: "status", Workflow: wf}
	if wf.Status.Terminal() {
		msg.Type = string(wf.Status)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSlowClient
	}
}

// readPump drains client frames and stops the watch when the peer goes away
func (c *workflowClient) readPump(session *workflow.Session, cancel context.CancelFunc) {
	defer func() {
		session.Stop()
		cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", "workflow_id", c.workflowID, "error", err)
			}
			return
		}
	}
}

// writePump is the only writer on the connection
func (c *workflowClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// The watch finished
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "workflow stream closed"))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
