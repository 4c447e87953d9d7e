package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// upgrader configures the WebSocket handshake.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // auth is handled at the HTTP layer
	},
}

// wsConn serializes writes; gorilla allows one concurrent writer.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) send(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteMessage(websocket.TextMessage, data)
}

// handleWebSocket upgrades the connection and serves requests until the
// client goes away. Each request is delivered on its own goroutine because
// a notification with actions blocks until the user answers.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn := &wsConn{Conn: raw}
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("relay client connected")

	// Pending deliveries are cancelled when the client disconnects.
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		var wg sync.WaitGroup
		defer func() {
			cancel()
			wg.Wait()
			conn.Close()
			s.log.Debug().Str("remote", r.RemoteAddr).Msg("relay client disconnected")
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
				) {
					s.log.Warn().Err(err).Msg("relay read error")
				}
				return
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				s.handleClientMessage(ctx, conn, msg)
			}()
		}
	}()
}

// handleClientMessage processes a single incoming message.
func (s *Server) handleClientMessage(ctx context.Context, conn *wsConn, raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.sendError(conn, "", "invalid JSON: "+err.Error())
		return
	}

	switch req.Type {
	case TypeNotify:
		if req.Notification.Title == "" {
			s.sendError(conn, req.ID, "notification title is required")
			return
		}
		if !s.allow() {
			s.sendError(conn, req.ID, "rate limit exceeded")
			return
		}
		res := s.sender.Send(ctx, req.Notification)
		if err := conn.send(Response{Type: TypeResult, ID: req.ID, Result: &res}); err != nil {
			s.log.Warn().Err(err).Str("id", req.ID).Msg("failed to write relay result")
		}
	default:
		s.sendError(conn, req.ID, "unknown message type: "+req.Type)
	}
}

func (s *Server) sendError(conn *wsConn, id, message string) {
	if err := conn.send(Response{Type: TypeError, ID: id, Message: message}); err != nil {
		s.log.Warn().Err(err).Msg("failed to write relay error")
	}
}
