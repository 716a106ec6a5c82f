package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the router middleware
	},
}

// WSMessage is the envelope for all chat messages in both directions.
type WSMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleWebSocket upgrades the connection and runs the chat session: each
// inbound query message produces one answer message on the same connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}

	sess := &wsSession{
		server: s,
		conn:   conn,
		send:   make(chan WSMessage, 8),
	}
	go sess.writePump()
	sess.readPump(r.Context())
}

type wsSession struct {
	server *Server
	conn   *websocket.Conn
	send   chan WSMessage
}

func (ws *wsSession) readPump(ctx context.Context) {
	defer func() {
		close(ws.send)
		ws.conn.Close()
	}()

	ws.conn.SetReadLimit(maxMessageSize)
	ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	ws.conn.SetPongHandler(func(string) error {
		ws.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("api: websocket read: %v", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			ws.send <- WSMessage{Type: "pong"}
		case "query":
			ws.handleQuery(ctx, msg)
		default:
			ws.send <- WSMessage{Type: "error", Error: "unknown message type: " + msg.Type}
		}
	}
}

func (ws *wsSession) handleQuery(ctx context.Context, msg WSMessage) {
	if msg.Query == "" {
		ws.send <- WSMessage{Type: "error", Error: "query is required"}
		return
	}

	ws.send <- WSMessage{Type: "status", Data: "processing"}

	answer, err := ws.server.orch.Answer(ctx, msg.Query)
	if err != nil {
		log.Printf("api: websocket query failed: %v", err)
		ws.send <- WSMessage{Type: "error", Error: "failed to process query"}
		return
	}
	ws.send <- WSMessage{Type: "answer", Data: answer}
}

func (ws *wsSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-ws.send:
			ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
