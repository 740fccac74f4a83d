package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/linkbase/internal/bot"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type    string   `json:"type"` // "response" or "error"
	Replies []string `json:"replies,omitempty"`
	Content string   `json:"content,omitempty"`
}

// handleWebSocket runs an interactive chat session: each inbound message is
// routed through the bot flow and the replies are written back in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}
		if req.UserID == "" || req.Content == "" {
			s.sendWSError(conn, "user_id and content are required")
			continue
		}

		replies, err := s.bot.Handle(r.Context(), bot.Incoming{UserID: req.UserID, Text: req.Content})
		if err != nil {
			s.sendWSError(conn, "processing failed: "+err.Error())
			continue
		}

		if err := conn.WriteJSON(wsResponse{Type: "response", Replies: replies}); err != nil {
			log.Printf("server: websocket write: %v", err)
			return
		}
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(wsResponse{Type: "error", Content: message}); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
