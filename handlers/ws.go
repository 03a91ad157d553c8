package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/credline/backoffice-api/models"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so proxies don't drop idle back-office tabs
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		sessionID, _ := s.Get("session_id")
		log.Printf("✅ Client connected to session: %v", sessionID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		sessionID, _ := s.Get("session_id")
		log.Printf("🔌 Client disconnected from session: %v", sessionID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and ties the connection to a batch session.
// The session ID travels as a connection key because HandleRequestWithKeys
// blocks for the connection's whole lifetime.
func (h *WSHandler) HandleWS(c *gin.Context) {
	sessionID := c.Param("id")

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastState pushes a state transition to every client watching the
// session.
func (h *WSHandler) BroadcastState(sessionID string, state models.SessionState) {
	msg := []byte(`{"session_id": "` + sessionID + `", "state": "` + string(state) + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("session_id")
		return exists && id == sessionID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to session %s: %v", sessionID, err)
	}
}
