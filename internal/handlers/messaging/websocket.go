package messaging

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const pingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	// Les origines sont déjà filtrées par le middleware CORS
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MessageStream : GET /api/ws/messages/:userId (authentifié)
// Relaie en temps réel les messages publiés sur Redis pour ce destinataire,
// qui doit être l'utilisateur du jeton.
func (h *Handler) MessageStream(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId parameter"})
		return
	}
	if userID != c.GetString("user_id") {
		log.Printf("⛔ WebSocket refusée : %s demande les messages de %s", c.GetString("user_id"), userID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot subscribe to another user's messages"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.cache.SubscribeMessages(ctx, userID)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("❌ Abonnement Redis pour %s: %v", userID, err)
		return
	}
	ch := pubsub.Channel()

	// Lecture côté client : seule la fermeture nous intéresse
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "connected", "userId": userID}); err != nil {
		return
	}
	log.Printf("🔌 WebSocket messages ouvert pour %s", userID)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("🔌 WebSocket messages fermé pour %s", userID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
