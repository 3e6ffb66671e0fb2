package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/powerranking-app/powerranking/internal/types"
	"github.com/powerranking-app/powerranking/internal/utils"
)

var (
	groupClients   = make(map[string]map[*websocket.Conn]bool)
	groupClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastGroupRefresh tells every live connection for a group to refetch.
// Called after membership changes so open group views stay current.
func BroadcastGroupRefresh(groupID string) {
	groupClientsMu.RLock()
	clients, exists := groupClients[groupID]
	if !exists || len(clients) == 0 {
		groupClientsMu.RUnlock()
		return
	}

	// Copy the connections so the lock is not held while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	groupClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":     "refresh",
			"message":  "Group data updated",
			"group_id": groupID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			groupClientsMu.Lock()
			if clients, exists := groupClients[groupID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(groupClients, groupID)
				}
			}
			groupClientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	groupID, err := utils.GetGroupID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isGroupMember(uint(groupID), userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open connection"})
		return
	}

	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return
	}

	key := strconv.FormatUint(groupID, 10)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	groupClientsMu.Lock()
	if groupClients[key] == nil {
		groupClients[key] = make(map[*websocket.Conn]bool)
	}
	groupClients[key][conn] = true
	groupClientsMu.Unlock()

	defer func() {
		groupClientsMu.Lock()

		if clients, exists := groupClients[key]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(groupClients, key)
			}
		}

		groupClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for group %s", key)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":     "connected",
		"message":  "WebSocket connection established",
		"group_id": key,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for group %s: %v", key, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for group %s: %v", key, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for group %s: %v", key, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for group %s: %v", key, err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			log.Printf("Received message from client in group %s: %s", key, string(message))
		}
	}
}
