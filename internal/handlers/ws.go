package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"podstudio/internal/models"
	"podstudio/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The tma init data check in the auth middleware already gates the
	// upgrade, so origin is not checked here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

// cursorMessage is the only message clients send over the socket: a cursor
// move, which doubles as an immediate heartbeat.
type cursorMessage struct {
	Cursor *models.CursorPosition `json:"cursor"`
}

// ServeEpisodeWS attaches a client to an episode's realtime stream. While
// the socket is open the client receives change events for the episode and
// its own notifications, and its presence row is heartbeat on its behalf.
func (h *Handlers) ServeEpisodeWS(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.Subscribe(realtime.EpisodeTopic(id), realtime.UserTopic(user.ID))
	done := make(chan struct{})

	go h.tracker.Attach(user.ID, id, done)
	go h.writeEvents(conn, sub, done)
	h.readCursor(conn, user.ID, id, done)
}

// readCursor consumes the socket until it closes. Cursor messages trigger an
// immediate heartbeat with the new position; everything else is discarded.
func (h *Handlers) readCursor(conn *websocket.Conn, userID int64, episodeID int, done chan struct{}) {
	defer close(done)
	defer conn.Close()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg cursorMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error for user %d: %v", userID, err)
			}
			return
		}
		if msg.Cursor != nil {
			if err := h.tracker.Heartbeat(userID, episodeID, msg.Cursor); err != nil {
				log.Printf("Cursor heartbeat failed for user %d: %v", userID, err)
			}
		}
	}
}

// writeEvents forwards hub events to the socket and keeps the connection
// alive with pings.
func (h *Handlers) writeEvents(conn *websocket.Conn, sub *realtime.Subscription, done <-chan struct{}) {
	defer sub.Close()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
