package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sanjayy-s/asl-backend/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeTournamentFeed upgrades the connection and subscribes it to the
// tournament's live event room.
func (h *WebSocketHandler) ServeTournamentFeed(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "tournamentID")
	if room == "" {
		http.Error(w, "missing tournament id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, room)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
