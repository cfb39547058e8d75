package handlers

import (
	"log/slog"
	"net/http"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/brackets"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *brackets.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler принимает список разрешенных Origin; "*" разрешает все.
func NewWebSocketHandler(hub *brackets.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// ServeWs подписывает клиента на обновления одного вида брекетов.
// Клиент подключается к /ws/brkts/{brktID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту
		h.logger.Warn("websocket upgrade failed", slog.String("brkt_id", brktID), slog.Any("error", err))
		return
	}

	roomID := brackets.RoomForBrkt(brktID)
	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	if !h.hub.Join(client) {
		h.logger.Warn("websocket hub stopped, dropping client", slog.String("room", roomID))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client registered", slog.String("room", roomID))
}
