package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"tush00nka/bbbab_chat/internal/pkg/httputils"
	"tush00nka/bbbab_chat/internal/ws"
)

// WSHandler upgrades /ws requests and hands the connections to the hub.
type WSHandler struct {
	hub      *ws.Hub
	upgrader *websocket.Upgrader
	log      *slog.Logger
}

func NewWSHandler(hub *ws.Hub, upgrader *websocket.Upgrader, log *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, upgrader: upgrader, log: log}
}

func (h *WSHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.serveWS).Methods("GET")
}

// RegisterAPIRoutes mounts the hub counters under the /api subrouter.
func (h *WSHandler) RegisterAPIRoutes(api *mux.Router) {
	api.HandleFunc("/ws/stats", h.stats).Methods("GET")
}

// stats
// @Summary Realtime hub counters
// @Description Live connections and frame counters since startup
// @Tags system
// @Produce json
// @Success 200 {object} ws.HubStats
// @Router /ws/stats [get]
func (h *WSHandler) stats(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, http.StatusOK, h.hub.Stats())
}

// serveWS streams NEW_MESSAGE and NEW_CONVERSATION events to the client.
func (h *WSHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	// Upgrade writes the 4xx response itself on failure.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := ws.NewClient(h.hub, conn)
	if !h.hub.Register(client) {
		client.Close()
		return
	}

	go func() {
		if err := client.WritePump(); err != nil {
			h.log.Debug("ws write stopped", "client_id", client.ID, "error", err)
		}
	}()
	client.ReadPump()
}
