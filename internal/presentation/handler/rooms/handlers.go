package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classpulse/classpulse/classroom"
	"github.com/classpulse/classpulse/internal/infrastructure/json"
	"github.com/classpulse/classpulse/internal/infrastructure/logging"
	"github.com/classpulse/classpulse/internal/infrastructure/validate"
	"github.com/classpulse/classpulse/internal/infrastructure/ws"
)

type Handler struct {
	roomManager *ws.RoomManager
	core        *ws.Core
	logger      logging.Logger

	validateRoomKey validate.Validator
	validatePeerID  validate.Validator
}

func NewHandler(roomManager *ws.RoomManager, core *ws.Core, logger logging.Logger) *Handler {
	return &Handler{
		roomManager:     roomManager,
		core:            core,
		logger:          logger,
		validateRoomKey: validate.RoomKey(),
		validatePeerID:  validate.PeerID(),
	}
}

// JoinRoomHandler upgrades the connection and attaches the peer to a room.
// Anyone who knows the room key may join; there are no accounts.
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomKey := classroom.NormalizeRoomKey(chi.URLParam(r, "roomKey"))
	if err := h.validateRoomKey(roomKey); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	peerID := r.URL.Query().Get("peer")
	if err := h.validatePeerID(peerID); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	conn, err := h.roomManager.Upgrade(w, r)
	if err != nil {
		h.logger.Error(logging.Relay, logging.Join, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.RoomKey:      roomKey,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, peerID, roomKey)
	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)
}

// GetRoomHandler reports live occupancy for a room.
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomKey := classroom.NormalizeRoomKey(chi.URLParam(r, "roomKey"))

	topic, err := classroom.TopicFor(roomKey)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	count := h.roomManager.PeerCount(roomKey)
	if count == 0 {
		json.WriteError(w, http.StatusNotFound, errors.New("room not found"), "No peers are connected to this room")
		return
	}

	json.Write(w, http.StatusOK, roomResponse{
		Key:       roomKey,
		Topic:     topic,
		PeerCount: count,
	})
}
