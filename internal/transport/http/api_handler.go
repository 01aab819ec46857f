package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"pixel-poll-service/internal/app"
	"pixel-poll-service/internal/domain"
)

// APIHandler serves the pre-flight checks clients run before opening a socket.
type APIHandler struct {
	service *app.RoomService
}

func NewAPIHandler(service *app.RoomService) *APIHandler {
	return &APIHandler{service: service}
}

// Availability handles GET /room-availability?room-name=
func (h *APIHandler) Availability(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room-name")
	if roomName == "" {
		writeJSON(w, http.StatusBadRequest, domain.Availability{Reason: "room name is required"})
		return
	}
	writeJSON(w, http.StatusOK, h.service.CheckNameAvailable(roomName))
}

// Joinability handles GET /room-joinability?room-name=&username=
func (h *APIHandler) Joinability(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room-name")
	username := r.URL.Query().Get("username")
	if roomName == "" || username == "" {
		writeJSON(w, http.StatusBadRequest, domain.Eligibility{Reason: "room name and username are required"})
		return
	}
	writeJSON(w, http.StatusOK, h.service.CheckJoinEligible(roomName, username))
}

// Standings handles GET /rooms/{roomName}/standings
func (h *APIHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Standings(mux.Vars(r)["roomName"])
	if errors.Is(err, domain.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"standings": standings})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
