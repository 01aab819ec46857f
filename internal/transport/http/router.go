package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"pixel-poll-service/internal/app"
)

// NewRouter wires the HTTP checks and the room socket onto one handler.
func NewRouter(service *app.RoomService, hub *Hub, allowedOrigins string) http.Handler {
	api := NewAPIHandler(service)
	ws := NewWSHandler(service, hub)

	r := mux.NewRouter()
	r.Use(corsMiddleware(allowedOrigins))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Pixel Poll Backend API"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/room-availability", api.Availability).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/room-joinability", api.Joinability).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{roomName}/standings", api.Standings).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ws/room/{roomName}", ws.ServeWS).Methods(http.MethodGet)

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
