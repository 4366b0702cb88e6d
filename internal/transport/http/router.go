package httptransport

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pixelduel/internal/counter"
	"pixelduel/internal/ws"
)

// NewRouter wires the REST surface and both websocket endpoints. The counter
// service is optional; without redis the route is simply absent.
func NewRouter(users UserStore, game *ws.Server, cnt *counter.Service) *chi.Mux {
	h := NewHandlers(users)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware)

	r.With(apiLogMiddleware()).Get("/healthz", h.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Post("/user", h.UpsertUser())
		r.Get("/user/{userID}", h.UserStats())
	})

	r.Get("/ws", game.HandleWS)
	if cnt != nil {
		r.Get("/ws/counter/{lobbyID}", cnt.HandleWS)
	}
	return r
}
