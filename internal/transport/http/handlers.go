package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pixelduel/internal/store"
)

// UserStore is the slice of the store the REST surface needs.
type UserStore interface {
	Ping(ctx context.Context) error
	UpsertUser(ctx context.Context, userID, username string) error
	GetUserStats(ctx context.Context, userID string) (store.UserStats, error)
}

type Handlers struct {
	users UserStore
}

func NewHandlers(users UserStore) *Handlers {
	return &Handlers{users: users}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.users.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h *Handlers) UpsertUser() http.HandlerFunc {
	type request struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Username == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing userId or username"})
			return
		}
		if err := h.users.UpsertUser(r.Context(), req.UserID, req.Username); err != nil {
			log.Error().Err(err).Str("user_id", req.UserID).Msg("user upsert failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": req.Username})
	}
}

// userStatsResponse keeps a null username for unknown users.
type userStatsResponse struct {
	Username *string `json:"username"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Draws    int     `json:"draws"`
}

// UserStats returns a zero-value body for unknown users rather than a 404.
func (h *Handlers) UserStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		st, err := h.users.GetUserStats(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Error().Err(err).Str("user_id", userID).Msg("user stats fetch failed")
			}
			writeJSON(w, http.StatusOK, userStatsResponse{})
			return
		}
		writeJSON(w, http.StatusOK, userStatsResponse{
			Username: &st.Username,
			Wins:     st.Wins,
			Losses:   st.Losses,
			Draws:    st.Draws,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
