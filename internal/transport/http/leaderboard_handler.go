package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Croissanton/Quiziosity/internal/app"
	"github.com/Croissanton/Quiziosity/internal/domain"
)

// LeaderboardHandler serves the persisted best scores as JSON.
type LeaderboardHandler struct {
	service *app.GameService
}

func NewLeaderboardHandler(service *app.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

type userView struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	offset := intParam(r, "offset", 0)
	limit := intParam(r, "limit", 10)

	users, err := h.service.TopScores(r.Context(), offset, limit)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Users []userView `json:"users"`
	}{Users: toViews(users)})
}

func toViews(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{Username: u.Username, Score: u.Score})
	}
	return views
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
