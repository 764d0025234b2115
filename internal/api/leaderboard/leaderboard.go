package leaderboard

import (
	"net/http"
	"strconv"

	"casino_engine/internal/events"
	"casino_engine/pkg/resp"
)

const defaultTop = 10

type HandlerDeps struct {
	Board *events.Leaderboard
}

type Handler struct {
	board *events.Leaderboard
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{board: deps.Board}
}

// Top отдает n лучших игроков по чистому выигрышу
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	n := defaultTop
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	resp.WriteJSONResponse(w, http.StatusOK, h.board.Top(n))
}
