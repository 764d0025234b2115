package engine

import (
	dto "casino_engine/internal/api/dto/engine"
	"casino_engine/internal/converter"
	"casino_engine/internal/middleware"
	"casino_engine/internal/model"
	"casino_engine/internal/service"
	"casino_engine/pkg/req"
	"casino_engine/pkg/resp"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.EngineService
}

type Handler struct {
	serv service.EngineService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// statusFromError отображает ошибки движка в HTTP статусы
func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, model.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, model.ErrEntropyUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrRoundNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PlaceBet принимает ставку на указанную игру
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.PlaceBetRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user id not found in context", http.StatusUnauthorized)
		return
	}

	result, err := h.serv.PlaceBet(
		r.Context(),
		userID,
		model.GameType(payload.Game),
		payload.Wager,
		converter.ToBetParams(payload),
	)
	if err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToPlaceBetResponse(*result))
}

// Act применяет действие игрока к раунду
func (h *Handler) Act(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.ActRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user id not found in context", http.StatusUnauthorized)
		return
	}

	state, err := h.serv.Act(
		r.Context(),
		userID,
		chi.URLParam(r, "roundID"),
		model.Action(payload.Action),
		model.ActionParams{CellIndex: payload.CellIndex},
	)
	if err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToRoundStateResponse(*state))
}

// RoundState отдает публичное состояние раунда
func (h *Handler) RoundState(w http.ResponseWriter, r *http.Request) {
	state, err := h.serv.GetRoundState(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToRoundStateResponse(*state))
}
