package engine

import (
	"context"

	"go.uber.org/zap"

	"casino_engine/internal/logger"
	"casino_engine/internal/model"
	"casino_engine/internal/monitoring"
)

// settleAsync - расчет из запланированного перехода (тик дилера,
// разбитие краша, таймаут хода). Игры зовут его уже без своих
// мьютексов
func (s *serv) settleAsync(e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settled || e.round == nil || !e.round.Terminal() {
		return
	}
	s.settleLocked(context.Background(), e)
}

// settleLocked выполняет расчет ровно один раз. Вызывается под e.mu
// и только в терминале: начисляет выплату, освобождает игровой слот,
// публикует событие с раскрытым сидом
func (s *serv) settleLocked(ctx context.Context, e *entry) {
	st := e.round.Settlement()

	e.settled = true
	e.outcome = st.Outcome
	e.payout = st.Payout
	e.multiplier = st.Multiplier

	if st.Payout > 0 {
		if _, err := s.ledger.Credit(ctx, e.playerID, st.Payout); err != nil {
			logger.Log.Error("payout credit failed",
				zap.String("round_id", e.id),
				zap.Int("player_id", e.playerID),
				zap.Int64("payout", st.Payout),
				zap.Error(err),
			)
		}
	}

	s.freeSlot(e)

	monitoring.RoundsSettled.WithLabelValues(string(e.game), string(st.Outcome)).Inc()
	monitoring.PayoutTotal.WithLabelValues(string(e.game)).Add(float64(st.Payout))

	if s.sink != nil {
		s.sink.Publish(model.OutcomeEvent{
			RoundID:    e.id,
			PlayerID:   e.playerID,
			Game:       e.game,
			Wager:      e.wager,
			Payout:     st.Payout,
			IsWin:      st.Outcome == model.OutcomeWin,
			Multiplier: st.Multiplier,
			ServerSeed: e.round.Seed(),
		})
	}
}
