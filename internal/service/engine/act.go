package engine

import (
	"context"
	"fmt"

	"casino_engine/internal/model"
)

// Act применяет действие игрока к его раунду. Повторное действие
// на рассчитанном раунде - ErrInvalidTransition, второго расчета
// не бывает
func (s *serv) Act(ctx context.Context, playerID int, roundID string, action model.Action, params model.ActionParams) (*model.RoundState, error) {
	e, ok := s.lookup(roundID)
	if !ok || e.playerID != playerID {
		// Чужие раунды неотличимы от несуществующих
		return nil, fmt.Errorf("%w: %s", model.ErrRoundNotFound, roundID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settled {
		return nil, fmt.Errorf("%w: round is settled", model.ErrInvalidTransition)
	}

	if err := e.round.Act(action, params); err != nil {
		return nil, err
	}

	// Действие довело раунд до терминала - рассчитываем сразу
	if !e.settled && e.round.Terminal() {
		s.settleLocked(ctx, e)
	}

	st := s.stateLocked(e)
	return &st, nil
}
