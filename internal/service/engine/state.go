package engine

import (
	"context"
	"fmt"

	"casino_engine/internal/model"
)

// GetRoundState возвращает публичное состояние раунда: скрытые
// карты, мины и точка разбития фильтруются самой игрой
func (s *serv) GetRoundState(_ context.Context, roundID string) (*model.RoundState, error) {
	e, ok := s.lookup(roundID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrRoundNotFound, roundID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st := s.stateLocked(e)
	return &st, nil
}

// stateLocked собирает снапшот записи. Вызывается под e.mu
func (s *serv) stateLocked(e *entry) model.RoundState {
	return model.RoundState{
		RoundID:    e.id,
		PlayerID:   e.playerID,
		Game:       e.game,
		Phase:      e.round.Phase(),
		Wager:      e.wager,
		Payout:     e.payout,
		Outcome:    e.outcome,
		Multiplier: e.multiplier,
		CommitHash: e.round.Commit(),
		ServerSeed: e.round.Seed(),
		CreatedAt:  e.createdAt,
		View:       e.round.View(),
	}
}
