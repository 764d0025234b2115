package engine

import (
	"sync"
	"time"

	"casino_engine/internal/events"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/model"
	"casino_engine/internal/service"
	"casino_engine/pkg/rng"
)

// slotKey - слот "одна незавершенная ставка на игру у игрока"
type slotKey struct {
	playerID int
	game     model.GameType
}

// entry - запись движка о раунде. Мьютекс записи дает расчет
// строго один раз: и действие игрока, и запланированный переход
// проходят через него
type entry struct {
	mu sync.Mutex

	id        string
	playerID  int
	game      model.GameType
	wager     int64
	createdAt time.Time

	round game.Round

	settled    bool
	outcome    model.Outcome
	payout     int64
	multiplier float64
}

type serv struct {
	mtx    sync.Mutex
	rounds map[string]*entry
	active map[slotKey]string

	registry game.Registry
	ledger   *ledger.Ledger
	seeds    rng.SeedSource
	sched    game.Scheduler
	sink     events.Sink

	maxBet int64
}

// Deps - зависимости движка
type Deps struct {
	Registry  game.Registry
	Ledger    *ledger.Ledger
	Seeds     rng.SeedSource
	Scheduler game.Scheduler
	Sink      events.Sink
	MaxBet    int64
}

func NewEngineService(deps Deps) service.EngineService {
	return &serv{
		rounds:   make(map[string]*entry),
		active:   make(map[slotKey]string),
		registry: deps.Registry,
		ledger:   deps.Ledger,
		seeds:    deps.Seeds,
		sched:    deps.Scheduler,
		sink:     deps.Sink,
		maxBet:   deps.MaxBet,
	}
}

// lookup находит запись по ID раунда
func (s *serv) lookup(roundID string) (*entry, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	e, ok := s.rounds[roundID]
	return e, ok
}

// freeSlot освобождает игровой слот записи, если он все еще ее
func (s *serv) freeSlot(e *entry) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	key := slotKey{playerID: e.playerID, game: e.game}
	if s.active[key] == e.id {
		delete(s.active, key)
	}
}
