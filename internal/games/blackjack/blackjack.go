package blackjack

import (
	"fmt"
	"sync"
	"time"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Фазы раунда
const (
	PhasePlayerTurn model.Phase = "player_turn"
	PhaseDealerTurn model.Phase = "dealer_turn"
)

const (
	// Дилер добирает до 17
	dealerStandScore = 17
	blackjackScore   = 21
)

var (
	suits = []string{"h", "d", "c", "s"}
	ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

// Config - таймеры раунда
type Config struct {
	// DealerTick - пауза между доборами дилера
	DealerTick time.Duration
	// TurnTimeout - таймаут хода игрока; по истечении форсируется Stand,
	// чтобы брошенная рука всегда разрешалась детерминированно
	TurnTimeout time.Duration
}

// Score считает очки руки: картинки 10, туз 11 с понижением до 1,
// пока счет выше 21 и остается туз, посчитанный как 11
func Score(hand []model.Card) int {
	score := 0
	aces := 0
	for _, c := range hand {
		switch c.Rank {
		case "A":
			score += 11
			aces++
		case "J", "Q", "K", "10":
			score += 10
		default:
			// ранги 2..9
			score += int(c.Rank[0] - '0')
		}
	}
	for score > blackjackScore && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// round - раунд блэкджека. Свежая колода на раунд, добор без
// возврата. Ход дилера идет тиками планировщика, по одной карте
type round struct {
	mu      sync.Mutex
	machine *game.Machine

	seed  string
	wager int64

	deck    []model.Card
	player  []model.Card
	dealer  []model.Card
	natural bool

	sched         game.Scheduler
	cfg           Config
	onTerminal    func()
	cancelTimeout func()
}

func Validate(_ int64, _ model.BetParams) error {
	return nil
}

// New тасует колоду Фишером-Йетсом и раздает по две карты.
// Ставка к этому моменту уже списана: Betting -> PlayerTurn
func New(cfg Config) game.Factory {
	return func(env game.Env, wager int64, _ model.BetParams) (game.Round, error) {
		st := env.Stream()

		deck := make([]model.Card, 0, 52)
		for _, s := range suits {
			for _, r := range ranks {
				deck = append(deck, model.Card{Suit: s, Rank: r})
			}
		}
		st.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

		r := &round{
			machine: game.NewMachine(model.PhaseBetting, map[model.Phase][]model.Phase{
				model.PhaseBetting: {PhasePlayerTurn},
				PhasePlayerTurn:    {PhaseDealerTurn, model.PhaseFinished},
				PhaseDealerTurn:    {model.PhaseFinished},
			}),
			seed:  env.ServerSeed,
			wager: wager,
			deck:  deck,
			sched: env.Scheduler,
			cfg:   cfg,
		}
		r.onTerminal = env.OnTerminal

		// Раздача: игрок, дилер, игрок, дилер
		r.player = append(r.player, r.draw())
		r.dealer = append(r.dealer, r.draw())
		r.player = append(r.player, r.draw())
		r.dealer = append(r.dealer, r.draw())
		r.natural = Score(r.player) == blackjackScore

		if err := r.machine.Transition(PhasePlayerTurn); err != nil {
			return nil, err
		}
		if cfg.TurnTimeout > 0 {
			r.cancelTimeout = r.sched.After(cfg.TurnTimeout, r.forcedStand)
		}
		return r, nil
	}
}

func Definition(cfg Config) game.Definition {
	return game.Definition{
		Type:     model.GameBlackjack,
		Validate: Validate,
		New:      New(cfg),
	}
}

// draw снимает верхнюю карту колоды. Вызывается под мьютексом
// (или до публикации раунда)
func (r *round) draw() model.Card {
	c := r.deck[0]
	r.deck = r.deck[1:]
	return c
}

func (r *round) Phase() model.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Phase()
}

func (r *round) Terminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Terminal()
}

func (r *round) Commit() string {
	return rng.SeedHash(r.seed)
}

func (r *round) Seed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.machine.Terminal() {
		return ""
	}
	return r.seed
}

func (r *round) Act(action model.Action, _ model.ActionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch action {
	case model.ActionHit:
		return r.hit()
	case model.ActionStand:
		return r.stand()
	default:
		return fmt.Errorf("%w: unknown action %q", model.ErrInvalidTransition, action)
	}
}

func (r *round) hit() error {
	if r.machine.Phase() != PhasePlayerTurn {
		return fmt.Errorf("%w: hit is only valid on player turn", model.ErrInvalidTransition)
	}
	r.player = append(r.player, r.draw())
	if Score(r.player) > blackjackScore {
		// Перебор - немедленный проигрыш
		r.stopTimeout()
		return r.machine.Transition(model.PhaseFinished)
	}
	return nil
}

func (r *round) stand() error {
	if err := r.machine.Transition(PhaseDealerTurn); err != nil {
		return err
	}
	r.stopTimeout()
	r.sched.After(r.cfg.DealerTick, r.dealerTick)
	return nil
}

// forcedStand разрешает брошенную руку: таймаут хода равносилен Stand
func (r *round) forcedStand() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.machine.Phase() != PhasePlayerTurn {
		return
	}
	_ = r.stand()
}

// dealerTick - один шаг добора дилера: по карте за тик до 17
func (r *round) dealerTick() {
	r.mu.Lock()
	if r.machine.Phase() != PhaseDealerTurn {
		r.mu.Unlock()
		return
	}
	if Score(r.dealer) < dealerStandScore {
		r.dealer = append(r.dealer, r.draw())
		r.sched.After(r.cfg.DealerTick, r.dealerTick)
		r.mu.Unlock()
		return
	}
	_ = r.machine.Transition(model.PhaseFinished)
	done := r.onTerminal
	// onTerminal зовем без мьютекса: движок внутри расчета
	// снова обращается к раунду
	r.mu.Unlock()
	if done != nil {
		done()
	}
}

func (r *round) stopTimeout() {
	if r.cancelTimeout != nil {
		r.cancelTimeout()
		r.cancelTimeout = nil
	}
}

func (r *round) View() model.GameView {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := &model.BlackjackState{
		PlayerCards: append([]model.Card(nil), r.player...),
		PlayerScore: Score(r.player),
		IsNatural:   r.natural,
	}
	if r.machine.Phase() == PhasePlayerTurn {
		// Хоул-карта дилера скрыта до его хода
		st.DealerCards = []model.Card{r.dealer[0]}
		st.DealerScore = Score(r.dealer[:1])
		st.HoleHidden = true
	} else {
		st.DealerCards = append([]model.Card(nil), r.dealer...)
		st.DealerScore = Score(r.dealer)
	}
	return model.GameView{Blackjack: st}
}

// Settlement: перебор игрока - проигрыш; перебор дилера или больший
// счет - выигрыш 2x; равенство - возврат ставки. Натуральные 21
// платятся как обычный выигрыш, флаг IsNatural оставляет это видимым
func (r *round) Settlement() model.Settlement {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps := Score(r.player)
	ds := Score(r.dealer)

	switch {
	case ps > blackjackScore:
		return model.Settlement{Outcome: model.OutcomeLose}
	case ds > blackjackScore || ps > ds:
		return model.Settlement{Outcome: model.OutcomeWin, Payout: r.wager * 2, Multiplier: 2}
	case ps == ds:
		return model.Settlement{Outcome: model.OutcomePush, Payout: r.wager, Multiplier: 1}
	default:
		return model.Settlement{Outcome: model.OutcomeLose}
	}
}
