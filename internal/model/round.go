package model

import "time"

// GameType - тип игры
type GameType string

const (
	GameBlackjack GameType = "blackjack"
	GameDice      GameType = "dice"
	GameSlots     GameType = "slots"
	GameRoulette  GameType = "roulette"
	GameCrash     GameType = "crash"
	GameMines     GameType = "mines"
)

// Phase - фаза конечного автомата раунда. Конкретные значения
// объявляют пакеты игр, общие - здесь.
type Phase string

const (
	PhaseBetting  Phase = "betting"
	PhaseFinished Phase = "finished"
)

// Action - действие игрока внутри раунда
type Action string

const (
	ActionHit     Action = "hit"
	ActionStand   Action = "stand"
	ActionCashOut Action = "cash_out"
	ActionReveal  Action = "reveal"
)

// Outcome - исход завершенного раунда
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
)

// BetParams - параметры ставки. Каждая игра читает только свои поля
type BetParams struct {
	// ClientSeed - клиентская часть сида для provably fair потока (любая игра)
	ClientSeed string
	// Prediction - порог для Dice, exclusive границы (2,98)
	Prediction float64
	// Color - цвет ставки для Roulette: red, black, green
	Color string
	// MineCount - количество мин для Mines
	MineCount int
}

// ActionParams - параметры действия игрока
type ActionParams struct {
	// CellIndex - индекс ячейки 0..24 для Mines RevealCell
	CellIndex int
}

// Settlement - результат расчета терминального состояния.
// Payout уже со знаком "к зачислению": проигрыш выражен нулем,
// списание ставки произошло при создании раунда.
type Settlement struct {
	Outcome    Outcome
	Payout     int64
	Multiplier float64
}

// Card - игральная карта (Blackjack)
type Card struct {
	Suit string `json:"suit"` // h, d, c, s
	Rank string `json:"rank"` // 2..10, J, Q, K, A
}

// BlackjackState - публичное состояние раунда блэкджека.
// До DealerTurn виден только первый дилерский карт, остальное скрыто.
type BlackjackState struct {
	PlayerCards []Card `json:"player_cards"`
	DealerCards []Card `json:"dealer_cards"`
	PlayerScore int    `json:"player_score"`
	DealerScore int    `json:"dealer_score"`
	HoleHidden  bool   `json:"hole_hidden"`
	IsNatural   bool   `json:"is_natural"` // натуральные 21 помечаются, но платятся как обычный выигрыш
}

// DiceState - публичное состояние раунда дайсов
type DiceState struct {
	Prediction float64 `json:"prediction"`
	Roll       float64 `json:"roll"`
	Multiplier float64 `json:"multiplier"`
}

// SlotsState - публичное состояние спина слотов
type SlotsState struct {
	Reels      [3]string `json:"reels"`
	Multiplier int       `json:"multiplier"`
}

// RouletteState - публичное состояние раунда рулетки
type RouletteState struct {
	BetColor string `json:"bet_color"`
	Color    string `json:"color"`
	Slot     int    `json:"slot"` // номер слота 0..36, косметика
}

// CrashState - публичное состояние ставки в краше
type CrashState struct {
	TablePhase Phase   `json:"table_phase"`
	Multiplier float64 `json:"multiplier"`  // зафиксированный на кешауте либо 0
	CrashPoint float64 `json:"crash_point"` // 0 до тех пор, пока раунд не разбился
}

// MinesState - публичное состояние раунда минера
type MinesState struct {
	MineCount    int      `json:"mine_count"`
	Revealed     [25]bool `json:"revealed"`
	SafeRevealed int      `json:"safe_revealed"`
	Multiplier   float64  `json:"multiplier"`
	Mines        []int    `json:"mines,omitempty"` // раскрывается только в терминале
}

// GameView - игрозависимая часть публичного состояния.
// Заполнен ровно один указатель
type GameView struct {
	Blackjack *BlackjackState `json:"blackjack,omitempty"`
	Dice      *DiceState      `json:"dice,omitempty"`
	Slots     *SlotsState     `json:"slots,omitempty"`
	Roulette  *RouletteState  `json:"roulette,omitempty"`
	Crash     *CrashState     `json:"crash,omitempty"`
	Mines     *MinesState     `json:"mines,omitempty"`
}

// RoundState - публичное состояние раунда, отдаваемое наружу
type RoundState struct {
	RoundID    string
	PlayerID   int
	Game       GameType
	Phase      Phase
	Wager      int64
	Payout     int64
	Outcome    Outcome // пустой до терминала
	Multiplier float64
	CommitHash string // sha256 серверного сида, фиксируется при приеме ставки
	ServerSeed string // пустой до терминала
	CreatedAt  time.Time
	View       GameView
}

// PlaceBetResult - результат приема ставки
type PlaceBetResult struct {
	RoundID    string
	CommitHash string
	Balance    int64
}

// OutcomeEvent - событие завершения раунда для Event Sink
// (лидерборд, фид). ServerSeed раскрывается только здесь.
type OutcomeEvent struct {
	RoundID    string   `json:"round_id"`
	PlayerID   int      `json:"player_id"`
	Game       GameType `json:"game"`
	Wager      int64    `json:"wager"`
	Payout     int64    `json:"payout"`
	IsWin      bool     `json:"is_win"`
	Multiplier float64  `json:"multiplier,omitempty"`
	ServerSeed string   `json:"server_seed"`
}
