package engine

type PlaceBetRequest struct {
	Game       string  `json:"game"`        // blackjack, dice, slots, roulette, crash, mines
	Wager      int64   `json:"wager"`       // Размер ставки (положительное целое, >0)
	ClientSeed string  `json:"client_seed"` // Клиентская часть сида (опционально)
	Prediction float64 `json:"prediction"`  // Dice: порог в (2,98)
	Color      string  `json:"color"`       // Roulette: red, black, green
	MineCount  int     `json:"mine_count"`  // Mines: количество мин 1-24
}

type PlaceBetResponse struct {
	RoundID    string `json:"round_id"`
	CommitHash string `json:"commit_hash"` // sha256 серверного сида
	Balance    int64  `json:"balance"`     // Баланс после списания
}

type ActRequest struct {
	Action    string `json:"action"`     // hit, stand, cash_out, reveal
	CellIndex int    `json:"cell_index"` // Mines: ячейка 0-24
}

type RoundStateResponse struct {
	RoundID    string      `json:"round_id"`
	Game       string      `json:"game"`
	Phase      string      `json:"phase"`
	Wager      int64       `json:"wager"`
	Payout     int64       `json:"payout"`
	Outcome    string      `json:"outcome,omitempty"`
	Multiplier float64     `json:"multiplier,omitempty"`
	CommitHash string      `json:"commit_hash"`
	ServerSeed string      `json:"server_seed,omitempty"` // раскрывается после расчета
	View       interface{} `json:"view"`
}
