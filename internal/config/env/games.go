package env

import (
	"casino_engine/internal/config"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Дефолты на случай отсутствия config.yaml
const (
	defaultMaxBet          = int64(100_000)
	defaultStartingBalance = int64(10_000)
	defaultCrashCountdown  = 5 * time.Second
	defaultCrashGrowthRate = 0.07
	defaultDealerTick      = time.Second
	defaultTurnTimeout     = 30 * time.Second
)

type gamesYAML struct {
	Engine struct {
		MaxBet          int64 `yaml:"max_bet"`
		StartingBalance int64 `yaml:"starting_balance"`
	} `yaml:"engine"`
	Crash struct {
		Countdown  string  `yaml:"countdown"`
		GrowthRate float64 `yaml:"growth_rate"`
	} `yaml:"crash"`
	Blackjack struct {
		DealerTick  string `yaml:"dealer_tick"`
		TurnTimeout string `yaml:"turn_timeout"`
	} `yaml:"blackjack"`
}

// parseDuration разбирает строку длительности, пустая строка дает def
func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

type gamesConfig struct {
	maxBet          int64
	startingBalance int64
	crashCountdown  time.Duration
	crashGrowthRate float64
	dealerTick      time.Duration
	turnTimeout     time.Duration
}

// NewGamesConfigFromYAML читает игровые настройки из config.yaml.
// Отсутствующий файл не ошибка: работаем на дефолтах
func NewGamesConfigFromYAML(path string) (config.GamesConfig, error) {
	cfg := &gamesConfig{
		maxBet:          defaultMaxBet,
		startingBalance: defaultStartingBalance,
		crashCountdown:  defaultCrashCountdown,
		crashGrowthRate: defaultCrashGrowthRate,
		dealerTick:      defaultDealerTick,
		turnTimeout:     defaultTurnTimeout,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read games config: %w", err)
	}

	var parsed gamesYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse games config: %w", err)
	}

	if parsed.Engine.MaxBet > 0 {
		cfg.maxBet = parsed.Engine.MaxBet
	}
	if parsed.Engine.StartingBalance > 0 {
		cfg.startingBalance = parsed.Engine.StartingBalance
	}
	if parsed.Crash.GrowthRate > 0 {
		cfg.crashGrowthRate = parsed.Crash.GrowthRate
	}

	cfg.crashCountdown, err = parseDuration(parsed.Crash.Countdown, defaultCrashCountdown)
	if err != nil {
		return nil, fmt.Errorf("invalid crash countdown: %w", err)
	}
	cfg.dealerTick, err = parseDuration(parsed.Blackjack.DealerTick, defaultDealerTick)
	if err != nil {
		return nil, fmt.Errorf("invalid blackjack dealer tick: %w", err)
	}
	cfg.turnTimeout, err = parseDuration(parsed.Blackjack.TurnTimeout, defaultTurnTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid blackjack turn timeout: %w", err)
	}

	return cfg, nil
}

func (cfg *gamesConfig) MaxBet() int64 {
	return cfg.maxBet
}

func (cfg *gamesConfig) StartingBalance() int64 {
	return cfg.startingBalance
}

func (cfg *gamesConfig) CrashCountdown() time.Duration {
	return cfg.crashCountdown
}

func (cfg *gamesConfig) CrashGrowthRate() float64 {
	return cfg.crashGrowthRate
}

func (cfg *gamesConfig) BlackjackDealerTick() time.Duration {
	return cfg.dealerTick
}

func (cfg *gamesConfig) BlackjackTurnTimeout() time.Duration {
	return cfg.turnTimeout
}
