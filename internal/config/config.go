package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// GamesConfig - игровые настройки движка из config.yaml
type GamesConfig interface {
	MaxBet() int64
	StartingBalance() int64
	CrashCountdown() time.Duration
	CrashGrowthRate() float64
	BlackjackDealerTick() time.Duration
	BlackjackTurnTimeout() time.Duration
}
