package auth

import (
	"casino_engine/internal/config"
	"casino_engine/internal/repository"
	"casino_engine/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	authRepo  repository.AuthRepository
	jwtConfig config.JWTConfig

	// Стартовый баланс нового игрока: счет создается при регистрации
	startingBalance int64
}

func NewAuthService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
	startingBalance int64,
) service.AuthService {
	return &serv{
		txManager:       txManager,
		userRepo:        userRepo,
		authRepo:        authRepo,
		jwtConfig:       jwtConfig,
		startingBalance: startingBalance,
	}
}

func generateSessionID() string {
	return uuid.NewString()
}
