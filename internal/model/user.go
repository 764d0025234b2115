package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// User - игрок. Создается при первом подключении, никогда не удаляется.
// Баланс мутируется только через Ledger
type User struct {
	ID       int
	Name     string
	Login    string
	Password string
	Balance  int64
}

type UserClaims struct {
	jwt.RegisteredClaims
}

type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}
