package repository

import (
	"casino_engine/internal/model"
	"context"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)

	GetBalance(ctx context.Context, id int) (int64, error)
	// DebitBalance атомарно проверяет и списывает amount.
	// При нехватке средств возвращает model.ErrInsufficientFunds
	DebitBalance(ctx context.Context, id int, amount int64) (newBalance int64, err error)
	CreditBalance(ctx context.Context, id int, amount int64) (newBalance int64, err error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}
