package service

import (
	"casino_engine/internal/model"
	"context"
)

type EngineService interface {
	PlaceBet(ctx context.Context, playerID int, game model.GameType, wager int64, params model.BetParams) (*model.PlaceBetResult, error)
	Act(ctx context.Context, playerID int, roundID string, action model.Action, params model.ActionParams) (*model.RoundState, error)
	GetRoundState(ctx context.Context, roundID string) (*model.RoundState, error)
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, sessionID, refreshToken string) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
