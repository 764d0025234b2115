package mem_auth_repo

import (
	"casino_engine/internal/model"
	"casino_engine/internal/repository"
	"context"
	"errors"
	"sync"
)

// Хранилище сессий в памяти для режима без Postgres
type repo struct {
	mtx      sync.Mutex
	sessions map[string]*model.Session
	users    repository.UserRepository
}

func NewAuthRepository(users repository.UserRepository) repository.AuthRepository {
	return &repo{
		sessions: make(map[string]*model.Session),
		users:    users,
	}
}

func (r *repo) CreateSession(_ context.Context, session *model.Session) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s := *session
	r.sessions[s.ID] = &s
	return nil
}

func (r *repo) GetRefreshTokenBySessionID(_ context.Context, sessionID string) (string, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return "", errors.New("session not found")
	}
	return s.RefreshToken, nil
}

func (r *repo) DeleteSession(_ context.Context, sessionID string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

func (r *repo) GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	r.mtx.Lock()
	s, ok := r.sessions[sessionID]
	r.mtx.Unlock()
	if !ok {
		return nil, errors.New("session not found")
	}

	return r.users.GetUserByID(ctx, s.UserID)
}
