package mem_user_repo

import (
	"casino_engine/internal/model"
	"casino_engine/internal/repository"
	"context"
	"errors"
	"fmt"
	"sync"
)

// Реализация репозитория пользователей в памяти.
// Включается, когда PG_DSN не задан: локальный запуск и тесты
// работают без поднятой базы
type repo struct {
	mtx    sync.Mutex
	nextID int
	byID   map[int]*model.User
	byLog  map[string]*model.User
}

func NewUserRepository() repository.UserRepository {
	return &repo{
		nextID: 1,
		byID:   make(map[int]*model.User),
		byLog:  make(map[string]*model.User),
	}
}

func (r *repo) CreateUser(_ context.Context, user *model.User) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.byLog[user.Login]; ok {
		return 0, errors.New("login already taken")
	}

	u := *user
	u.ID = r.nextID
	r.nextID++
	r.byID[u.ID] = &u
	r.byLog[u.Login] = &u

	return u.ID, nil
}

func (r *repo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	u, ok := r.byLog[login]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *repo) GetUserByID(_ context.Context, id int) (*model.User, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *repo) GetBalance(_ context.Context, id int) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return 0, errors.New("user not found")
	}
	return u.Balance, nil
}

func (r *repo) DebitBalance(_ context.Context, id int, amount int64) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return 0, errors.New("user not found")
	}
	if u.Balance < amount {
		return 0, fmt.Errorf("%w: balance below %d", model.ErrInsufficientFunds, amount)
	}
	u.Balance -= amount
	return u.Balance, nil
}

func (r *repo) CreditBalance(_ context.Context, id int, amount int64) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return 0, errors.New("user not found")
	}
	u.Balance += amount
	return u.Balance, nil
}
