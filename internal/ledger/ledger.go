package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"

	"casino_engine/internal/model"
	"casino_engine/internal/repository"
)

// Ledger - единственная точка движения денег. Суммы неотрицательные,
// баланс не уходит в минус, операции одного игрока сериализуются
type Ledger struct {
	mtx       sync.Mutex
	perPlayer map[int]*sync.Mutex

	userRepo  repository.UserRepository
	txManager trm.Manager
}

func New(userRepo repository.UserRepository, txManager trm.Manager) *Ledger {
	return &Ledger{
		perPlayer: make(map[int]*sync.Mutex),
		userRepo:  userRepo,
		txManager: txManager,
	}
}

func (l *Ledger) playerMu(playerID int) *sync.Mutex {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	mu, ok := l.perPlayer[playerID]
	if !ok {
		mu = &sync.Mutex{}
		l.perPlayer[playerID] = mu
	}
	return mu
}

// Debit списывает ставку. Проверка и декремент атомарны:
// при нехватке средств возвращается ErrInsufficientFunds
// и баланс не меняется
func (l *Ledger) Debit(ctx context.Context, playerID int, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative debit amount", model.ErrInvalidParams)
	}

	mu := l.playerMu(playerID)
	mu.Lock()
	defer mu.Unlock()

	return l.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := l.userRepo.DebitBalance(txCtx, playerID, amount)
		return err
	})
}

// Credit начисляет выигрыш. Возвращает новый баланс.
// Отрицательных начислений нет: списание только через Debit
func (l *Ledger) Credit(ctx context.Context, playerID int, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative credit amount", model.ErrInvalidParams)
	}

	mu := l.playerMu(playerID)
	mu.Lock()
	defer mu.Unlock()

	var balance int64
	err := l.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		balance, err = l.userRepo.CreditBalance(txCtx, playerID, amount)
		return err
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Balance - текущий баланс игрока
func (l *Ledger) Balance(ctx context.Context, playerID int) (int64, error) {
	return l.userRepo.GetBalance(ctx, playerID)
}
