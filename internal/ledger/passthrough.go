package ledger

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// PassthroughManager - trm.Manager без настоящей транзакции для
// in-memory режима: атомарность там дает сам репозиторий под мьютексом
type PassthroughManager struct{}

func (PassthroughManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (PassthroughManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
