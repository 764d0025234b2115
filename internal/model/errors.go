package model

import "errors"

// Ошибки движка. Все синхронные, возвращаются вызывающей стороне,
// движок сам ничего не ретраит.
var (
	// ErrInsufficientFunds - ставка превышает баланс. Отклоняется до любых мутаций
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidParams - некорректные параметры ставки (ставка <= 0, prediction вне (2,98) и т.п.)
	ErrInvalidParams = errors.New("invalid params")
	// ErrInvalidTransition - действие недопустимо в текущей фазе раунда
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrEntropyUnavailable - источник энтропии недоступен, ставка не принята, списания нет
	ErrEntropyUnavailable = errors.New("entropy unavailable")
	// ErrRoundNotFound - раунд с таким ID не найден
	ErrRoundNotFound = errors.New("round not found")
)
