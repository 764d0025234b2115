package game

import (
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Round - один раунд конкретной игры поверх общего автомата.
// Реализации сами защищают свое состояние мьютексом: действия игрока
// и запланированные переходы (тики дилера, краш) идут конкурентно
type Round interface {
	// Phase - текущая фаза
	Phase() model.Phase
	// Terminal - достигнуто ли терминальное состояние
	Terminal() bool
	// Act применяет действие игрока. Недопустимое в текущей фазе
	// действие возвращает ErrInvalidTransition
	Act(action model.Action, params model.ActionParams) error
	// View - публичная часть состояния (скрытые карты/мины не отдаются
	// до терминала)
	View() model.GameView
	// Settlement - чистый расчет выплаты. Валиден только в терминале
	Settlement() model.Settlement
	// Commit - sha256 коммит серверного сида, известен с момента
	// приема ставки
	Commit() string
	// Seed - серверный сид раунда. Пустой до терминала, раскрывается
	// после расчета
	Seed() string
}

// Env - окружение, которое движок передает фабрике раунда
type Env struct {
	// ServerSeed - закоммиченный серверный сид раунда
	ServerSeed string
	// ClientSeed - клиентская часть сида
	ClientSeed string
	// Scheduler - таймеры для фаз с таймаутом
	Scheduler Scheduler
	// OnTerminal движок дергает из запланированных переходов,
	// завершивших раунд без действия игрока
	OnTerminal func()
}

// Stream - хелпер для фабрик: поток дро раунда из его окружения
func (e Env) Stream() *rng.Stream {
	return rng.NewStream(e.ServerSeed, e.ClientSeed, 0)
}

// Validator проверяет параметры ставки до списания денег.
// Чистая функция: никаких мутаций и дро
type Validator func(wager int64, params model.BetParams) error

// Factory создает раунд: все исходные дро происходят здесь,
// строго после списания ставки
type Factory func(env Env, wager int64, params model.BetParams) (Round, error)

// Definition - регистрация игры в движке
type Definition struct {
	Type     model.GameType
	Validate Validator
	New      Factory
}

// Registry - реестр игр по типу
type Registry map[model.GameType]Definition

func (r Registry) Register(def Definition) {
	r[def.Type] = def
}
