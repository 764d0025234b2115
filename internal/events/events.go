package events

import (
	"go.uber.org/zap"

	"casino_engine/internal/model"
)

// Sink принимает события завершенных раундов. Движок публикует
// ровно одно событие на раунд, на терминальном переходе
type Sink interface {
	Publish(ev model.OutcomeEvent)
}

// Fanout раздает событие нескольким подписчикам в порядке регистрации
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(ev model.OutcomeEvent) {
	for _, s := range f.sinks {
		s.Publish(ev)
	}
}

// FeedLog пишет ленту исходов в структурный лог
type FeedLog struct {
	log *zap.Logger
}

func NewFeedLog(log *zap.Logger) *FeedLog {
	return &FeedLog{log: log}
}

func (f *FeedLog) Publish(ev model.OutcomeEvent) {
	f.log.Info("round settled",
		zap.String("round_id", ev.RoundID),
		zap.Int("player_id", ev.PlayerID),
		zap.String("game", string(ev.Game)),
		zap.Int64("wager", ev.Wager),
		zap.Int64("payout", ev.Payout),
		zap.Bool("is_win", ev.IsWin),
		zap.Float64("multiplier", ev.Multiplier),
		zap.String("server_seed", ev.ServerSeed),
	)
}
