package game

import (
	"sort"
	"sync"
	"time"
)

// Scheduler - абстракция таймеров для фаз с таймаутом
// (каунтдаун и разбитие в Crash, тики дилера и таймаут хода в Blackjack).
// Единственные переходы, которые инициирует сам движок
type Scheduler interface {
	// After планирует вызов fn через d. Возвращает функцию отмены;
	// отмена после срабатывания - no-op
	After(d time.Duration, fn func()) (cancel func())
	// Now - текущее время планировщика
	Now() time.Time
}

// TimerScheduler - боевой планировщик поверх time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func (TimerScheduler) Now() time.Time {
	return time.Now()
}

// ManualScheduler - детерминированный планировщик для тестов:
// время двигается только явным Advance
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*manualTimer
}

type manualTimer struct {
	id   int
	at   time.Time
	fn   func()
	done bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Unix(0, 0)}
}

func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &manualTimer{id: s.nextID, at: s.now.Add(d), fn: fn}
	s.pending = append(s.pending, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.done = true
	}
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance продвигает время и выполняет созревшие таймеры в порядке
// срабатывания. Колбеки выполняются без удержания мьютекса: они могут
// планировать новые таймеры
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTimer
		for _, t := range s.pending {
			if t.done || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			// подчистим отработавшие
			alive := s.pending[:0]
			for _, t := range s.pending {
				if !t.done {
					alive = append(alive, t)
				}
			}
			s.pending = alive
			sort.Slice(s.pending, func(i, j int) bool { return s.pending[i].at.Before(s.pending[j].at) })
			s.mu.Unlock()
			return
		}
		next.done = true
		if next.at.After(s.now) {
			s.now = next.at
		}
		fn := next.fn
		s.mu.Unlock()
		fn()
	}
}
