package events

import (
	"sort"
	"sync"

	"casino_engine/internal/model"
)

// PlayerStats - агрегат по игроку для таблицы лидеров
type PlayerStats struct {
	PlayerID    int   `json:"player_id"`
	Rounds      int   `json:"rounds"`
	Wins        int   `json:"wins"`
	TotalWager  int64 `json:"total_wager"`
	TotalPayout int64 `json:"total_payout"`
	Net         int64 `json:"net"`
}

// Leaderboard - таблица лидеров в памяти.
// Подписчик Fanout, агрегирует исходы по игрокам
type Leaderboard struct {
	mtx   sync.RWMutex
	stats map[int]*PlayerStats
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		stats: make(map[int]*PlayerStats),
	}
}

func (l *Leaderboard) Publish(ev model.OutcomeEvent) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	st, ok := l.stats[ev.PlayerID]
	if !ok {
		st = &PlayerStats{PlayerID: ev.PlayerID}
		l.stats[ev.PlayerID] = st
	}

	st.Rounds++
	if ev.IsWin {
		st.Wins++
	}
	st.TotalWager += ev.Wager
	st.TotalPayout += ev.Payout
	st.Net = st.TotalPayout - st.TotalWager
}

// Top возвращает n лучших игроков по чистому выигрышу.
// При равенстве побеждает меньший ID, порядок стабилен
func (l *Leaderboard) Top(n int) []PlayerStats {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	all := make([]PlayerStats, 0, len(l.stats))
	for _, st := range l.stats {
		all = append(all, *st)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Net != all[j].Net {
			return all[i].Net > all[j].Net
		}
		return all[i].PlayerID < all[j].PlayerID
	})

	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
