package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	RoundsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rounds_started_total",
			Help: "Total rounds started per game",
		},
		[]string{"game"},
	)

	RoundsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rounds_settled_total",
			Help: "Total rounds settled per game and outcome",
		},
		[]string{"game", "outcome"},
	)

	WagerTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_units_total",
			Help: "Total wagered currency units per game",
		},
		[]string{"game"},
	)

	PayoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_units_total",
			Help: "Total paid out currency units per game",
		},
		[]string{"game"},
	)
)

func Init() {
	prometheus.MustRegister(RoundsStarted)
	prometheus.MustRegister(RoundsSettled)
	prometheus.MustRegister(WagerTotal)
	prometheus.MustRegister(PayoutTotal)
}
