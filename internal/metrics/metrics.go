package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "wishbot_updates_received"},
		[]string{"type"},
	)
	FunnelSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "wishbot_funnel_steps"},
		[]string{"step"},
	)
	DiceRolls = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "wishbot_dice_rolls"},
		[]string{"value"},
	)
	LeadsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wishbot_leads_forwarded",
	})
)

// RegisterActiveSessions exposes the number of live dialogue sessions.
func RegisterActiveSessions(count func() int) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "wishbot_active_sessions"},
		func() float64 { return float64(count()) },
	)
}
