package reminder

import (
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Sequence outcomes
const (
	OutcomeResolved  = "resolved"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Metrics records reminder activity. A nil *Metrics is a no-op.
type Metrics struct {
	sent      *prom.CounterVec
	sequences *prom.CounterVec
	active    prom.Gauge
	overdue   prom.Counter
}

// NewMetrics constructs and registers the reminder metrics on reg.
func NewMetrics(reg prom.Registerer) *Metrics {
	m := &Metrics{
		sent: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lockdin",
			Name:      "reminders_sent_total",
			Help:      "Reminder DMs sent by urgency level",
		}, []string{"level"}),
		sequences: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lockdin",
			Name:      "reminder_sequences_total",
			Help:      "Finished reminder sequences by outcome",
		}, []string{"outcome"}),
		active: prom.NewGauge(prom.GaugeOpts{
			Namespace: "lockdin",
			Name:      "reminder_sequences_active",
			Help:      "Reminder sequences currently running",
		}),
		overdue: prom.NewCounter(prom.CounterOpts{
			Namespace: "lockdin",
			Name:      "tasks_failed_overdue_total",
			Help:      "Pending tasks marked failed after their due time",
		}),
	}
	reg.MustRegister(m.sent, m.sequences, m.active, m.overdue)
	return m
}

func (m *Metrics) incSent(level int) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (m *Metrics) sequenceStarted() {
	if m == nil {
		return
	}
	m.active.Inc()
}

func (m *Metrics) sequenceFinished(outcome string) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.sequences.WithLabelValues(outcome).Inc()
}

func (m *Metrics) addOverdue(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.overdue.Add(float64(n))
}
