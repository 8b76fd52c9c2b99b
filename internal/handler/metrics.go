package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded in media_resolutions_total
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type metrics struct {
	resolutions *prometheus.CounterVec
}

// newMetrics creates the handler metrics and registers them with reg when it
// is not nil.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "media",
			Name:      "resolutions_total",
			Help:      "Media requests processed, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		if err := reg.Register(m.resolutions); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(outcome string) {
	m.resolutions.WithLabelValues(outcome).Inc()
}
