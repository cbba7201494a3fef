package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes recorded by guards.
const (
	OutcomeAllowed         = "allowed"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeDeactivated     = "deactivated"
	OutcomeForbidden       = "forbidden"
	OutcomeError           = "error"
)

// Metrics counts guard decisions.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics registers the guard counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Number of authorization decisions made by request guards, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.decisions)

	return m
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}

	m.decisions.WithLabelValues(outcome).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeAllowed
	case errors.Is(err, ErrAuthenticationRequired):
		return OutcomeUnauthenticated
	case errors.Is(err, ErrAccountDeactivated):
		return OutcomeDeactivated
	case errors.Is(err, ErrInsufficientPermissions), errors.Is(err, ErrAdminRequired):
		return OutcomeForbidden
	default:
		return OutcomeError
	}
}
