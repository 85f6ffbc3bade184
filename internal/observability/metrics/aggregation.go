package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// AggregationMetrics counts upstream fetch outcomes, card states and data
// warnings. It satisfies ports.AggregationObserver.
type AggregationMetrics struct {
	service string

	fetchTotal          *prometheus.CounterVec
	cardTotal           *prometheus.CounterVec
	warningTotal        *prometheus.CounterVec
	approximatedTotal   *prometheus.CounterVec
	breakerStateChanges *prometheus.CounterVec
}

func NewAggregationMetrics(service string, registerer prometheus.Registerer) *AggregationMetrics {
	fetchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fpd",
			Subsystem: "aggregation",
			Name:      "fetch_total",
			Help:      "Upstream sub-fetches by family, fetch key and status.",
		},
		[]string{"service", "family", "fetch", "status"},
	)
	cardTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fpd",
			Subsystem: "aggregation",
			Name:      "cards_total",
			Help:      "Built dashboard cards by family and rendered state.",
		},
		[]string{"service", "family", "state"},
	)
	warningTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fpd",
			Subsystem: "aggregation",
			Name:      "warnings_total",
			Help:      "Data warnings absorbed during aggregation by kind.",
		},
		[]string{"service", "family", "kind"},
	)
	approximatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fpd",
			Subsystem: "aggregation",
			Name:      "approximated_breakdowns_total",
			Help:      "Cards whose status breakdown was approximated from counts.",
		},
		[]string{"service", "family"},
	)
	breakerStateChanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fpd",
			Subsystem: "upstream",
			Name:      "breaker_state_changes_total",
			Help:      "Circuit breaker transitions by operation and target state.",
		},
		[]string{"service", "operation", "to"},
	)

	registerer.MustRegister(fetchTotal, cardTotal, warningTotal, approximatedTotal, breakerStateChanges)

	return &AggregationMetrics{
		service:             service,
		fetchTotal:          fetchTotal,
		cardTotal:           cardTotal,
		warningTotal:        warningTotal,
		approximatedTotal:   approximatedTotal,
		breakerStateChanges: breakerStateChanges,
	}
}

func (m *AggregationMetrics) ObserveFetch(family domain.Family, key string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.fetchTotal.WithLabelValues(m.service, string(family), key, status).Inc()
}

func (m *AggregationMetrics) ObserveCard(card domain.FrameworkCard) {
	family := string(card.Progress.Family)
	m.cardTotal.WithLabelValues(m.service, family, string(card.State)).Inc()
	for _, w := range card.Progress.Warnings {
		m.warningTotal.WithLabelValues(m.service, family, string(w.Kind)).Inc()
	}
	if card.Progress.BreakdownApproximated {
		m.approximatedTotal.WithLabelValues(m.service, family).Inc()
	}
}

// ObserveBreakerStateChange matches resilience.StateChangeHook.
func (m *AggregationMetrics) ObserveBreakerStateChange(operation string, _, to gobreaker.State) {
	m.breakerStateChanges.WithLabelValues(m.service, operation, to.String()).Inc()
}
