package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gamify-hexad/internal/domain"
)

// SuggestionObserver captura telemetria de cada calculo de sugerencia.
type SuggestionObserver interface {
	RecordSuggestion(duration time.Duration, suggestion domain.ElementType, attributions int, err error)
}

// PrometheusObserver exporta las metricas de sugerencias a Prometheus.
type PrometheusObserver struct {
	duration     prometheus.Histogram
	failures     prometheus.Counter
	suggestions  *prometheus.CounterVec
	attributions prometheus.Counter
}

// NewPrometheusObserver registra las metricas en reg (o en el registry por defecto).
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "hexad"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestion_duration_seconds",
			Help:      "Latency of aggregate, rank and persist for one user.",
			Buckets:   prometheus.DefBuckets,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_failures_total",
			Help:      "Suggestion computations that returned an error.",
		}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Persisted suggestions by game element.",
		}, []string{"element"}),
		attributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attributions_total",
			Help:      "Attribution records requested after a suggestion.",
		}),
	}

	if err := register(reg, &o.duration); err != nil {
		return nil, err
	}
	if err := register(reg, &o.failures); err != nil {
		return nil, err
	}
	if err := register(reg, &o.suggestions); err != nil {
		return nil, err
	}
	if err := register(reg, &o.attributions); err != nil {
		return nil, err
	}
	return o, nil
}

// register reutiliza el collector existente si ya estaba registrado.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register suggestion metric: %w", err)
	}
	return nil
}

func (o *PrometheusObserver) RecordSuggestion(duration time.Duration, suggestion domain.ElementType, attributions int, err error) {
	if o == nil {
		return
	}
	o.duration.Observe(duration.Seconds())
	if err != nil {
		o.failures.Inc()
		return
	}
	if suggestion != "" {
		o.suggestions.WithLabelValues(string(suggestion)).Inc()
	}
	o.attributions.Add(float64(attributions))
}
