package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var (
	// Global logger instance
	Logger *zap.Logger

	classificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_classifications_total",
			Help: "Classification verdicts by kind (text/image) and outcome",
		},
		[]string{"kind", "verdict"},
	)

	enforcementActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_enforcement_actions_total",
			Help: "Enforcement side effects by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	eventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_event_processing_duration_seconds",
			Help:    "Time spent handling one inbound chat event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

func Init(ctx context.Context, metricsAddr string) error {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	prometheus.MustRegister(classificationsTotal)
	prometheus.MustRegister(enforcementActionsTotal)
	prometheus.MustRegister(eventProcessingDuration)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return nil
}

// RecordClassification counts one classification verdict.
func RecordClassification(kind, verdict string) {
	classificationsTotal.WithLabelValues(kind, verdict).Inc()
}

// RecordEnforcementAction counts one enforcement side effect.
func RecordEnforcementAction(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	enforcementActionsTotal.WithLabelValues(action, outcome).Inc()
}

// StartEventProcessing returns a function recording the event handling duration.
func StartEventProcessing(path string) func() {
	timer := prometheus.NewTimer(eventProcessingDuration.WithLabelValues(path))
	return func() { timer.ObserveDuration() }
}
