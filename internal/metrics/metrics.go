// Package metrics provides the centralized Prometheus metrics registry for
// the match predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "predictions_total",
		Help:      "Total number of predictions served",
	})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	TrainingRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "training_runs_total",
		Help:      "Total number of ensemble training runs",
	})
	ModelTrainingFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "model_training_failures_total",
		Help:      "Ensemble members dropped due to training failures",
	}, []string{"model"})
	FeatureSanitizationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "feature_sanitizations_total",
		Help:      "Non-finite feature values replaced with neutral defaults",
	})
	RatingUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "rating_updates_total",
		Help:      "Total number of rating updates applied",
	})
)

// Gauge metrics
var (
	EnsembleSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "ensemble_size",
		Help:      "Number of models retained in the current ensemble",
	})
	ModelCVScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "model_cv_score",
		Help:      "Cross-validated accuracy per ensemble member",
	}, []string{"model"})
	ModelWeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "model_weight",
		Help:      "Ensemble weight per retained model",
	}, []string{"model"})
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_predictor",
		Name:      "backtest_accuracy",
		Help:      "Overall accuracy of the most recent backtest run",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "training_duration_seconds",
		Help:      "Duration of ensemble training runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of single-match predictions in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(ModelTrainingFailuresTotal)
		registry.MustRegister(FeatureSanitizationsTotal)
		registry.MustRegister(RatingUpdatesTotal)

		registry.MustRegister(EnsembleSize)
		registry.MustRegister(ModelCVScore)
		registry.MustRegister(ModelWeight)
		registry.MustRegister(BacktestAccuracy)

		registry.MustRegister(TrainingDuration)
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
