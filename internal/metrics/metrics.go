package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// Engine Metrics
var (
	RecipesEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecipesEvaluated,
			Help: HelpTextRecipesEvaluated,
		},
		[]string{LabelStrategy},
	)

	IngredientUnresolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameIngredientUnresolved,
			Help: HelpTextIngredientUnresolved,
		},
		[]string{LabelStrategy},
	)

	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameQueryResults,
			Help:    HelpTextQueryResults,
			Buckets: ResultCountBuckets,
		},
	)

	HighlightsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameHighlightsReturned,
			Help:    HelpTextHighlightsReturned,
			Buckets: ResultCountBuckets,
		},
	)
)

// Data Metrics
var (
	CorpusSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCorpusSkipped,
			Help: HelpTextCorpusSkipped,
		},
	)

	CatalogDriftUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCatalogDriftUpdates,
			Help: HelpTextCatalogDriftUpdates,
		},
	)

	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCartOperations,
			Help: HelpTextCartOperations,
		},
		[]string{LabelOperation},
	)
)
