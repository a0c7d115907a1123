package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Drop Metrics
var (
	DropsSpawned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDropsSpawned,
			Help:      HelpTextDropsSpawned,
		},
		[]string{LabelTrigger},
	)

	DropsClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDropsClaimed,
			Help:      HelpTextDropsClaimed,
		},
		[]string{LabelRarity},
	)

	DropsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDropsExpired,
			Help:      HelpTextDropsExpired,
		},
	)

	DropsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameDropsActive,
			Help:      HelpTextDropsActive,
		},
	)

	ClaimsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameClaimsRejected,
			Help:      HelpTextClaimsRejected,
		},
		[]string{LabelReason},
	)

	ClaimLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameClaimLatency,
			Help:      HelpTextClaimLatency,
			Buckets:   ClaimLatencyBuckets,
		},
	)

	LedgerFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameLedgerFailures,
			Help:      HelpTextLedgerFailures,
		},
	)

	CooldownBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCooldownBlocked,
			Help:      HelpTextCooldownBlocked,
		},
		[]string{LabelKind},
	)
)

// Economy Metrics
var (
	PacksOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePacksOpened,
			Help:      HelpTextPacksOpened,
		},
		[]string{LabelPack},
	)

	CardsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCardsSold,
			Help:      HelpTextCardsSold,
		},
		[]string{LabelRarity},
	)

	CardsGifted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCardsGifted,
			Help:      HelpTextCardsGifted,
		},
		[]string{LabelRarity},
	)

	CoinsEarned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCoinsEarned,
			Help:      HelpTextCoinsEarned,
		},
		[]string{LabelSource},
	)

	CoinsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCoinsSpent,
			Help:      HelpTextCoinsSpent,
		},
	)
)
