package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every metric this bot exports
const Namespace = "photocard"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Drop metric names
const (
	MetricNameDropsSpawned    = "drops_spawned_total"
	MetricNameDropsClaimed    = "drops_claimed_total"
	MetricNameDropsExpired    = "drops_expired_total"
	MetricNameDropsActive     = "drops_active"
	MetricNameClaimsRejected  = "claims_rejected_total"
	MetricNameClaimLatency    = "claim_latency_seconds"
	MetricNameLedgerFailures  = "ledger_failures_total"
	MetricNameCooldownBlocked = "cooldown_blocked_total"
)

// Economy metric names
const (
	MetricNamePacksOpened = "packs_opened_total"
	MetricNameCardsSold   = "cards_sold_total"
	MetricNameCardsGifted = "cards_gifted_total"
	MetricNameCoinsEarned = "coins_earned_total"
	MetricNameCoinsSpent  = "coins_spent_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Drop metric help text
const (
	HelpTextDropsSpawned    = "Total number of drops posted, by trigger"
	HelpTextDropsClaimed    = "Total number of drops won, by rarity of the claimed card"
	HelpTextDropsExpired    = "Total number of drops that expired unclaimed"
	HelpTextDropsActive     = "Drops currently open"
	HelpTextClaimsRejected  = "Total number of rejected claim attempts, by reason"
	HelpTextClaimLatency    = "Time from a drop being posted to it being claimed"
	HelpTextLedgerFailures  = "Total number of won claims that could not be recorded"
	HelpTextCooldownBlocked = "Total number of requests turned away by a cooldown, by kind"
)

// Economy metric help text
const (
	HelpTextPacksOpened = "Total number of packs bought, by pack"
	HelpTextCardsSold   = "Total number of cards sold back, by rarity"
	HelpTextCardsGifted = "Total number of cards gifted between users, by rarity"
	HelpTextCoinsEarned = "Total coins paid out by daily rewards and sales"
	HelpTextCoinsSpent  = "Total coins spent on packs"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelTrigger = "trigger"
	LabelRarity  = "rarity"
	LabelReason  = "reason"
	LabelKind    = "kind"
	LabelPack    = "pack"
	LabelSource  = "source"
)

// Coin sources
const (
	SourceDaily = "daily"
	SourceSell  = "sell"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets covers 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ClaimLatencyBuckets covers the five minute drop window
var ClaimLatencyBuckets = []float64{.5, 1, 2, 5, 10, 20, 30, 60, 120, 180, 300}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
	unmatchedRoute            = "unmatched"
)
