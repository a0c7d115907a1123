package rarity

// ============================================================================
// Base Distribution
// ============================================================================

// Base draw probabilities per tier. They must sum to 1.0.
const (
	BaseWeightCommon    = 0.50
	BaseWeightUncommon  = 0.30
	BaseWeightRare      = 0.15
	BaseWeightEpic      = 0.04
	BaseWeightLegendary = 0.01
)

// ============================================================================
// Boost Redistribution
// ============================================================================

// Share of a boost moved from Common to each of the upper tiers. They must sum to 1.0.
const (
	BoostSplitRare      = 0.5
	BoostSplitEpic      = 0.3
	BoostSplitLegendary = 0.2
)

// WeightTolerance is the allowed floating point error when checking that a
// distribution sums to 1.0.
const WeightTolerance = 1e-9

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgNegativeBoost    = "boost must not be negative"
	ErrMsgBoostExceedsBase = "boost exceeds the Common base weight"
	ErrMsgInvalidWeights   = "weights must be non-negative and sum to 1.0"
	ErrMsgInvalidSplit     = "boost split must be non-negative and sum to 1.0"
	ErrMsgRollOutOfRange   = "roll must be in [0,1)"
)
