package rarity

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Weights is a probability per tier, indexed by domain.Rarity
type Weights [domain.RarityCount]float64

// Split is the share of a boost given to Rare, Epic and Legendary, in that order
type Split [3]float64

// BaseWeights is the default distribution
var BaseWeights = Weights{
	BaseWeightCommon,
	BaseWeightUncommon,
	BaseWeightRare,
	BaseWeightEpic,
	BaseWeightLegendary,
}

// DefaultSplit is the default boost redistribution
var DefaultSplit = Split{BoostSplitRare, BoostSplitEpic, BoostSplitLegendary}

var (
	ErrNegativeBoost    = errors.New(ErrMsgNegativeBoost)
	ErrBoostExceedsBase = errors.New(ErrMsgBoostExceedsBase)
	ErrInvalidWeights   = errors.New(ErrMsgInvalidWeights)
	ErrInvalidSplit     = errors.New(ErrMsgInvalidSplit)
	ErrRollOutOfRange   = errors.New(ErrMsgRollOutOfRange)
)

// Sum returns the total probability mass
func (w Weights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks that w is a probability distribution
func (w Weights) Validate() error {
	for _, v := range w {
		if v < 0 || math.IsNaN(v) {
			return ErrInvalidWeights
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return ErrInvalidWeights
	}
	return nil
}

// Validate checks that the split shares are non-negative and sum to 1.0
func (s Split) Validate() error {
	var total float64
	for _, v := range s {
		if v < 0 || math.IsNaN(v) {
			return ErrInvalidSplit
		}
		total += v
	}
	if math.Abs(total-1.0) > WeightTolerance {
		return ErrInvalidSplit
	}
	return nil
}

// MaxBoost is the largest boost Adjust accepts for w
func MaxBoost(w Weights) float64 {
	return w[domain.RarityCommon]
}

// Adjust moves boost probability mass from Common to Rare, Epic and Legendary
// according to split. Uncommon is untouched. The result still sums to 1.0 and
// has no negative entry.
func Adjust(w Weights, split Split, boost float64) (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	if err := split.Validate(); err != nil {
		return Weights{}, err
	}
	if boost < 0 || math.IsNaN(boost) {
		return Weights{}, fmt.Errorf("%w: %v", ErrNegativeBoost, boost)
	}
	if boost > MaxBoost(w)+WeightTolerance {
		return Weights{}, fmt.Errorf("%w: %v > %v", ErrBoostExceedsBase, boost, MaxBoost(w))
	}

	adjusted := w
	adjusted[domain.RarityCommon] = math.Max(0, w[domain.RarityCommon]-boost)
	adjusted[domain.RarityRare] += boost * split[0]
	adjusted[domain.RarityEpic] += boost * split[1]
	adjusted[domain.RarityLegendary] += boost * split[2]
	return adjusted, nil
}

// Pick maps a roll in [0,1) to a tier by cumulative weight in tier order.
// Buckets are closed-open, so a roll landing exactly on a boundary belongs to
// the next tier and a roll of 0 always belongs to the first non-empty tier.
func Pick(w Weights, roll float64) (domain.Rarity, error) {
	if roll < 0 || roll >= 1 || math.IsNaN(roll) {
		return 0, fmt.Errorf("%w: %v", ErrRollOutOfRange, roll)
	}

	var cumulative float64
	last := domain.RarityCommon
	for i, weight := range w {
		if weight <= 0 {
			continue
		}
		last = domain.Rarity(i)
		cumulative += weight
		if roll < cumulative {
			return last, nil
		}
	}
	// Rounding left the top of the range uncovered; it belongs to the last non-empty tier.
	return last, nil
}

// Selector draws tiers from a distribution using its own random source
type Selector struct {
	weights Weights
	split   Split

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector creates a selector over the given distribution. The source is
// owned by the selector; pass rand.NewSource(seed) for reproducible draws.
func NewSelector(weights Weights, split Split, src rand.Source) (*Selector, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := split.Validate(); err != nil {
		return nil, err
	}
	return &Selector{
		weights: weights,
		split:   split,
		rnd:     rand.New(src), //nolint:gosec // Game logic randomness, not security critical
	}, nil
}

// NewDefaultSelector uses the base distribution and split
func NewDefaultSelector(src rand.Source) *Selector {
	s, _ := NewSelector(BaseWeights, DefaultSplit, src)
	return s
}

// Weights returns the distribution used for the given boost
func (s *Selector) Weights(boost float64) (Weights, error) {
	return Adjust(s.weights, s.split, boost)
}

// Select draws one tier with the given boost applied
func (s *Selector) Select(boost float64) (domain.Rarity, error) {
	w, err := s.Weights(boost)
	if err != nil {
		return 0, err
	}
	return Pick(w, s.Float64())
}

// SelectN draws n independent tiers with the same boost
func (s *Selector) SelectN(n int, boost float64) ([]domain.Rarity, error) {
	w, err := s.Weights(boost)
	if err != nil {
		return nil, err
	}
	tiers := make([]domain.Rarity, 0, n)
	for i := 0; i < n; i++ {
		tier, err := Pick(w, s.Float64())
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// Float64 returns a uniform value in [0,1) from the selector's source
func (s *Selector) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Intn returns a uniform value in [0,n) from the selector's source
func (s *Selector) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}
