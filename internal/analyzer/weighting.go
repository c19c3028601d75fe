package analyzer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeighting is returned for unusable weighting parameters
var ErrInvalidWeighting = errors.New("invalid weighting configuration")

// WeightingModel maps the weighted mismatch count between two windows to a
// similarity weight. It is built once and read-only afterwards.
type WeightingModel struct {
	windowSize         int
	numFeatures        int
	windowFeatures     int
	power              float64
	positionWeights    []int
	maxDifferenceSum   int
	differenceToWeight []float64
}

// NewWeightingModel builds the per-position weights and the lookup table.
// channelWeights holds one weight per channel; its length is the channel count.
//
// The table is indexed by every achievable weighted mismatch sum s in
// [0, maxDifferenceSum] and holds (1 - s/maxDifferenceSum)^power. With unit
// channel weights maxDifferenceSum equals windowSize*len(channelWeights).
func NewWeightingModel(windowSize int, power float64, channelWeights []int) (*WeightingModel, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: window size must be >= 1, got %d", ErrInvalidWeighting, windowSize)
	}
	if !(power > 0) || math.IsInf(power, 1) {
		return nil, fmt.Errorf("%w: weighting power must be > 0, got %v", ErrInvalidWeighting, power)
	}
	if len(channelWeights) == 0 {
		return nil, fmt.Errorf("%w: at least one channel is required", ErrInvalidWeighting)
	}

	numFeatures := len(channelWeights)
	windowFeatures := windowSize * numFeatures
	positionWeights := make([]int, windowFeatures)
	maxSum := 0
	for i := range positionWeights {
		w := channelWeights[i%numFeatures]
		if w < 0 {
			return nil, fmt.Errorf("%w: channel %d weight must be >= 0, got %d", ErrInvalidWeighting, i%numFeatures, w)
		}
		positionWeights[i] = w
		maxSum += w
	}
	if maxSum == 0 {
		return nil, fmt.Errorf("%w: channel weights sum to zero", ErrInvalidWeighting)
	}

	table := make([]float64, maxSum+1)
	for s := range table {
		table[s] = math.Pow(1-float64(s)/float64(maxSum), power)
	}
	// pin the endpoints so identical windows score exactly 1 and fully
	// mismatched windows exactly 0
	table[0] = 1
	table[maxSum] = 0

	return &WeightingModel{
		windowSize:         windowSize,
		numFeatures:        numFeatures,
		windowFeatures:     windowFeatures,
		power:              power,
		positionWeights:    positionWeights,
		maxDifferenceSum:   maxSum,
		differenceToWeight: table,
	}, nil
}

// WindowSize returns the window length in phonemes
func (m *WeightingModel) WindowSize() int {
	return m.windowSize
}

// NumFeatures returns the number of channels the model was built for
func (m *WeightingModel) NumFeatures() int {
	return m.numFeatures
}

// WindowFeatures returns the window length in symbols
func (m *WeightingModel) WindowFeatures() int {
	return m.windowFeatures
}

// Power returns the weighting exponent
func (m *WeightingModel) Power() float64 {
	return m.power
}

// PositionWeights returns the per-symbol-position mismatch weights
func (m *WeightingModel) PositionWeights() []int {
	return m.positionWeights
}

// MaxDifferenceSum returns the largest achievable weighted mismatch sum
func (m *WeightingModel) MaxDifferenceSum() int {
	return m.maxDifferenceSum
}

// Weight returns the similarity weight for a weighted mismatch sum
func (m *WeightingModel) Weight(differenceSum int) float64 {
	return m.differenceToWeight[differenceSum]
}

// DifferenceSum computes the weighted mismatch between the windows starting
// at offsets a and b of stream.
func (m *WeightingModel) DifferenceSum(stream []Symbol, a, b int) int {
	seed := stream[a : a+m.windowFeatures]
	cand := stream[b : b+m.windowFeatures]
	sum := 0
	for k, w := range m.positionWeights {
		if seed[k] != cand[k] {
			sum += w
		}
	}
	return sum
}
