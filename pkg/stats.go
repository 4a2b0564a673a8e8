package dnndata

import (
	"math"
	"sort"
)

// WeightedMean returns the weighted average of values.
func WeightedMean(values []float64, weights []float64) (float64, error) {
	if err := checkWeightedInput("weighted mean", values, weights); err != nil {
		return 0, err
	}

	var totalWeight, weightedSum float64
	for i, v := range values {
		totalWeight += weights[i]
		weightedSum += weights[i] * v
	}
	if totalWeight == 0 {
		return 0, &ErrZeroTotalWeight{Op: "weighted mean"}
	}
	return weightedSum / totalWeight, nil
}

// WeightedStd returns the weighted standard deviation of values,
// sqrt(sum(w*(v-mean)^2) / sum(w)).
func WeightedStd(values []float64, weights []float64) (float64, error) {
	mean, err := WeightedMean(values, weights)
	if err != nil {
		return 0, err
	}

	var totalWeight, weightedSquares float64
	for i, v := range values {
		diff := v - mean
		totalWeight += weights[i]
		weightedSquares += weights[i] * diff * diff
	}
	return math.Sqrt(weightedSquares / totalWeight), nil
}

// WeightedQuantile returns the smallest value at which the cumulative
// weight fraction reaches the given quantile. This is a nearest-rank
// estimator: no interpolation between points. Quantile 0 returns the
// minimum value, quantile 1 the maximum.
func WeightedQuantile(values []float64, weights []float64, quantile float64) (float64, error) {
	if err := checkWeightedInput("weighted quantile", values, weights); err != nil {
		return 0, err
	}
	if quantile < 0 || quantile > 1 {
		return 0, &ErrInvalidQuantile{Quantile: quantile}
	}

	// Sort values ascending, carrying the matching weights along.
	// Input order carries no meaning here.
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0, &ErrZeroTotalWeight{Op: "weighted quantile"}
	}

	var cumWeight float64
	for _, idx := range order {
		cumWeight += weights[idx]
		if cumWeight/totalWeight >= quantile {
			return values[idx], nil
		}
	}
	// Rounding in the cumulative sum can leave the last fraction just
	// below 1; the answer is the maximum value either way.
	return values[order[len(order)-1]], nil
}

func checkWeightedInput(op string, values []float64, weights []float64) error {
	if len(values) == 0 {
		return &ErrEmptyPulseSeries{Op: op}
	}
	if len(values) != len(weights) {
		return &ErrLengthMismatch{Op: op, Values: len(values), Weights: len(weights)}
	}
	return nil
}
