package dnndata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightedQuantile_Extremes(t *testing.T) {
	values := []float64{3, 1, 2}
	weights := []float64{1, 1, 1}

	qMin, err := WeightedQuantile(values, weights, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, qMin)

	qMax, err := WeightedQuantile(values, weights, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, qMax)
}

func TestWeightedQuantile_NearestRankRoundsUp(t *testing.T) {
	// Sorted: values [1 2 4 5], weights [1 4 3 2], cumulative
	// fractions [0.1 0.5 0.8 1.0].
	values := []float64{5, 1, 4, 2}
	weights := []float64{2, 1, 3, 4}

	q, err := WeightedQuantile(values, weights, 0.5)
	require.NoError(t, err)
	require.Equal(t, 2.0, q)

	q, err = WeightedQuantile(values, weights, 0.45)
	require.NoError(t, err)
	require.Equal(t, 2.0, q)

	q, err = WeightedQuantile(values, weights, 0.51)
	require.NoError(t, err)
	require.Equal(t, 4.0, q)
}

func TestWeightedQuantile_PermutationInvariance(t *testing.T) {
	values := []float64{5, 1, 4, 2}
	weights := []float64{2, 1, 3, 4}
	permValues := []float64{2, 4, 1, 5}
	permWeights := []float64{4, 3, 1, 2}

	for _, q := range []float64{0, 0.25, 0.5, 0.8, 1} {
		expected, err := WeightedQuantile(values, weights, q)
		require.NoError(t, err)
		got, err := WeightedQuantile(permValues, permWeights, q)
		require.NoError(t, err)
		require.Equal(t, expected, got, "quantile %v", q)
	}
}

func TestWeightedQuantile_Errors(t *testing.T) {
	_, err := WeightedQuantile(nil, nil, 0.5)
	var emptyErr *ErrEmptyPulseSeries
	require.ErrorAs(t, err, &emptyErr)

	_, err = WeightedQuantile([]float64{1, 2}, []float64{0, 0}, 0.5)
	var zeroErr *ErrZeroTotalWeight
	require.ErrorAs(t, err, &zeroErr)

	_, err = WeightedQuantile([]float64{1, 2}, []float64{1}, 0.5)
	var lenErr *ErrLengthMismatch
	require.ErrorAs(t, err, &lenErr)

	_, err = WeightedQuantile([]float64{1, 2}, []float64{1, 1}, 1.5)
	var quantErr *ErrInvalidQuantile
	require.ErrorAs(t, err, &quantErr)
}

func TestWeightedStd_EqualValues(t *testing.T) {
	std, err := WeightedStd([]float64{3, 3, 3}, []float64{1, 2, 5})
	require.NoError(t, err)
	require.Equal(t, 0.0, std)
}

func TestWeightedStd_KnownValue(t *testing.T) {
	// mean 5, variance (25+25)/2 = 25
	std, err := WeightedStd([]float64{0, 10}, []float64{1, 1})
	require.NoError(t, err)
	require.Equal(t, 5.0, std)
}

func TestWeightedStd_ZeroWeights(t *testing.T) {
	_, err := WeightedStd([]float64{1, 2}, []float64{0, 0})
	var zeroErr *ErrZeroTotalWeight
	require.ErrorAs(t, err, &zeroErr)
}

func TestWeightedMean_KnownValue(t *testing.T) {
	mean, err := WeightedMean([]float64{0, 10}, []float64{1, 3})
	require.NoError(t, err)
	require.Equal(t, 7.5, mean)
}

func TestWeightedHistogram_EdgeSemantics(t *testing.T) {
	edges := []float64{0, 1, 2}
	samples := []float64{0, 0.5, 1, 2, 2.5, -1}
	weights := []float64{1, 1, 1, 1, 1, 1}

	hist := weightedHistogram(samples, weights, edges)

	// 0 and 0.5 fall in the first bin; 1 starts the second bin and the
	// sample on the last edge belongs to the last bin; -1 and 2.5 are
	// out of range and dropped.
	require.Equal(t, []float64{2, 2}, hist)
}

func TestWeightedHistogram_WeightsAccumulate(t *testing.T) {
	edges := []float64{0, 10}
	hist := weightedHistogram([]float64{1, 2, 3}, []float64{0.5, 1.5, 2}, edges)
	require.Equal(t, []float64{4}, hist)
}
