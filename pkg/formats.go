package dnndata

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FormatFunc converts the pulse series of one sensor into a sparse feature
// vector. charges and times are parallel arrays with at least one pulse;
// times are relative to the sum of the local and global time offset. The
// returned indices refer to positions in a fixed-width dense vector, whose
// width depends on the format; positions not listed are zero.
type FormatFunc func(charges []float64, times []float64,
	globalTimeOffset float64, localTimeOffset float64,
	config *Configuration) (values []float64, indices []int, err error)

// The set of formats is closed: a configured name selects one of these
// once at setup time. "pulse_summmary_clipped" keeps its historical
// spelling, existing configuration files use it.
var formats = map[string]FormatFunc{
	"charge_bins":                    ChargeBins,
	"charge_bins_and_times":          ChargeBinsAndTimes,
	"autoencoder":                    AutoencoderFormat,
	"charge_weighted_time_quantiles": ChargeWeightedTimeQuantiles,
	"pulse_summmary_clipped":         PulseSummaryClipped,
}

func GetFormat(name string) (FormatFunc, error) {
	format, ok := formats[name]
	if !ok {
		return nil, &ErrUnknownFormat{Name: name}
	}
	return format, nil
}

func FormatNames() []string {
	names := maps.Keys(formats)
	slices.Sort(names)
	return names
}

// FormatWidth returns the width of the dense feature vector produced by the
// configured data format. For the autoencoder format the width is declared
// by the registered encoder, not by the configuration.
func FormatWidth(config *Configuration) (int, error) {
	switch config.DataFormat {
	case "charge_bins":
		if err := validateBinEdges(config.DataFormat, config.TimeBins); err != nil {
			return 0, err
		}
		return len(config.TimeBins) - 1, nil
	case "charge_bins_and_times":
		if err := validateBinEdges(config.DataFormat, config.TimeBins); err != nil {
			return 0, err
		}
		return len(config.TimeBins) - 1 + 2, nil
	case "autoencoder":
		encoder, err := getEncoder(config.AutoencoderName)
		if err != nil {
			return 0, err
		}
		return encoder.Width(), nil
	case "charge_weighted_time_quantiles":
		if len(config.TimeQuantiles) == 0 {
			return 0, &ErrMissingConfigField{Format: config.DataFormat, Field: "time_quantiles"}
		}
		return len(config.TimeQuantiles) + 1, nil
	case "pulse_summmary_clipped":
		return numSummaryBins, nil
	}
	return 0, &ErrUnknownFormat{Name: config.DataFormat}
}

// ChargeBins histograms the pulse charge in the time bins given by
// config.TimeBins. Only non-zero bins are emitted, in ascending bin order.
func ChargeBins(charges []float64, times []float64, globalTimeOffset float64,
	localTimeOffset float64, config *Configuration) ([]float64, []int, error) {
	if err := checkPulseSeries("charge_bins", charges, times); err != nil {
		return nil, nil, err
	}
	if err := validateBinEdges("charge_bins", config.TimeBins); err != nil {
		return nil, nil, err
	}

	var binValues []float64
	var binIndices []int

	hist := weightedHistogram(times, charges, config.TimeBins)
	for i, charge := range hist {
		if charge != 0 {
			binValues = append(binValues, charge)
			binIndices = append(binIndices, i)
		}
	}
	return binValues, binIndices, nil
}

// ChargeBinsAndTimes histograms the pulse charge like ChargeBins and
// additionally emits the absolute time of the first pulse (index 0) and the
// total time offset (index 1). Those two slots are always emitted;
// histogram bins are shifted by +2.
func ChargeBinsAndTimes(charges []float64, times []float64, globalTimeOffset float64,
	localTimeOffset float64, config *Configuration) ([]float64, []int, error) {
	if err := checkPulseSeries("charge_bins_and_times", charges, times); err != nil {
		return nil, nil, err
	}
	if err := validateBinEdges("charge_bins_and_times", config.TimeBins); err != nil {
		return nil, nil, err
	}

	totalTimeOffset := localTimeOffset + globalTimeOffset
	binValues := []float64{times[0] + totalTimeOffset, totalTimeOffset}
	binIndices := []int{0, 1}

	hist := weightedHistogram(times, charges, config.TimeBins)
	for i, charge := range hist {
		if charge != 0 {
			binValues = append(binValues, charge)
			binIndices = append(binIndices, i+2)
		}
	}
	return binValues, binIndices, nil
}

// AutoencoderFormat passes the pulse series through the configured learned
// encoder. The encoder declares its own output width; this side only
// composes the time offset and forwards. Encoder failures propagate
// unchanged.
func AutoencoderFormat(charges []float64, times []float64, globalTimeOffset float64,
	localTimeOffset float64, config *Configuration) ([]float64, []int, error) {
	if err := checkPulseSeries("autoencoder", charges, times); err != nil {
		return nil, nil, err
	}
	encoder, err := getEncoder(config.AutoencoderName)
	if err != nil {
		return nil, nil, err
	}

	totalTimeOffset := localTimeOffset + globalTimeOffset
	return encoder.Encode(times, charges, config.TimeBins,
		config.AutoencoderSettings, totalTimeOffset)
}

// Tolerance against floating point round-off when the cumulative charge
// fraction lands exactly on a quantile boundary.
const quantileEpsilon = 1e-6

// ChargeWeightedTimeQuantiles emits the total sensor charge at index 0 and,
// for each configured quantile q at position i, at index i+1 the time of
// the first pulse whose cumulative charge fraction reaches q. The
// cumulative sum runs over pulses in their given order, not time-sorted
// order; the downstream model was trained on exactly this quantity.
func ChargeWeightedTimeQuantiles(charges []float64, times []float64, globalTimeOffset float64,
	localTimeOffset float64, config *Configuration) ([]float64, []int, error) {
	if err := checkPulseSeries("charge_weighted_time_quantiles", charges, times); err != nil {
		return nil, nil, err
	}
	if len(config.TimeQuantiles) == 0 {
		return nil, nil, &ErrMissingConfigField{
			Format: "charge_weighted_time_quantiles",
			Field:  "time_quantiles",
		}
	}

	var totalCharge float64
	for _, charge := range charges {
		totalCharge += charge
	}
	if totalCharge == 0 {
		return nil, nil, &ErrZeroTotalWeight{Op: "charge_weighted_time_quantiles"}
	}

	cumFraction := make([]float64, len(charges))
	var cumCharge float64
	for i, charge := range charges {
		cumCharge += charge
		cumFraction[i] = cumCharge / totalCharge
	}

	binValues := []float64{totalCharge}
	binIndices := []int{0}

	for i, q := range config.TimeQuantiles {
		if q <= 0 || q > 1 {
			return nil, nil, &ErrInvalidQuantile{Quantile: q}
		}
		found := false
		for j, fraction := range cumFraction {
			if fraction >= q-quantileEpsilon {
				binValues = append(binValues, times[j])
				binIndices = append(binIndices, i+1)
				found = true
				break
			}
		}
		if !found {
			return nil, nil, &ErrQuantileNotReached{Quantile: q}
		}
	}
	return binValues, binIndices, nil
}

const (
	numSummaryBins = 9

	// Pulses outside this window are discarded before computing summary
	// statistics; anything further out is noise, not sensor response.
	clipTimeMin = -5000.0
	clipTimeMax = 14000.0

	promptWindowNarrow = 100.0
	promptWindowWide   = 500.0
)

// PulseSummaryClipped reduces the pulse series to nine summary statistics,
// computed after clipping to [clipTimeMin, clipTimeMax]:
//
//	0: total charge
//	1: charge within 500 time units of the first pulse
//	2: charge within 100 time units of the first pulse
//	3: time of first pulse
//	4: charge weighted time quantile, q=0.2
//	5: charge weighted time quantile, q=0.5
//	6: time of last pulse
//	7: charge weighted mean time
//	8: charge weighted std of time
//
// All nine slots are always emitted. The prompt-charge windows use a strict
// "<" against the first clipped pulse, matching the reference values the
// model was trained on.
func PulseSummaryClipped(charges []float64, times []float64, globalTimeOffset float64,
	localTimeOffset float64, config *Configuration) ([]float64, []int, error) {
	if err := checkPulseSeries("pulse_summmary_clipped", charges, times); err != nil {
		return nil, nil, err
	}

	clippedCharges := make([]float64, 0, len(charges))
	clippedTimes := make([]float64, 0, len(times))
	for i, t := range times {
		if t < clipTimeMin || t > clipTimeMax {
			continue
		}
		clippedCharges = append(clippedCharges, charges[i])
		clippedTimes = append(clippedTimes, t)
	}
	if len(clippedTimes) == 0 {
		return nil, nil, &ErrAllPulsesClipped{TimeMin: clipTimeMin, TimeMax: clipTimeMax}
	}

	firstTime := clippedTimes[0]
	lastTime := clippedTimes[len(clippedTimes)-1]

	var chargeSum, promptChargeNarrow, promptChargeWide float64
	for i, t := range clippedTimes {
		chargeSum += clippedCharges[i]
		if t-firstTime < promptWindowNarrow {
			promptChargeNarrow += clippedCharges[i]
		}
		if t-firstTime < promptWindowWide {
			promptChargeWide += clippedCharges[i]
		}
	}

	meanTime, err := WeightedMean(clippedTimes, clippedCharges)
	if err != nil {
		return nil, nil, err
	}
	stdTime, err := WeightedStd(clippedTimes, clippedCharges)
	if err != nil {
		return nil, nil, err
	}
	quantile20, err := WeightedQuantile(clippedTimes, clippedCharges, 0.2)
	if err != nil {
		return nil, nil, err
	}
	quantile50, err := WeightedQuantile(clippedTimes, clippedCharges, 0.5)
	if err != nil {
		return nil, nil, err
	}

	binValues := []float64{
		chargeSum,
		promptChargeWide,
		promptChargeNarrow,
		firstTime,
		quantile20,
		quantile50,
		lastTime,
		meanTime,
		stdTime,
	}
	binIndices := make([]int, numSummaryBins)
	for i := range binIndices {
		binIndices[i] = i
	}
	return binValues, binIndices, nil
}

func checkPulseSeries(op string, charges []float64, times []float64) error {
	if len(charges) == 0 {
		return &ErrEmptyPulseSeries{Op: op}
	}
	if len(charges) != len(times) {
		return &ErrLengthMismatch{Op: op, Values: len(times), Weights: len(charges)}
	}
	return nil
}
