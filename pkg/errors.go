package dnndata

import "fmt"

// ErrEmptyPulseSeries represents a call with no pulses to work on.
type ErrEmptyPulseSeries struct {
	Op string
}

func (e *ErrEmptyPulseSeries) Error() string {
	return fmt.Sprintf("%s: empty pulse series", e.Op)
}

// ErrLengthMismatch represents parallel arrays of different lengths.
type ErrLengthMismatch struct {
	Op      string
	Values  int
	Weights int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("%s: got %d values but %d weights", e.Op, e.Values, e.Weights)
}

// ErrZeroTotalWeight represents a weighted statistic over all-zero weights.
type ErrZeroTotalWeight struct {
	Op string
}

func (e *ErrZeroTotalWeight) Error() string {
	return fmt.Sprintf("%s: total weight is zero", e.Op)
}

// ErrAllPulsesClipped represents a clip window that removed every pulse.
type ErrAllPulsesClipped struct {
	TimeMin float64
	TimeMax float64
}

func (e *ErrAllPulsesClipped) Error() string {
	return fmt.Sprintf("no pulses left inside clip window [%g, %g]", e.TimeMin, e.TimeMax)
}

// ErrUnknownFormat represents a data format name that is not registered.
type ErrUnknownFormat struct {
	Name string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown data format %q", e.Name)
}

// ErrUnknownEncoder represents an encoder name that is not registered.
type ErrUnknownEncoder struct {
	Name string
}

func (e *ErrUnknownEncoder) Error() string {
	return fmt.Sprintf("unknown encoder %q", e.Name)
}

// ErrMissingConfigField represents a required field that is not set for
// the selected data format.
type ErrMissingConfigField struct {
	Format string
	Field  string
}

func (e *ErrMissingConfigField) Error() string {
	return fmt.Sprintf("data format %q requires configuration field %q", e.Format, e.Field)
}

// ErrInvalidQuantile represents a quantile level outside its valid range.
type ErrInvalidQuantile struct {
	Quantile float64
}

func (e *ErrInvalidQuantile) Error() string {
	return fmt.Sprintf("invalid quantile %g", e.Quantile)
}

// ErrQuantileNotReached represents a cumulative charge fraction that never
// reached the requested quantile level.
type ErrQuantileNotReached struct {
	Quantile float64
}

func (e *ErrQuantileNotReached) Error() string {
	return fmt.Sprintf("cumulative charge never reached quantile %g", e.Quantile)
}

// ErrInvalidBinEdges represents histogram bin edges that are not usable.
type ErrInvalidBinEdges struct {
	Reason string
}

func (e *ErrInvalidBinEdges) Error() string {
	return fmt.Sprintf("invalid time bin edges: %s", e.Reason)
}

// ErrNumBinsMismatch represents a configured number of data bins that does
// not match the width of the selected data format.
type ErrNumBinsMismatch struct {
	Configured int
	Expected   int
}

func (e *ErrNumBinsMismatch) Error() string {
	return fmt.Sprintf("num_data_bins is %d but the selected format produces %d bins", e.Configured, e.Expected)
}

// ErrUnknownRelativeTimeMethod represents an unrecognized relative time method.
type ErrUnknownRelativeTimeMethod struct {
	Name string
}

func (e *ErrUnknownRelativeTimeMethod) Error() string {
	return fmt.Sprintf("unknown relative time method %q", e.Name)
}
