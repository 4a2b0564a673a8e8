package dnndata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubEncoder records its arguments and emits the time offset at index 0.
type stubEncoder struct {
	width       int
	gotBinEdges []float64
	gotSettings map[string]float64
}

func (e *stubEncoder) Encode(times []float64, charges []float64, binEdges []float64,
	settings map[string]float64, timeOffset float64) ([]float64, []int, error) {
	e.gotBinEdges = binEdges
	e.gotSettings = settings
	return []float64{timeOffset}, []int{0}, nil
}

func (e *stubEncoder) Width() int { return e.width }

var errModelBroken = errors.New("model checkpoint not loadable")

type failingEncoder struct{}

func (failingEncoder) Encode(times []float64, charges []float64, binEdges []float64,
	settings map[string]float64, timeOffset float64) ([]float64, []int, error) {
	return nil, nil, errModelBroken
}

func (failingEncoder) Width() int { return 7 }

func TestAutoencoderFormat_PassesCombinedOffset(t *testing.T) {
	encoder := &stubEncoder{width: 12}
	RegisterEncoder("stub", encoder)

	config := &Configuration{
		AutoencoderName:     "stub",
		TimeBins:            []float64{0, 10, 20},
		AutoencoderSettings: map[string]float64{"latent_size": 12},
	}

	values, indices, err := AutoencoderFormat([]float64{1}, []float64{5}, 3, 2, config)
	require.NoError(t, err)
	require.Equal(t, []float64{5.0}, values)
	require.Equal(t, []int{0}, indices)
	require.Equal(t, config.TimeBins, encoder.gotBinEdges)
	require.Equal(t, config.AutoencoderSettings, encoder.gotSettings)
}

func TestAutoencoderFormat_UnknownEncoder(t *testing.T) {
	config := &Configuration{AutoencoderName: "no_such_encoder"}
	_, _, err := AutoencoderFormat([]float64{1}, []float64{5}, 0, 0, config)
	var unknownErr *ErrUnknownEncoder
	require.ErrorAs(t, err, &unknownErr)
}

func TestAutoencoderFormat_ErrorPropagatesUnchanged(t *testing.T) {
	RegisterEncoder("broken", failingEncoder{})

	config := &Configuration{AutoencoderName: "broken"}
	_, _, err := AutoencoderFormat([]float64{1}, []float64{5}, 0, 0, config)
	require.ErrorIs(t, err, errModelBroken)
}

func TestFormatWidth_Autoencoder(t *testing.T) {
	RegisterEncoder("wide", &stubEncoder{width: 24})

	config := &Configuration{DataFormat: "autoencoder", AutoencoderName: "wide"}
	width, err := FormatWidth(config)
	require.NoError(t, err)
	require.Equal(t, 24, width)
}
