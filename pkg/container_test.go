package dnndata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testGeometry(sensorIDs ...uint16) SensorsMap {
	sensors := SensorsMap{
		ToElecID:    make(map[uint16]uint16),
		ToSensorID:  make(map[uint16]uint16),
		TimeOffsets: make(map[uint16]float64),
	}
	for _, id := range sensorIDs {
		sensors.ToElecID[id] = id + 100
		sensors.ToSensorID[id+100] = id
	}
	return sensors
}

func TestNewDataContainer_NumBinsMismatch(t *testing.T) {
	config := &Configuration{
		DataFormat:    "charge_bins",
		TimeBins:      []float64{0, 10, 20, 30},
		NumDataBins:   5,
		CheckSettings: true,
	}
	_, err := NewDataContainer(config, testGeometry(1, 2, 3))
	var mismatchErr *ErrNumBinsMismatch
	require.ErrorAs(t, err, &mismatchErr)
}

func TestProcessEvent_MergesSparseFeatures(t *testing.T) {
	config := &Configuration{
		DataFormat:         "charge_bins",
		TimeBins:           []float64{0, 10, 20, 30},
		NumDataBins:        3,
		CheckSettings:      true,
		RelativeTimeMethod: "none",
	}
	geometry := testGeometry(1, 2, 3)

	container, err := NewDataContainer(config, geometry)
	require.NoError(t, err)
	require.Equal(t, 3, container.NumSensors())

	event := &EventType{
		EventID:    7,
		SensorsMap: geometry,
		Pulses: map[uint16]PulseSeries{
			1: {Charges: []float64{2, 3}, Times: []float64{5, 25}},
			3: {Charges: []float64{1}, Times: []float64{15}},
		},
	}

	require.NoError(t, ProcessEvent(event, config, container))
	require.Equal(t, []float32{
		2, 0, 3, // sensor 1
		0, 0, 0, // sensor 2, no pulses
		0, 1, 0, // sensor 3
	}, container.Data())
}

func TestProcessEvent_AppliesLocalOffset(t *testing.T) {
	config := &Configuration{
		DataFormat:         "charge_bins_and_times",
		TimeBins:           []float64{0, 10, 20, 30},
		NumDataBins:        5,
		CheckSettings:      true,
		RelativeTimeMethod: "none",
	}
	geometry := testGeometry(1)
	geometry.TimeOffsets[1] = 5

	container, err := NewDataContainer(config, geometry)
	require.NoError(t, err)

	event := &EventType{
		SensorsMap: geometry,
		Pulses: map[uint16]PulseSeries{
			1: {Charges: []float64{2}, Times: []float64{5}},
		},
	}

	require.NoError(t, ProcessEvent(event, config, container))

	data := container.Data()
	// Slot 0 holds the absolute first pulse time, slot 1 the total
	// offset; the pulse lands in the first histogram bin (relative
	// time 0) at slot 2.
	require.Equal(t, float32(5), data[0])
	require.Equal(t, float32(5), data[1])
	require.Equal(t, float32(2), data[2])
}

func TestProcessEvent_IsRepeatable(t *testing.T) {
	config := &Configuration{
		DataFormat:         "pulse_summmary_clipped",
		NumDataBins:        9,
		CheckSettings:      true,
		RelativeTimeMethod: "charge_weighted_median",
	}
	geometry := testGeometry(1, 2)

	container, err := NewDataContainer(config, geometry)
	require.NoError(t, err)

	event := &EventType{
		SensorsMap: geometry,
		Pulses: map[uint16]PulseSeries{
			1: {Charges: []float64{2, 3}, Times: []float64{100, 400}},
			2: {Charges: []float64{1}, Times: []float64{250}},
		},
	}

	require.NoError(t, ProcessEvent(event, config, container))
	first := append([]float32(nil), container.Data()...)

	require.NoError(t, ProcessEvent(event, config, container))
	require.Equal(t, first, container.Data())
}

func TestProcessEvent_WholeSensorExclusion(t *testing.T) {
	config := &Configuration{
		DataFormat:         "charge_bins",
		TimeBins:           []float64{0, 10, 20, 30},
		NumDataBins:        3,
		CheckSettings:      true,
		RelativeTimeMethod: "none",
	}
	geometry := testGeometry(1, 2)

	container, err := NewDataContainer(config, geometry)
	require.NoError(t, err)

	event := &EventType{
		SensorsMap:      geometry,
		ExcludedSensors: []uint16{1},
		Pulses: map[uint16]PulseSeries{
			1: {Charges: []float64{2}, Times: []float64{5}},
			2: {Charges: []float64{4}, Times: []float64{15}},
		},
	}

	require.NoError(t, ProcessEvent(event, config, container))
	require.Equal(t, []float32{0, 0, 0, 0, 4, 0}, container.Data())
}

func TestApplyExclusions_PartialKeepsPulsesOutsideWindow(t *testing.T) {
	event := &EventType{
		ExcludedWindows: []TimeWindow{{SensorID: 1, Start: 0, Stop: 10}},
		Pulses: map[uint16]PulseSeries{
			1: {Charges: []float64{2, 4}, Times: []float64{5, 15}},
		},
	}

	partial := ApplyExclusions(event, &Configuration{PartialExclusion: true})
	require.Equal(t, PulseSeries{Charges: []float64{4}, Times: []float64{15}}, partial[1])

	full := ApplyExclusions(event, &Configuration{PartialExclusion: false})
	require.NotContains(t, full, uint16(1))
}

func TestGlobalTimeOffset_Methods(t *testing.T) {
	pulses := map[uint16]PulseSeries{
		1: {Charges: []float64{1, 1}, Times: []float64{30, 0}},
		2: {Charges: []float64{1, 1}, Times: []float64{10, 20}},
	}

	offset, err := GlobalTimeOffset(pulses, &Configuration{RelativeTimeMethod: "none"})
	require.NoError(t, err)
	require.Equal(t, 0.0, offset)

	offset, err = GlobalTimeOffset(pulses, &Configuration{RelativeTimeMethod: "first_pulse"})
	require.NoError(t, err)
	require.Equal(t, 0.0, offset)

	offset, err = GlobalTimeOffset(pulses, &Configuration{RelativeTimeMethod: "charge_weighted_median"})
	require.NoError(t, err)
	require.Equal(t, 10.0, offset)

	_, err = GlobalTimeOffset(pulses, &Configuration{RelativeTimeMethod: "cascade_vertex"})
	var unknownErr *ErrUnknownRelativeTimeMethod
	require.ErrorAs(t, err, &unknownErr)
}

func TestRestructurePulseMap_Deterministic(t *testing.T) {
	pulses := map[uint16]PulseSeries{
		3: {Charges: []float64{3}, Times: []float64{30}},
		1: {Charges: []float64{1}, Times: []float64{10}},
		2: {Charges: []float64{2}, Times: []float64{20}},
	}

	charges, times := RestructurePulseMap(pulses)
	require.Equal(t, []float64{1, 2, 3}, charges)
	require.Equal(t, []float64{10, 20, 30}, times)
}
