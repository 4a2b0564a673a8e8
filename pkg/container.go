package dnndata

import "fmt"

// DataContainer assembles the sparse per-sensor feature pairs of one event
// into the dense [sensor][bin] tensor written to disk. Rows follow the
// ascending sensor ID order of the geometry.
type DataContainer struct {
	NumBins    int
	format     FormatFunc
	formatName string
	order      []uint16
	rowIndex   map[uint16]int
	data       []float32
}

// NewDataContainer validates the configured format against the geometry and
// allocates the event tensor. With check_settings enabled, a num_data_bins
// value that does not match the width of the selected format is rejected
// here instead of producing a mis-shaped tensor later.
func NewDataContainer(config *Configuration, sensors SensorsMap) (*DataContainer, error) {
	format, err := GetFormat(config.DataFormat)
	if err != nil {
		return nil, err
	}

	numBins := config.NumDataBins
	if config.CheckSettings {
		width, err := FormatWidth(config)
		if err != nil {
			return nil, err
		}
		if numBins != width {
			return nil, &ErrNumBinsMismatch{Configured: numBins, Expected: width}
		}
	}

	order := sensors.SensorOrder()
	rowIndex := make(map[uint16]int, len(order))
	for row, sensorID := range order {
		rowIndex[sensorID] = row
	}

	return &DataContainer{
		NumBins:    numBins,
		format:     format,
		formatName: config.DataFormat,
		order:      order,
		rowIndex:   rowIndex,
		data:       make([]float32, len(order)*numBins),
	}, nil
}

func (c *DataContainer) NumSensors() int {
	return len(c.order)
}

func (c *DataContainer) SensorOrder() []uint16 {
	return c.order
}

// Data returns the flattened [sensor][bin] tensor.
func (c *DataContainer) Data() []float32 {
	return c.data
}

func (c *DataContainer) Reset() {
	for i := range c.data {
		c.data[i] = 0
	}
}

// SetSensorData merges one sensor's sparse feature pair into the tensor.
func (c *DataContainer) SetSensorData(sensorID uint16, values []float64, indices []int) error {
	row, ok := c.rowIndex[sensorID]
	if !ok {
		return fmt.Errorf("sensor %d not present in geometry", sensorID)
	}
	if len(values) != len(indices) {
		return &ErrLengthMismatch{Op: "set sensor data", Values: len(values), Weights: len(indices)}
	}
	for i, bin := range indices {
		if bin < 0 || bin >= c.NumBins {
			return fmt.Errorf("bin index %d out of range for %d data bins", bin, c.NumBins)
		}
		c.data[row*c.NumBins+bin] = float32(values[i])
	}
	return nil
}

// GlobalTimeOffset computes the event-wide time offset for the configured
// relative time method. The offset is shared by every sensor of the event.
func GlobalTimeOffset(pulses map[uint16]PulseSeries, config *Configuration) (float64, error) {
	switch config.RelativeTimeMethod {
	case "none":
		return 0, nil
	case "first_pulse":
		charges, times := RestructurePulseMap(pulses)
		if len(charges) == 0 {
			return 0, &ErrEmptyPulseSeries{Op: "first_pulse time offset"}
		}
		first := times[0]
		for _, t := range times[1:] {
			if t < first {
				first = t
			}
		}
		return first, nil
	case "charge_weighted_median":
		charges, times := RestructurePulseMap(pulses)
		return WeightedQuantile(times, charges, 0.5)
	}
	return 0, &ErrUnknownRelativeTimeMethod{Name: config.RelativeTimeMethod}
}

// ProcessEvent applies the exclusions, computes the time offsets, runs the
// configured format over every remaining sensor and merges the sparse
// outputs into the container. Sensors without pulses are left at zero.
func ProcessEvent(event *EventType, config *Configuration, container *DataContainer) error {
	container.Reset()

	pulses := ApplyExclusions(event, config)
	if len(pulses) == 0 {
		if config.Verbosity > 0 {
			message := fmt.Sprintf("event %d has no pulses after exclusions", event.EventID)
			logger.Info(message, "container")
		}
		return nil
	}

	globalTimeOffset, err := GlobalTimeOffset(pulses, config)
	if err != nil {
		return fmt.Errorf("event %d: %w", event.EventID, err)
	}

	for _, sensorID := range container.order {
		series, ok := pulses[sensorID]
		if !ok {
			continue
		}

		localTimeOffset := event.SensorsMap.TimeOffsets[sensorID]
		totalTimeOffset := localTimeOffset + globalTimeOffset

		relTimes := make([]float64, len(series.Times))
		for i, t := range series.Times {
			relTimes[i] = t - totalTimeOffset
		}

		values, indices, err := container.format(series.Charges, relTimes,
			globalTimeOffset, localTimeOffset, config)
		if err != nil {
			return fmt.Errorf("event %d, sensor %d: %w", event.EventID, sensorID, err)
		}
		if err := container.SetSensorData(sensorID, values, indices); err != nil {
			return fmt.Errorf("event %d, sensor %d: %w", event.EventID, sensorID, err)
		}
	}
	return nil
}
