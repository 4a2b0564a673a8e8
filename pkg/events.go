package dnndata

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PulseSeries holds the pulses recorded at one sensor in one event.
// Charges and Times are parallel arrays; times are absolute until the
// processing step subtracts the event's time offsets.
type PulseSeries struct {
	Charges []float64 `json:"charges"`
	Times   []float64 `json:"times"`
}

// TimeWindow marks a time range at one sensor that an upstream selection
// decided to exclude. This package only applies such exclusions, it never
// decides them.
type TimeWindow struct {
	SensorID uint16  `json:"sensor_id"`
	Start    float64 `json:"start"`
	Stop     float64 `json:"stop"`
}

type EventType struct {
	RunNumber       uint32
	EventID         uint32
	Timestamp       uint64
	Pulses          map[uint16]PulseSeries
	ExcludedSensors []uint16
	ExcludedWindows []TimeWindow
	SensorsMap      SensorsMap
	Error           bool
}

// SensorsMap holds the per-run sensor geometry and calibration: the
// electronics channel mapping and the per-sensor time offset (cable delay).
type SensorsMap struct {
	ToElecID    map[uint16]uint16
	ToSensorID  map[uint16]uint16
	TimeOffsets map[uint16]float64
}

// SensorOrder returns the sensor IDs of the map in ascending order. The
// container rows and the writer both follow this order.
func (s SensorsMap) SensorOrder() []uint16 {
	ids := maps.Keys(s.ToElecID)
	slices.Sort(ids)
	return ids
}

// SensorsMapFromEvent builds an identity geometry from the sensors present
// in one event, for runs processed without database access.
func SensorsMapFromEvent(event *EventType) SensorsMap {
	sensors := SensorsMap{
		ToElecID:    make(map[uint16]uint16),
		ToSensorID:  make(map[uint16]uint16),
		TimeOffsets: make(map[uint16]float64),
	}
	for sensorID := range event.Pulses {
		sensors.ToElecID[sensorID] = sensorID
		sensors.ToSensorID[sensorID] = sensorID
		sensors.TimeOffsets[sensorID] = 0
	}
	return sensors
}

// RestructurePulseMap flattens a pulse map into event-wide charge and time
// arrays, iterating sensors in ascending ID order so the result is
// deterministic.
func RestructurePulseMap(pulses map[uint16]PulseSeries) (charges []float64, times []float64) {
	ids := maps.Keys(pulses)
	slices.Sort(ids)
	for _, sensorID := range ids {
		series := pulses[sensorID]
		charges = append(charges, series.Charges...)
		times = append(times, series.Times...)
	}
	return charges, times
}
