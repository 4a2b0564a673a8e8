package dnndata

// ApplyExclusions filters the event's pulse map with the externally decided
// exclusions: statically excluded sensors from the configuration, plus the
// per-event excluded sensors and time windows carried on the event itself.
// With partial exclusion enabled, a time window removes only the pulses
// inside it; otherwise any window drops the whole sensor. The event is not
// mutated.
func ApplyExclusions(event *EventType, config *Configuration) map[uint16]PulseSeries {
	excluded := make(map[uint16]bool)
	for _, sensorID := range config.ExcludedSensors {
		excluded[sensorID] = true
	}
	for _, sensorID := range event.ExcludedSensors {
		excluded[sensorID] = true
	}

	windows := make(map[uint16][]TimeWindow)
	for _, window := range event.ExcludedWindows {
		if config.PartialExclusion {
			windows[window.SensorID] = append(windows[window.SensorID], window)
		} else {
			excluded[window.SensorID] = true
		}
	}

	pulses := make(map[uint16]PulseSeries, len(event.Pulses))
	for sensorID, series := range event.Pulses {
		if excluded[sensorID] {
			continue
		}
		sensorWindows := windows[sensorID]
		if len(sensorWindows) == 0 {
			pulses[sensorID] = series
			continue
		}

		filtered := PulseSeries{}
		for i, t := range series.Times {
			if inWindow(t, sensorWindows) {
				continue
			}
			filtered.Charges = append(filtered.Charges, series.Charges[i])
			filtered.Times = append(filtered.Times, t)
		}
		if len(filtered.Times) > 0 {
			pulses[sensorID] = filtered
		}
	}
	return pulses
}

func inWindow(t float64, windows []TimeWindow) bool {
	for _, window := range windows {
		if t >= window.Start && t < window.Stop {
			return true
		}
	}
	return false
}
