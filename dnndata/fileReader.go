package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	dnndata "github.com/dnn-reco/dnndata_go/pkg"
)

// eventRecord is one line of the JSON-lines event file produced by the
// upstream pulse extraction.
type eventRecord struct {
	RunNumber       uint32                           `json:"run_number"`
	EventID         uint32                           `json:"event_id"`
	Timestamp       uint64                           `json:"timestamp"`
	Pulses          map[string]dnndata.PulseSeries   `json:"pulses"`
	ExcludedSensors []uint16                         `json:"excluded_sensors"`
	ExcludedWindows []dnndata.TimeWindow             `json:"excluded_windows"`
}

type FileReader struct {
	File     *os.File
	Scanner  *bufio.Scanner
	EvtCount int
}

func NewFileReader(file *os.File) *FileReader {
	scanner := bufio.NewScanner(file)
	// Large events do not fit the default line buffer
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	return &FileReader{File: file, Scanner: scanner, EvtCount: -1}
}

func (f *FileReader) getNextEvent() (dnndata.EventType, error) {
	event, err := readEventLine(f.Scanner)
	if err != nil {
		return event, err
	}
	f.EvtCount++
	if f.EvtCount >= configuration.MaxEvents {
		if VerbosityLevel > 0 {
			logger.Info("Max events reached", "fileReader")
		}
		return event, io.EOF
	}
	if f.EvtCount < configuration.Skip {
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, event.EventID)
			logger.Info(message, "fileReader")
		}
		return f.getNextEvent()
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading event %d with ID %d", f.EvtCount, event.EventID)
		logger.Info(message, "fileReader")
	}
	return event, nil
}

func readEventLine(scanner *bufio.Scanner) (dnndata.EventType, error) {
	var event dnndata.EventType

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return event, err
		}
		return event, io.EOF
	}

	var record eventRecord
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		return event, fmt.Errorf("error parsing event record: %w", err)
	}

	event.RunNumber = record.RunNumber
	event.EventID = record.EventID
	event.Timestamp = record.Timestamp
	event.ExcludedSensors = record.ExcludedSensors
	event.ExcludedWindows = record.ExcludedWindows
	event.Pulses = make(map[uint16]dnndata.PulseSeries, len(record.Pulses))
	for key, series := range record.Pulses {
		sensorID, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return event, fmt.Errorf("error parsing sensor id %q: %w", key, err)
		}
		if len(series.Charges) != len(series.Times) {
			return event, fmt.Errorf("sensor %d: %d charges but %d times",
				sensorID, len(series.Charges), len(series.Times))
		}
		event.Pulses[uint16(sensorID)] = series
	}
	return event, nil
}

// countEvents counts the events in the file and reads the run number from
// the first record, then rewinds.
func countEvents(file *os.File) (int, int) {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	evtCount := 0
	runNumber := 0
	for {
		event, err := readEventLine(scanner)
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error counting events: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		if evtCount == 0 {
			runNumber = int(event.RunNumber)
		}
		evtCount++
	}
	// Go back to the beginning of the file
	file.Seek(0, 0)
	return evtCount, runNumber
}
