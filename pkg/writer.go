package dnndata

import (
	"errors"
	"fmt"
	"sort"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer streams per-event feature tensors to an HDF5 file. Layout:
// /Run/events and /Run/runInfo tables, /Run/format with the data format
// name and width, /Sensors/DataDOM with the channel mapping and /DNN/data,
// an extendable [event][sensor][bin] float dataset.
type Writer struct {
	File          *hdf5.File
	Filename      string
	FirstEvt      bool
	RunGroup      *hdf5.Group
	DNNGroup      *hdf5.Group
	SensorsGroup  *hdf5.Group
	EventTable    *hdf5.Dataset
	RunInfoTable  *hdf5.Dataset
	FormatTable   *hdf5.Dataset
	MappingTable  *hdf5.Dataset
	FeatureTensor *hdf5.Dataset
	EvtCounter    int
}

func NewWriter(filename string) *Writer {
	writer := &Writer{}
	writer.File = openFile(filename)
	writer.Filename = filename
	writer.RunGroup = createGroup(writer.File, "Run")
	writer.DNNGroup = createGroup(writer.File, "DNN")
	writer.SensorsGroup = createGroup(writer.File, "Sensors")
	writer.EventTable = createTable(writer.RunGroup, "events", EventDataHDF5{})
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	writer.FormatTable = createTable(writer.RunGroup, "format", FormatInfoHDF5{})
	writer.MappingTable = createTable(writer.SensorsGroup, "DataDOM", SensorMappingHDF5{})
	writer.EvtCounter = 0
	return writer
}

func sortSensorsBySensorID(sensorsFromElecIDToSensorID map[uint16]uint16) []SensorMappingHDF5 {
	// The array MUST be allocated at creation, if not, HDF5 will panic
	// doing appends will not work
	sorted := make([]SensorMappingHDF5, len(sensorsFromElecIDToSensorID))
	count := 0
	for elecID, sensorID := range sensorsFromElecIDToSensorID {
		sensor := SensorMappingHDF5{
			channel:  int32(elecID),
			sensorID: int32(sensorID),
		}
		sorted[count] = sensor
		count++
	}

	// Sort by sensorID
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].sensorID < sorted[j].sensorID
	})
	return sorted
}

// WriteEvent appends one event's feature tensor. The first event fixes the
// tensor shape; every later event must come from a container with the same
// geometry and number of bins.
func (w *Writer) WriteEvent(event *EventType, container *DataContainer) {
	nSensors := container.NumSensors()
	nBins := container.NumBins

	if !w.FirstEvt {
		writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(event.RunNumber)}, w.EvtCounter)
		writeEntryToTable(w.FormatTable, FormatInfoHDF5{
			data_format: convertToHdf5String(container.formatName),
			num_bins:    int32(nBins),
		}, w.EvtCounter)

		mapping := sortSensorsBySensorID(event.SensorsMap.ToSensorID)
		writeArrayToTable(w.MappingTable, &mapping, w.EvtCounter)

		w.FeatureTensor = create3dArray(w.DNNGroup, "data", nSensors, nBins)
		w.FirstEvt = true
	}

	writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(event.EventID),
		timestamp:  event.Timestamp,
	}, w.EvtCounter)

	data := container.Data()
	write3dArray(w.FeatureTensor, &data, w.EvtCounter, nSensors, nBins)

	w.EvtCounter++
}

func (w *Writer) Close() error {
	var errs []error

	datasets := map[string]*hdf5.Dataset{
		"events":  w.EventTable,
		"runInfo": w.RunInfoTable,
		"format":  w.FormatTable,
		"DataDOM": w.MappingTable,
		"data":    w.FeatureTensor,
	}
	for name, dataset := range datasets {
		if dataset == nil {
			continue
		}
		if err := dataset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing dataset %q: %w", name, err))
		}
	}

	if err := w.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := w.DNNGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing DNN group: %w", err))
	}
	if err := w.SensorsGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing sensors group: %w", err))
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ProcessedEvent couples a decoded event with its filled container.
type ProcessedEvent struct {
	Event     EventType
	Container *DataContainer
}

func WriteProcessedEvent(processed ProcessedEvent, configuration Configuration, writer *Writer) {
	if configuration.WriteData && !processed.Event.Error {
		writer.WriteEvent(&processed.Event, processed.Container)
	}
}
