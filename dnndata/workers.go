package main

import (
	"fmt"
	"io"

	dnndata "github.com/dnn-reco/dnndata_go/pkg"
)

type WorkerData struct {
	Event dnndata.EventType
}

func worker(id int, jobs <-chan WorkerData, results chan<- dnndata.ProcessedEvent) {
	for data := range jobs {
		results <- processOne(id, data)
	}
}

// processOne runs one event through the container. The recover sits here,
// around a single event, so a panicking event does not take the worker's
// receive loop down with it.
func processOne(id int, data WorkerData) (processed dnndata.ProcessedEvent) {
	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("Worker %d recovered from panic: %v", id, r)
			logger.Error(message)
			processed = dnndata.ProcessedEvent{Event: dnndata.EventType{Error: true}}
		}
	}()

	event := data.Event
	container, err := dnndata.NewDataContainer(&configuration, event.SensorsMap)
	if err != nil {
		logger.Error(fmt.Errorf("worker %d: %w", id, err).Error())
		event.Error = true
		return dnndata.ProcessedEvent{Event: event}
	}
	if err := dnndata.ProcessEvent(&event, &configuration, container); err != nil {
		logger.Error(fmt.Errorf("worker %d: %w", id, err).Error())
		event.Error = true
	}
	return dnndata.ProcessedEvent{Event: event, Container: container}
}

func sendEventsToWorkers(fileReader *FileReader, jobs chan<- WorkerData) {
	for {
		event, err := fileReader.getNextEvent()
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error reading event: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		if configuration.NoDB {
			event.SensorsMap = dnndata.SensorsMapFromEvent(&event)
		} else {
			event.SensorsMap = dnndata.Sensors()
		}
		jobs <- WorkerData{Event: event}
	}
	close(jobs)
}

func processWorkerResults(results chan dnndata.ProcessedEvent, writer *dnndata.Writer, evtsToRead int) {
	// Nothing will ever arrive on results for an empty selection; entering
	// the receive loop would block forever.
	if evtsToRead <= 0 {
		return
	}

	evtsProcessed := 0
	for processed := range results {
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Processed event %d with ID %d", evtsProcessed, processed.Event.EventID)
			logger.Info(message, "main")
		}
		if processed.Event.Error && DiscardErrors {
			message := fmt.Sprintf("discarding event %d", processed.Event.EventID)
			logger.Error(message)
		} else {
			dnndata.WriteProcessedEvent(processed, configuration, writer)
		}

		evtsProcessed++
		if evtsProcessed >= evtsToRead {
			break
		}
	}
}
