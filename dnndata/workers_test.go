package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dnndata "github.com/dnn-reco/dnndata_go/pkg"
)

func TestNumberOfEventsToProcess(t *testing.T) {
	// Empty file
	require.Equal(t, 0, numberOfEventsToProcess(0, 0, 1000))
	// Skip beyond the file
	require.Equal(t, 0, numberOfEventsToProcess(5, 10, 1000))
	// Max events below skip
	require.Equal(t, 0, numberOfEventsToProcess(5, 3, 2))
	// Normal selection
	require.Equal(t, 5, numberOfEventsToProcess(5, 0, 1000))
	require.Equal(t, 3, numberOfEventsToProcess(5, 2, 1000))
	require.Equal(t, 2, numberOfEventsToProcess(5, 0, 2))
}

func TestProcessWorkerResults_EmptySelection(t *testing.T) {
	// With nothing selected no worker will ever send a result, so the
	// call must return instead of waiting on the channel.
	results := make(chan dnndata.ProcessedEvent)

	done := make(chan struct{})
	go func() {
		processWorkerResults(results, nil, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processWorkerResults blocked on an empty selection")
	}
}

type panickyEncoder struct{}

func (panickyEncoder) Encode(times []float64, charges []float64, binEdges []float64,
	settings map[string]float64, timeOffset float64) ([]float64, []int, error) {
	panic("model state corrupted")
}

func (panickyEncoder) Width() int { return 4 }

func TestWorker_ContinuesAfterPanic(t *testing.T) {
	dnndata.RegisterEncoder("panicky", panickyEncoder{})
	configuration = dnndata.Configuration{
		DataFormat:         "autoencoder",
		AutoencoderName:    "panicky",
		RelativeTimeMethod: "none",
	}

	geometry := dnndata.SensorsMap{
		ToElecID:    map[uint16]uint16{1: 101},
		ToSensorID:  map[uint16]uint16{101: 1},
		TimeOffsets: map[uint16]float64{1: 0},
	}
	event := dnndata.EventType{
		SensorsMap: geometry,
		Pulses: map[uint16]dnndata.PulseSeries{
			1: {Charges: []float64{1}, Times: []float64{5}},
		},
	}

	jobs := make(chan WorkerData, 2)
	results := make(chan dnndata.ProcessedEvent, 2)
	jobs <- WorkerData{Event: event}
	jobs <- WorkerData{Event: event}
	close(jobs)

	// The worker must survive the first panicking event and still
	// process the second one.
	worker(1, jobs, results)

	first := <-results
	second := <-results
	require.True(t, first.Event.Error)
	require.True(t, second.Event.Error)
}
