package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"

	dnndata "github.com/dnn-reco/dnndata_go/pkg"
)

var dbConn *sqlx.DB
var configuration dnndata.Configuration

var (
	logger         Logger
	VerbosityLevel int
	DiscardErrors  bool
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = dnndata.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	dnndata.SetConfiguration(configuration)
	dnndata.SetLogger(logger)

	if err := configuration.Validate(); err != nil {
		message := fmt.Errorf("Invalid configuration: %w", err)
		logger.Error(message.Error())
		return
	}

	VerbosityLevel = configuration.Verbosity
	DiscardErrors = configuration.Discard
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("Error opening file: %w", err)
		logger.Error(message.Error())
		return
	}
	defer file.Close()

	evtCount, runNumber := countEvents(file)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", evtCount)
		logger.Info(message, "main")
	}

	if !configuration.NoDB {
		dbConn, err = dnndata.ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		if err := dnndata.LoadDatabase(dbConn, runNumber); err != nil {
			return
		}
	}

	fileReader := NewFileReader(file)
	writer := dnndata.NewWriter(configuration.FileOut)

	start := time.Now()
	jobs := make(chan WorkerData, configuration.NumWorkers)
	results := make(chan dnndata.ProcessedEvent, 100)

	for w := 1; w <= configuration.NumWorkers; w++ {
		go worker(w, jobs, results)
	}
	go sendEventsToWorkers(fileReader, jobs)

	evtsToRead := numberOfEventsToProcess(evtCount, configuration.Skip, configuration.MaxEvents)
	processWorkerResults(results, writer, evtsToRead)

	if err := writer.Close(); err != nil {
		logger.Error(err.Error())
	}

	duration := time.Since(start)
	message := fmt.Sprintf("Total time: %d ms", duration.Milliseconds())
	logger.Info(message, "main")
}

func numberOfEventsToProcess(fileEvtCount int, skipEvts int, maxEvtCount int) int {
	available := fileEvtCount - skipEvts
	if available < 0 {
		available = 0
	}
	evtsToRead := maxEvtCount - skipEvts
	if evtsToRead > available {
		evtsToRead = available
	}
	return evtsToRead
}
