package main

import (
	"fmt"
	"strings"

	dnndata "github.com/dnn-reco/dnndata_go/pkg"
)

func printConfiguration(config dnndata.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Data format: %s", config.DataFormat), "config")
	logger.Info(fmt.Sprintf("Number of data bins: %d", config.NumDataBins), "config")
	logger.Info(fmt.Sprintf("Relative time method: %s", config.RelativeTimeMethod), "config")
	logger.Info(fmt.Sprintf("Time bins: %v", config.TimeBins), "config")
	logger.Info(fmt.Sprintf("Time quantiles: %v", config.TimeQuantiles), "config")
	logger.Info(fmt.Sprintf("Autoencoder name: %s", config.AutoencoderName), "config")
	logger.Info(fmt.Sprintf("Pulse key: %s", config.PulseKey), "config")
	logger.Info(fmt.Sprintf("Excluded sensors: %v", config.ExcludedSensors), "config")
	logger.Info(fmt.Sprintf("Partial exclusion: %t", config.PartialExclusion), "config")
	logger.Info(fmt.Sprintf("Check settings: %t", config.CheckSettings), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Discard: %t", config.Discard), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Known formats: %s", strings.Join(dnndata.FormatNames(), ", ")), "config")
}
