package dnndata

import (
	"encoding/json"
	"os"
)

type Configuration struct {
	DataFormat          string             `json:"data_format"`
	NumDataBins         int                `json:"num_data_bins"`
	RelativeTimeMethod  string             `json:"relative_time_method"`
	TimeBins            []float64          `json:"time_bins"`
	TimeQuantiles       []float64          `json:"time_quantiles"`
	AutoencoderName     string             `json:"autoencoder_name"`
	AutoencoderSettings map[string]float64 `json:"autoencoder_settings"`
	PulseKey            string             `json:"pulse_key"`
	ExcludedSensors     []uint16           `json:"excluded_sensors"`
	PartialExclusion    bool               `json:"partial_exclusion"`
	CheckSettings       bool               `json:"check_settings"`
	MaxEvents           int                `json:"max_events"`
	Verbosity           int                `json:"verbosity"`
	Skip                int                `json:"skip"`
	FileIn              string             `json:"file_in"`
	FileOut             string             `json:"file_out"`
	NoDB                bool               `json:"no_db"`
	Discard             bool               `json:"discard"`
	Host                string             `json:"host"`
	User                string             `json:"user"`
	Passwd              string             `json:"pass"`
	DBName              string             `json:"dbname"`
	NumWorkers          int                `json:"num_workers"`
	WriteData           bool               `json:"write_data"`
	CompressionLevel    int                `json:"compression_level"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.DataFormat = "pulse_summmary_clipped"
	config.NumDataBins = 9
	config.RelativeTimeMethod = "none"
	config.PulseKey = "pulses"
	config.CheckSettings = true
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.Skip = 0
	config.NoDB = false
	config.Discard = true
	config.Host = "db.icecube.wisc.edu"
	config.User = "dnnreader"
	config.Passwd = "readonly"
	config.DBName = "I3OmDb"
	config.NumWorkers = 1
	config.WriteData = true
	config.CompressionLevel = 4

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the fields required by the selected data format and the
// relative time method. Missing or malformed fields are reported here, at
// setup time, instead of failing per sensor during processing.
func (config *Configuration) Validate() error {
	if _, err := GetFormat(config.DataFormat); err != nil {
		return err
	}

	switch config.DataFormat {
	case "charge_bins", "charge_bins_and_times", "autoencoder":
		if err := validateBinEdges(config.DataFormat, config.TimeBins); err != nil {
			return err
		}
	case "charge_weighted_time_quantiles":
		if len(config.TimeQuantiles) == 0 {
			return &ErrMissingConfigField{Format: config.DataFormat, Field: "time_quantiles"}
		}
		for _, q := range config.TimeQuantiles {
			if q <= 0 || q > 1 {
				return &ErrInvalidQuantile{Quantile: q}
			}
		}
	}

	if config.DataFormat == "autoencoder" {
		if config.AutoencoderName == "" {
			return &ErrMissingConfigField{Format: config.DataFormat, Field: "autoencoder_name"}
		}
		if _, err := getEncoder(config.AutoencoderName); err != nil {
			return err
		}
	}

	switch config.RelativeTimeMethod {
	case "none", "first_pulse", "charge_weighted_median":
	default:
		return &ErrUnknownRelativeTimeMethod{Name: config.RelativeTimeMethod}
	}

	return nil
}

func validateBinEdges(format string, edges []float64) error {
	if len(edges) == 0 {
		return &ErrMissingConfigField{Format: format, Field: "time_bins"}
	}
	if len(edges) < 2 {
		return &ErrInvalidBinEdges{Reason: "need at least two edges"}
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return &ErrInvalidBinEdges{Reason: "edges must be strictly ascending"}
		}
	}
	return nil
}
