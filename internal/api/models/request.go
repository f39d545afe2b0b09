package models

import "pv-plant-model/internal/config"

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Dataset DatasetSource   `json:"dataset" binding:"required"`
	Config  SimulateConfig  `json:"config" binding:"required"`
	Options SimulateOptions `json:"options,omitempty"`
}

// DatasetSource names the site dataset that drives the run
type DatasetSource struct {
	// Name of a dataset file under the dataset directory, without extension.
	Name string `json:"name" binding:"required"`
}

// SimulateConfig carries the scenario for a run. A scenario file provides
// the base and any inline blocks override it; without a scenario file the
// inline blocks must describe the whole plant. The blocks bind the same
// shapes the YAML scenario files use.
type SimulateConfig struct {
	ScenarioFile string                   `json:"scenario_file,omitempty"`
	System       *config.SystemConfig     `json:"system,omitempty"`
	Electrical   *config.ElectricalConfig `json:"electrical,omitempty"`
	Weather      *config.WeatherConfig    `json:"weather,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	LimitSteps    int  `json:"limit_steps,omitempty"`    // 0 = all
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// FetchDatasetRequest asks the server to download weather data from NREL
// and store it as a named dataset. Credentials travel with the request; the
// server holds none of its own. Latitude and longitude are pointers so that
// zero coordinates still satisfy the required binding.
type FetchDatasetRequest struct {
	APIKey string `json:"api_key" binding:"required"` // NREL developer API key
	Email  string `json:"email" binding:"required"`
	Name   string `json:"name" binding:"required"` // dataset file name, without extension

	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`

	Names      string  `json:"names,omitempty"`       // "tmy" (default) or a year
	Interval   int     `json:"interval,omitempty"`    // 30 or 60, default 60
	BiasFactor float64 `json:"bias_factor,omitempty"` // irradiance multiplier, default 1
}
