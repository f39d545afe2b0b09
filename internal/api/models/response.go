package models

import "time"

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string      `json:"id,omitempty"`
	Status  string      `json:"status"`
	Model   string      `json:"model"`
	Dataset string      `json:"dataset"`
	Metrics Metrics     `json:"metrics"`
	Summary RunSummary  `json:"summary"`
	Ledger  []LedgerRow `json:"ledger,omitempty"`
}

// Metrics contains the scalar performance results of a run
type Metrics struct {
	AEPWh       float64 `json:"aep_wh"`
	NCF         float64 `json:"ncf"`
	EnergyYield float64 `json:"energy_yield"`
	PR          float64 `json:"pr"`
}

// RunSummary contains aggregated run results
type RunSummary struct {
	Window            TimeWindow      `json:"window"`
	Steps             int             `json:"steps"`
	ProducingSteps    int             `json:"producing_steps"`
	InverterClipSteps int             `json:"inverter_clip_steps"`
	POIClipSteps      int             `json:"poi_clip_steps"`
	Waterfall         Waterfall       `json:"waterfall"`
	Monthly           []MonthlyEnergy `json:"monthly,omitempty"`
	MeanOutputW       float64         `json:"mean_output_w"`
	MaxOutputW        float64         `json:"max_output_w"`
	P05OutputW        float64         `json:"p05_output_w"`
	P95OutputW        float64         `json:"p95_output_w"`
	MeanPOAWm2        float64         `json:"mean_poa_wm2"`
	MaxPOAWm2         float64         `json:"max_poa_wm2"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Waterfall itemizes where the energy went between the DC array and the
// point of interconnection, in Wh
type Waterfall struct {
	DCGrossWh          float64 `json:"dc_gross_wh"`
	DCLossesWh         float64 `json:"dc_losses_wh"`
	DCNetWh            float64 `json:"dc_net_wh"`
	InverterClippingWh float64 `json:"inverter_clipping_wh"`
	ConversionLossWh   float64 `json:"conversion_loss_wh"`
	ACLossesWh         float64 `json:"ac_losses_wh"`
	POIClippingWh      float64 `json:"poi_clipping_wh"`
	PlantLossesWh      float64 `json:"plant_losses_wh"`
	DeliveredWh        float64 `json:"delivered_wh"`
}

// MonthlyEnergy is one calendar month's delivered energy and insolation
type MonthlyEnergy struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	DeliveredWh    float64 `json:"delivered_wh"`
	InsolationWhm2 float64 `json:"insolation_whm2"`
}

// LedgerRow represents one timestep in the simulation ledger
type LedgerRow struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`

	GHI       float64 `json:"ghi"`
	TempAir   float64 `json:"temp_air"`
	WindSpeed float64 `json:"wind_speed"`
	Soiling   float64 `json:"soiling"`

	FrontPOA       float64 `json:"front_poa"`
	BackPOA        float64 `json:"back_poa"`
	FrontEffective float64 `json:"front_effective"`
	Combined       float64 `json:"combined"`
	Soiled         float64 `json:"soiled"`
	CellTemp       float64 `json:"cell_temp"`

	PDC        float64 `json:"pdc"`
	DCLosses   float64 `json:"dc_losses"`
	DCOutput   float64 `json:"dc_output"`
	DCClipping float64 `json:"dc_clipping"`

	PAC        float64 `json:"pac"`
	ACLosses   float64 `json:"ac_losses"`
	ACOutput   float64 `json:"ac_output"`
	ACClipping float64 `json:"ac_clipping"`

	PlantOutput float64 `json:"plant_output"`
	PlantLosses float64 `json:"plant_losses"`

	Condition string `json:"condition"` // "NIGHT", "PRODUCING", "INVERTER_CLIPPING", "POI_CLIPPING"
}

// DatasetInfo represents information about a stored site dataset
type DatasetInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	File     string      `json:"file"`
	Site     DatasetSite `json:"site"`
	Source   string      `json:"source,omitempty"`
	TimeStep int         `json:"time_step"`
	Samples  int         `json:"samples"`
	// HasPOA reports whether the dataset carries plane-of-array irradiance
	// and can therefore drive a simulation.
	HasPOA bool `json:"has_poa"`
}

// DatasetSite locates a dataset's site
type DatasetSite struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	UTCOffset int     `json:"utc_offset"`
}

// FetchDatasetResponse describes the dataset a fetch stored
type FetchDatasetResponse struct {
	Dataset DatasetInfo `json:"dataset"`
}

// ScenarioInfo represents information about a scenario preset
type ScenarioInfo struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	File  string        `json:"file"`
	Specs ScenarioSpecs `json:"specs"`
}

// ScenarioSpecs contains headline plant ratings
type ScenarioSpecs struct {
	Racking      string  `json:"racking"`
	DCCapacityW  float64 `json:"dc_capacity_w"`
	ACCapacityW  float64 `json:"ac_capacity_w"`
	POICapacityW float64 `json:"poi_capacity_w"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
