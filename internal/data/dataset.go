package data

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"pv-plant-model/internal/model"
	"pv-plant-model/internal/pvwatts"
	"pv-plant-model/internal/sim"
)

// Record is one timestamped sample in a site dataset.
//
// The first six fields come straight from the weather source. The
// plane-of-array fields are produced by a transposition tool and may be
// absent; a nil pointer means the sample is missing, not zero.
type Record struct {
	Time           time.Time `json:"time"`
	GHI            float64   `json:"ghi"`
	DNI            float64   `json:"dni"`
	DHI            float64   `json:"dhi"`
	TempAir        float64   `json:"temp_air"`
	WindSpeed      float64   `json:"wind_speed"`
	SurfaceAlbedo  float64   `json:"surface_albedo"`
	FrontPOA       *float64  `json:"front_poa,omitempty"`
	BackPOA        *float64  `json:"back_poa,omitempty"`
	FrontEffective *float64  `json:"front_effective,omitempty"`
	CellTemp       *float64  `json:"cell_temp,omitempty"`
}

// SiteDataset bundles site metadata with its time series.
type SiteDataset struct {
	Site      model.Site `json:"site"`
	Source    string     `json:"source,omitempty"`     // e.g. "psm3"
	FetchedAt string     `json:"fetched_at,omitempty"` // ISO 8601 timestamp
	TimeStep  int        `json:"time_step"`            // minutes between samples
	Data      []Record   `json:"data"`
}

// LoadDataset loads a site dataset from a JSON file.
func LoadDataset(path string) (*SiteDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var ds SiteDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}

	return &ds, nil
}

// SaveDataset saves a site dataset to a JSON file.
func SaveDataset(ds *SiteDataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}

	return nil
}

// BuildInputs converts a dataset into simulation inputs for the given system.
//
// Missing POA samples become NaN so the irradiance stage can treat them as
// zero production. A dataset with no POA data at all is a raw weather fetch
// that has not been through a transposition tool yet and is rejected.
// Missing cell temperatures are a different matter: the
// dataset either carries a complete measured series or none of it counts,
// and in the latter case the whole series is recomputed from front POA, air
// temperature, and wind speed. Mixing measured and modeled temperatures in
// one run would make neighboring rows incomparable.
//
// When the system declares a surface albedo of its own (rooftops, canopies),
// it replaces the weather albedo column for every sample.
func BuildInputs(ds *SiteDataset, sys model.SystemConfig, soilingLoss float64) (sim.Inputs, error) {
	n := len(ds.Data)
	if n == 0 {
		return sim.Inputs{}, fmt.Errorf("dataset %q has no samples", ds.Site.Name)
	}

	in := sim.Inputs{
		Index: make(model.Index, n),
		Weather: model.Weather{
			GHI:           make([]float64, n),
			DNI:           make([]float64, n),
			DHI:           make([]float64, n),
			TempAir:       make([]float64, n),
			WindSpeed:     make([]float64, n),
			SurfaceAlbedo: make([]float64, n),
		},
		Front:          make([]float64, n),
		Back:           make([]float64, n),
		FrontEffective: make([]float64, n),
	}

	albedo, overrideAlbedo := sys.AlbedoOverride()

	havePOA := false
	haveCellTemp := true
	for i, rec := range ds.Data {
		in.Index[i] = rec.Time
		in.Weather.GHI[i] = rec.GHI
		in.Weather.DNI[i] = rec.DNI
		in.Weather.DHI[i] = rec.DHI
		in.Weather.TempAir[i] = rec.TempAir
		in.Weather.WindSpeed[i] = rec.WindSpeed
		if overrideAlbedo {
			in.Weather.SurfaceAlbedo[i] = albedo
		} else {
			in.Weather.SurfaceAlbedo[i] = rec.SurfaceAlbedo
		}

		in.Front[i] = deref(rec.FrontPOA)
		in.Back[i] = deref(rec.BackPOA)
		in.FrontEffective[i] = deref(rec.FrontEffective)
		if rec.FrontPOA != nil || rec.FrontEffective != nil {
			havePOA = true
		}
		if rec.CellTemp == nil {
			haveCellTemp = false
		}
	}
	if !havePOA {
		return sim.Inputs{}, fmt.Errorf("dataset %q has no plane-of-array irradiance, only raw weather", ds.Site.Name)
	}

	in.Weather.Soiling = model.BroadcastSoiling(soilingLoss, n)

	if haveCellTemp {
		in.CellTemp = make([]float64, n)
		for i, rec := range ds.Data {
			in.CellTemp[i] = *rec.CellTemp
		}
	} else {
		in.CellTemp = fillCellTemp(in, sys.Temperature)
	}

	if err := in.Validate(); err != nil {
		return sim.Inputs{}, err
	}
	return in, nil
}

// fillCellTemp models the cell temperature series from front POA irradiance.
// NaN POA samples count as dark, so those cells sit at air temperature.
func fillCellTemp(in sim.Inputs, p model.TemperatureParams) []float64 {
	out := make([]float64, len(in.Front))
	for i, poa := range in.Front {
		if math.IsNaN(poa) {
			poa = 0
		}
		out[i] = pvwatts.CellTemperature(poa, in.Weather.TempAir[i], in.Weather.WindSpeed[i], p)
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
