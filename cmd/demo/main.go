package main

import (
	"flag"
	"fmt"

	"pv-plant-model/internal/config"
	"pv-plant-model/internal/data"
	"pv-plant-model/internal/model"
	"pv-plant-model/internal/pvwatts"
	"pv-plant-model/internal/sim"
)

// Demo:
// - Load a site dataset (irradiance plus weather) from JSON
// - Instantiate a 1 MW single-axis tracker plant
// - Run the power model for a day of intervals to show how the pieces fit
func main() {
	dataPath := flag.String("data", "examples/datasets/albuquerque_tmy.json", "Path to site dataset JSON")
	cfgPath := flag.String("config", "", "Path to YAML scenario (optional)")
	n := flag.Int("n", 24, "Number of intervals to simulate")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	ds, err := data.LoadDataset(*dataPath)
	if err != nil {
		panic(err)
	}
	if len(ds.Data) == 0 {
		panic("no samples in dataset")
	}

	// Defaults (can be overridden via --config).
	sys := model.SystemConfig{
		Racking:        model.RackingTracker,
		AxisHeight:     1.5,
		CollectorWidth: 2.0,
		Mount: model.TrackerMount{
			AxisAzimuth: 180,
			MaxAngle:    52,
			GCR:         0.33,
			Backtrack:   true,
		},
		Module: model.Module{
			PDC0:        1e6,
			GammaPDC:    -0.0037,
			Efficiency:  0.21,
			Bifaciality: 0.7,
		},
		Temperature: model.OpenRackGlassGlass(),
	}
	elec := model.ElectricalConfig{
		BifacialLosses:         0.1,
		DCLosses:               0.02,
		ACCapacity:             850000,
		InverterEfficiencyPeak: 0.98,
		PMT:                    model.Transformer{PeakLoss: 1000, Rating: 1e6, ConstantLoss: 100},
		ACCollection:           0.005,
		MPT:                    model.Transformer{PeakLoss: 1000, Rating: 950000, ConstantLoss: 100},
		TransmissionLoss:       0.003,
		POICapacity:            800000,
		PlantLosses:            0.01,
		TimeStep:               60,
	}
	soiling := 0.02

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		sys, err = cfg.BuildSystem()
		if err != nil {
			panic(err)
		}
		elec = cfg.BuildElectrical()
		soiling = cfg.Weather.SoilingLoss
	}

	if *n > 0 && *n < len(ds.Data) {
		ds.Data = ds.Data[:*n]
	}

	in, err := data.BuildInputs(ds, sys, soiling)
	if err != nil {
		panic(err)
	}

	result, err := sim.New().Run(in, sys, elec, pvwatts.New(sys.Module))
	if err != nil {
		panic(err)
	}

	fmt.Printf("Loaded %d intervals for %s (%s)\n", len(ds.Data), ds.Site.Name, ds.Source)
	fmt.Printf("Racking=%s Backtracking=%v PDC0=%.1f MW\n\n", sys.Racking, sys.Backtracking(), sys.Module.PDC0/1e6)

	for i := 0; i < min(24, len(result.Ledger)); i++ {
		r := result.Ledger[i]
		fmt.Printf(
			"%s poa=%7.1f comb=%7.1f cell=%5.1fC dc=%9.0f ac=%9.0f out=%9.0f  %s\n",
			r.Time.Format("2006-01-02 15:04"),
			r.FrontPOA,
			r.Combined,
			r.CellTemp,
			r.DCOutput,
			r.ACOutput,
			r.PlantOutput,
			string(r.Condition),
		)
	}

	if *outCSV != "" {
		if err := sim.WriteLedgerCSV(*outCSV, result.Ledger); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	m := result.Metrics
	fmt.Printf("\nDone. AEP=%.1f MWh  NCF=%.3f  PR=%.3f\n", m.AEP/1e6, m.NCF, m.PR)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
