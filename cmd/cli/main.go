package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"pv-plant-model/internal/analysis"
	"pv-plant-model/internal/config"
	"pv-plant-model/internal/data"
	"pv-plant-model/internal/model"
	"pv-plant-model/internal/pvwatts"
	"pv-plant-model/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --data examples/datasets/abq_tmy.json --config examples/scenarios/ground_mount.yaml --out results/ledger.csv")
	fmt.Println("  cli summary --data examples/datasets/abq_tmy.json --config examples/scenarios/ground_mount.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes the per-interval power ledger as CSV and prints annual metrics")
	fmt.Println("  - summary prints the loss waterfall and monthly delivered energy")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to site dataset JSON")
	cfgPath := fs.String("config", "", "Path to YAML scenario")
	outPath := fs.String("out", "results/ledger.csv", "Output CSV path")
	n := fs.Int("n", 0, "Optional: limit to first N intervals (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" || *dataPath == "" {
		fmt.Println("--config and --data are required")
		os.Exit(2)
	}

	res, _ := runModel(*cfgPath, *dataPath, *n)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := sim.WriteLedgerCSV(*outPath, res.Ledger); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), *outPath)
	printMetrics(res)
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to site dataset JSON")
	cfgPath := fs.String("config", "", "Path to YAML scenario")
	n := fs.Int("n", 0, "Optional: limit to first N intervals (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" || *dataPath == "" {
		fmt.Println("--config and --data are required")
		os.Exit(2)
	}

	res, elec := runModel(*cfgPath, *dataPath, *n)
	s := analysis.Summarize(res, elec)

	fmt.Printf("%d steps from %s to %s\n", s.Count,
		s.Start.Format("2006-01-02 15:04"), s.End.Format("2006-01-02 15:04"))
	fmt.Printf("producing=%d inverter_clipping=%d poi_clipping=%d\n", s.ProducingSteps, s.InverterClipSteps, s.POIClipSteps)

	fmt.Println("")
	fmt.Println("Energy waterfall (MWh):")
	w := s.Waterfall
	rows := []struct {
		label string
		wh    float64
	}{
		{"dc gross", w.DCGross},
		{"dc losses", -w.DCLosses},
		{"conversion loss", -w.ConversionLoss},
		{"ac losses", -w.ACLosses},
		{"poi clipping", -w.POIClipping},
		{"plant losses", -w.PlantLosses},
		{"delivered", w.Delivered},
	}
	for _, r := range rows {
		fmt.Printf("  %-18s %12.1f\n", r.label, r.wh/1e6)
	}
	if w.InverterClipping > 0 {
		fmt.Printf("  inverter dc excess %12.1f (already inside conversion loss)\n", w.InverterClipping/1e6)
	}

	if len(s.Monthly) > 0 {
		fmt.Println("")
		fmt.Println("Monthly delivered energy:")
		fmt.Printf("  %-8s %12s %14s\n", "month", "MWh", "kWh/m2")
		for _, m := range s.Monthly {
			fmt.Printf("  %04d-%02d  %12.1f %14.1f\n", m.Year, int(m.Month), m.Delivered/1e6, m.Insolation/1000)
		}
	}

	fmt.Println("")
	fmt.Printf("Output: mean=%.1f kW max=%.1f kW p05=%.1f kW p95=%.1f kW\n",
		s.MeanOutput/1e3, s.MaxOutput/1e3, s.P05Output/1e3, s.P95Output/1e3)
	fmt.Printf("POA: mean=%.0f W/m2 max=%.0f W/m2\n", s.MeanPOA, s.MaxPOA)
	printMetrics(res)
}

// runModel loads the scenario and dataset, then runs the power model over
// every interval. n > 0 truncates the dataset, which is handy for smoke runs
// against a full-year file.
func runModel(cfgPath, dataPath string, n int) (*sim.Result, model.ElectricalConfig) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	ds, err := data.LoadDataset(dataPath)
	if err != nil {
		panic(err)
	}
	if n > 0 && n < len(ds.Data) {
		ds.Data = ds.Data[:n]
	}

	sys, err := cfg.BuildSystem()
	if err != nil {
		panic(err)
	}
	elec := cfg.BuildElectrical()

	in, err := data.BuildInputs(ds, sys, cfg.Weather.SoilingLoss)
	if err != nil {
		panic(err)
	}

	res, err := sim.New().Run(in, sys, elec, pvwatts.New(sys.Module))
	if err != nil {
		panic(err)
	}
	return res, elec
}

func printMetrics(res *sim.Result) {
	m := res.Metrics
	fmt.Printf("AEP=%.1f MWh  NCF=%.3f  Yield=%.1f kWh/kWp  PR=%.3f\n",
		m.AEP/1e6, m.NCF, m.EnergyYield, m.PR)
}
