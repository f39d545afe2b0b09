package sim

import (
	"fmt"

	"pv-plant-model/internal/model"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes the full pipeline over one aligned input set: irradiance
// combination, DC stage, AC cascade, plant stage, metrics. Stages run in
// strict order and each consumes only its predecessor's output, so a Result
// holds a consistent set of series. Configs are validated up front; no stage
// re-checks them.
func (e *Engine) Run(in Inputs, sys model.SystemConfig, elec model.ElectricalConfig, pm PowerModel) (*Result, error) {
	if pm == nil {
		return nil, fmt.Errorf("power model is nil")
	}
	if err := sys.Validate(); err != nil {
		return nil, fmt.Errorf("system config: %w", err)
	}
	if err := elec.Validate(); err != nil {
		return nil, fmt.Errorf("electrical config: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}

	eff := CombineIrradiance(in, sys, elec)
	dc := RunDC(eff, in.CellTemp, pm, elec)
	ac := RunAC(dc, pm, elec)
	plant := RunPlant(ac, elec)
	metrics := Results(plant, eff, sys, elec)

	return &Result{
		Model:     pm.Name(),
		Index:     in.Index,
		Effective: eff,
		DC:        dc,
		AC:        ac,
		Plant:     plant,
		Metrics:   metrics,
		Ledger:    buildLedger(in, eff, dc, ac, plant),
	}, nil
}
