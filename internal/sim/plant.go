package sim

import (
	"pv-plant-model/internal/model"
)

// PlantSeries holds the deliverable output after POI clipping, W.
type PlantSeries struct {
	Output []float64
	Losses []float64
}

// RunPlant removes POI clipping from the AC output and applies plant-level
// operating losses (curtailment, availability). The losses stay out of the
// output series; the metrics deduct them.
func RunPlant(ac ACSeries, elec model.ElectricalConfig) PlantSeries {
	n := len(ac.Output)

	plant := PlantSeries{
		Output: make([]float64, n),
		Losses: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		output := ac.Output[i] - ac.Clipping[i]
		plant.Output[i] = output
		plant.Losses[i] = output * elec.PlantLosses
	}
	return plant
}
