package sim

import (
	"pv-plant-model/internal/model"
)

// Hours in the fixed reference year for capacity-factor annualization.
const hoursPerYear = 8760

// Metrics are the scalar performance results of a run.
// Units:
// - AEP: Wh
// - NCF, PR: fractions
// - EnergyYield: Wh per W of DC nameplate
type Metrics struct {
	AEP         float64
	NCF         float64
	EnergyYield float64
	PR          float64
}

// Results reduces the plant series to performance metrics. NCF always
// annualizes against the fixed 8760 hour year regardless of series length,
// so partial-year runs report partial-year capacity factors. The performance
// ratio references frontside effective irradiance only, never the bifacial
// combined series. Pure function of its inputs; callers validate the configs
// first, a zero module efficiency or nameplate is a division fault here.
func Results(plant PlantSeries, eff EffectiveIrradiance, sys model.SystemConfig, elec model.ElectricalConfig) Metrics {
	hours := float64(elec.TimeStep) / 60
	dcCapacity := sys.Module.PDC0

	aep := (sum(plant.Output) - sum(plant.Losses)) * hours

	// Reference energy for PR: frontside insolation over the array area
	// implied by nameplate / module efficiency, in Wh.
	ref := sum(eff.Front) * hours * (dcCapacity / sys.Module.Efficiency / 1000)

	return Metrics{
		AEP:         aep,
		NCF:         aep / elec.POICapacity / hoursPerYear,
		EnergyYield: aep / dcCapacity,
		PR:          1 - aep/ref,
	}
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
