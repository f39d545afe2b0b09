package sim

import (
	"math"

	"pv-plant-model/internal/model"
)

// EffectiveIrradiance is the output of the irradiance combination step, all
// W/m². Front carries the frontside effective series through to the
// performance ratio; Combined adds the backside contribution; Soiled applies
// the soiling loss. Computed once per run, never mutated afterward.
type EffectiveIrradiance struct {
	Front    []float64
	Combined []float64
	Soiled   []float64
}

// CombineIrradiance merges the front- and back-side plane-of-array series
// into a single effective irradiance:
//
//	combined = front + back × bifaciality × (1 − bifacialLosses)
//	soiled   = combined × (1 − soiling)
//
// Backtracking trackers combine against the upstream frontside effective
// irradiance instead of the view-factor front, because the view-factor
// engine does not account for backtracking; the substitution is deliberate
// compensation, not a fallback. Missing (NaN) irradiance samples count as
// zero contribution. The same soiling loss applies to front- and back-side
// irradiance together.
func CombineIrradiance(in Inputs, sys model.SystemConfig, elec model.ElectricalConfig) EffectiveIrradiance {
	n := len(in.Index)
	gain := sys.Module.Bifaciality * (1 - elec.BifacialLosses)
	backtrack := sys.Backtracking()

	eff := EffectiveIrradiance{
		Front:    make([]float64, n),
		Combined: make([]float64, n),
		Soiled:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		front := fillZero(in.Front[i])
		frontEff := fillZero(in.FrontEffective[i])
		back := fillZero(in.Back[i])

		eff.Front[i] = frontEff
		if backtrack {
			eff.Combined[i] = frontEff + back*gain
		} else {
			eff.Combined[i] = front + back*gain
		}
		eff.Soiled[i] = eff.Combined[i] * (1 - in.Weather.Soiling[i])
	}
	return eff
}

func fillZero(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
