package sim

import (
	"pv-plant-model/internal/model"
)

// DCSeries holds the DC stage outputs, W.
type DCSeries struct {
	PDC      []float64
	Losses   []float64
	Output   []float64
	Clipping []float64
}

// RunDC converts soiled effective irradiance and cell temperature to DC
// power, applies the flat DC loss fraction, and records power above the
// inverter's DC nameplate as clipping. Output itself is not clamped; only
// the clipping column is, so pathological negative irradiance flows through
// as-is.
func RunDC(eff EffectiveIrradiance, cellTemp []float64, pm PowerModel, elec model.ElectricalConfig) DCSeries {
	n := len(eff.Soiled)
	ceiling := elec.InverterPDC0()

	dc := DCSeries{
		PDC:      make([]float64, n),
		Losses:   make([]float64, n),
		Output:   make([]float64, n),
		Clipping: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		pdc := pm.DC(eff.Soiled[i], cellTemp[i])
		losses := pdc * elec.DCLosses
		output := pdc - losses
		clipping := output - ceiling
		if clipping < 0 {
			clipping = 0
		}

		dc.PDC[i] = pdc
		dc.Losses[i] = losses
		dc.Output[i] = output
		dc.Clipping[i] = clipping
	}
	return dc
}
