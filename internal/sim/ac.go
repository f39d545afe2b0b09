package sim

import (
	"pv-plant-model/internal/model"
)

// ACSeries holds the AC stage outputs, W. Losses is the cumulative figure
// across every loss between the inverter output and the POI.
type ACSeries struct {
	PAC      []float64
	Losses   []float64
	Output   []float64
	Clipping []float64
}

// RunAC runs the inverter model and the loss cascade down to the point of
// interconnection, in fixed order: inverter, padmount transformer, AC
// collection, main power transformer, transmission line, POI clipping. The
// two transformer outputs clamp to zero independently before feeding the
// next stage.
func RunAC(dc DCSeries, pm PowerModel, elec model.ElectricalConfig) ACSeries {
	n := len(dc.Output)
	pdc0 := elec.InverterPDC0()

	ac := ACSeries{
		PAC:      make([]float64, n),
		Losses:   make([]float64, n),
		Output:   make([]float64, n),
		Clipping: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		pac := pm.AC(dc.Output[i], pdc0, elec.InverterEfficiencyPeak)

		pmtOut := elec.PMT.Output(pac)
		mptIn := pmtOut * (1 - elec.ACCollection)
		mptOut := elec.MPT.Output(mptIn)

		output := mptOut * (1 - elec.TransmissionLoss)
		clipping := output - elec.POICapacity
		if clipping < 0 {
			clipping = 0
		}

		ac.PAC[i] = pac
		ac.Losses[i] = pac - output
		ac.Output[i] = output
		ac.Clipping[i] = clipping
	}
	return ac
}
