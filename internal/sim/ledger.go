package sim

import (
	"time"

	"pv-plant-model/internal/model"
)

// LedgerRow is one row of per-timestep output across every stage.
// This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Index int
	Time  time.Time

	GHI       float64
	TempAir   float64
	WindSpeed float64
	Soiling   float64

	FrontPOA       float64
	BackPOA        float64
	FrontEffective float64
	Combined       float64
	Soiled         float64
	CellTemp       float64

	PDC        float64
	DCLosses   float64
	DCOutput   float64
	DCClipping float64

	PAC        float64
	ACLosses   float64
	ACOutput   float64
	ACClipping float64

	PlantOutput float64
	PlantLosses float64

	Condition model.Condition
}

// Result bundles every series a run produces plus the reduced metrics.
type Result struct {
	Model     string
	Index     model.Index
	Effective EffectiveIrradiance
	DC        DCSeries
	AC        ACSeries
	Plant     PlantSeries
	Metrics   Metrics
	Ledger    []LedgerRow
}

func buildLedger(in Inputs, eff EffectiveIrradiance, dc DCSeries, ac ACSeries, plant PlantSeries) []LedgerRow {
	ledger := make([]LedgerRow, 0, len(in.Index))
	for i := range in.Index {
		ledger = append(ledger, LedgerRow{
			Index: i,
			Time:  in.Index[i],

			GHI:       in.Weather.GHI[i],
			TempAir:   in.Weather.TempAir[i],
			WindSpeed: in.Weather.WindSpeed[i],
			Soiling:   in.Weather.Soiling[i],

			FrontPOA:       in.Front[i],
			BackPOA:        in.Back[i],
			FrontEffective: eff.Front[i],
			Combined:       eff.Combined[i],
			Soiled:         eff.Soiled[i],
			CellTemp:       in.CellTemp[i],

			PDC:        dc.PDC[i],
			DCLosses:   dc.Losses[i],
			DCOutput:   dc.Output[i],
			DCClipping: dc.Clipping[i],

			PAC:        ac.PAC[i],
			ACLosses:   ac.Losses[i],
			ACOutput:   ac.Output[i],
			ACClipping: ac.Clipping[i],

			PlantOutput: plant.Output[i],
			PlantLosses: plant.Losses[i],

			Condition: model.ConditionOf(eff.Soiled[i], dc.Clipping[i], ac.Clipping[i]),
		})
	}
	return ledger
}
