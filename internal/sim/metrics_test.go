package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pv-plant-model/internal/model"
)

func metricsConfig() (model.SystemConfig, model.ElectricalConfig) {
	sys := groundMountSystem() // PDC0 1000, efficiency 0.2
	elec := openElectrical()
	elec.POICapacity = 100
	elec.TimeStep = 60
	return sys, elec
}

func TestResults(t *testing.T) {
	sys, elec := metricsConfig()

	plant := PlantSeries{
		Output: []float64{100, 100},
		Losses: []float64{0, 0},
	}
	eff := EffectiveIrradiance{Front: []float64{1000, 1000}}

	m := Results(plant, eff, sys, elec)

	// Hourly samples reduce to a plain power-to-energy sum.
	assert.InDelta(t, 200, m.AEP, 1e-9)

	// 200 Wh against 100 W of POI capacity over the fixed reference year.
	assert.InDelta(t, 200.0/100/8760, m.NCF, 1e-12)

	// 200 Wh per 1000 W of DC nameplate.
	assert.InDelta(t, 0.2, m.EnergyYield, 1e-9)

	// Reference energy: 2000 Wh/m² * (1000/0.2/1000) = 10000 Wh.
	assert.InDelta(t, 1-200.0/10000, m.PR, 1e-9)
}

func TestResults_TimeStepScaling(t *testing.T) {
	sys, elec := metricsConfig()
	elec.TimeStep = 30

	plant := PlantSeries{Output: []float64{100, 100}, Losses: []float64{0, 0}}
	eff := EffectiveIrradiance{Front: []float64{1000, 1000}}

	m := Results(plant, eff, sys, elec)
	assert.InDelta(t, 100, m.AEP, 1e-9) // half-hour samples halve the energy
}

func TestResults_PlantLossesDeducted(t *testing.T) {
	sys, elec := metricsConfig()

	plant := PlantSeries{Output: []float64{100, 100}, Losses: []float64{1, 1}}
	eff := EffectiveIrradiance{Front: []float64{1000, 1000}}

	m := Results(plant, eff, sys, elec)
	assert.InDelta(t, 198, m.AEP, 1e-9)
}

func TestResults_NCFAlwaysAnnualized(t *testing.T) {
	// The capacity-factor denominator is the fixed 8760 hour year no matter
	// how short the series is; doubling the series doubles NCF.
	sys, elec := metricsConfig()
	eff2 := EffectiveIrradiance{Front: []float64{1000, 1000}}
	eff4 := EffectiveIrradiance{Front: []float64{1000, 1000, 1000, 1000}}

	m2 := Results(PlantSeries{Output: []float64{100, 100}, Losses: []float64{0, 0}}, eff2, sys, elec)
	m4 := Results(PlantSeries{Output: []float64{100, 100, 100, 100}, Losses: []float64{0, 0, 0, 0}}, eff4, sys, elec)

	assert.InDelta(t, 2*m2.NCF, m4.NCF, 1e-12)
}

func TestResults_PRUsesFrontsideOnly(t *testing.T) {
	sys, elec := metricsConfig()
	plant := PlantSeries{Output: []float64{100}, Losses: []float64{0}}

	// Same frontside, wildly different combined series: PR must not move.
	a := Results(plant, EffectiveIrradiance{
		Front:    []float64{1000},
		Combined: []float64{1000},
		Soiled:   []float64{980},
	}, sys, elec)
	b := Results(plant, EffectiveIrradiance{
		Front:    []float64{1000},
		Combined: []float64{1400},
		Soiled:   []float64{1372},
	}, sys, elec)

	assert.Equal(t, a.PR, b.PR)
}

func TestResults_Idempotent(t *testing.T) {
	sys, elec := metricsConfig()
	plant := PlantSeries{Output: []float64{100, 90, 80}, Losses: []float64{1, 0.9, 0.8}}
	eff := EffectiveIrradiance{Front: []float64{1000, 900, 800}}

	first := Results(plant, eff, sys, elec)
	second := Results(plant, eff, sys, elec)
	assert.Equal(t, first, second)
}
