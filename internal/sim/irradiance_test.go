package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-plant-model/internal/model"
)

func trackerSystem(backtrack bool) model.SystemConfig {
	sys := groundMountSystem()
	sys.Racking = model.RackingTracker
	sys.Mount = model.TrackerMount{
		AxisAzimuth: 180,
		MaxAngle:    60,
		GCR:         0.35,
		Backtrack:   backtrack,
	}
	sys.Module.Bifaciality = 0.7
	return sys
}

func TestCombineIrradiance(t *testing.T) {
	front := []float64{100, 500}
	back := []float64{10, 50}
	frontEff := []float64{80, 450}
	in := makeInputs(front, back, frontEff, constant(25, 2), 0)

	elec := openElectrical()
	elec.BifacialLosses = 0.1

	t.Run("fixed tilt combines view-factor front", func(t *testing.T) {
		sys := groundMountSystem()
		sys.Module.Bifaciality = 0.7

		eff := CombineIrradiance(in, sys, elec)
		// front + back * 0.7 * 0.9
		assert.InDelta(t, 100+10*0.63, eff.Combined[0], 1e-9)
		assert.InDelta(t, 500+50*0.63, eff.Combined[1], 1e-9)
	})

	t.Run("backtracking substitutes the upstream frontside", func(t *testing.T) {
		eff := CombineIrradiance(in, trackerSystem(true), elec)
		assert.InDelta(t, 80+10*0.63, eff.Combined[0], 1e-9)
		assert.InDelta(t, 450+50*0.63, eff.Combined[1], 1e-9)
	})

	t.Run("non-backtracking tracker combines view-factor front", func(t *testing.T) {
		eff := CombineIrradiance(in, trackerSystem(false), elec)
		assert.InDelta(t, 100+10*0.63, eff.Combined[0], 1e-9)
	})

	t.Run("frontside carries through for the performance ratio", func(t *testing.T) {
		eff := CombineIrradiance(in, groundMountSystem(), elec)
		assert.Equal(t, frontEff, eff.Front)
	})
}

func TestCombineIrradiance_ZeroBifaciality(t *testing.T) {
	// With zero bifaciality the combined series equals the frontside series
	// exactly, with no dependence on the backside values.
	front := []float64{100, 250.5, 333.333}
	back := []float64{500, 600, 700}
	in := makeInputs(front, back, front, constant(25, 3), 0)

	sys := groundMountSystem()
	sys.Module.Bifaciality = 0

	eff := CombineIrradiance(in, sys, openElectrical())
	assert.Equal(t, front, eff.Combined)
	assert.Equal(t, front, eff.Soiled)
}

func TestCombineIrradiance_Soiling(t *testing.T) {
	front := []float64{1000, 500}
	in := makeInputs(front, constant(0, 2), front, constant(25, 2), 0.02)

	eff := CombineIrradiance(in, groundMountSystem(), openElectrical())
	assert.InDelta(t, 980, eff.Soiled[0], 1e-9)
	assert.InDelta(t, 490, eff.Soiled[1], 1e-9)
}

func TestCombineIrradiance_FillsMissingValues(t *testing.T) {
	nan := math.NaN()
	front := []float64{nan, 500, 500}
	back := []float64{100, nan, 100}
	frontEff := []float64{400, 400, nan}
	in := makeInputs(front, back, frontEff, constant(25, 3), 0)

	sys := groundMountSystem()
	sys.Module.Bifaciality = 0.7

	eff := CombineIrradiance(in, sys, openElectrical())
	for i := range eff.Combined {
		require.False(t, math.IsNaN(eff.Combined[i]), "combined[%d]", i)
		require.False(t, math.IsNaN(eff.Soiled[i]), "soiled[%d]", i)
		require.False(t, math.IsNaN(eff.Front[i]), "front[%d]", i)
	}
	// Missing samples contribute zero, they do not poison the row.
	assert.InDelta(t, 100*0.7, eff.Combined[0], 1e-9)
	assert.InDelta(t, 500, eff.Combined[1], 1e-9)
	assert.Equal(t, 0.0, eff.Front[2])
}
