package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validElectrical() ElectricalConfig {
	return ElectricalConfig{
		DegradationLoss:        0.005,
		BifacialLosses:         0.1,
		DCLosses:               0.02,
		ACCapacity:             1.0e8, // 100 MWac
		InverterEfficiencyPeak: 0.98,
		PMT:                    Transformer{PeakLoss: 3.0e5, Rating: 1.0e8, ConstantLoss: 5.0e4},
		ACCollection:           0.005,
		MPT:                    Transformer{PeakLoss: 3.5e5, Rating: 9.8e7, ConstantLoss: 6.0e4},
		TransmissionLoss:       0.003,
		POICapacity:            9.5e7,
		PlantLosses:            0.01,
		TimeStep:               60,
	}
}

func TestTransformerOutput(t *testing.T) {
	tr := Transformer{PeakLoss: 10, Rating: 1000, ConstantLoss: 2}

	// At rated load: 1000 - (10*(1000/0.98/1000)^2 + 2) = 987.5877...
	assert.InDelta(t, 987.5877, tr.Output(1000), 1e-3)

	// Below any load the constant loss still applies, clamped at zero.
	assert.Equal(t, 0.0, tr.Output(0))
	assert.Equal(t, 0.0, tr.Output(1))

	// Output never goes negative even under extreme overload.
	assert.GreaterOrEqual(t, tr.Output(1e9), 0.0)
}

func TestTransformerOutput_StrictLossWithinRating(t *testing.T) {
	tr := Transformer{PeakLoss: 10, Rating: 1000, ConstantLoss: 2}
	for _, in := range []float64{50, 200, 500, 980} {
		out := tr.Output(in)
		assert.Less(t, out, in, "transformer at %v W must lose power", in)
		assert.GreaterOrEqual(t, out, 0.0)
	}
}

func TestInverterPDC0(t *testing.T) {
	elec := validElectrical()
	assert.InDelta(t, 1.0e8/0.98, elec.InverterPDC0(), 1e-6)
}

func TestElectricalConfigValidate(t *testing.T) {
	require.NoError(t, validElectrical().Validate())

	tests := []struct {
		name   string
		mutate func(*ElectricalConfig)
		field  string
	}{
		{
			name:   "negative dc losses",
			mutate: func(e *ElectricalConfig) { e.DCLosses = -0.01 },
			field:  "DCLosses",
		},
		{
			name:   "plant losses at one",
			mutate: func(e *ElectricalConfig) { e.PlantLosses = 1 },
			field:  "PlantLosses",
		},
		{
			name:   "zero ac capacity",
			mutate: func(e *ElectricalConfig) { e.ACCapacity = 0 },
			field:  "ACCapacity",
		},
		{
			name:   "inverter efficiency above one",
			mutate: func(e *ElectricalConfig) { e.InverterEfficiencyPeak = 1.01 },
			field:  "InverterEfficiencyPeak",
		},
		{
			name:   "zero pmt rating",
			mutate: func(e *ElectricalConfig) { e.PMT.Rating = 0 },
			field:  "PMT.Rating",
		},
		{
			name:   "negative mpt constant loss",
			mutate: func(e *ElectricalConfig) { e.MPT.ConstantLoss = -1 },
			field:  "MPT",
		},
		{
			name:   "zero poi capacity",
			mutate: func(e *ElectricalConfig) { e.POICapacity = 0 },
			field:  "POICapacity",
		},
		{
			name:   "zero time step",
			mutate: func(e *ElectricalConfig) { e.TimeStep = 0 },
			field:  "TimeStep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elec := validElectrical()
			tt.mutate(&elec)
			err := elec.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
