package model

// Transformer holds the loss-curve parameters of one transformer stage.
// Units:
// - PeakLoss: W lost at rated load
// - Rating: W capacity; the main power transformer uses its low-side rating
// - ConstantLoss: W no-load core loss
type Transformer struct {
	PeakLoss     float64
	Rating       float64
	ConstantLoss float64
}

// Output applies the quadratic transformer loss curve to an input power and
// clamps the result at zero; a transformer never reports negative throughput.
// The 0.98 term is a fixed per-unit voltage correction baked into the curve,
// not a tunable parameter.
func (t Transformer) Output(in float64) float64 {
	loading := in / 0.98 / t.Rating
	out := in - (t.PeakLoss*loading*loading + t.ConstantLoss)
	if out < 0 {
		return 0
	}
	return out
}

// ElectricalConfig holds the scalar loss and rating parameters of the
// electrical cascade from DC output to the point of interconnection.
// Immutable for the duration of a run.
// Units:
// - loss fields (DegradationLoss .. PlantLosses): fractions 0..1
// - ACCapacity, POICapacity: W
// - TimeStep: minutes per sample
//
// DegradationLoss is carried for reporting; no stage of the cascade consumes
// it.
type ElectricalConfig struct {
	DegradationLoss        float64
	BifacialLosses         float64
	DCLosses               float64
	ACCapacity             float64
	InverterEfficiencyPeak float64
	PMT                    Transformer
	ACCollection           float64
	MPT                    Transformer
	TransmissionLoss       float64
	POICapacity            float64
	PlantLosses            float64
	TimeStep               int
}

// InverterPDC0 is the inverter's DC nameplate: the DC power at which the
// inverter reaches its AC capacity at peak efficiency. Both the DC clipping
// ceiling and the inverter model are referenced to it.
func (e ElectricalConfig) InverterPDC0() float64 {
	return e.ACCapacity / e.InverterEfficiencyPeak
}

func (e ElectricalConfig) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"DegradationLoss", e.DegradationLoss},
		{"BifacialLosses", e.BifacialLosses},
		{"DCLosses", e.DCLosses},
		{"ACCollection", e.ACCollection},
		{"TransmissionLoss", e.TransmissionLoss},
		{"PlantLosses", e.PlantLosses},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value >= 1 {
			return &ConfigError{Field: f.name, Reason: "must be in [0, 1)"}
		}
	}
	if e.ACCapacity <= 0 {
		return &ConfigError{Field: "ACCapacity", Reason: "must be > 0"}
	}
	if e.InverterEfficiencyPeak <= 0 || e.InverterEfficiencyPeak > 1 {
		return &ConfigError{Field: "InverterEfficiencyPeak", Reason: "must be in (0, 1]"}
	}
	if e.PMT.Rating <= 0 {
		return &ConfigError{Field: "PMT.Rating", Reason: "must be > 0"}
	}
	if e.PMT.PeakLoss < 0 || e.PMT.ConstantLoss < 0 {
		return &ConfigError{Field: "PMT", Reason: "loss terms must be >= 0"}
	}
	if e.MPT.Rating <= 0 {
		return &ConfigError{Field: "MPT.Rating", Reason: "must be > 0"}
	}
	if e.MPT.PeakLoss < 0 || e.MPT.ConstantLoss < 0 {
		return &ConfigError{Field: "MPT", Reason: "loss terms must be >= 0"}
	}
	if e.POICapacity <= 0 {
		return &ConfigError{Field: "POICapacity", Reason: "must be > 0"}
	}
	if e.TimeStep <= 0 {
		return &ConfigError{Field: "TimeStep", Reason: "must be > 0"}
	}
	return nil
}
