package model

// Weather holds the per-timestep weather columns for a run, aligned to the
// shared Index. Owned by the caller; read-only to the pipeline.
// Units:
// - GHI/DNI/DHI: W/m²
// - TempAir: °C
// - WindSpeed: m/s
// - SurfaceAlbedo: fraction 0..1
// - Soiling: loss fraction 0..1, broadcast from a scalar at load time
type Weather struct {
	GHI           []float64
	DNI           []float64
	DHI           []float64
	TempAir       []float64
	WindSpeed     []float64
	SurfaceAlbedo []float64
	Soiling       []float64
}

// Validate checks that every column carries exactly n samples.
func (w Weather) Validate(n int) error {
	cols := []struct {
		name string
		data []float64
	}{
		{"weather.ghi", w.GHI},
		{"weather.dni", w.DNI},
		{"weather.dhi", w.DHI},
		{"weather.temp_air", w.TempAir},
		{"weather.wind_speed", w.WindSpeed},
		{"weather.surface_albedo", w.SurfaceAlbedo},
		{"weather.soiling", w.Soiling},
	}
	for _, c := range cols {
		if len(c.data) != n {
			return &AlignmentError{Series: c.name, Got: len(c.data), Want: n}
		}
	}
	return nil
}

// BroadcastSoiling fills the soiling column with a constant loss fraction.
// The loss is not physically time-varying in this model.
func BroadcastSoiling(loss float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = loss
	}
	return s
}
