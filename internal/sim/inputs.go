package sim

import (
	"pv-plant-model/internal/model"
)

// Inputs bundles every externally supplied series for one run, aligned to a
// shared index. The pipeline never mutates them.
type Inputs struct {
	Index   model.Index
	Weather model.Weather

	// Front and Back are the view-factor plane-of-array irradiance series,
	// W/m². FrontEffective is the frontside effective irradiance from the
	// upstream irradiance model; backtracking systems combine against it
	// instead of Front, and the performance ratio is always referenced to it.
	Front          []float64
	Back           []float64
	FrontEffective []float64

	// CellTemp is the module cell temperature series, °C.
	CellTemp []float64
}

// Validate checks the index and the alignment of every series against it.
// It must pass before any stage runs; the stages assume aligned inputs.
func (in Inputs) Validate() error {
	if err := in.Index.Validate(); err != nil {
		return err
	}
	n := len(in.Index)
	if err := in.Weather.Validate(n); err != nil {
		return err
	}
	series := []struct {
		name string
		data []float64
	}{
		{"front_poa", in.Front},
		{"back_poa", in.Back},
		{"front_effective", in.FrontEffective},
		{"cell_temp", in.CellTemp},
	}
	for _, s := range series {
		if len(s.data) != n {
			return &model.AlignmentError{Series: s.name, Got: len(s.data), Want: n}
		}
	}
	return nil
}
