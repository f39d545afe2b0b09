package analysis

import (
	"math"
	"sort"
	"time"

	"pv-plant-model/internal/model"
	"pv-plant-model/internal/sim"
)

// Summary is a run-level rollup of the simulation ledger: energy totals, the
// loss waterfall between the DC array and the point of interconnection,
// monthly buckets, and output statistics. All energies are Wh at the run's
// time step.
type Summary struct {
	Start time.Time
	End   time.Time
	Count int

	ProducingSteps    int
	InverterClipSteps int
	POIClipSteps      int

	Waterfall Waterfall
	Monthly   []MonthlyEnergy

	// Output statistics in W over the whole series.
	MeanOutput float64
	MaxOutput  float64
	P05Output  float64
	P95Output  float64

	// Frontside plane-of-array statistics in W/m².
	MeanPOA float64
	MaxPOA  float64
}

// Waterfall itemizes where the energy went, in Wh. DCNet less the four loss
// buckets below it equals Delivered.
type Waterfall struct {
	DCGross  float64
	DCLosses float64
	DCNet    float64

	// InverterClipping is the recorded DC-side excess over the inverter
	// nameplate. Informational: the inverter clamp enforces the limit, so
	// this energy is already part of ConversionLoss.
	InverterClipping float64

	ConversionLoss float64
	ACLosses       float64
	POIClipping    float64
	PlantLosses    float64

	Delivered float64
}

// MonthlyEnergy buckets delivered energy and frontside insolation by
// calendar month.
type MonthlyEnergy struct {
	Year       int
	Month      time.Month
	Delivered  float64 // Wh, after plant losses
	Insolation float64 // Wh/m², frontside effective
}

// Summarize reduces a run result to a Summary.
func Summarize(res *sim.Result, elec model.ElectricalConfig) Summary {
	s := Summary{Count: len(res.Ledger)}
	if s.Count == 0 {
		return s
	}
	hours := float64(elec.TimeStep) / 60

	s.Start = res.Ledger[0].Time
	s.End = res.Ledger[s.Count-1].Time

	outputs := make([]float64, 0, s.Count)
	sumOutput := 0.0
	maxOutput := math.Inf(-1)
	sumPOA := 0.0
	maxPOA := math.Inf(-1)

	monthKeys := make([]monthKey, 0, 12)
	months := make(map[monthKey]*MonthlyEnergy)

	for _, row := range res.Ledger {
		switch row.Condition {
		case model.ConditionProducing:
			s.ProducingSteps++
		case model.ConditionInverterClipping:
			s.InverterClipSteps++
		case model.ConditionPOIClipping:
			s.POIClipSteps++
		}

		s.Waterfall.DCGross += row.PDC * hours
		s.Waterfall.DCLosses += row.DCLosses * hours
		s.Waterfall.DCNet += row.DCOutput * hours
		s.Waterfall.InverterClipping += row.DCClipping * hours
		s.Waterfall.ConversionLoss += (row.DCOutput - row.PAC) * hours
		s.Waterfall.ACLosses += row.ACLosses * hours
		s.Waterfall.POIClipping += row.ACClipping * hours
		s.Waterfall.PlantLosses += row.PlantLosses * hours
		s.Waterfall.Delivered += (row.PlantOutput - row.PlantLosses) * hours

		outputs = append(outputs, row.PlantOutput)
		sumOutput += row.PlantOutput
		if row.PlantOutput > maxOutput {
			maxOutput = row.PlantOutput
		}
		sumPOA += row.FrontEffective
		if row.FrontEffective > maxPOA {
			maxPOA = row.FrontEffective
		}

		key := monthKey{row.Time.Year(), row.Time.Month()}
		bucket, ok := months[key]
		if !ok {
			bucket = &MonthlyEnergy{Year: key.year, Month: key.month}
			months[key] = bucket
			monthKeys = append(monthKeys, key)
		}
		bucket.Delivered += (row.PlantOutput - row.PlantLosses) * hours
		bucket.Insolation += row.FrontEffective * hours
	}

	sort.Float64s(outputs)
	s.MeanOutput = sumOutput / float64(s.Count)
	s.MaxOutput = maxOutput
	s.P05Output = percentileSorted(outputs, 0.05)
	s.P95Output = percentileSorted(outputs, 0.95)
	s.MeanPOA = sumPOA / float64(s.Count)
	s.MaxPOA = maxPOA

	s.Monthly = make([]MonthlyEnergy, 0, len(monthKeys))
	for _, key := range monthKeys {
		s.Monthly = append(s.Monthly, *months[key])
	}
	return s
}

type monthKey struct {
	year  int
	month time.Month
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
