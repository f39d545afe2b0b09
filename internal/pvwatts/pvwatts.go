package pvwatts

import (
	"math"

	"pv-plant-model/internal/model"
)

// Reference inverter efficiency of the PVWatts inverter curve.
const etaInvRef = 0.9637

// Cell temperature at standard test conditions, °C.
const tempRef = 25.0

// DCPower evaluates the PVWatts DC power curve.
//
//	pdc = g/1000 × pdc0 × (1 + gammaPDC × (tempCell − 25))
//
// g is the effective irradiance in W/m², tempCell the cell temperature in °C,
// pdc0 the DC nameplate in W, gammaPDC the power temperature coefficient in
// 1/°C.
func DCPower(gEffective, tempCell, pdc0, gammaPDC float64) float64 {
	return gEffective / 1000 * pdc0 * (1 + gammaPDC*(tempCell-tempRef))
}

// ACPower evaluates the PVWatts inverter curve for a DC input.
//
//	ζ = pdc/pdc0
//	η = ηNom/ηRef × (−0.0162ζ − 0.0059/ζ + 0.9858)
//	pac = clamp(η × pdc, 0, ηNom × pdc0)
//
// pdc0 is the inverter's DC nameplate (the DC power at which it reaches AC
// capacity), etaInvNom its nominal efficiency. Non-positive DC input converts
// to zero AC output. At ζ = 1 the curve evaluates to exactly etaInvNom.
func ACPower(pdc, pdc0, etaInvNom float64) float64 {
	if pdc <= 0 {
		return 0
	}
	pac0 := etaInvNom * pdc0
	zeta := pdc / pdc0
	eta := etaInvNom / etaInvRef * (-0.0162*zeta - 0.0059/zeta + 0.9858)
	pac := eta * pdc
	if pac > pac0 {
		return pac0
	}
	if pac < 0 {
		return 0
	}
	return pac
}

// CellTemperature evaluates the Sandia Array Performance Model cell
// temperature from plane-of-array irradiance, air temperature, and wind
// speed.
//
//	tMod = poa × e^(a + b×wind) + tempAir
//	tCell = tMod + poa/1000 × ΔT
//
// poaGlobal in W/m², tempAir in °C, windSpeed in m/s.
func CellTemperature(poaGlobal, tempAir, windSpeed float64, p model.TemperatureParams) float64 {
	tMod := poaGlobal*math.Exp(p.A+p.B*windSpeed) + tempAir
	return tMod + poaGlobal/1000*p.DeltaT
}

// Model binds the PVWatts curves to a module's parameters so the pipeline
// can treat the electrical model as a pluggable unit.
type Model struct {
	module model.Module
}

func New(m model.Module) *Model {
	return &Model{module: m}
}

func (m *Model) Name() string { return "pvwatts" }

// DC converts effective irradiance and cell temperature to DC power using
// the bound module's nameplate and temperature coefficient.
func (m *Model) DC(gEffective, tempCell float64) float64 {
	return DCPower(gEffective, tempCell, m.module.PDC0, m.module.GammaPDC)
}

// AC converts DC power to AC power through the inverter curve. pdc0 and
// etaInvNom describe the inverter, not the module, so they arrive per call.
func (m *Model) AC(pdc, pdc0, etaInvNom float64) float64 {
	return ACPower(pdc, pdc0, etaInvNom)
}
