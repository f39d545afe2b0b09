package sim

// PowerModel converts irradiance to DC power and DC power to AC power. The
// pipeline treats it as opaque; pvwatts provides the stock implementation.
type PowerModel interface {
	Name() string

	// DC evaluates the module power curve at one timestep from effective
	// irradiance (W/m²) and cell temperature (°C).
	DC(gEffective, tempCell float64) float64

	// AC evaluates the inverter curve for a DC input against an inverter of
	// DC nameplate pdc0 and nominal efficiency etaInvNom.
	AC(pdc, pdc0, etaInvNom float64) float64
}
