package model

// Condition is a human-friendly operating label for a timestep.
// Keep these values stable; they are intended for CSV output.
type Condition string

const (
	ConditionNight            Condition = "NIGHT"
	ConditionProducing        Condition = "PRODUCING"
	ConditionInverterClipping Condition = "INVERTER_CLIPPING"
	ConditionPOIClipping      Condition = "POI_CLIPPING"
)

// ConditionOf labels a timestep from its stage outputs. POI clipping wins
// over inverter clipping when both limits bind.
func ConditionOf(soiledIrradiance, dcClipping, acClipping float64) Condition {
	switch {
	case acClipping > 0:
		return ConditionPOIClipping
	case dcClipping > 0:
		return ConditionInverterClipping
	case soiledIrradiance > 0:
		return ConditionProducing
	default:
		return ConditionNight
	}
}
