package model

// Racking identifies the mounting structure of the plant.
type Racking string

const (
	RackingTracker     Racking = "tracker"
	RackingFixedTilt   Racking = "fixed-tilt"
	RackingGroundMount Racking = "ground-mount"
	RackingRooftop     Racking = "rooftop"
	RackingCanopy      Racking = "canopy"
)

func (r Racking) valid() bool {
	switch r {
	case RackingTracker, RackingFixedTilt, RackingGroundMount, RackingRooftop, RackingCanopy:
		return true
	}
	return false
}

// Mount is the geometry variant of a racking system. Exactly one concrete
// type applies per SystemConfig: TrackerMount for single-axis trackers,
// FixedMount for everything else. Consumers switch on the concrete type
// rather than probing for optional fields.
type Mount interface {
	isMount()
	validate() error
}

// TrackerMount describes a single-axis tracker.
// Units:
// - AxisTilt: tilt of the axis of rotation, decimal degrees
// - AxisAzimuth: compass direction of the rotation axis, degrees East of North
// - MaxAngle: maximum rotation of the tracker, decimal degrees
// - GCR: ratio of module area to row spacing, 0..1
type TrackerMount struct {
	AxisTilt    float64
	AxisAzimuth float64
	MaxAngle    float64
	GCR         float64
	Backtrack   bool
}

func (TrackerMount) isMount() {}

func (m TrackerMount) validate() error {
	if m.AxisTilt < 0 || m.AxisTilt > 90 {
		return &ConfigError{Field: "Mount.AxisTilt", Reason: "must be in [0, 90]"}
	}
	if m.AxisAzimuth < 0 || m.AxisAzimuth >= 360 {
		return &ConfigError{Field: "Mount.AxisAzimuth", Reason: "must be in [0, 360)"}
	}
	if m.MaxAngle < 0 || m.MaxAngle > 90 {
		return &ConfigError{Field: "Mount.MaxAngle", Reason: "must be in [0, 90]"}
	}
	if m.GCR <= 0 || m.GCR > 1 {
		return &ConfigError{Field: "Mount.GCR", Reason: "must be in (0, 1]"}
	}
	return nil
}

// FixedMount describes a fixed-tilt racking system. AxisAzimuth and GCR still
// describe the row layout for the view-factor geometry. Albedo, when set,
// overrides the weather albedo column; only rooftop and canopy systems carry
// it, because their ground cover does not match the grassland assumption the
// weather data albedo is based on.
type FixedMount struct {
	SurfaceTilt    float64
	SurfaceAzimuth float64
	AxisAzimuth    float64
	GCR            float64
	Albedo         *float64
}

func (FixedMount) isMount() {}

func (m FixedMount) validate() error {
	if m.SurfaceTilt < 0 || m.SurfaceTilt > 90 {
		return &ConfigError{Field: "Mount.SurfaceTilt", Reason: "must be in [0, 90]"}
	}
	if m.SurfaceAzimuth < 0 || m.SurfaceAzimuth >= 360 {
		return &ConfigError{Field: "Mount.SurfaceAzimuth", Reason: "must be in [0, 360)"}
	}
	if m.AxisAzimuth < 0 || m.AxisAzimuth >= 360 {
		return &ConfigError{Field: "Mount.AxisAzimuth", Reason: "must be in [0, 360)"}
	}
	if m.GCR <= 0 || m.GCR > 1 {
		return &ConfigError{Field: "Mount.GCR", Reason: "must be in (0, 1]"}
	}
	if m.Albedo != nil && (*m.Albedo < 0 || *m.Albedo > 1) {
		return &ConfigError{Field: "Mount.Albedo", Reason: "must be in [0, 1]"}
	}
	return nil
}

// Module defines the module-level parameters consumed by the DC model.
// Units:
// - PDC0: W, DC nameplate at standard test conditions
// - GammaPDC: 1/°C, power temperature coefficient (typically negative)
// - Efficiency: fraction 0..1, module conversion efficiency at STC
// - Bifaciality: fraction 0..1, backside output relative to frontside
type Module struct {
	PDC0        float64
	GammaPDC    float64
	Efficiency  float64
	Bifaciality float64
}

// TemperatureParams parameterizes the cell-temperature model that converts
// ambient conditions to module cell temperature.
type TemperatureParams struct {
	A      float64
	B      float64
	DeltaT float64
}

// OpenRackGlassGlass returns the standard parameter set for open-rack
// glass/glass modules.
func OpenRackGlassGlass() TemperatureParams {
	return TemperatureParams{A: -3.56, B: -0.075, DeltaT: 3}
}

// SystemConfig is the static plant geometry, immutable for the duration of
// a run.
// Units:
// - AxisHeight: meters of the racking tilt axis above ground
// - CollectorWidth: meter width of the module perpendicular to the tilt axis
type SystemConfig struct {
	Racking        Racking
	AxisHeight     float64
	CollectorWidth float64
	Mount          Mount
	Module         Module
	Temperature    TemperatureParams
}

func (s SystemConfig) Validate() error {
	if !s.Racking.valid() {
		return &ConfigError{Field: "Racking", Reason: "must be one of tracker, fixed-tilt, ground-mount, rooftop, canopy"}
	}
	if s.Mount == nil {
		return &ConfigError{Field: "Mount", Reason: "is required"}
	}
	switch s.Mount.(type) {
	case TrackerMount:
		if s.Racking != RackingTracker {
			return &ConfigError{Field: "Mount", Reason: "tracker mount requires tracker racking"}
		}
	case FixedMount:
		if s.Racking == RackingTracker {
			return &ConfigError{Field: "Mount", Reason: "tracker racking requires a tracker mount"}
		}
	}
	if err := s.Mount.validate(); err != nil {
		return err
	}
	if s.AxisHeight <= 0 {
		return &ConfigError{Field: "AxisHeight", Reason: "must be > 0"}
	}
	if s.CollectorWidth <= 0 {
		return &ConfigError{Field: "CollectorWidth", Reason: "must be > 0"}
	}
	if s.Module.PDC0 <= 0 {
		return &ConfigError{Field: "Module.PDC0", Reason: "must be > 0"}
	}
	if s.Module.Efficiency <= 0 || s.Module.Efficiency > 1 {
		return &ConfigError{Field: "Module.Efficiency", Reason: "must be in (0, 1]"}
	}
	if s.Module.Bifaciality < 0 || s.Module.Bifaciality > 1 {
		return &ConfigError{Field: "Module.Bifaciality", Reason: "must be in [0, 1]"}
	}
	if s.Racking == RackingRooftop && s.Module.Bifaciality != 0 {
		return &ConfigError{Field: "Module.Bifaciality", Reason: "must be 0 for rooftop racking"}
	}
	return nil
}

// Backtracking reports whether the system tracks with backtracking enabled.
// The irradiance combination step branches on this.
func (s SystemConfig) Backtracking() bool {
	t, ok := s.Mount.(TrackerMount)
	return ok && t.Backtrack
}

// AlbedoOverride returns the albedo that replaces the weather albedo column,
// if this system carries one. Only rooftop and canopy mounts do; every other
// racking reports false and the weather values stand.
func (s SystemConfig) AlbedoOverride() (float64, bool) {
	if s.Racking != RackingRooftop && s.Racking != RackingCanopy {
		return 0, false
	}
	m, ok := s.Mount.(FixedMount)
	if !ok || m.Albedo == nil {
		return 0, false
	}
	return *m.Albedo, true
}
