package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pv-plant-model/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML): one site, one system, one
// electrical cascade, and the weather acquisition knobs. The same structs
// bind JSON, so API requests carry scenario fragments in this shape too.
type Config struct {
	Site   SiteConfig   `yaml:"site" json:"site"`
	System SystemConfig `yaml:"system" json:"system"`

	// Optional: load the electrical cascade from a separate YAML (e.g.
	// examples/electrical/*.yaml). Explicit fields under Electrical override
	// the file.
	ElectricalFile string           `yaml:"electrical_file" json:"electrical_file,omitempty"`
	Electrical     ElectricalConfig `yaml:"electrical" json:"electrical"`

	Weather WeatherConfig `yaml:"weather" json:"weather"`
}

type SiteConfig struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	UTCOffset int     `yaml:"utc_offset" json:"utc_offset"`
	Elevation float64 `yaml:"elevation" json:"elevation"`
}

// SystemConfig describes the racking and module. Exactly one of the tracker
// and fixed blocks must be present, matching the racking type.
type SystemConfig struct {
	Racking        string         `yaml:"racking" json:"racking"`
	AxisHeight     float64        `yaml:"axis_height" json:"axis_height"`
	CollectorWidth float64        `yaml:"collector_width" json:"collector_width"`
	Tracker        *TrackerConfig `yaml:"tracker" json:"tracker,omitempty"`
	Fixed          *FixedConfig   `yaml:"fixed" json:"fixed,omitempty"`
	Module         ModuleConfig   `yaml:"module" json:"module"`
	CellTemp       *TempConfig    `yaml:"cell_temperature" json:"cell_temperature,omitempty"`
}

type TrackerConfig struct {
	AxisTilt    float64 `yaml:"axis_tilt" json:"axis_tilt"`
	AxisAzimuth float64 `yaml:"axis_azimuth" json:"axis_azimuth"`
	MaxAngle    float64 `yaml:"max_angle" json:"max_angle"`
	GCR         float64 `yaml:"gcr" json:"gcr"`
	Backtrack   bool    `yaml:"backtrack" json:"backtrack"`
}

type FixedConfig struct {
	SurfaceTilt    float64  `yaml:"surface_tilt" json:"surface_tilt"`
	SurfaceAzimuth float64  `yaml:"surface_azimuth" json:"surface_azimuth"`
	AxisAzimuth    float64  `yaml:"axis_azimuth" json:"axis_azimuth"`
	GCR            float64  `yaml:"gcr" json:"gcr"`
	Albedo         *float64 `yaml:"albedo" json:"albedo,omitempty"`
}

type ModuleConfig struct {
	PDC0        float64 `yaml:"pdc0" json:"pdc0"`
	GammaPDC    float64 `yaml:"gamma_pdc" json:"gamma_pdc"`
	Efficiency  float64 `yaml:"efficiency" json:"efficiency"`
	Bifaciality float64 `yaml:"bifaciality" json:"bifaciality"`
}

type TempConfig struct {
	A      float64 `yaml:"a" json:"a"`
	B      float64 `yaml:"b" json:"b"`
	DeltaT float64 `yaml:"delta_t" json:"delta_t"`
}

type ElectricalConfig struct {
	DegradationLoss        float64           `yaml:"degradation_loss" json:"degradation_loss"`
	BifacialLosses         float64           `yaml:"bifacial_losses" json:"bifacial_losses"`
	DCLosses               float64           `yaml:"dc_losses" json:"dc_losses"`
	ACCapacity             float64           `yaml:"ac_capacity" json:"ac_capacity"`
	InverterEfficiencyPeak float64           `yaml:"inverter_efficiency_peak" json:"inverter_efficiency_peak"`
	PMT                    TransformerConfig `yaml:"pmt" json:"pmt"`
	ACCollection           float64           `yaml:"ac_collection" json:"ac_collection"`
	MPT                    TransformerConfig `yaml:"mpt" json:"mpt"`
	TransmissionLoss       float64           `yaml:"transmission_loss" json:"transmission_loss"`
	POICapacity            float64           `yaml:"poi_capacity" json:"poi_capacity"`
	PlantLosses            float64           `yaml:"plant_losses" json:"plant_losses"`
	TimeStep               int               `yaml:"time_step" json:"time_step"`
}

// TransformerConfig carries one transformer's loss curve. The main power
// transformer's rating field is its low-side (bottom) rating.
type TransformerConfig struct {
	PeakLoss     float64 `yaml:"peak_loss" json:"peak_loss"`
	Rating       float64 `yaml:"rating" json:"rating"`
	BottomRating float64 `yaml:"bottom_rating" json:"bottom_rating"`
	ConstantLoss float64 `yaml:"constant_loss" json:"constant_loss"`
}

func (t TransformerConfig) rating() float64 {
	if t.BottomRating != 0 {
		return t.BottomRating
	}
	return t.Rating
}

type WeatherConfig struct {
	SoilingLoss float64 `yaml:"soiling_loss" json:"soiling_loss"`
	// BiasFactor corrects the known high bias of the NREL resource data;
	// GHI/DNI/DHI are multiplied by it at fetch time. Defaults to 1.
	BiasFactor float64 `yaml:"bias_factor" json:"bias_factor"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Finalize applies defaults and validates. Load does this automatically;
// callers that assemble a Config in memory, such as the API handler, call
// it before building model types from the config.
func (c *Config) Finalize() error {
	c.applyDefaults()
	return c.Validate()
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If electrical_file is set, load it and merge in any explicit overrides
	// from c.Electrical.
	if c.ElectricalFile != "" {
		elecPath := c.ElectricalFile
		if !filepath.IsAbs(elecPath) {
			// Prefer interpreting relative paths as relative to the config file
			// directory, but fall back to the provided path (relative to cwd)
			// if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), elecPath)
			if _, err := os.Stat(cand); err == nil {
				elecPath = cand
			}
		}
		loaded, err := loadElectricalFile(elecPath)
		if err != nil {
			return nil, err
		}
		c.Electrical = MergeElectrical(loaded, c.Electrical)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Weather.BiasFactor == 0 {
		c.Weather.BiasFactor = 1
	}
	if c.Electrical.TimeStep == 0 {
		c.Electrical.TimeStep = 60
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.BuildSite().Validate(); err != nil {
		return fmt.Errorf("site config invalid: %w", err)
	}
	sys, err := c.BuildSystem()
	if err != nil {
		return err
	}
	if err := sys.Validate(); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	if err := c.BuildElectrical().Validate(); err != nil {
		return fmt.Errorf("electrical config invalid: %w", err)
	}
	return nil
}

func (c *Config) BuildSite() model.Site {
	return model.Site{
		Name:      c.Site.Name,
		Latitude:  c.Site.Latitude,
		Longitude: c.Site.Longitude,
		UTCOffset: c.Site.UTCOffset,
		Elevation: c.Site.Elevation,
	}
}

// BuildSystem assembles the model system from the YAML shape, applying the
// racking rules: the mount variant must match the racking type, only rooftop
// and canopy systems keep an albedo override, and rooftop racking zeroes the
// module bifaciality (a rooftop backside sees no ground light).
func (c *Config) BuildSystem() (model.SystemConfig, error) {
	racking := model.Racking(c.System.Racking)

	sys := model.SystemConfig{
		Racking:        racking,
		AxisHeight:     c.System.AxisHeight,
		CollectorWidth: c.System.CollectorWidth,
		Module: model.Module{
			PDC0:        c.System.Module.PDC0,
			GammaPDC:    c.System.Module.GammaPDC,
			Efficiency:  c.System.Module.Efficiency,
			Bifaciality: c.System.Module.Bifaciality,
		},
		Temperature: model.OpenRackGlassGlass(),
	}
	if c.System.CellTemp != nil {
		sys.Temperature = model.TemperatureParams{
			A:      c.System.CellTemp.A,
			B:      c.System.CellTemp.B,
			DeltaT: c.System.CellTemp.DeltaT,
		}
	}

	if racking == model.RackingTracker {
		if c.System.Tracker == nil {
			return model.SystemConfig{}, errors.New("system.tracker is required for tracker racking")
		}
		sys.Mount = model.TrackerMount{
			AxisTilt:    c.System.Tracker.AxisTilt,
			AxisAzimuth: c.System.Tracker.AxisAzimuth,
			MaxAngle:    c.System.Tracker.MaxAngle,
			GCR:         c.System.Tracker.GCR,
			Backtrack:   c.System.Tracker.Backtrack,
		}
		return sys, nil
	}

	if c.System.Fixed == nil {
		return model.SystemConfig{}, fmt.Errorf("system.fixed is required for %s racking", c.System.Racking)
	}
	mount := model.FixedMount{
		SurfaceTilt:    c.System.Fixed.SurfaceTilt,
		SurfaceAzimuth: c.System.Fixed.SurfaceAzimuth,
		AxisAzimuth:    c.System.Fixed.AxisAzimuth,
		GCR:            c.System.Fixed.GCR,
	}
	// Only canopy and rooftop carry the albedo override; their ground cover
	// does not match the grassland assumption behind the weather albedo.
	if racking == model.RackingRooftop || racking == model.RackingCanopy {
		mount.Albedo = c.System.Fixed.Albedo
	}
	sys.Mount = mount

	if racking == model.RackingRooftop {
		sys.Module.Bifaciality = 0
	}
	return sys, nil
}

func (c *Config) BuildElectrical() model.ElectricalConfig {
	return model.ElectricalConfig{
		DegradationLoss:        c.Electrical.DegradationLoss,
		BifacialLosses:         c.Electrical.BifacialLosses,
		DCLosses:               c.Electrical.DCLosses,
		ACCapacity:             c.Electrical.ACCapacity,
		InverterEfficiencyPeak: c.Electrical.InverterEfficiencyPeak,
		PMT: model.Transformer{
			PeakLoss:     c.Electrical.PMT.PeakLoss,
			Rating:       c.Electrical.PMT.rating(),
			ConstantLoss: c.Electrical.PMT.ConstantLoss,
		},
		ACCollection: c.Electrical.ACCollection,
		MPT: model.Transformer{
			PeakLoss:     c.Electrical.MPT.PeakLoss,
			Rating:       c.Electrical.MPT.rating(),
			ConstantLoss: c.Electrical.MPT.ConstantLoss,
		},
		TransmissionLoss: c.Electrical.TransmissionLoss,
		POICapacity:      c.Electrical.POICapacity,
		PlantLosses:      c.Electrical.PlantLosses,
		TimeStep:         c.Electrical.TimeStep,
	}
}

type electricalFileWrapper struct {
	Electrical ElectricalConfig `yaml:"electrical"`
}

func loadElectricalFile(path string) (ElectricalConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ElectricalConfig{}, err
	}
	var w electricalFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ElectricalConfig{}, err
	}
	return w.Electrical, nil
}

// MergeElectrical overlays non-zero fields from override onto base.
// This is used when loading an electrical file and then applying overrides
// from the scenario config.
func MergeElectrical(base, override ElectricalConfig) ElectricalConfig {
	out := base
	if override.DegradationLoss != 0 {
		out.DegradationLoss = override.DegradationLoss
	}
	if override.BifacialLosses != 0 {
		out.BifacialLosses = override.BifacialLosses
	}
	if override.DCLosses != 0 {
		out.DCLosses = override.DCLosses
	}
	if override.ACCapacity != 0 {
		out.ACCapacity = override.ACCapacity
	}
	if override.InverterEfficiencyPeak != 0 {
		out.InverterEfficiencyPeak = override.InverterEfficiencyPeak
	}
	out.PMT = mergeTransformer(out.PMT, override.PMT)
	if override.ACCollection != 0 {
		out.ACCollection = override.ACCollection
	}
	out.MPT = mergeTransformer(out.MPT, override.MPT)
	if override.TransmissionLoss != 0 {
		out.TransmissionLoss = override.TransmissionLoss
	}
	if override.POICapacity != 0 {
		out.POICapacity = override.POICapacity
	}
	if override.PlantLosses != 0 {
		out.PlantLosses = override.PlantLosses
	}
	if override.TimeStep != 0 {
		out.TimeStep = override.TimeStep
	}
	return out
}

func mergeTransformer(base, override TransformerConfig) TransformerConfig {
	out := base
	if override.PeakLoss != 0 {
		out.PeakLoss = override.PeakLoss
	}
	if override.Rating != 0 {
		out.Rating = override.Rating
	}
	if override.BottomRating != 0 {
		out.BottomRating = override.BottomRating
	}
	if override.ConstantLoss != 0 {
		out.ConstantLoss = override.ConstantLoss
	}
	return out
}
