package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-plant-model/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const trackerYAML = `
site:
  name: Sandhill Solar
  latitude: 35.05
  longitude: -106.54
  utc_offset: -7
  elevation: 1600

system:
  racking: tracker
  axis_height: 1.5
  collector_width: 2.0
  tracker:
    axis_tilt: 0
    axis_azimuth: 180
    max_angle: 60
    gcr: 0.35
    backtrack: true
  module:
    pdc0: 125000000
    gamma_pdc: -0.0037
    efficiency: 0.205
    bifaciality: 0.7

electrical:
  degradation_loss: 0.005
  bifacial_losses: 0.1
  dc_losses: 0.02
  ac_capacity: 100000000
  inverter_efficiency_peak: 0.98
  pmt:
    peak_loss: 300000
    rating: 100000000
    constant_loss: 50000
  ac_collection: 0.005
  mpt:
    peak_loss: 350000
    bottom_rating: 98000000
    constant_loss: 60000
  transmission_loss: 0.003
  poi_capacity: 95000000
  plant_losses: 0.01
  time_step: 60

weather:
  soiling_loss: 0.02
`

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", trackerYAML)

	c, err := Load(path)
	require.NoError(t, err)

	site := c.BuildSite()
	assert.Equal(t, "Sandhill Solar", site.Name)
	assert.Equal(t, -7, site.UTCOffset)

	sys, err := c.BuildSystem()
	require.NoError(t, err)
	assert.Equal(t, model.RackingTracker, sys.Racking)
	assert.True(t, sys.Backtracking())
	assert.Equal(t, 0.7, sys.Module.Bifaciality)

	mount, ok := sys.Mount.(model.TrackerMount)
	require.True(t, ok)
	assert.Equal(t, 60.0, mount.MaxAngle)
	assert.Equal(t, 0.35, mount.GCR)

	// Omitted cell_temperature block falls back to the open-rack defaults.
	assert.Equal(t, model.OpenRackGlassGlass(), sys.Temperature)

	elec := c.BuildElectrical()
	assert.Equal(t, 1.0e8, elec.ACCapacity)
	assert.Equal(t, 9.8e7, elec.MPT.Rating) // bottom_rating flows to Rating
	assert.Equal(t, 60, elec.TimeStep)

	// Untouched bias factor defaults to 1.
	assert.Equal(t, 1.0, c.Weather.BiasFactor)
	assert.Equal(t, 0.02, c.Weather.SoilingLoss)
}

func TestLoad_ElectricalFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "electrical/standard.yaml", `
electrical:
  bifacial_losses: 0.1
  dc_losses: 0.02
  ac_capacity: 100000000
  inverter_efficiency_peak: 0.98
  pmt:
    peak_loss: 300000
    rating: 100000000
    constant_loss: 50000
  ac_collection: 0.005
  mpt:
    peak_loss: 350000
    bottom_rating: 98000000
    constant_loss: 60000
  transmission_loss: 0.003
  poi_capacity: 95000000
  plant_losses: 0.01
  time_step: 60
`)
	path := writeFile(t, dir, "config.yaml", `
site:
  name: Override Site
  latitude: 35.05
  longitude: -106.54
  utc_offset: -7
  elevation: 1600

system:
  racking: ground-mount
  axis_height: 1.5
  collector_width: 2.0
  fixed:
    surface_tilt: 25
    surface_azimuth: 180
    axis_azimuth: 90
    gcr: 0.4
  module:
    pdc0: 125000000
    gamma_pdc: -0.0037
    efficiency: 0.205
    bifaciality: 0.7

electrical_file: electrical/standard.yaml
electrical:
  poi_capacity: 90000000
`)

	c, err := Load(path)
	require.NoError(t, err)

	elec := c.BuildElectrical()
	assert.Equal(t, 9.0e7, elec.POICapacity) // inline override wins
	assert.Equal(t, 1.0e8, elec.ACCapacity)  // from the file
	assert.Equal(t, 9.8e7, elec.MPT.Rating)
}

func TestLoad_RooftopZeroesBifaciality(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
site:
  name: Warehouse Roof
  latitude: 35.05
  longitude: -106.54
  utc_offset: -7
  elevation: 1600

system:
  racking: rooftop
  axis_height: 0.5
  collector_width: 2.0
  fixed:
    surface_tilt: 10
    surface_azimuth: 180
    axis_azimuth: 90
    gcr: 0.6
    albedo: 0.4
  module:
    pdc0: 2000000
    gamma_pdc: -0.0037
    efficiency: 0.205
    bifaciality: 0.7

electrical:
  dc_losses: 0.02
  ac_capacity: 1600000
  inverter_efficiency_peak: 0.98
  pmt:
    peak_loss: 5000
    rating: 1700000
    constant_loss: 1000
  mpt:
    peak_loss: 5000
    bottom_rating: 1650000
    constant_loss: 1000
  poi_capacity: 1500000
  time_step: 60
`)

	c, err := Load(path)
	require.NoError(t, err)

	sys, err := c.BuildSystem()
	require.NoError(t, err)
	assert.Equal(t, 0.0, sys.Module.Bifaciality)

	albedo, ok := sys.AlbedoOverride()
	require.True(t, ok)
	assert.Equal(t, 0.4, albedo)
}

func TestLoad_GroundMountDropsAlbedo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
site:
  name: Field
  latitude: 35.05
  longitude: -106.54
  utc_offset: -7
  elevation: 1600

system:
  racking: ground-mount
  axis_height: 1.5
  collector_width: 2.0
  fixed:
    surface_tilt: 25
    surface_azimuth: 180
    axis_azimuth: 90
    gcr: 0.4
    albedo: 0.5
  module:
    pdc0: 125000000
    gamma_pdc: -0.0037
    efficiency: 0.205
    bifaciality: 0.7

electrical:
  dc_losses: 0.02
  ac_capacity: 100000000
  inverter_efficiency_peak: 0.98
  pmt:
    peak_loss: 300000
    rating: 100000000
    constant_loss: 50000
  mpt:
    peak_loss: 350000
    bottom_rating: 98000000
    constant_loss: 60000
  poi_capacity: 95000000
  time_step: 60
`)

	c, err := Load(path)
	require.NoError(t, err)

	sys, err := c.BuildSystem()
	require.NoError(t, err)

	// The ground cover assumption holds for ground-mount systems, so a stray
	// albedo in the config is silently dropped rather than applied.
	_, ok := sys.AlbedoOverride()
	assert.False(t, ok)
	assert.Equal(t, 0.7, sys.Module.Bifaciality)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing tracker block",
			yaml: `
site: {name: X, latitude: 35, longitude: -106, utc_offset: -7, elevation: 1600}
system:
  racking: tracker
  axis_height: 1.5
  collector_width: 2.0
  module: {pdc0: 1000, gamma_pdc: -0.004, efficiency: 0.2, bifaciality: 0}
electrical:
  ac_capacity: 900
  inverter_efficiency_peak: 0.98
  pmt: {peak_loss: 10, rating: 1000, constant_loss: 2}
  mpt: {peak_loss: 8, bottom_rating: 900, constant_loss: 1}
  poi_capacity: 800
`,
		},
		{
			name: "unknown racking",
			yaml: `
site: {name: X, latitude: 35, longitude: -106, utc_offset: -7, elevation: 1600}
system:
  racking: carport
  axis_height: 1.5
  collector_width: 2.0
  fixed: {surface_tilt: 20, surface_azimuth: 180, axis_azimuth: 90, gcr: 0.4}
  module: {pdc0: 1000, gamma_pdc: -0.004, efficiency: 0.2, bifaciality: 0}
electrical:
  ac_capacity: 900
  inverter_efficiency_peak: 0.98
  pmt: {peak_loss: 10, rating: 1000, constant_loss: 2}
  mpt: {peak_loss: 8, bottom_rating: 900, constant_loss: 1}
  poi_capacity: 800
`,
		},
		{
			name: "zero poi capacity",
			yaml: `
site: {name: X, latitude: 35, longitude: -106, utc_offset: -7, elevation: 1600}
system:
  racking: ground-mount
  axis_height: 1.5
  collector_width: 2.0
  fixed: {surface_tilt: 20, surface_azimuth: 180, axis_azimuth: 90, gcr: 0.4}
  module: {pdc0: 1000, gamma_pdc: -0.004, efficiency: 0.2, bifaciality: 0}
electrical:
  ac_capacity: 900
  inverter_efficiency_peak: 0.98
  pmt: {peak_loss: 10, rating: 1000, constant_loss: 2}
  mpt: {peak_loss: 8, bottom_rating: 900, constant_loss: 1}
`,
		},
		{
			name: "bad latitude",
			yaml: `
site: {name: X, latitude: 135, longitude: -106, utc_offset: -7, elevation: 1600}
system:
  racking: ground-mount
  axis_height: 1.5
  collector_width: 2.0
  fixed: {surface_tilt: 20, surface_azimuth: 180, axis_azimuth: 90, gcr: 0.4}
  module: {pdc0: 1000, gamma_pdc: -0.004, efficiency: 0.2, bifaciality: 0}
electrical:
  ac_capacity: 900
  inverter_efficiency_peak: 0.98
  pmt: {peak_loss: 10, rating: 1000, constant_loss: 2}
  mpt: {peak_loss: 8, bottom_rating: 900, constant_loss: 1}
  poi_capacity: 800
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestMergeElectrical(t *testing.T) {
	base := ElectricalConfig{
		DCLosses:               0.02,
		ACCapacity:             1e8,
		InverterEfficiencyPeak: 0.98,
		PMT:                    TransformerConfig{PeakLoss: 3e5, Rating: 1e8, ConstantLoss: 5e4},
		MPT:                    TransformerConfig{PeakLoss: 3.5e5, BottomRating: 9.8e7, ConstantLoss: 6e4},
		POICapacity:            9.5e7,
		TimeStep:               60,
	}
	override := ElectricalConfig{
		POICapacity: 9.0e7,
		PMT:         TransformerConfig{ConstantLoss: 4e4},
	}

	merged := MergeElectrical(base, override)
	assert.Equal(t, 9.0e7, merged.POICapacity)
	assert.Equal(t, 4e4, merged.PMT.ConstantLoss)
	assert.Equal(t, 3e5, merged.PMT.PeakLoss) // untouched base field survives
	assert.Equal(t, 0.02, merged.DCLosses)
	assert.Equal(t, 60, merged.TimeStep)
}
