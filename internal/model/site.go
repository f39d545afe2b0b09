package model

// Site identifies the modeled plant location.
// Units:
// - Latitude/Longitude: decimal degrees
// - UTCOffset: hours east of UTC (negative in the Americas)
// - Elevation: meters above sea level
type Site struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UTCOffset int     `json:"utc_offset"`
	Elevation float64 `json:"elevation"`
}

func (s Site) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return &ConfigError{Field: "Site.Latitude", Reason: "must be in [-90, 90]"}
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return &ConfigError{Field: "Site.Longitude", Reason: "must be in [-180, 180]"}
	}
	if s.UTCOffset < -12 || s.UTCOffset > 14 {
		return &ConfigError{Field: "Site.UTCOffset", Reason: "must be in [-12, 14]"}
	}
	return nil
}
