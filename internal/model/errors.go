package model

import "fmt"

// ConfigError reports a SystemConfig/ElectricalConfig field that failed
// validation. Configuration must be valid before any pipeline stage runs;
// none of the stages re-check it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// AlignmentError reports an input series whose length does not match the
// run's shared timestamp axis. All series in a run must share one index.
type AlignmentError struct {
	Series string
	Got    int
	Want   int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("series %s has %d samples, want %d", e.Series, e.Got, e.Want)
}
