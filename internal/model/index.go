package model

import (
	"errors"
	"fmt"
	"time"
)

// Index is the timestamp axis shared by every series in a run. All weather,
// irradiance, and power series must carry exactly one sample per entry, in
// this order. No stage may reorder or resample it.
type Index []time.Time

func (ix Index) Validate() error {
	if len(ix) == 0 {
		return errors.New("index must contain at least one timestamp")
	}
	for i := 1; i < len(ix); i++ {
		if !ix[i].After(ix[i-1]) {
			return fmt.Errorf("index must be strictly increasing: entry %d (%s) is not after entry %d (%s)",
				i, ix[i].Format(time.RFC3339), i-1, ix[i-1].Format(time.RFC3339))
		}
	}
	return nil
}
