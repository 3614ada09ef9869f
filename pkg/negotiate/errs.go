package negotiate

import (
	"errors"
	"fmt"
)

// MissingCategory names a whole curve family the device lacks. Missing
// categories are hard errors; a nearest-value substitution within an
// existing family is only a diagnostic.
type MissingCategory int

const (
	SwitchChannelData MissingCategory = iota
	EOnData
	EOffData
	DiodeChannelData
	ERRData
)

func (c MissingCategory) String() string {
	switch c {
	case SwitchChannelData:
		return "switch conduction channel data"
	case EOnData:
		return "switch turn-on loss data"
	case EOffData:
		return "switch turn-off loss data"
	case DiodeChannelData:
		return "diode conduction channel data"
	case ERRData:
		return "diode reverse-recovery loss data"
	}
	return fmt.Sprintf("MissingCategory(%d)", int(c))
}

// MissingDataError reports that an export cannot proceed because a
// whole curve family is absent.
type MissingDataError struct {
	Category MissingCategory
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("negotiate: %s is missing, cannot export", e.Category)
}

// ErrSupplyMismatch indicates the turn-on and turn-off loss curves were
// measured at different supply voltages; the strict protocol cannot
// combine them.
var ErrSupplyMismatch = errors.New("negotiate: v_supply mismatch between selected turn-on and turn-off loss curves")
