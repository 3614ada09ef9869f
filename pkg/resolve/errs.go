package resolve

import (
	"fmt"
	"strings"

	"github.com/voltlab/devcurve/pkg/device"
)

// NoCandidateError means the repository holds no dataset of the
// requested kind at all. It enumerates every stored operating point of
// that family so the caller can see what would have been available.
// "Found some, none exact" is not an error; the nearest match is used
// and logged.
type NoCandidateError struct {
	Kind      string
	Available []device.OperatingPoint
}

func (e *NoCandidateError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("resolve: no %s data available", e.Kind)
	}
	pts := make([]string, len(e.Available))
	for i, p := range e.Available {
		pts[i] = p.String()
	}
	return fmt.Sprintf("resolve: no %s data at the requested operating point, available: %s",
		e.Kind, strings.Join(pts, ", "))
}
