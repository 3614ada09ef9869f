// Package thermal completes Foster RC ladder models: it derives missing
// per-stage capacitances, missing totals, and, when only the raw
// transient impedance curve is known, extracts the whole ladder by
// bounded multi-exponential curve fitting.
package thermal

import (
	"log/slog"
	"math"

	"github.com/voltlab/devcurve/pkg/device"
)

// Fit order limits. The exponential sum becomes numerically meaningless
// past five stages.
const (
	MinOrder = 1
	MaxOrder = 5
)

// Estimate completes the missing quantities of m in place, following
// what is available:
//
//   - r_th and tau vectors present: derive c_th_i = tau_i/r_th_i and any
//     missing totals as vector sums.
//   - only the impedance curve present: fit an order-stage ladder and
//     populate all vectors and totals.
//   - pinned totals plus curve: the fit supplies the shape, pinned
//     totals stay untouched.
//   - r_th_total and tau_total but no curve and no vectors: derive
//     c_th_total alone.
//   - nothing usable: no-op.
//
// A total supplied by the data source is never overwritten. Any failure
// (bad order, missing curve, fit breakdown) is logged and leaves the
// model exactly as it was; Estimate never partially corrupts a model.
func Estimate(m *device.FosterThermalModel, order int) {
	if m == nil {
		return
	}

	switch {
	case m.RThVector != nil && m.TauVector != nil && len(m.RThVector) == len(m.TauVector):
		completeFromVectors(m)

	case m.Graph != nil:
		completeFromCurve(m, order)

	case m.RThTotal != nil && m.TauTotal != nil:
		if m.CThTotal == nil {
			if *m.RThTotal == 0 {
				slog.Warn("thermal: r_th_total is zero, cannot derive c_th_total")
				return
			}
			v := round4(*m.TauTotal / *m.RThTotal)
			m.CThTotal = &v
		}

	default:
		slog.Debug("thermal: no thermal data available, nothing to estimate")
	}
}

func completeFromVectors(m *device.FosterThermalModel) {
	n := len(m.RThVector)
	cth := make([]float64, n)
	for i := 0; i < n; i++ {
		if m.RThVector[i] == 0 {
			slog.Warn("thermal: zero r_th stage, cannot derive c_th vector", "stage", i)
			return
		}
		cth[i] = round5(m.TauVector[i] / m.RThVector[i])
	}

	tauTotal := m.TauTotal
	if tauTotal == nil {
		v := round4(sum(m.TauVector))
		tauTotal = &v
	}
	rthTotal := m.RThTotal
	if rthTotal == nil {
		v := round4(sum(m.RThVector))
		rthTotal = &v
	}

	m.CThVector = cth
	m.TauTotal = tauTotal
	m.RThTotal = rthTotal
	if m.CThTotal == nil {
		v := round4(*tauTotal / *rthTotal)
		m.CThTotal = &v
	}
}

func completeFromCurve(m *device.FosterThermalModel, order int) {
	if order < MinOrder || order > MaxOrder {
		slog.Warn("thermal: unsupported fit order, model left unchanged", "order", order)
		return
	}
	fit, err := fitFoster(*m.Graph, order)
	if err != nil {
		slog.Warn("thermal: impedance fit failed, model left unchanged", "err", err)
		return
	}
	slog.Info("thermal: impedance fit complete", "order", order, "r_squared", fit.RSquared)

	rth := make([]float64, order)
	tau := make([]float64, order)
	cth := make([]float64, order)
	for i := 0; i < order; i++ {
		if fit.R[i] == 0 {
			slog.Warn("thermal: fit produced a zero-resistance stage, model left unchanged", "stage", i)
			return
		}
		rth[i] = round5(fit.R[i])
		tau[i] = round5(fit.Tau[i])
		cth[i] = round5(fit.Tau[i] / fit.R[i])
	}

	m.RThVector = rth
	m.TauVector = tau
	m.CThVector = cth
	if m.RThTotal == nil {
		v := round4(sum(fit.R))
		m.RThTotal = &v
	}
	if m.TauTotal == nil {
		v := round4(sum(fit.Tau))
		m.TauTotal = &v
	}
	if m.CThTotal == nil {
		v := round4(*m.TauTotal / *m.RThTotal)
		m.CThTotal = &v
	}
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

// stored parameters keep the precision the measurement records use:
// five decimals for stage values, four for totals
func round4(x float64) float64 { return math.Round(x*1e4) / 1e4 }
func round5(x float64) float64 { return math.Round(x*1e5) / 1e5 }
