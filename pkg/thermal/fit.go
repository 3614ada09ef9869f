package thermal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/voltlab/devcurve/pkg/curve"
)

// maxEvals bounds the number of residual evaluations of one fit, the
// same budget the measurement tooling has always used.
const maxEvals = 5000

// expSum evaluates the Foster step response
// Z(t) = sum R_i * (1 - exp(-t/tau_i)).
func expSum(r, tau []float64, t float64) float64 {
	z := 0.0
	for i := range r {
		z += r[i] * (1 - math.Exp(-t/tau[i]))
	}
	return z
}

type fitResult struct {
	R        []float64
	Tau      []float64
	RSquared float64
}

// fitFoster fits an order-stage exponential ladder to a transient
// impedance curve by bounded Levenberg-Marquardt. Each R_i is kept in
// [0, max(Z)/order] so no single stage can absorb the whole resistance;
// time constants only need to stay positive.
func fitFoster(g curve.XY, order int) (fitResult, error) {
	m := g.Len()
	if m < 2*order {
		return fitResult{}, errFitUnderdetermined
	}

	times := g.X
	z := g.Y
	zMax := g.MaxY()
	if !(zMax > 0) {
		return fitResult{}, errFitBadCurve
	}
	rUpper := zMax / float64(order)

	// smallest positive time on the curve anchors the tau search space
	tMin := math.Inf(1)
	tMax := math.Inf(-1)
	for _, t := range times {
		if t > 0 && t < tMin {
			tMin = t
		}
		if t > tMax {
			tMax = t
		}
	}
	if math.IsInf(tMin, 1) || tMax <= tMin {
		return fitResult{}, errFitBadCurve
	}

	// start with equal stages and log-spaced time constants
	n := 2 * order
	p := make([]float64, n)
	for i := 0; i < order; i++ {
		p[i] = 0.9 * rUpper
		frac := (float64(i) + 0.5) / float64(order)
		p[order+i] = tMin * math.Pow(tMax/tMin, frac)
	}
	clampParams(p, order, rUpper)

	const tauFloor = 1e-12

	residual := func(p []float64) ([]float64, float64) {
		res := make([]float64, m)
		sse := 0.0
		for k := 0; k < m; k++ {
			res[k] = z[k] - expSum(p[:order], p[order:], times[k])
			sse += res[k] * res[k]
		}
		return res, sse
	}

	evals := 0
	res, sse := residual(p)
	evals++

	lambda := 1e-3
	converged := false

	for evals < maxEvals {
		// analytic Jacobian of the model wrt (R_i, tau_i)
		jac := mat.NewDense(m, n, nil)
		for k := 0; k < m; k++ {
			t := times[k]
			for i := 0; i < order; i++ {
				tau := p[order+i]
				e := math.Exp(-t / tau)
				jac.Set(k, i, 1-e)
				jac.Set(k, order+i, -p[i]*e*t/(tau*tau))
			}
		}

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		jtr := mat.NewVecDense(n, nil)
		jtr.MulVec(jac.T(), mat.NewVecDense(m, res))

		// damped normal equations, retried with stronger damping until
		// the step actually reduces the error
		improved := false
		for ; lambda < 1e12 && evals < maxEvals; lambda *= 10 {
			a := mat.NewDense(n, n, nil)
			a.Copy(&jtj)
			for i := 0; i < n; i++ {
				d := jtj.At(i, i)
				if d <= 0 {
					d = 1e-12
				}
				a.Set(i, i, d*(1+lambda))
			}
			var delta mat.VecDense
			if err := delta.SolveVec(a, jtr); err != nil {
				continue
			}

			trial := make([]float64, n)
			for i := range trial {
				trial[i] = p[i] + delta.AtVec(i)
			}
			clampParams(trial, order, rUpper)
			for i := order; i < n; i++ {
				if trial[i] < tauFloor {
					trial[i] = tauFloor
				}
			}

			trialRes, trialSSE := residual(trial)
			evals++
			if trialSSE < sse {
				rel := (sse - trialSSE) / math.Max(sse, 1e-300)
				p, res, sse = trial, trialRes, trialSSE
				lambda = math.Max(lambda/30, 1e-12)
				improved = true
				if rel < 1e-12 {
					converged = true
				}
				break
			}
		}
		if converged {
			break
		}
		if !improved {
			// no downhill step even with heavy damping: local minimum
			converged = true
			break
		}
	}

	if !converged && evals >= maxEvals {
		return fitResult{}, errFitNoConvergence
	}

	// coefficient of determination, diagnostics only
	mean := 0.0
	for _, v := range z {
		mean += v
	}
	mean /= float64(m)
	ssTot := 0.0
	for _, v := range z {
		ssTot += (v - mean) * (v - mean)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - sse/ssTot
	}

	out := fitResult{
		R:        append([]float64(nil), p[:order]...),
		Tau:      append([]float64(nil), p[order:]...),
		RSquared: r2,
	}
	sortStages(out.R, out.Tau)
	return out, nil
}

func clampParams(p []float64, order int, rUpper float64) {
	for i := 0; i < order; i++ {
		if p[i] < 0 {
			p[i] = 0
		}
		if p[i] > rUpper {
			p[i] = rUpper
		}
	}
}

// sortStages orders the fitted stages ascending by time constant,
// keeping (R, tau) pairs together.
func sortStages(r, tau []float64) {
	for i := 1; i < len(tau); i++ {
		for j := i; j > 0 && tau[j] < tau[j-1]; j-- {
			tau[j], tau[j-1] = tau[j-1], tau[j]
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
}
