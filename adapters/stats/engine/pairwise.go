package engine

import (
	"fmt"
	"math"

	"playercorr/domain/core"
	"playercorr/domain/player"
	domainstats "playercorr/domain/stats"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSamples is the smallest sample for which a correlation is defined
const MinSamples = 2

// Correlate computes Pearson's r with its two-tailed p-value and the OLS line y = slope*x + intercept
func (e *StatsEngine) Correlate(x, y []float64) (domainstats.CorrelationResult, error) {
	if err := validatePair(x, y); err != nil {
		return domainstats.CorrelationResult{}, err
	}

	n := len(x)
	var r float64
	if n == 2 {
		// Two distinct points lie exactly on a line.
		r = math.Copysign(1, (x[1]-x[0])*(y[1]-y[0]))
	} else {
		r = clamp(stat.Correlation(x, y, nil), -1, 1)
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if !isFinite(r) || !isFinite(slope) || !isFinite(intercept) {
		return domainstats.CorrelationResult{}, core.NewDegenerateInputError(
			fmt.Sprintf("non-finite result r=%g slope=%g intercept=%g", r, slope, intercept))
	}

	result := domainstats.CorrelationResult{
		Coefficient: r,
		PValue:      pearsonPValue(r, n),
		Slope:       slope,
		Intercept:   intercept,
		N:           n,
	}
	e.logger.Trace("correlate n=%d r=%.6f p=%.6e slope=%.6e intercept=%.6f",
		n, result.Coefficient, result.PValue, result.Slope, result.Intercept)
	return result, nil
}

// CorrelatePairs evaluates each pair against the aligned columns, in order
func (e *StatsEngine) CorrelatePairs(cols player.Columns, pairs []domainstats.Pair) ([]domainstats.PairResult, error) {
	results := make([]domainstats.PairResult, 0, len(pairs))
	for _, p := range pairs {
		res, err := e.Correlate(cols.Get(p.X), cols.Get(p.Y))
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", p.Name(), err)
		}
		e.logger.Debug("%s: r=%.3f p=%.3e slope=%.3e intercept=%.2f",
			p.Name(), res.Coefficient, res.PValue, res.Slope, res.Intercept)
		results = append(results, domainstats.PairResult{Pair: p, Result: res})
	}
	return results, nil
}

// CorrelationMatrix builds the symmetric coefficient matrix over MatrixVariables
func (e *StatsEngine) CorrelationMatrix(cols player.Columns) (domainstats.Matrix, error) {
	vars := domainstats.MatrixVariables
	sym := mat.NewSymDense(len(vars), nil)
	for i := range vars {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < len(vars); j++ {
			res, err := e.Correlate(cols.Get(vars[i]), cols.Get(vars[j]))
			if err != nil {
				return domainstats.Matrix{}, fmt.Errorf("matrix %s/%s: %w", vars[i], vars[j], err)
			}
			sym.SetSym(i, j, res.Coefficient)
		}
	}
	labels := make([]string, len(domainstats.MatrixLabels))
	copy(labels, domainstats.MatrixLabels)
	return domainstats.Matrix{Labels: labels, Values: sym}, nil
}

// validatePair rejects inputs for which r or the regression is undefined
func validatePair(x, y []float64) error {
	if len(x) != len(y) {
		return core.NewDegenerateInputError(fmt.Sprintf("length mismatch: %d vs %d", len(x), len(y)))
	}
	if len(x) < MinSamples {
		return core.NewDegenerateInputError(fmt.Sprintf("need at least %d samples, got %d", MinSamples, len(x)))
	}
	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return core.NewDegenerateInputError(fmt.Sprintf("non-finite value at index %d", i))
		}
	}
	if isConstant(x) {
		return core.NewDegenerateInputError("zero variance in x")
	}
	if isConstant(y) {
		return core.NewDegenerateInputError("zero variance in y")
	}
	// Distinct values can still under- or overflow once squared.
	if v := stat.Variance(x, nil); v == 0 || !isFinite(v) {
		return core.NewDegenerateInputError(fmt.Sprintf("variance of x out of range: %g", v))
	}
	if v := stat.Variance(y, nil); v == 0 || !isFinite(v) {
		return core.NewDegenerateInputError(fmt.Sprintf("variance of y out of range: %g", v))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isConstant(v []float64) bool {
	for _, f := range v[1:] {
		if f != v[0] {
			return false
		}
	}
	return true
}

// pearsonPValue is the two-tailed significance of r under H0: rho = 0, t-distributed with n-2 df
func pearsonPValue(r float64, n int) float64 {
	if n <= 2 {
		// Two points always lie on a line; the test carries no information.
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clamp(2*dist.Survival(math.Abs(t)), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
