// Package complexity fits empirical (input size, duration) samples against
// a fixed set of algorithmic-complexity curves to catch performance
// regressions. For every candidate class the input size is transformed by
// the class's characteristic function and an ordinary least-squares line
// is fit; the class with the best coefficient of determination wins, with
// ties broken toward the lower-order class.
package complexity

import (
	"math"
	"sort"
)

// Class is one of the fixed candidate complexity classes, ordered from
// lowest to highest growth.
type Class int

const (
	Constant Class = iota
	Logarithmic
	Linear
	Linearithmic
	Quadratic
)

// AllClasses enumerates the candidate set in ascending order of growth.
func AllClasses() []Class {
	return []Class{Constant, Logarithmic, Linear, Linearithmic, Quadratic}
}

// String returns the conventional big-O name.
func (c Class) String() string {
	switch c {
	case Constant:
		return "O(1)"
	case Logarithmic:
		return "O(log n)"
	case Linear:
		return "O(n)"
	case Linearithmic:
		return "O(n log n)"
	case Quadratic:
		return "O(n^2)"
	}
	return "unknown"
}

// ParseClass maps a document string (e.g. "linear", "O(n)") to a Class.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "constant", "O(1)":
		return Constant, true
	case "logarithmic", "O(log n)":
		return Logarithmic, true
	case "linear", "O(n)":
		return Linear, true
	case "linearithmic", "O(n log n)":
		return Linearithmic, true
	case "quadratic", "O(n^2)":
		return Quadratic, true
	}
	return Constant, false
}

// transform applies the class's characteristic function to an input size.
// Sizes below one are clamped so the logarithmic transforms stay finite;
// log of a sub-unit size would poison the regression with -Inf.
func (c Class) transform(n float64) float64 {
	switch c {
	case Constant:
		return 1
	case Logarithmic:
		if n < 1 {
			return 0
		}
		return math.Log(n)
	case Linear:
		return n
	case Linearithmic:
		if n < 1 {
			return 0
		}
		return n * math.Log(n)
	case Quadratic:
		return n * n
	}
	return n
}

// ConfidenceFloor is the minimum R² below which even the best fit is
// treated as a violation: the data does not cleanly match any candidate.
const ConfidenceFloor = 0.90

// Sample pairs an input size with an observed duration. The duration unit
// is irrelevant to fitting as long as it is consistent across samples.
type Sample struct {
	N        int     `json:"n"`
	Duration float64 `json:"duration"`
}

// Fit records the regression quality for one candidate class.
type Fit struct {
	Class    Class   `json:"class"`
	RSquared float64 `json:"r_squared"`
}

// AnalysisResult is the outcome of one Analyze call.
type AnalysisResult struct {
	Detected  Class   `json:"detected"`
	RSquared  float64 `json:"r_squared"`
	Violation bool    `json:"is_violation"`
	Expected  *Class  `json:"expected,omitempty"`
	Fits      []Fit   `json:"fits,omitempty"` // all candidates, ascending class order
}

// Analyze fits the samples against every candidate class and classifies
// the growth. expected is optional; when set, a detected class of strictly
// higher order is a violation. Degenerate inputs (fewer than two distinct
// sizes) classify as Constant with R² 0 rather than faulting, so the
// analyzer stays safe to call speculatively from CI.
func Analyze(samples []Sample, expected *Class) *AnalysisResult {
	ns, ds := dedupe(samples)

	res := &AnalysisResult{Detected: Constant, Expected: expected}
	if len(ns) < 2 {
		// No regression is possible; report the defined default instead
		// of a fault or a spurious violation.
		return res
	}

	best := Fit{Class: Constant, RSquared: math.Inf(-1)}
	for _, class := range AllClasses() {
		xs := make([]float64, len(ns))
		for i, n := range ns {
			xs[i] = class.transform(n)
		}
		r2 := rSquared(xs, ds)
		res.Fits = append(res.Fits, Fit{Class: class, RSquared: r2})
		// Strict improvement only: the ascending iteration order breaks
		// ties toward the lower-order class.
		if r2 > best.RSquared {
			best = Fit{Class: class, RSquared: r2}
		}
	}

	res.Detected = best.Class
	res.RSquared = best.RSquared
	if res.RSquared < ConfidenceFloor {
		res.Violation = true
	}
	if expected != nil && res.Detected > *expected {
		res.Violation = true
	}
	return res
}

// dedupe averages durations for duplicate input sizes and returns parallel
// slices sorted by n.
func dedupe(samples []Sample) (ns, ds []float64) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range samples {
		sums[s.N] += s.Duration
		counts[s.N]++
	}
	sizes := make([]int, 0, len(sums))
	for n := range sums {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	for _, n := range sizes {
		ns = append(ns, float64(n))
		ds = append(ds, sums[n]/float64(counts[n]))
	}
	return ns, ds
}

// rSquared fits y = a + b*x by ordinary least squares and returns the
// coefficient of determination. A degenerate x (zero variance, as with the
// constant transform) scores by how well the mean alone explains y.
func rSquared(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}
	meanY := sumY / n

	var ssTot float64
	for _, y := range ys {
		d := y - meanY
		ssTot += d * d
	}
	if ssTot == 0 {
		// All durations identical: any flat line fits perfectly.
		return 1
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// Constant transform: the model is the mean, which explains none
		// of a non-zero variance.
		return 0
	}
	b := (n*sumXY - sumX*sumY) / denom
	a := (sumY - b*sumX) / n

	var ssRes float64
	for i := range xs {
		d := ys[i] - (a + b*xs[i])
		ssRes += d * d
	}
	return 1 - ssRes/ssTot
}
