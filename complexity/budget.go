package complexity

import (
	"fmt"

	"github.com/playproof/playproof/playbook"
)

// BudgetFinding is one budget violation with the observed and allowed
// values that produced it.
type BudgetFinding struct {
	Message  string  `json:"message"`
	Observed float64 `json:"observed"`
	Allowed  float64 `json:"allowed"`
}

// BudgetReport is the outcome of checking timing samples against a
// playbook performance budget.
type BudgetReport struct {
	Passed   bool            `json:"passed"`
	Findings []BudgetFinding `json:"findings,omitempty"`

	// Complexity carries the regression verdict when the budget declares
	// an expected complexity class, nil otherwise.
	Complexity *AnalysisResult `json:"complexity,omitempty"`
}

// CheckBudget evaluates per-transition timing samples against a budget.
// Durations are in milliseconds, matching PerformanceBudget. A nil budget
// or empty sample set passes trivially.
func CheckBudget(samples []Sample, budget *playbook.PerformanceBudget) *BudgetReport {
	report := &BudgetReport{Passed: true}
	if budget == nil || len(samples) == 0 {
		return report
	}

	if budget.MaxTransitionMs > 0 {
		for _, s := range samples {
			if s.Duration > budget.MaxTransitionMs {
				report.Findings = append(report.Findings, BudgetFinding{
					Message:  fmt.Sprintf("transition at n=%d took %.2fms, budget allows %.2fms", s.N, s.Duration, budget.MaxTransitionMs),
					Observed: s.Duration,
					Allowed:  budget.MaxTransitionMs,
				})
			}
		}
	}

	if budget.MaxTotalMs > 0 {
		total := 0.0
		for _, s := range samples {
			total += s.Duration
		}
		if total > budget.MaxTotalMs {
			report.Findings = append(report.Findings, BudgetFinding{
				Message:  fmt.Sprintf("run took %.2fms in total, budget allows %.2fms", total, budget.MaxTotalMs),
				Observed: total,
				Allowed:  budget.MaxTotalMs,
			})
		}
	}

	if budget.ExpectedComplexity != "" {
		if expected, ok := ParseClass(budget.ExpectedComplexity); ok {
			report.Complexity = Analyze(samples, &expected)
			if report.Complexity.Violation {
				report.Findings = append(report.Findings, BudgetFinding{
					Message: fmt.Sprintf("detected %s with R²=%.3f, budget expects %s",
						report.Complexity.Detected, report.Complexity.RSquared, expected),
					Observed: float64(report.Complexity.Detected),
					Allowed:  float64(expected),
				})
			}
		}
	}

	report.Passed = len(report.Findings) == 0
	return report
}
