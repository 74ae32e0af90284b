// Package mutation implements systematic fault injection for playbook
// state machines, after Fabbri et al. (ISSRE 1999). For each eligible
// element of a source machine the generator emits exactly one mutant
// carrying a single structural edit; a test suite that cannot distinguish
// a mutant from the original has a gap.
//
// Mutants are static artifacts. Executing them against an application is
// the job of an external harness, which reports back one Result per
// mutant; Score reduces those reports into an aggregate mutation score.
package mutation

import (
	"github.com/google/uuid"

	"github.com/playproof/playproof/playbook"
)

// Class tags the closed catalog of mutation operators.
type Class int

const (
	// TargetSwap redirects a transition to a different target state.
	TargetSwap Class = iota
	// EventSwap replaces a transition's triggering event with another
	// event from the machine's alphabet.
	EventSwap
	// GuardNegation logically negates a transition's guard expression.
	GuardNegation
	// GuardRemoval strips the guard from a guarded transition.
	GuardRemoval
	// StateRemoval deletes a non-initial state and every transition
	// touching it.
	StateRemoval
	// ForbiddenPath marks a legal transition's (from, to) pair as
	// forbidden, so a correct run through it must be flagged.
	ForbiddenPath
)

// AllClasses enumerates the full mutation catalog in generation order.
func AllClasses() []Class {
	return []Class{TargetSwap, EventSwap, GuardNegation, GuardRemoval, StateRemoval, ForbiddenPath}
}

// String returns the operator name used in mutant ids and reports.
func (c Class) String() string {
	switch c {
	case TargetSwap:
		return "target_swap"
	case EventSwap:
		return "event_swap"
	case GuardNegation:
		return "guard_negation"
	case GuardRemoval:
		return "guard_removal"
	case StateRemoval:
		return "state_removal"
	case ForbiddenPath:
		return "forbidden_path"
	}
	return "unknown"
}

// mutantNamespace seeds deterministic mutant ids. Regenerating mutants for
// an unchanged machine must reproduce identical ids so scores aggregate
// across runs.
var mutantNamespace = uuid.MustParse("8f2f639e-5b44-4e6b-9f3a-6c1d2b7a90c4")

// MutantID derives the stable id for a (machine, class, target) triple.
func MutantID(machineID string, class Class, targetID string) string {
	return uuid.NewSHA1(mutantNamespace, []byte(machineID+"/"+class.String()+"/"+targetID)).String()
}

// Mutant is one single-fault variant of a source machine. Machine is a
// deep copy with the edit applied; mutants share no mutable state with
// each other or with the source.
type Mutant struct {
	ID          string `json:"id"`
	Class       Class  `json:"class"`
	TargetID    string `json:"target_id"`   // state or transition the edit applies to
	Description string `json:"description"` // human description of the edit

	Machine *playbook.StateMachine `json:"machine"`

	// Injected is set for ForbiddenPath mutants: the negative assertion
	// added alongside the otherwise unchanged machine.
	Injected *playbook.ForbiddenPath `json:"injected,omitempty"`
}

// Status classifies a mutant's execution outcome.
type Status int

const (
	// StatusNotExecuted means the harness never produced an outcome
	// (timeout, skip, crash). Not-executed mutants are excluded from the
	// score denominator.
	StatusNotExecuted Status = iota
	// StatusKilled means some test observed a divergence from the
	// unmutated machine.
	StatusKilled
	// StatusSurvived means no test detected the fault.
	StatusSurvived
)

// String returns the outcome name.
func (s Status) String() string {
	switch s {
	case StatusKilled:
		return "killed"
	case StatusSurvived:
		return "survived"
	case StatusNotExecuted:
		return "not_executed"
	}
	return "unknown"
}

// Result is one mutant outcome supplied by the external harness.
type Result struct {
	MutantID string `json:"mutant_id"`
	Class    Class  `json:"class"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"` // how the mutant was killed
}

// Killed reports whether the mutant was detected.
func (r Result) Killed() bool { return r.Status == StatusKilled }

// ClassScore is the score reduction restricted to one mutation class.
type ClassScore struct {
	Total       int     `json:"total"`
	Killed      int     `json:"killed"`
	Survived    int     `json:"survived"`
	NotExecuted int     `json:"not_executed"`
	Score       float64 `json:"score"`
}

// Score aggregates mutant outcomes. Total counts executed mutants only;
// NotExecuted is reported separately so skipped mutants cannot inflate
// the apparent score.
type Score struct {
	Total       int                   `json:"total"`
	Killed      int                   `json:"killed"`
	Survived    int                   `json:"survived"`
	NotExecuted int                   `json:"not_executed"`
	Overall     float64               `json:"score"`
	PerClass    map[Class]*ClassScore `json:"per_class"`
}
