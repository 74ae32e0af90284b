// Package validation provides structural and behavioral analysis for
// playbook state machines: forward reachability, dead-end detection,
// determinism checking, and final-state liveness.
//
// Validation is a pure query. It never mutates the machine, produces a
// fresh Result on every call, and is safe to run concurrently on a shared
// Playbook.
package validation

import (
	"sort"

	"github.com/playproof/playproof/playbook"
)

// IssueKind tags the closed set of validation findings.
type IssueKind int

const (
	OrphanedState IssueKind = iota
	NoPathToFinal
	DeadEndState
	NonDeterministic
	UnguardedSelfLoop
	UnhandledEvent
)

// String returns the finding name used in reports.
func (k IssueKind) String() string {
	switch k {
	case OrphanedState:
		return "orphaned_state"
	case NoPathToFinal:
		return "no_path_to_final"
	case DeadEndState:
		return "dead_end_state"
	case NonDeterministic:
		return "non_deterministic"
	case UnguardedSelfLoop:
		return "unguarded_self_loop"
	case UnhandledEvent:
		return "unhandled_event"
	}
	return "unknown"
}

// Issue is a single validation finding with enough context to act on.
type Issue struct {
	Kind          IssueKind         `json:"kind"`
	Severity      playbook.Severity `json:"severity"`
	Message       string            `json:"message"`
	StateID       string            `json:"state_id,omitempty"`
	Event         string            `json:"event,omitempty"`
	TransitionIDs []string          `json:"transition_ids,omitempty"`
}

// ReachabilityInfo summarizes forward reachability from the initial state.
// Reachable and Orphaned partition the machine's state ids.
type ReachabilityInfo struct {
	Reachable      []string `json:"reachable"`
	Orphaned       []string `json:"orphaned"`
	ReachableFinal []string `json:"reachable_final"`
	CanReachFinal  bool     `json:"can_reach_final"`
}

// Conflict names one set of competing transitions that are not all guarded.
type Conflict struct {
	StateID       string   `json:"state_id"`
	Event         string   `json:"event"`
	TransitionIDs []string `json:"transition_ids"`
}

// DeterminismInfo summarizes the (from, event) grouping analysis.
type DeterminismInfo struct {
	Deterministic bool       `json:"deterministic"`
	Conflicts     []Conflict `json:"conflicts,omitempty"`
}

// Result is the outcome of one Validate call. Valid is true iff no issue
// carries Error severity; warnings do not block usability.
type Result struct {
	Valid        bool              `json:"valid"`
	Issues       []Issue           `json:"issues,omitempty"`
	Reachability *ReachabilityInfo `json:"reachability"`
	Determinism  *DeterminismInfo  `json:"determinism"`
}

// Errors returns only the Error-severity issues.
func (r *Result) Errors() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == playbook.SeverityError {
			out = append(out, is)
		}
	}
	return out
}

// Warnings returns only the Warning-severity issues.
func (r *Result) Warnings() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == playbook.SeverityWarning {
			out = append(out, is)
		}
	}
	return out
}

// sortedKeys returns the keys of a string set in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
