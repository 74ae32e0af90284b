package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/playproof/playproof/playbook"
)

// Validate runs all behavioral checks against a machine and returns a
// fresh Result. The machine is assumed to have passed the playbook
// construction gate; Validate itself never fails, it only reports.
func Validate(m *playbook.StateMachine) *Result {
	v := &validator{machine: m, result: &Result{Valid: true}}
	v.checkReachability()
	v.checkDeadEnds()
	v.checkDeterminism()
	v.checkFinalReachability()
	v.checkSelfLoops()

	for _, is := range v.result.Issues {
		if is.Severity == playbook.SeverityError {
			v.result.Valid = false
			break
		}
	}
	return v.result
}

type validator struct {
	machine *playbook.StateMachine
	result  *Result

	reachable map[string]bool // filled by checkReachability
}

func (v *validator) add(issue Issue) {
	v.result.Issues = append(v.result.Issues, issue)
}

// checkReachability performs a breadth-first traversal from the initial
// state. The visited set guards against cycles; states never visited are
// orphaned and can never be entered at runtime.
func (v *validator) checkReachability() {
	m := v.machine
	reachable := make(map[string]bool, len(m.States))
	queue := []string{m.Initial}
	reachable[m.Initial] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range m.Transitions {
			if t.From == current && !reachable[t.To] {
				reachable[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	v.reachable = reachable

	orphaned := make(map[string]bool)
	for id := range m.States {
		if !reachable[id] {
			orphaned[id] = true
		}
	}

	reachableFinal := make(map[string]bool)
	for id, s := range m.States {
		if s.Final && reachable[id] {
			reachableFinal[id] = true
		}
	}

	v.result.Reachability = &ReachabilityInfo{
		Reachable:      sortedKeys(reachable),
		Orphaned:       sortedKeys(orphaned),
		ReachableFinal: sortedKeys(reachableFinal),
		CanReachFinal:  len(reachableFinal) > 0,
	}

	for _, id := range sortedKeys(orphaned) {
		v.add(Issue{
			Kind:     OrphanedState,
			Severity: playbook.SeverityError,
			Message:  fmt.Sprintf("state %q is unreachable from initial state %q", id, m.Initial),
			StateID:  id,
		})
	}
}

// checkDeadEnds flags reachable non-final states with no way out.
func (v *validator) checkDeadEnds() {
	m := v.machine
	outgoing := make(map[string]int)
	for _, t := range m.Transitions {
		outgoing[t.From]++
	}

	for _, id := range sortedKeys(v.reachable) {
		s := m.States[id]
		if !s.Final && outgoing[id] == 0 {
			v.add(Issue{
				Kind:     DeadEndState,
				Severity: playbook.SeverityError,
				Message:  fmt.Sprintf("state %q is reachable, not final, and has no outgoing transitions", id),
				StateID:  id,
			})
		}
	}
}

// checkDeterminism groups transitions by (from, event). A group with more
// than one member is a conflict unless every member carries a guard; guard
// expressions are opaque here, so mutual exclusivity of guards is not
// statically verified.
func (v *validator) checkDeterminism() {
	m := v.machine
	groups := make(map[string][]*playbook.Transition)
	var order []string
	for _, t := range m.Transitions {
		key := t.From + "\x00" + t.Event
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	info := &DeterminismInfo{Deterministic: true}
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		allGuarded := true
		for _, t := range group {
			if !t.Guarded() {
				allGuarded = false
				break
			}
		}
		if allGuarded {
			continue
		}

		ids := make([]string, 0, len(group))
		for _, t := range group {
			ids = append(ids, t.ID)
		}
		sort.Strings(ids)
		parts := strings.SplitN(key, "\x00", 2)
		conflict := Conflict{StateID: parts[0], Event: parts[1], TransitionIDs: ids}
		info.Deterministic = false
		info.Conflicts = append(info.Conflicts, conflict)

		v.add(Issue{
			Kind:          NonDeterministic,
			Severity:      playbook.SeverityWarning,
			Message:       fmt.Sprintf("state %q has %d competing transitions for event %q and not all are guarded", conflict.StateID, len(ids), conflict.Event),
			StateID:       conflict.StateID,
			Event:         conflict.Event,
			TransitionIDs: ids,
		})
	}
	v.result.Determinism = info
}

// checkFinalReachability computes the backward fixed-point closure of the
// final-state set: a state is in the closure if some transition leads from
// it to a state already in the closure. Reachable states outside the
// closure can never complete a run. Skipped when the machine declares no
// final states.
func (v *validator) checkFinalReachability() {
	m := v.machine
	closure := make(map[string]bool)
	for id, s := range m.States {
		if s.Final {
			closure[id] = true
		}
	}
	if len(closure) == 0 {
		return
	}

	for changed := true; changed; {
		changed = false
		for _, t := range m.Transitions {
			if closure[t.To] && !closure[t.From] {
				closure[t.From] = true
				changed = true
			}
		}
	}

	for _, id := range sortedKeys(v.reachable) {
		if !closure[id] {
			v.add(Issue{
				Kind:     NoPathToFinal,
				Severity: playbook.SeverityWarning,
				Message:  fmt.Sprintf("state %q cannot reach any final state", id),
				StateID:  id,
			})
		}
	}
}

// checkSelfLoops flags unguarded self-transitions as infinite-loop risks.
func (v *validator) checkSelfLoops() {
	for _, t := range v.machine.Transitions {
		if t.From == t.To && !t.Guarded() {
			v.add(Issue{
				Kind:          UnguardedSelfLoop,
				Severity:      playbook.SeverityWarning,
				Message:       fmt.Sprintf("transition %q loops on state %q without a guard", t.ID, t.From),
				StateID:       t.From,
				Event:         t.Event,
				TransitionIDs: []string{t.ID},
			})
		}
	}
}
