package mutation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/playproof/playproof/playbook"
)

// Generate emits all mutants of one class for a machine. Generation is
// pure: the source machine is cloned per mutant and never modified.
// Mutants are returned in a deterministic order (transition document
// order, or sorted state order for state-targeted classes).
func Generate(m *playbook.StateMachine, class Class) []Mutant {
	switch class {
	case TargetSwap:
		return generateTargetSwaps(m)
	case EventSwap:
		return generateEventSwaps(m)
	case GuardNegation:
		return generateGuardNegations(m)
	case GuardRemoval:
		return generateGuardRemovals(m)
	case StateRemoval:
		return generateStateRemovals(m)
	case ForbiddenPath:
		return generateForbiddenPaths(m)
	}
	return nil
}

// GenerateAll runs every class in the catalog concurrently and returns the
// combined catalog in class order. Classes are independent by
// construction, so the fan-out needs no coordination beyond the join.
func GenerateAll(m *playbook.StateMachine) []Mutant {
	classes := AllClasses()
	perClass := make([][]Mutant, len(classes))

	var wg sync.WaitGroup
	for i, class := range classes {
		wg.Add(1)
		go func(idx int, c Class) {
			defer wg.Done()
			perClass[idx] = Generate(m, c)
		}(i, class)
	}
	wg.Wait()

	var all []Mutant
	for _, ms := range perClass {
		all = append(all, ms...)
	}
	return all
}

// generateTargetSwaps redirects each transition to the next state id in
// sorted order. The replacement choice is arbitrary but must be
// deterministic so mutant ids are stable across runs.
func generateTargetSwaps(m *playbook.StateMachine) []Mutant {
	ids := m.StateIDs()
	if len(ids) < 2 {
		return nil
	}
	var mutants []Mutant
	for _, t := range m.Transitions {
		swapped := nextAfter(ids, t.To)
		clone := m.Clone()
		ct, _ := clone.FindTransition(t.ID)
		ct.To = swapped
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, TargetSwap, t.ID),
			Class:       TargetSwap,
			TargetID:    t.ID,
			Description: fmt.Sprintf("transition %q retargeted from %q to %q", t.ID, t.To, swapped),
			Machine:     clone,
		})
	}
	return mutants
}

// generateEventSwaps replaces each transition's event with the next event
// in the machine's sorted alphabet. Machines with a single event admit no
// event-swap mutants.
func generateEventSwaps(m *playbook.StateMachine) []Mutant {
	events := m.EventNames()
	if len(events) < 2 {
		return nil
	}
	var mutants []Mutant
	for _, t := range m.Transitions {
		swapped := nextAfter(events, t.Event)
		clone := m.Clone()
		ct, _ := clone.FindTransition(t.ID)
		ct.Event = swapped
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, EventSwap, t.ID),
			Class:       EventSwap,
			TargetID:    t.ID,
			Description: fmt.Sprintf("transition %q event changed from %q to %q", t.ID, t.Event, swapped),
			Machine:     clone,
		})
	}
	return mutants
}

func generateGuardNegations(m *playbook.StateMachine) []Mutant {
	var mutants []Mutant
	for _, t := range m.Transitions {
		if !t.Guarded() {
			continue
		}
		clone := m.Clone()
		ct, _ := clone.FindTransition(t.ID)
		ct.Guard = "!(" + t.Guard + ")"
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, GuardNegation, t.ID),
			Class:       GuardNegation,
			TargetID:    t.ID,
			Description: fmt.Sprintf("transition %q guard negated", t.ID),
			Machine:     clone,
		})
	}
	return mutants
}

func generateGuardRemovals(m *playbook.StateMachine) []Mutant {
	var mutants []Mutant
	for _, t := range m.Transitions {
		if !t.Guarded() {
			continue
		}
		clone := m.Clone()
		ct, _ := clone.FindTransition(t.ID)
		ct.Guard = ""
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, GuardRemoval, t.ID),
			Class:       GuardRemoval,
			TargetID:    t.ID,
			Description: fmt.Sprintf("transition %q guard removed", t.ID),
			Machine:     clone,
		})
	}
	return mutants
}

// generateStateRemovals deletes each non-initial state together with the
// transitions touching it. Removing the state is the single seeded fault;
// dropping its dangling edges keeps the mutant a well-formed machine
// rather than compounding a second fault.
func generateStateRemovals(m *playbook.StateMachine) []Mutant {
	var mutants []Mutant
	for _, id := range m.StateIDs() {
		if id == m.Initial {
			continue
		}
		clone := m.Clone()
		delete(clone.States, id)
		kept := clone.Transitions[:0]
		for _, t := range clone.Transitions {
			if t.From != id && t.To != id {
				kept = append(kept, t)
			}
		}
		clone.Transitions = kept
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, StateRemoval, id),
			Class:       StateRemoval,
			TargetID:    id,
			Description: fmt.Sprintf("state %q removed along with its transitions", id),
			Machine:     clone,
		})
	}
	return mutants
}

// generateForbiddenPaths leaves the machine unchanged and injects a
// forbidden (from, to) assertion over each legal transition. A harness
// replaying correct behavior must traverse the pair and flag it.
func generateForbiddenPaths(m *playbook.StateMachine) []Mutant {
	var mutants []Mutant
	for _, t := range m.Transitions {
		fp := &playbook.ForbiddenPath{
			From:   t.From,
			To:     t.To,
			Reason: fmt.Sprintf("injected over transition %q", t.ID),
		}
		mutants = append(mutants, Mutant{
			ID:          MutantID(m.ID, ForbiddenPath, t.ID),
			Class:       ForbiddenPath,
			TargetID:    t.ID,
			Description: fmt.Sprintf("path %q -> %q marked forbidden", t.From, t.To),
			Machine:     m.Clone(),
			Injected:    fp,
		})
	}
	return mutants
}

// nextAfter returns the element following v in a sorted slice, wrapping
// around, so the replacement always differs from v when len > 1.
func nextAfter(sorted []string, v string) string {
	i := sort.SearchStrings(sorted, v)
	if i >= len(sorted) || sorted[i] != v {
		// v not present; fall back to the first element.
		return sorted[0]
	}
	return sorted[(i+1)%len(sorted)]
}
