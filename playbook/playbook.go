// Package playbook defines the in-memory model for declarative state-machine
// test specifications ("playbooks") and the single validation gate through
// which every playbook is constructed.
//
// A playbook describes expected application behavior as a directed graph of
// states and event-driven transitions. Guards and invariant conditions are
// opaque strings evaluated by an external engine; this package only tracks
// their presence. Once constructed, a Playbook is immutable: analysis
// packages (validation, mutation, complexity) treat it as read-only and may
// share one instance across goroutines without locking.
package playbook

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SupportedVersion is the playbook schema version this engine accepts.
const SupportedVersion = "1.0"

// Severity classifies invariant conditions and validation findings.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// MarshalJSON encodes the severity as its lowercase name, matching the
// document schema.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its lowercase name. Unknown names
// are rejected rather than silently coerced.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("playbook: unknown severity %q", name)
	}
	return nil
}

// Invariant is a condition that must hold while control resides in a state.
// The condition expression is opaque to this engine.
type Invariant struct {
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Severity    Severity `json:"severity"`
}

// State is a node in the machine. Final states are accepting: a run that
// ends in one is considered complete.
type State struct {
	ID           string      `json:"id"`
	Description  string      `json:"description,omitempty"`
	EntryActions []string    `json:"entry_actions,omitempty"`
	ExitActions  []string    `json:"exit_actions,omitempty"`
	Invariants   []Invariant `json:"invariants,omitempty"`
	Final        bool        `json:"final_state"`
}

// Transition is an event-driven edge between two states. Guard is an
// optional opaque boolean expression; an empty string means unguarded.
// Two transitions compete when they share (From, Event).
type Transition struct {
	ID         string   `json:"id"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Event      string   `json:"event"`
	Guard      string   `json:"guard,omitempty"`
	Actions    []string `json:"actions,omitempty"`
	Assertions []string `json:"assertions,omitempty"`
}

// Guarded reports whether the transition carries a guard expression.
func (t *Transition) Guarded() bool {
	return t.Guard != ""
}

// StateMachine is the directed graph at the heart of a playbook.
// States is keyed by state id; Transitions preserve document order.
type StateMachine struct {
	ID          string            `json:"id"`
	Initial     string            `json:"initial"`
	States      map[string]*State `json:"states"`
	Transitions []*Transition     `json:"transitions"`
}

// PerformanceBudget bounds observed timing and memory for a playbook run.
// Times are in milliseconds, memory in bytes. Zero values mean unbounded.
type PerformanceBudget struct {
	MaxTransitionMs    float64 `json:"max_transition_ms,omitempty"`
	MaxTotalMs         float64 `json:"max_total_ms,omitempty"`
	MaxMemoryBytes     int64   `json:"max_memory_bytes,omitempty"`
	ExpectedComplexity string  `json:"expected_complexity,omitempty"`
}

// ForbiddenPath is an explicit negative assertion: observing the pair
// (From, To) adjacently in a runtime trace is a failure. Forbidden paths
// are checked against observed traces, never against the static graph.
type ForbiddenPath struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// Playbook is the top-level document. Construction through New is the
// single validation gate; a Playbook that exists is structurally sound.
type Playbook struct {
	Version   string             `json:"version"`
	Machine   *StateMachine      `json:"machine"`
	Budget    *PerformanceBudget `json:"performance,omitempty"`
	Forbidden []ForbiddenPath    `json:"forbidden,omitempty"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
}

// New constructs a Playbook, failing fast on the first structural violation.
// Check order: version, initial state, transition endpoints, duplicate ids,
// emptiness. There is no partial recovery: a failed construction returns no
// playbook at all.
func New(version string, machine *StateMachine, budget *PerformanceBudget, metadata map[string]string) (*Playbook, error) {
	if version != SupportedVersion {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedVersion, version, SupportedVersion)
	}
	if err := machine.check(); err != nil {
		return nil, err
	}
	return &Playbook{
		Version:  version,
		Machine:  machine,
		Budget:   budget,
		Metadata: metadata,
	}, nil
}

// check enforces the structural invariants every machine must satisfy.
func (m *StateMachine) check() error {
	if m == nil {
		return ErrNoStates
	}
	if _, ok := m.States[m.Initial]; !ok {
		return fmt.Errorf("%w: %q", ErrMissingInitialState, m.Initial)
	}
	for _, t := range m.Transitions {
		if _, ok := m.States[t.From]; !ok {
			return fmt.Errorf("%w: transition %q references %q", ErrUnknownSourceState, t.ID, t.From)
		}
		if _, ok := m.States[t.To]; !ok {
			return fmt.Errorf("%w: transition %q references %q", ErrUnknownTargetState, t.ID, t.To)
		}
	}
	// States is keyed by id, so two entries cannot share a key; a value
	// whose embedded id disagrees with its key is the map-world shape of a
	// duplicated or misfiled state.
	for id, s := range m.States {
		if s.ID != "" && s.ID != id {
			return fmt.Errorf("%w: entry %q declares id %q", ErrDuplicateStateID, id, s.ID)
		}
	}
	seen := make(map[string]bool, len(m.Transitions))
	for _, t := range m.Transitions {
		if seen[t.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateTransitionID, t.ID)
		}
		seen[t.ID] = true
	}
	if len(m.States) == 0 {
		return ErrNoStates
	}
	if len(m.Transitions) == 0 {
		return ErrNoTransitions
	}
	return nil
}

// StateIDs returns all state ids in sorted order.
func (m *StateMachine) StateIDs() []string {
	ids := make([]string, 0, len(m.States))
	for id := range m.States {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FinalStateIDs returns the ids of all final states in sorted order.
func (m *StateMachine) FinalStateIDs() []string {
	var ids []string
	for id, s := range m.States {
		if s.Final {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// EventNames returns the distinct event names in sorted order.
func (m *StateMachine) EventNames() []string {
	set := make(map[string]bool)
	for _, t := range m.Transitions {
		set[t.Event] = true
	}
	names := make([]string, 0, len(set))
	for e := range set {
		names = append(names, e)
	}
	sort.Strings(names)
	return names
}

// TransitionsFrom returns the transitions leaving a state, in document order.
func (m *StateMachine) TransitionsFrom(stateID string) []*Transition {
	var out []*Transition
	for _, t := range m.Transitions {
		if t.From == stateID {
			out = append(out, t)
		}
	}
	return out
}

// FindTransition returns the transition with the given id.
func (m *StateMachine) FindTransition(id string) (*Transition, error) {
	for _, t := range m.Transitions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTransitionNotFound, id)
}

// Clone returns a deep copy of the machine. Mutation generation edits
// clones so the source machine is never touched.
func (m *StateMachine) Clone() *StateMachine {
	c := &StateMachine{
		ID:          m.ID,
		Initial:     m.Initial,
		States:      make(map[string]*State, len(m.States)),
		Transitions: make([]*Transition, 0, len(m.Transitions)),
	}
	for id, s := range m.States {
		cs := *s
		cs.EntryActions = append([]string(nil), s.EntryActions...)
		cs.ExitActions = append([]string(nil), s.ExitActions...)
		cs.Invariants = append([]Invariant(nil), s.Invariants...)
		c.States[id] = &cs
	}
	for _, t := range m.Transitions {
		ct := *t
		ct.Actions = append([]string(nil), t.Actions...)
		ct.Assertions = append([]string(nil), t.Assertions...)
		c.Transitions = append(c.Transitions, &ct)
	}
	return c
}
