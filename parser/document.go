// Package parser constructs playbooks from their document form. It
// supports JSON and YAML encodings of the same logical schema:
//
//	{
//	  "version": "1.0",
//	  "machine": {
//	    "id": "login",
//	    "initial": "logged_out",
//	    "states": {
//	      "logged_out": {"id": "logged_out", "description": "..."}
//	    },
//	    "transitions": [
//	      {"id": "t1", "from": "logged_out", "to": "logged_in", "event": "submit"}
//	    ]
//	  },
//	  "performance": {"max_total_ms": 5000, "expected_complexity": "linear"},
//	  "metadata": {"owner": "checkout-team"}
//	}
//
// Parsing always runs the playbook construction gate: a document that
// decodes but violates structure yields an error and no playbook.
package parser

import (
	"github.com/playproof/playproof/playbook"
)

// document mirrors the wire schema. Field tags cover both encodings.
type document struct {
	Version     string               `json:"version" yaml:"version"`
	Machine     machineDoc           `json:"machine" yaml:"machine"`
	Performance *budgetDoc           `json:"performance,omitempty" yaml:"performance,omitempty"`
	Forbidden   []forbiddenDoc       `json:"forbidden,omitempty" yaml:"forbidden,omitempty"`
	Metadata    map[string]string    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type machineDoc struct {
	ID          string               `json:"id" yaml:"id"`
	Initial     string               `json:"initial" yaml:"initial"`
	States      map[string]stateDoc  `json:"states" yaml:"states"`
	Transitions []transitionDoc      `json:"transitions" yaml:"transitions"`
}

type stateDoc struct {
	ID           string         `json:"id" yaml:"id"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	EntryActions []string       `json:"entry_actions,omitempty" yaml:"entry_actions,omitempty"`
	ExitActions  []string       `json:"exit_actions,omitempty" yaml:"exit_actions,omitempty"`
	Invariants   []invariantDoc `json:"invariants,omitempty" yaml:"invariants,omitempty"`
	Final        bool           `json:"final_state,omitempty" yaml:"final_state,omitempty"`
}

type invariantDoc struct {
	Description string `json:"description" yaml:"description"`
	Condition   string `json:"condition" yaml:"condition"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`
}

type transitionDoc struct {
	ID         string   `json:"id" yaml:"id"`
	From       string   `json:"from" yaml:"from"`
	To         string   `json:"to" yaml:"to"`
	Event      string   `json:"event" yaml:"event"`
	Guard      string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	Actions    []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Assertions []string `json:"assertions,omitempty" yaml:"assertions,omitempty"`
}

type budgetDoc struct {
	MaxTransitionMs    float64 `json:"max_transition_ms,omitempty" yaml:"max_transition_ms,omitempty"`
	MaxTotalMs         float64 `json:"max_total_ms,omitempty" yaml:"max_total_ms,omitempty"`
	MaxMemoryBytes     int64   `json:"max_memory_bytes,omitempty" yaml:"max_memory_bytes,omitempty"`
	ExpectedComplexity string  `json:"expected_complexity,omitempty" yaml:"expected_complexity,omitempty"`
}

type forbiddenDoc struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// build converts a decoded document into a validated playbook.
func (d *document) build() (*playbook.Playbook, error) {
	machine := &playbook.StateMachine{
		ID:      d.Machine.ID,
		Initial: d.Machine.Initial,
		States:  make(map[string]*playbook.State, len(d.Machine.States)),
	}
	for key, sd := range d.Machine.States {
		s := &playbook.State{
			ID:           sd.ID,
			Description:  sd.Description,
			EntryActions: sd.EntryActions,
			ExitActions:  sd.ExitActions,
			Final:        sd.Final,
		}
		if s.ID == "" {
			s.ID = key
		}
		for _, inv := range sd.Invariants {
			s.Invariants = append(s.Invariants, playbook.Invariant{
				Description: inv.Description,
				Condition:   inv.Condition,
				Severity:    parseSeverity(inv.Severity),
			})
		}
		machine.States[key] = s
	}
	for _, td := range d.Machine.Transitions {
		machine.Transitions = append(machine.Transitions, &playbook.Transition{
			ID:         td.ID,
			From:       td.From,
			To:         td.To,
			Event:      td.Event,
			Guard:      td.Guard,
			Actions:    td.Actions,
			Assertions: td.Assertions,
		})
	}

	var budget *playbook.PerformanceBudget
	if d.Performance != nil {
		budget = &playbook.PerformanceBudget{
			MaxTransitionMs:    d.Performance.MaxTransitionMs,
			MaxTotalMs:         d.Performance.MaxTotalMs,
			MaxMemoryBytes:     d.Performance.MaxMemoryBytes,
			ExpectedComplexity: d.Performance.ExpectedComplexity,
		}
	}

	pb, err := playbook.New(d.Version, machine, budget, d.Metadata)
	if err != nil {
		return nil, err
	}
	for _, fd := range d.Forbidden {
		pb.Forbidden = append(pb.Forbidden, playbook.ForbiddenPath{
			From: fd.From, To: fd.To, Reason: fd.Reason,
		})
	}
	return pb, nil
}

// parseSeverity maps a document severity string to the model enum.
// Unknown strings default to warning, the least severe level.
func parseSeverity(s string) playbook.Severity {
	switch s {
	case "error":
		return playbook.SeverityError
	case "critical":
		return playbook.SeverityCritical
	default:
		return playbook.SeverityWarning
	}
}
