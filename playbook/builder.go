package playbook

// Definition provides a fluent API for assembling playbooks in code.
// Build runs the same construction gate as New, so a definition that
// builds is structurally sound.
//
// Example:
//
//	pb, err := playbook.Define("login").
//	    State("logged_out").Initial().
//	    State("logged_in").Final().
//	    Transition("t1", "logged_out", "logged_in").On("submit").
//	    Build()
type Definition struct {
	machine  *StateMachine
	budget   *PerformanceBudget
	forbid   []ForbiddenPath
	metadata map[string]string
	current  *State
	currentT *Transition
}

// Define starts a new playbook definition for a machine with the given id.
func Define(machineID string) *Definition {
	return &Definition{
		machine: &StateMachine{
			ID:     machineID,
			States: make(map[string]*State),
		},
	}
}

// State adds a state and makes it current for chained state setters.
// The first state added becomes the initial state unless Initial is
// called on a later one.
func (d *Definition) State(id string) *Definition {
	s := &State{ID: id}
	d.machine.States[id] = s
	d.current = s
	if d.machine.Initial == "" {
		d.machine.Initial = id
	}
	return d
}

// Initial marks the current state as the machine's initial state.
func (d *Definition) Initial() *Definition {
	if d.current != nil {
		d.machine.Initial = d.current.ID
	}
	return d
}

// Final marks the current state as accepting.
func (d *Definition) Final() *Definition {
	if d.current != nil {
		d.current.Final = true
	}
	return d
}

// Describe sets the current state's human description.
func (d *Definition) Describe(text string) *Definition {
	if d.current != nil {
		d.current.Description = text
	}
	return d
}

// OnEntry appends entry actions to the current state.
func (d *Definition) OnEntry(actions ...string) *Definition {
	if d.current != nil {
		d.current.EntryActions = append(d.current.EntryActions, actions...)
	}
	return d
}

// OnExit appends exit actions to the current state.
func (d *Definition) OnExit(actions ...string) *Definition {
	if d.current != nil {
		d.current.ExitActions = append(d.current.ExitActions, actions...)
	}
	return d
}

// Invariant attaches an invariant condition to the current state.
func (d *Definition) Invariant(description, condition string, severity Severity) *Definition {
	if d.current != nil {
		d.current.Invariants = append(d.current.Invariants, Invariant{
			Description: description,
			Condition:   condition,
			Severity:    severity,
		})
	}
	return d
}

// Transition adds an edge and makes it current for chained edge setters.
func (d *Definition) Transition(id, from, to string) *Definition {
	t := &Transition{ID: id, From: from, To: to}
	d.machine.Transitions = append(d.machine.Transitions, t)
	d.currentT = t
	return d
}

// On sets the triggering event of the current transition.
func (d *Definition) On(event string) *Definition {
	if d.currentT != nil {
		d.currentT.Event = event
	}
	return d
}

// Guard sets the opaque guard expression of the current transition.
func (d *Definition) Guard(expr string) *Definition {
	if d.currentT != nil {
		d.currentT.Guard = expr
	}
	return d
}

// Do appends actions to the current transition.
func (d *Definition) Do(actions ...string) *Definition {
	if d.currentT != nil {
		d.currentT.Actions = append(d.currentT.Actions, actions...)
	}
	return d
}

// Assert appends post-condition assertions to the current transition.
func (d *Definition) Assert(assertions ...string) *Definition {
	if d.currentT != nil {
		d.currentT.Assertions = append(d.currentT.Assertions, assertions...)
	}
	return d
}

// Forbid records an explicit negative path assertion.
func (d *Definition) Forbid(from, to, reason string) *Definition {
	d.forbid = append(d.forbid, ForbiddenPath{From: from, To: to, Reason: reason})
	return d
}

// Budget attaches a performance budget.
func (d *Definition) Budget(b *PerformanceBudget) *Definition {
	d.budget = b
	return d
}

// Meta sets a free-form metadata entry.
func (d *Definition) Meta(key, value string) *Definition {
	if d.metadata == nil {
		d.metadata = make(map[string]string)
	}
	d.metadata[key] = value
	return d
}

// Build runs the construction gate and returns the finished playbook.
func (d *Definition) Build() (*Playbook, error) {
	pb, err := New(SupportedVersion, d.machine, d.budget, d.metadata)
	if err != nil {
		return nil, err
	}
	pb.Forbidden = append(pb.Forbidden, d.forbid...)
	return pb, nil
}
