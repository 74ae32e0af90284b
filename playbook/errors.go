package playbook

import "errors"

var (
	// Construction errors. Construction fails on the first violation
	// encountered; a failed construction yields no Playbook at all.
	ErrUnsupportedVersion    = errors.New("playbook: unsupported schema version")
	ErrMissingInitialState   = errors.New("playbook: initial state not defined in states")
	ErrUnknownSourceState    = errors.New("playbook: transition source state not found")
	ErrUnknownTargetState    = errors.New("playbook: transition target state not found")
	ErrDuplicateStateID      = errors.New("playbook: duplicate state id")
	ErrDuplicateTransitionID = errors.New("playbook: duplicate transition id")
	ErrNoStates              = errors.New("playbook: machine has no states")
	ErrNoTransitions         = errors.New("playbook: machine has no transitions")

	// Lookup errors
	ErrStateNotFound      = errors.New("playbook: state not found")
	ErrTransitionNotFound = errors.New("playbook: transition not found")
)
