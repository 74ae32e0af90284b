package validation

import (
	"reflect"
	"testing"

	"github.com/playproof/playproof/playbook"
)

// loginMachine is the canonical sound machine: every state reachable,
// deterministic, and the final state reachable from everywhere.
func loginMachine() *playbook.StateMachine {
	return &playbook.StateMachine{
		ID:      "login",
		Initial: "logged_out",
		States: map[string]*playbook.State{
			"logged_out":     {ID: "logged_out"},
			"authenticating": {ID: "authenticating"},
			"logged_in":      {ID: "logged_in", Final: true},
			"error":          {ID: "error"},
		},
		Transitions: []*playbook.Transition{
			{ID: "submit", From: "logged_out", To: "authenticating", Event: "submit"},
			{ID: "auth_ok", From: "authenticating", To: "logged_in", Event: "auth_ok"},
			{ID: "auth_fail", From: "authenticating", To: "error", Event: "auth_fail"},
			{ID: "retry", From: "error", To: "logged_out", Event: "retry"},
		},
	}
}

func TestValidateLoginFlow(t *testing.T) {
	res := Validate(loginMachine())

	if !res.Valid {
		t.Errorf("Valid = false, want true; issues: %+v", res.Issues)
	}
	if len(res.Reachability.Orphaned) != 0 {
		t.Errorf("Orphaned = %v, want empty", res.Reachability.Orphaned)
	}
	if !res.Reachability.CanReachFinal {
		t.Error("CanReachFinal = false, want true")
	}
	if !res.Determinism.Deterministic {
		t.Errorf("Deterministic = false, conflicts: %+v", res.Determinism.Conflicts)
	}
}

func TestValidateOrphan(t *testing.T) {
	m := loginMachine()
	m.States["ghost"] = &playbook.State{ID: "ghost"}
	m.Transitions = append(m.Transitions, &playbook.Transition{
		ID: "haunt", From: "ghost", To: "logged_out", Event: "boo",
	})

	res := Validate(m)
	if res.Valid {
		t.Error("Valid = true, want false for machine with orphan")
	}
	if !reflect.DeepEqual(res.Reachability.Orphaned, []string{"ghost"}) {
		t.Errorf("Orphaned = %v, want [ghost]", res.Reachability.Orphaned)
	}

	var found bool
	for _, is := range res.Issues {
		if is.Kind == OrphanedState && is.StateID == "ghost" {
			found = true
			if is.Severity != playbook.SeverityError {
				t.Errorf("orphan severity = %v, want error", is.Severity)
			}
		}
	}
	if !found {
		t.Errorf("no OrphanedState issue for ghost; issues: %+v", res.Issues)
	}
}

func TestValidateDeadEnd(t *testing.T) {
	m := loginMachine()
	// Make error a trap: reachable, not final, no way out.
	m.Transitions = m.Transitions[:3]

	res := Validate(m)
	if res.Valid {
		t.Error("Valid = true, want false for machine with dead end")
	}
	var found bool
	for _, is := range res.Issues {
		if is.Kind == DeadEndState && is.StateID == "error" {
			found = true
		}
	}
	if !found {
		t.Errorf("no DeadEndState issue for error; issues: %+v", res.Issues)
	}
}

func TestFinalStateIsNotDeadEnd(t *testing.T) {
	res := Validate(loginMachine())
	for _, is := range res.Issues {
		if is.Kind == DeadEndState && is.StateID == "logged_in" {
			t.Error("final state logged_in flagged as dead end")
		}
	}
}

func TestNonDeterminismDetection(t *testing.T) {
	m := &playbook.StateMachine{
		ID:      "nd",
		Initial: "start",
		States: map[string]*playbook.State{
			"start": {ID: "start"},
			"a":     {ID: "a", Final: true},
			"b":     {ID: "b", Final: true},
		},
		Transitions: []*playbook.Transition{
			{ID: "t1", From: "start", To: "a", Event: "go"},
			{ID: "t2", From: "start", To: "b", Event: "go"},
		},
	}

	res := Validate(m)
	var issues []Issue
	for _, is := range res.Issues {
		if is.Kind == NonDeterministic {
			issues = append(issues, is)
		}
	}
	if len(issues) != 1 {
		t.Fatalf("got %d NonDeterministic issues, want exactly 1: %+v", len(issues), issues)
	}
	is := issues[0]
	if is.StateID != "start" || is.Event != "go" {
		t.Errorf("issue names (%q, %q), want (start, go)", is.StateID, is.Event)
	}
	if !reflect.DeepEqual(is.TransitionIDs, []string{"t1", "t2"}) {
		t.Errorf("TransitionIDs = %v, want [t1 t2]", is.TransitionIDs)
	}
	// Warnings never flip Valid.
	if !res.Valid {
		t.Error("Valid = false, want true: non-determinism is a warning")
	}

	// Guarding only one competitor does not clear the flag.
	m.Transitions[0].Guard = "x > 0"
	res = Validate(m)
	if res.Determinism.Deterministic {
		t.Error("one guard of two should still be non-deterministic")
	}

	// Guarding all competitors clears it.
	m.Transitions[1].Guard = "x <= 0"
	res = Validate(m)
	if !res.Determinism.Deterministic {
		t.Errorf("all-guarded group still flagged: %+v", res.Determinism.Conflicts)
	}
}

func TestNoPathToFinal(t *testing.T) {
	m := loginMachine()
	// A reachable pocket that can never complete: sink loops on itself
	// with a guard (so it is not a dead end or self-loop warning target).
	m.States["sink"] = &playbook.State{ID: "sink"}
	m.Transitions = append(m.Transitions,
		&playbook.Transition{ID: "fall", From: "error", To: "sink", Event: "fall"},
		&playbook.Transition{ID: "spin", From: "sink", To: "sink", Event: "spin", Guard: "still_broken"},
	)

	res := Validate(m)
	var found bool
	for _, is := range res.Issues {
		if is.Kind == NoPathToFinal && is.StateID == "sink" {
			found = true
			if is.Severity != playbook.SeverityWarning {
				t.Errorf("NoPathToFinal severity = %v, want warning", is.Severity)
			}
		}
	}
	if !found {
		t.Errorf("no NoPathToFinal issue for sink; issues: %+v", res.Issues)
	}
}

func TestNoPathToFinalSkippedWithoutFinals(t *testing.T) {
	m := loginMachine()
	m.States["logged_in"].Final = false

	res := Validate(m)
	for _, is := range res.Issues {
		if is.Kind == NoPathToFinal {
			t.Errorf("NoPathToFinal reported for machine with no final states: %+v", is)
		}
	}
	if res.Reachability.CanReachFinal {
		t.Error("CanReachFinal = true for machine with no final states")
	}
}

func TestUnguardedSelfLoop(t *testing.T) {
	m := loginMachine()
	m.Transitions = append(m.Transitions, &playbook.Transition{
		ID: "poll", From: "authenticating", To: "authenticating", Event: "tick",
	})

	res := Validate(m)
	var found bool
	for _, is := range res.Issues {
		if is.Kind == UnguardedSelfLoop && is.TransitionIDs[0] == "poll" {
			found = true
		}
	}
	if !found {
		t.Errorf("no UnguardedSelfLoop issue for poll; issues: %+v", res.Issues)
	}

	// A guard silences the warning.
	m.Transitions[len(m.Transitions)-1].Guard = "attempts < 3"
	res = Validate(m)
	for _, is := range res.Issues {
		if is.Kind == UnguardedSelfLoop {
			t.Errorf("guarded self-loop still flagged: %+v", is)
		}
	}
}

func TestReachabilityPartition(t *testing.T) {
	machines := []*playbook.StateMachine{loginMachine()}

	orphaned := loginMachine()
	orphaned.States["ghost"] = &playbook.State{ID: "ghost"}
	machines = append(machines, orphaned)

	for _, m := range machines {
		res := Validate(m)
		union := make(map[string]bool)
		for _, id := range res.Reachability.Reachable {
			union[id] = true
		}
		for _, id := range res.Reachability.Orphaned {
			if union[id] {
				t.Errorf("machine %q: state %q in both reachable and orphaned", m.ID, id)
			}
			union[id] = true
		}
		if len(union) != len(m.States) {
			t.Errorf("machine %q: partition covers %d states, machine has %d", m.ID, len(union), len(m.States))
		}
	}
}

func TestValidateIsPure(t *testing.T) {
	m := loginMachine()
	first := Validate(m)
	second := Validate(m)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first == second {
		t.Error("Validate returned the same Result pointer twice")
	}
}
