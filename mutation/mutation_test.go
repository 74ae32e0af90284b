package mutation

import (
	"reflect"
	"testing"

	"github.com/playproof/playproof/playbook"
)

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
			{ID: "auth_ok", From: "authenticating", To: "logged_in", Event: "auth_ok", Guard: "token_valid"},
			{ID: "auth_fail", From: "authenticating", To: "error", Event: "auth_fail"},
			{ID: "retry", From: "error", To: "logged_out", Event: "retry"},
		},
	}
}

func TestDeterministicIDs(t *testing.T) {
	m := loginMachine()
	first := GenerateAll(m)
	second := GenerateAll(m)

	if len(first) != len(second) {
		t.Fatalf("catalog sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("mutant %d id changed across runs: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}

	// Ids are also distinct within a run.
	seen := make(map[string]bool)
	for _, mu := range first {
		if seen[mu.ID] {
			t.Errorf("duplicate mutant id %q", mu.ID)
		}
		seen[mu.ID] = true
	}
}

func TestTargetSwapSingleFault(t *testing.T) {
	m := loginMachine()
	mutants := Generate(m, TargetSwap)
	if len(mutants) != len(m.Transitions) {
		t.Fatalf("got %d target-swap mutants, want %d", len(mutants), len(m.Transitions))
	}

	for _, mu := range mutants {
		diffs := 0
		for i, orig := range m.Transitions {
			mt := mu.Machine.Transitions[i]
			if mt.To != orig.To {
				diffs++
				if mt.ID != mu.TargetID {
					t.Errorf("mutant %q edited transition %q, target was %q", mu.ID, mt.ID, mu.TargetID)
				}
			}
			if mt.From != orig.From || mt.Event != orig.Event || mt.Guard != orig.Guard {
				t.Errorf("mutant %q changed more than the target state of %q", mu.ID, mt.ID)
			}
		}
		if diffs != 1 {
			t.Errorf("mutant %q differs in %d targets, want exactly 1", mu.ID, diffs)
		}
	}
}

func TestEventSwapChangesOnlyEvent(t *testing.T) {
	m := loginMachine()
	mutants := Generate(m, EventSwap)
	if len(mutants) != len(m.Transitions) {
		t.Fatalf("got %d event-swap mutants, want %d", len(mutants), len(m.Transitions))
	}
	for _, mu := range mutants {
		diffs := 0
		for i, orig := range m.Transitions {
			mt := mu.Machine.Transitions[i]
			if mt.Event != orig.Event {
				diffs++
			}
			if mt.To != orig.To || mt.From != orig.From {
				t.Errorf("mutant %q moved transition %q endpoints", mu.ID, mt.ID)
			}
		}
		if diffs != 1 {
			t.Errorf("mutant %q differs in %d events, want exactly 1", mu.ID, diffs)
		}
	}
}

func TestGuardMutantsOnlyForGuarded(t *testing.T) {
	m := loginMachine()

	negations := Generate(m, GuardNegation)
	if len(negations) != 1 {
		t.Fatalf("got %d guard-negation mutants, want 1 (one guarded transition)", len(negations))
	}
	nt, _ := negations[0].Machine.FindTransition("auth_ok")
	if nt.Guard != "!(token_valid)" {
		t.Errorf("negated guard = %q, want !(token_valid)", nt.Guard)
	}

	removals := Generate(m, GuardRemoval)
	if len(removals) != 1 {
		t.Fatalf("got %d guard-removal mutants, want 1", len(removals))
	}
	rt, _ := removals[0].Machine.FindTransition("auth_ok")
	if rt.Guarded() {
		t.Errorf("removed guard still present: %q", rt.Guard)
	}
}

func TestStateRemovalSkipsInitial(t *testing.T) {
	m := loginMachine()
	mutants := Generate(m, StateRemoval)
	if len(mutants) != 3 {
		t.Fatalf("got %d state-removal mutants, want 3 (initial is exempt)", len(mutants))
	}
	for _, mu := range mutants {
		if mu.TargetID == m.Initial {
			t.Errorf("mutant removed the initial state %q", m.Initial)
		}
		if _, ok := mu.Machine.States[mu.TargetID]; ok {
			t.Errorf("mutant %q still contains removed state %q", mu.ID, mu.TargetID)
		}
		for _, tr := range mu.Machine.Transitions {
			if tr.From == mu.TargetID || tr.To == mu.TargetID {
				t.Errorf("mutant %q kept dangling transition %q", mu.ID, tr.ID)
			}
		}
	}
}

func TestForbiddenPathLeavesMachineIntact(t *testing.T) {
	m := loginMachine()
	mutants := Generate(m, ForbiddenPath)
	if len(mutants) != len(m.Transitions) {
		t.Fatalf("got %d forbidden-path mutants, want %d", len(mutants), len(m.Transitions))
	}
	for _, mu := range mutants {
		if mu.Injected == nil {
			t.Fatalf("mutant %q has no injected forbidden path", mu.ID)
		}
		if !reflect.DeepEqual(mu.Machine.Transitions[0].To, m.Transitions[0].To) {
			t.Errorf("mutant %q altered the machine itself", mu.ID)
		}
		orig, _ := m.FindTransition(mu.TargetID)
		if mu.Injected.From != orig.From || mu.Injected.To != orig.To {
			t.Errorf("injected path (%s->%s) does not match transition %q", mu.Injected.From, mu.Injected.To, mu.TargetID)
		}
	}
}

func TestGenerateAllCoversCatalog(t *testing.T) {
	m := loginMachine()
	all := GenerateAll(m)

	counts := make(map[Class]int)
	for _, mu := range all {
		counts[mu.Class]++
	}
	want := map[Class]int{
		TargetSwap:    4,
		EventSwap:     4,
		GuardNegation: 1,
		GuardRemoval:  1,
		StateRemoval:  3,
		ForbiddenPath: 4,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("per-class counts = %v, want %v", counts, want)
	}
}

func TestGenerationDoesNotMutateSource(t *testing.T) {
	m := loginMachine()
	before := m.Clone()
	GenerateAll(m)

	if !reflect.DeepEqual(m.Transitions, before.Transitions) {
		t.Error("generation modified source transitions")
	}
	if !reflect.DeepEqual(m.States, before.States) {
		t.Error("generation modified source states")
	}
}

func TestScoreBounds(t *testing.T) {
	cases := []struct {
		name    string
		results []Result
		total   int
		killed  int
		overall float64
	}{
		{"empty", nil, 0, 0, 0.0},
		{"all killed", []Result{
			{MutantID: "a", Class: TargetSwap, Status: StatusKilled},
			{MutantID: "b", Class: EventSwap, Status: StatusKilled},
		}, 2, 2, 1.0},
		{"half", []Result{
			{MutantID: "a", Class: TargetSwap, Status: StatusKilled},
			{MutantID: "b", Class: TargetSwap, Status: StatusSurvived},
		}, 2, 1, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := CalculateScore(tc.results)
			if s.Total != tc.total || s.Killed != tc.killed {
				t.Errorf("Score = {total %d, killed %d}, want {%d, %d}", s.Total, s.Killed, tc.total, tc.killed)
			}
			if s.Overall != tc.overall {
				t.Errorf("Overall = %v, want %v", s.Overall, tc.overall)
			}
			if s.Overall < 0 || s.Overall > 1 {
				t.Errorf("Overall = %v out of [0, 1]", s.Overall)
			}
			if s.Killed+s.Survived != s.Total {
				t.Errorf("killed %d + survived %d != total %d", s.Killed, s.Survived, s.Total)
			}
		})
	}
}

func TestNotExecutedExcludedFromDenominator(t *testing.T) {
	results := []Result{
		{MutantID: "a", Class: TargetSwap, Status: StatusKilled},
		{MutantID: "b", Class: TargetSwap, Status: StatusNotExecuted},
		{MutantID: "c", Class: TargetSwap, Status: StatusNotExecuted},
	}
	s := CalculateScore(results)
	if s.Total != 1 {
		t.Errorf("Total = %d, want 1 (not-executed excluded)", s.Total)
	}
	if s.NotExecuted != 2 {
		t.Errorf("NotExecuted = %d, want 2", s.NotExecuted)
	}
	if s.Overall != 1.0 {
		t.Errorf("Overall = %v, want 1.0", s.Overall)
	}
	cs := s.PerClass[TargetSwap]
	if cs == nil || cs.NotExecuted != 2 || cs.Total != 1 {
		t.Errorf("per-class = %+v, want total 1 / not-executed 2", cs)
	}
}

func TestTallyMergeIsOrderIndependent(t *testing.T) {
	results := []Result{
		{MutantID: "a", Class: TargetSwap, Status: StatusKilled},
		{MutantID: "b", Class: EventSwap, Status: StatusSurvived},
		{MutantID: "c", Class: GuardRemoval, Status: StatusKilled},
		{MutantID: "d", Class: EventSwap, Status: StatusNotExecuted},
	}

	// Worker 1 sees the first half, worker 2 the rest, in reverse.
	t1 := NewTally()
	t1.Add(results[0])
	t1.Add(results[1])
	t2 := NewTally()
	t2.Add(results[3])
	t2.Add(results[2])

	merged := NewTally()
	merged.Merge(t2)
	merged.Merge(t1)

	if got, want := merged.Score(), CalculateScore(results); !reflect.DeepEqual(got, want) {
		t.Errorf("merged score %+v != batch score %+v", got, want)
	}
}
