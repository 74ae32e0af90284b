package mutation

// CalculateScore reduces mutant outcomes into an aggregate score. The
// reduction is commutative and associative: ordering of results is
// irrelevant, so partial, out-of-order, or multi-worker streams aggregate
// identically. An empty slice yields a zero score, never a fault.
func CalculateScore(results []Result) *Score {
	t := NewTally()
	for _, r := range results {
		t.Add(r)
	}
	return t.Score()
}

// Tally accumulates mutant outcomes incrementally. It exists so result
// streams can be folded as they arrive instead of buffering everything.
// Tally is not goroutine-safe; merge per-worker tallies with Merge.
type Tally struct {
	perClass map[Class]*ClassScore
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{perClass: make(map[Class]*ClassScore)}
}

// Add folds one outcome into the tally.
func (t *Tally) Add(r Result) {
	cs := t.perClass[r.Class]
	if cs == nil {
		cs = &ClassScore{}
		t.perClass[r.Class] = cs
	}
	switch r.Status {
	case StatusKilled:
		cs.Killed++
		cs.Total++
	case StatusSurvived:
		cs.Survived++
		cs.Total++
	case StatusNotExecuted:
		cs.NotExecuted++
	}
}

// Merge folds another tally into this one. Merging per-worker tallies in
// any order yields the same totals.
func (t *Tally) Merge(other *Tally) {
	for class, ocs := range other.perClass {
		cs := t.perClass[class]
		if cs == nil {
			cs = &ClassScore{}
			t.perClass[class] = cs
		}
		cs.Killed += ocs.Killed
		cs.Survived += ocs.Survived
		cs.NotExecuted += ocs.NotExecuted
		cs.Total += ocs.Total
	}
}

// Score finalizes the tally into a Score with per-class ratios.
func (t *Tally) Score() *Score {
	s := &Score{PerClass: make(map[Class]*ClassScore, len(t.perClass))}
	for class, cs := range t.perClass {
		final := *cs
		if final.Total > 0 {
			final.Score = float64(final.Killed) / float64(final.Total)
		}
		s.PerClass[class] = &final
		s.Total += final.Total
		s.Killed += final.Killed
		s.Survived += final.Survived
		s.NotExecuted += final.NotExecuted
	}
	if s.Total > 0 {
		s.Overall = float64(s.Killed) / float64(s.Total)
	}
	return s
}
