package playbook

// ForbiddenViolation records one forbidden pair observed in a trace.
type ForbiddenViolation struct {
	Path  ForbiddenPath `json:"path"`
	Index int           `json:"index"` // position of From in the trace
}

// CheckTrace checks an observed run (a sequence of visited state ids)
// against the playbook's forbidden paths. Forbidden paths constrain
// observed behavior only; they are never checked against the static
// transition graph.
func (p *Playbook) CheckTrace(trace []string) []ForbiddenViolation {
	if len(p.Forbidden) == 0 || len(trace) < 2 {
		return nil
	}
	var violations []ForbiddenViolation
	for i := 0; i < len(trace)-1; i++ {
		for _, fp := range p.Forbidden {
			if trace[i] == fp.From && trace[i+1] == fp.To {
				violations = append(violations, ForbiddenViolation{Path: fp, Index: i})
			}
		}
	}
	return violations
}
