package playbook

// GraphDescription is the minimal graph export consumed by external
// renderers (DOT, SVG). Nodes are sorted by id; edges preserve the
// machine's transition order.
type GraphDescription struct {
	MachineID string      `json:"machine_id"`
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
}

// GraphNode describes one state for rendering purposes.
type GraphNode struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Initial     bool   `json:"initial"`
	Final       bool   `json:"final"`
}

// GraphEdge describes one transition for rendering purposes.
type GraphEdge struct {
	TransitionID string `json:"transition_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Event        string `json:"event"`
	Guard        string `json:"guard,omitempty"`
}

// Graph exports the machine as a renderer-neutral graph description.
func (p *Playbook) Graph() *GraphDescription {
	m := p.Machine
	desc := &GraphDescription{
		MachineID: m.ID,
		Nodes:     make([]GraphNode, 0, len(m.States)),
		Edges:     make([]GraphEdge, 0, len(m.Transitions)),
	}
	for _, id := range m.StateIDs() {
		s := m.States[id]
		desc.Nodes = append(desc.Nodes, GraphNode{
			ID:          id,
			Description: s.Description,
			Initial:     id == m.Initial,
			Final:       s.Final,
		})
	}
	for _, t := range m.Transitions {
		desc.Edges = append(desc.Edges, GraphEdge{
			TransitionID: t.ID,
			From:         t.From,
			To:           t.To,
			Event:        t.Event,
			Guard:        t.Guard,
		})
	}
	return desc
}
