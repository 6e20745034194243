package scene

// NodeView is a read-only copy of a node's state.
type NodeView struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Location Point   `json:"location"`
	Size     Size    `json:"size"`
	Arcs     []ArcID `json:"arcs"`
}

// ArcView is a read-only copy of an arc's state.
type ArcView struct {
	ID     ArcID `json:"id"`
	Count  int   `json:"count"`
	Source Point `json:"source_point"`
	Target Point `json:"target_point"`
}

// Snapshot is a read-only copy of the whole scene.
type Snapshot struct {
	Nodes []NodeView `json:"nodes"`
	Arcs  []ArcView  `json:"arcs"`
}

// Snapshot copies the current scene state.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]NodeView, 0, len(g.nodes)),
		Arcs:  make([]ArcView, 0, len(g.arcs)),
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, NodeView{
			ID:       n.ID(),
			Label:    n.Label(),
			Location: n.Location(),
			Size:     n.Size(),
			Arcs:     n.ConnectedArcs(),
		})
	}
	for _, a := range g.Arcs() {
		s.Arcs = append(s.Arcs, ArcView{
			ID:     a.ID(),
			Count:  a.Count(),
			Source: a.SourcePoint(),
			Target: a.TargetPoint(),
		})
	}
	return s
}
