package topology

import "github.com/imishinist/n8n-timings/internal/models"

// Topology is the read-only node graph of a workflow definition.
type Topology struct {
	order  []string
	nodes  map[string]*models.TopologyNode
	byName map[string]string
}

// Extract builds a Topology from a workflow definition. Nodes without an id
// are keyed by their name; the display name falls back to the id. Edges whose
// endpoints are not defined nodes are dropped.
func Extract(def models.WorkflowDefinition) *Topology {
	t := &Topology{
		nodes:  make(map[string]*models.TopologyNode),
		byName: make(map[string]string),
	}

	for _, n := range def.Nodes {
		id := n.ID
		if id == "" {
			id = n.Name
		}
		if _, exists := t.nodes[id]; exists {
			continue
		}

		display := n.Name
		if display == "" {
			display = id
		}
		t.nodes[id] = &models.TopologyNode{
			ID:          id,
			DisplayName: display,
			NodeType:    n.Type,
			Position:    n.Position,
		}
		t.order = append(t.order, id)
		if _, exists := t.byName[display]; !exists {
			t.byName[display] = id
		}
	}

	for _, c := range def.Connections {
		source, ok := t.resolve(c.Source)
		if !ok {
			continue
		}
		node := t.nodes[source]
		for _, ref := range c.Targets {
			target, ok := t.resolve(ref)
			if !ok || contains(node.Outgoing, target) {
				continue
			}
			node.Outgoing = append(node.Outgoing, target)
		}
	}

	return t
}

// resolve maps a connection endpoint to a node id, matching ids before names.
func (t *Topology) resolve(ref string) (string, bool) {
	if _, ok := t.nodes[ref]; ok {
		return ref, true
	}
	id, ok := t.byName[ref]
	return id, ok
}

// Node returns the node with the given id.
func (t *Topology) Node(id string) (*models.TopologyNode, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[id]
	return n, ok
}

// Lookup finds the node a run-data name refers to. Run data is keyed by node
// name in n8n, but an id match wins when both exist.
func (t *Topology) Lookup(name string) (*models.TopologyNode, bool) {
	if t == nil {
		return nil, false
	}
	id, ok := t.resolve(name)
	if !ok {
		return nil, false
	}
	return t.nodes[id], true
}

// Nodes returns every node in definition order.
func (t *Topology) Nodes() []*models.TopologyNode {
	if t == nil {
		return nil
	}
	out := make([]*models.TopologyNode, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

func (t *Topology) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Edges returns the number of directed edges.
func (t *Topology) Edges() int {
	n := 0
	for _, node := range t.Nodes() {
		n += len(node.Outgoing)
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
