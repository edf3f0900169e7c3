package pathway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	// ErrUnknownNode is returned by copy-on-write operations when the
	// referenced node does not exist in the pathway.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Pathway.DeleteEdge] when the edge
	// does not exist in the pathway.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateEdge is returned by [Pathway.AddEdge] when an edge with
	// the same ID already exists.
	ErrDuplicateEdge = errors.New("duplicate edge ID")

	// ErrSelfLoop is returned by [Pathway.AddEdge] when source and target
	// are the same node.
	ErrSelfLoop = errors.New("edge source and target must differ")

	// ErrTypeChange is returned by [Pathway.UpdateNode] when the update
	// attempts to change a node's type. Node types are fixed at creation.
	ErrTypeChange = errors.New("node type is immutable")
)

// Pathway is the complete conversation-flow graph: node-id → node and
// edge-id → edge. It is produced atomically by one transformation run and
// must be treated as an immutable value afterwards; edits go through the
// copy-on-write operations, which return a new pathway.
type Pathway struct {
	Nodes map[string]*Node `json:"nodes" bson:"nodes"`
	Edges map[string]*Edge `json:"edges" bson:"edges"`
}

// New creates an empty pathway with initialized maps.
func New() *Pathway {
	return &Pathway{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// Node returns the node with the given ID and true, or nil and false.
func (p *Pathway) Node(id string) (*Node, bool) {
	n, ok := p.Nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID and true, or nil and false.
func (p *Pathway) Edge(id string) (*Edge, bool) {
	e, ok := p.Edges[id]
	return e, ok
}

// NodeCount returns the number of nodes.
func (p *Pathway) NodeCount() int { return len(p.Nodes) }

// EdgeCount returns the number of edges.
func (p *Pathway) EdgeCount() int { return len(p.Edges) }

// NodeList returns all nodes sorted by ID for deterministic iteration.
func (p *Pathway) NodeList() []*Node {
	nodes := make([]*Node, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return strings.Compare(a.ID, b.ID) })
	return nodes
}

// EdgeList returns all edges sorted by ID for deterministic iteration.
func (p *Pathway) EdgeList() []*Edge {
	edges := make([]*Edge, 0, len(p.Edges))
	for _, e := range p.Edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b *Edge) int { return strings.Compare(a.ID, b.ID) })
	return edges
}

// StartNode returns the node flagged IsStart, or nil if none exists.
func (p *Pathway) StartNode() *Node {
	for _, n := range p.NodeList() {
		if n.Data.IsStart {
			return n
		}
	}
	return nil
}

// Outgoing returns the edges whose source is the given node, sorted by ID.
func (p *Pathway) Outgoing(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range p.EdgeList() {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of the pathway.
func (p *Pathway) Clone() *Pathway {
	c := New()
	for id, n := range p.Nodes {
		c.Nodes[id] = n.Clone()
	}
	for id, e := range p.Edges {
		c.Edges[id] = e.Clone()
	}
	return c
}

// =============================================================================
// Copy-on-Write Operations
// =============================================================================
//
// Each operation copies the pathway, applies the edit to the copy, and
// returns it. The receiver is never modified, so concurrent readers of a
// published pathway never observe a partially applied edit. Callers are
// expected to revalidate the result before publishing it.

// UpdateNode returns a new pathway with the node's data replaced.
// Returns ErrUnknownNode if the node does not exist. The node's type cannot
// be changed through an update; pass the existing type's data unchanged.
func (p *Pathway) UpdateNode(id string, data NodeData) (*Pathway, error) {
	n, ok := p.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("update node %s: %w", id, ErrUnknownNode)
	}
	if data.IsStart != n.Data.IsStart || data.IsGlobal != n.Data.IsGlobal {
		return nil, fmt.Errorf("update node %s: %w", id, ErrTypeChange)
	}
	c := p.Clone()
	c.Nodes[id].Data = data
	return c, nil
}

// MoveNode returns a new pathway with the node repositioned.
// Returns ErrUnknownNode if the node does not exist.
func (p *Pathway) MoveNode(id string, pos Position) (*Pathway, error) {
	if _, ok := p.Nodes[id]; !ok {
		return nil, fmt.Errorf("move node %s: %w", id, ErrUnknownNode)
	}
	c := p.Clone()
	c.Nodes[id].Position = pos
	return c, nil
}

// DeleteNode returns a new pathway without the node and without any edges
// referencing it. Returns ErrUnknownNode if the node does not exist.
func (p *Pathway) DeleteNode(id string) (*Pathway, error) {
	if _, ok := p.Nodes[id]; !ok {
		return nil, fmt.Errorf("delete node %s: %w", id, ErrUnknownNode)
	}
	c := p.Clone()
	delete(c.Nodes, id)
	for eid, e := range c.Edges {
		if e.Source == id || e.Target == id {
			delete(c.Edges, eid)
		}
	}
	return c, nil
}

// AddEdge returns a new pathway containing the edge.
// Returns ErrUnknownNode if either endpoint is missing, ErrSelfLoop for a
// self-loop, or ErrDuplicateEdge if the edge ID is already taken.
func (p *Pathway) AddEdge(e *Edge) (*Pathway, error) {
	if e.Source == e.Target {
		return nil, fmt.Errorf("add edge %s: %w", e.ID, ErrSelfLoop)
	}
	if _, ok := p.Nodes[e.Source]; !ok {
		return nil, fmt.Errorf("add edge %s: source %s: %w", e.ID, e.Source, ErrUnknownNode)
	}
	if _, ok := p.Nodes[e.Target]; !ok {
		return nil, fmt.Errorf("add edge %s: target %s: %w", e.ID, e.Target, ErrUnknownNode)
	}
	if _, exists := p.Edges[e.ID]; exists {
		return nil, fmt.Errorf("add edge %s: %w", e.ID, ErrDuplicateEdge)
	}
	c := p.Clone()
	c.Edges[e.ID] = e.Clone()
	return c, nil
}

// DeleteEdge returns a new pathway without the edge.
// Returns ErrUnknownEdge if the edge does not exist.
func (p *Pathway) DeleteEdge(id string) (*Pathway, error) {
	if _, ok := p.Edges[id]; !ok {
		return nil, fmt.Errorf("delete edge %s: %w", id, ErrUnknownEdge)
	}
	c := p.Clone()
	delete(c.Edges, id)
	return c, nil
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal converts the pathway to indented JSON in the hosting document
// format: {nodes: {id: node}, edges: {id: edge}}.
func Marshal(p *Pathway) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the pathway as indented JSON to w.
func Write(p *Pathway, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode pathway: %w", err)
	}
	return nil
}

// Read decodes a JSON pathway document from r.
func Read(r io.Reader) (*Pathway, error) {
	p := New()
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("decode pathway: %w", err)
	}
	if p.Nodes == nil {
		p.Nodes = make(map[string]*Node)
	}
	if p.Edges == nil {
		p.Edges = make(map[string]*Edge)
	}
	return p, nil
}

// Unmarshal decodes a JSON pathway document from bytes.
func Unmarshal(data []byte) (*Pathway, error) {
	return Read(bytes.NewReader(data))
}
