// Package validate checks a finished pathway against structural and logical
// invariants. Problems are reported as findings, never as errors: malformed
// input produces findings describing what is malformed.
//
// Four passes run in order: structural (field presence), connectivity (edge
// endpoints and connection rules), completeness (start/end/isolation), and
// logical flow (acyclicity and forward flow). The structural pass gates the
// rest; when it reports anything, the deeper passes are skipped because
// their checks assume well-formed nodes and edges.
package validate

import (
	"fmt"
	"sort"

	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/transform/edges"
)

// Validator validates pathways. Stateless and safe for concurrent use.
type Validator struct {
	rules *edges.Manager
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{rules: edges.NewManager()}
}

// Validate runs all passes and returns the complete list of findings.
// An empty list means the pathway is valid. Output order is deterministic
// for a given pathway.
func (v *Validator) Validate(p *pathway.Pathway) []pathway.ValidationError {
	if p == nil {
		return []pathway.ValidationError{{
			Category: pathway.CategoryMissingFields,
			Message:  "no pathway to validate",
		}}
	}

	findings := v.structural(p)
	if len(findings) > 0 {
		return findings
	}

	findings = append(findings, v.connectivity(p)...)
	findings = append(findings, v.completeness(p)...)
	findings = append(findings, v.logicalFlow(p)...)
	return findings
}

// =============================================================================
// Pass 1: Structural
// =============================================================================

func (v *Validator) structural(p *pathway.Pathway) []pathway.ValidationError {
	var findings []pathway.ValidationError

	for _, node := range p.NodeList() {
		if node.ID == "" {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingFields,
				Message:  "node missing id",
			})
		}
		if !node.Type.Valid() {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingFields,
				Message:  fmt.Sprintf("node has unknown type %q", node.Type),
				NodeID:   node.ID,
			})
		}
		if node.Width <= 0 || node.Height <= 0 {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingFields,
				Message:  "node missing geometry",
				NodeID:   node.ID,
			})
		}

		if node.Data.Name == "" {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingDataFields,
				Message:  "node data missing name",
				NodeID:   node.ID,
			})
		}
		if node.Data.Prompt == "" {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingDataFields,
				Message:  "node data missing prompt",
				NodeID:   node.ID,
			})
		}
		if node.Data.ModelOptions.ModelType == "" {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingDataFields,
				Message:  "node data missing model options",
				NodeID:   node.ID,
			})
		}
	}

	for _, edge := range p.EdgeList() {
		if edge.ID == "" || edge.Source == "" || edge.Target == "" || edge.Type == "" {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryMissingFields,
				Message:  "edge missing required fields",
				EdgeID:   edge.ID,
			})
		}
	}

	return findings
}

// =============================================================================
// Pass 2: Connectivity
// =============================================================================

func (v *Validator) connectivity(p *pathway.Pathway) []pathway.ValidationError {
	var findings []pathway.ValidationError

	for _, edge := range p.EdgeList() {
		source, sourceOK := p.Node(edge.Source)
		if !sourceOK {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryInvalidConnection,
				Message:  fmt.Sprintf("edge references non-existent source node: %s", edge.Source),
				EdgeID:   edge.ID,
			})
		}
		target, targetOK := p.Node(edge.Target)
		if !targetOK {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryInvalidConnection,
				Message:  fmt.Sprintf("edge references non-existent target node: %s", edge.Target),
				EdgeID:   edge.ID,
			})
		}

		if sourceOK && targetOK && !v.rules.ValidConnection(source, target) {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryInvalidConnection,
				Message:  fmt.Sprintf("invalid connection between nodes: %s -> %s", edge.Source, edge.Target),
				EdgeID:   edge.ID,
			})
		}
	}

	return findings
}

// =============================================================================
// Pass 3: Completeness
// =============================================================================

func (v *Validator) completeness(p *pathway.Pathway) []pathway.ValidationError {
	var findings []pathway.ValidationError

	starts := 0
	terminals := 0
	for _, node := range p.NodeList() {
		if node.Data.IsStart {
			starts++
		}
		if node.Type.IsTerminal() {
			terminals++
		}
	}
	switch {
	case starts == 0:
		findings = append(findings, pathway.ValidationError{
			Category: pathway.CategoryMissingStart,
			Message:  "pathway missing start node",
		})
	case starts > 1:
		findings = append(findings, pathway.ValidationError{
			Category: pathway.CategoryMultipleStarts,
			Message:  "pathway has multiple start nodes",
		})
	}
	if terminals == 0 {
		findings = append(findings, pathway.ValidationError{
			Category: pathway.CategoryMissingEnd,
			Message:  "pathway missing end nodes",
		})
	}

	connected := make(map[string]bool)
	for _, edge := range p.EdgeList() {
		connected[edge.Source] = true
		connected[edge.Target] = true
	}
	for _, node := range p.NodeList() {
		if !connected[node.ID] {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryIsolatedNode,
				Message:  "node is not connected to the pathway",
				NodeID:   node.ID,
			})
		}
	}

	return findings
}

// =============================================================================
// Pass 4: Logical Flow
// =============================================================================

func (v *Validator) logicalFlow(p *pathway.Pathway) []pathway.ValidationError {
	var findings []pathway.ValidationError

	if hasCycle(p) {
		findings = append(findings, pathway.ValidationError{
			Category: pathway.CategoryCircularReference,
			Message:  "pathway contains circular references",
		})
	}

	for _, edge := range p.EdgeList() {
		source, ok := p.Node(edge.Source)
		if !ok {
			continue
		}
		target, ok := p.Node(edge.Target)
		if !ok {
			continue
		}

		if target.Position.Y < source.Position.Y && !backwardFlowExempt(source, target) {
			findings = append(findings, pathway.ValidationError{
				Category: pathway.CategoryInvalidFlow,
				Message:  "edge creates backward flow in pathway",
				EdgeID:   edge.ID,
			})
		}
	}

	return findings
}

// backwardFlowExempt reports whether an edge may flow upward on the canvas.
// Global handlers sit near the top but escalate to transfer nodes wherever
// those were placed.
func backwardFlowExempt(source, target *pathway.Node) bool {
	return source.Data.IsGlobal && target.Type == pathway.NodeTransferCall
}

// hasCycle runs a depth-first search with a recursion stack over the edge
// set. Nodes are visited in sorted order so the result and the traversal
// are deterministic.
func hasCycle(p *pathway.Pathway) bool {
	adj := make(map[string][]string)
	for _, edge := range p.EdgeList() {
		adj[edge.Source] = append(adj[edge.Source], edge.Target)
	}
	for id := range adj {
		sort.Strings(adj[id])
	}

	sources := make([]string, 0, len(adj))
	for id := range adj {
		sources = append(sources, id)
	}
	sort.Strings(sources)

	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(id string) bool
	visit = func(id string) bool {
		if onStack[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		onStack[id] = true
		for _, next := range adj[id] {
			if visit(next) {
				return true
			}
		}
		onStack[id] = false
		return false
	}

	for _, id := range sources {
		if !visited[id] && visit(id) {
			return true
		}
	}
	return false
}
