// Package edges derives the transitions of a pathway. Given two nodes it
// either produces a valid edge with descriptive metadata or reports that no
// connection is allowed; it never fails. Metadata comes from an ordered
// (predicate, template) table mirroring the node generator's keyword style.
package edges

import (
	"fmt"
	"strings"

	"github.com/pathforge/pathforge/pkg/pathway"
)

// Manager creates and validates edges between conversation nodes.
type Manager struct{}

// NewManager creates an edge manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect builds the edge source→target, or reports false when the
// connection rules forbid it. The edge id is deterministic so the same node
// pair always yields the same edge.
func (m *Manager) Connect(source, target *pathway.Node) (*pathway.Edge, bool) {
	if !m.ValidConnection(source, target) {
		return nil, false
	}
	return &pathway.Edge{
		ID:     EdgeID(source.ID, target.ID),
		Source: source.ID,
		Target: target.ID,
		Type:   pathway.EdgeTypeFlow,
		Data:   Metadata(source, target),
	}, true
}

// ForNodes builds every valid edge over the node list. Only pairs where the
// target sits strictly below the source are considered, enforcing forward
// conversational flow on the canvas.
func (m *Manager) ForNodes(nodes []*pathway.Node) []*pathway.Edge {
	var out []*pathway.Edge
	for _, source := range nodes {
		for _, target := range nodes {
			if target.Position.Y <= source.Position.Y {
				continue
			}
			if edge, ok := m.Connect(source, target); ok {
				out = append(out, edge)
			}
		}
	}
	return out
}

// ValidConnection reports whether an edge source→target is allowed:
//   - the start node is never a target
//   - no self-loops
//   - a global handler may only escalate to a transfer node
//   - terminal nodes have no outgoing edges
func (m *Manager) ValidConnection(source, target *pathway.Node) bool {
	if target.Data.IsStart {
		return false
	}
	if source.ID == target.ID {
		return false
	}
	if source.Data.IsGlobal {
		return target.Type == pathway.NodeTransferCall
	}
	if source.Type.IsTerminal() {
		return false
	}
	return true
}

// EdgeID returns the deterministic identifier for an edge between two nodes.
func EdgeID(sourceID, targetID string) string {
	return fmt.Sprintf("edge-%s-%s", sourceID, targetID)
}

// =============================================================================
// Metadata Templates
// =============================================================================

// metadataRule pairs a predicate with its edge template. Rules are checked
// in order and the first match wins.
type metadataRule struct {
	match func(source, target *pathway.Node) bool
	data  pathway.EdgeData
}

func nameContains(node *pathway.Node, keyword string) bool {
	return strings.Contains(strings.ToLower(node.Data.Name), keyword)
}

var metadataRules = []metadataRule{
	{
		// Closing on a positive outcome.
		match: func(s, t *pathway.Node) bool {
			return t.Type == pathway.NodeEndCall && nameContains(t, "success")
		},
		data: pathway.EdgeData{
			Label:       "Successful Completion",
			Description: "Successfully conclude the conversation with positive outcome",
			Condition:   "User has agreed to proceed or shown clear positive intent",
			UserSignals: []string{"Clear agreement", "Positive acknowledgment", "Ready to proceed"},
		},
	},
	{
		// Any other end-call target is a polite decline.
		match: func(s, t *pathway.Node) bool { return t.Type == pathway.NodeEndCall },
		data: pathway.EdgeData{
			Label:       "Polite Conclusion",
			Description: "End conversation respectfully when continuation is not possible",
			Condition:   "User has clearly indicated they do not wish to proceed",
			UserSignals: []string{"Clear rejection", "Not interested", "Request to end call"},
		},
	},
	{
		match: func(s, t *pathway.Node) bool { return t.Type == pathway.NodeTransferCall },
		data: pathway.EdgeData{
			Label:       "Expert Assistance Required",
			Description: "Transfer to human expert for specialized support",
			Condition:   "Issue complexity requires human expertise",
			UserSignals: []string{"Complex requirements", "Specific expertise needed", "Direct request for human"},
		},
	},
	{
		match: func(s, t *pathway.Node) bool { return nameContains(s, "value") && nameContains(t, "objection") },
		data: pathway.EdgeData{
			Label:       "Value Clarification",
			Description: "Address concerns about proposed value",
			Condition:   "User expresses concern or seeks clarification",
			UserSignals: []string{"Questions about value", "Concern about benefits", "Need for clarification"},
		},
	},
	{
		match: func(s, t *pathway.Node) bool { return nameContains(s, "discovery") && nameContains(t, "solution") },
		data: pathway.EdgeData{
			Label:       "Solution Presentation",
			Description: "Present tailored solution based on discovered needs",
			Condition:   "User needs identified and ready for solution",
			UserSignals: []string{"Clear need expressed", "Interest in solutions", "Readiness to learn more"},
		},
	},
	{
		match: func(s, t *pathway.Node) bool { return nameContains(s, "objection") },
		data: pathway.EdgeData{
			Label:       "Objection Resolution",
			Description: "Address and resolve user concerns",
			Condition:   "User concern needs to be addressed",
			UserSignals: []string{"Expressed concern", "Seeking clarification", "Showing hesitation"},
		},
	},
	{
		match: func(s, t *pathway.Node) bool { return nameContains(t, "commitment") },
		data: pathway.EdgeData{
			Label:       "Decision Point",
			Description: "Guide user towards making a decision",
			Condition:   "User shows readiness for commitment",
			UserSignals: []string{"Positive engagement", "Understanding shown", "Interest expressed"},
		},
	},
}

var defaultMetadata = pathway.EdgeData{
	Label:       "Natural Progression",
	Description: "Continue the conversation flow",
	Condition:   "User is engaged and responsive",
	UserSignals: []string{"Active participation", "Continued engagement", "Positive response signals"},
}

// Metadata synthesizes the descriptive payload for an edge from the node
// types and the domain keywords in the node names.
func Metadata(source, target *pathway.Node) pathway.EdgeData {
	for _, r := range metadataRules {
		if r.match(source, target) {
			data := r.data
			data.UserSignals = append([]string(nil), r.data.UserSignals...)
			return data
		}
	}
	data := defaultMetadata
	data.UserSignals = append([]string(nil), defaultMetadata.UserSignals...)
	return data
}
