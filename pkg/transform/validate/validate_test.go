package validate

import (
	"reflect"
	"testing"

	"github.com/pathforge/pathforge/pkg/pathway"
)

func node(id, name string, typ pathway.NodeType, y int) *pathway.Node {
	return &pathway.Node{
		ID:   id,
		Type: typ,
		Data: pathway.NodeData{
			Name:         name,
			Prompt:       "prompt",
			ModelOptions: pathway.DefaultModelOptions(),
			IsStart:      typ == pathway.NodeStart,
			IsGlobal:     typ == pathway.NodeGlobal,
		},
		Position: pathway.Position{X: 400, Y: y},
		Width:    pathway.DefaultNodeWidth,
		Height:   pathway.DefaultNodeHeight,
	}
}

func edge(id, source, target string) *pathway.Edge {
	return &pathway.Edge{
		ID:     id,
		Source: source,
		Target: target,
		Type:   pathway.EdgeTypeFlow,
		Data:   pathway.EdgeData{Label: "Natural Progression", Description: "d", Condition: "c"},
	}
}

// validPathway builds start -> a -> end with forward-flowing positions.
func validPathway() *pathway.Pathway {
	p := pathway.New()
	for _, n := range []*pathway.Node{
		node("start", "Start", pathway.NodeStart, 100),
		node("a", "Needs Discovery", pathway.NodeConversation, 400),
		node("end", "Successful Closure", pathway.NodeEndCall, 700),
	} {
		p.Nodes[n.ID] = n
	}
	for _, e := range []*pathway.Edge{
		edge("e1", "start", "a"),
		edge("e2", "a", "end"),
	} {
		p.Edges[e.ID] = e
	}
	return p
}

func categories(findings []pathway.ValidationError) map[pathway.Category]int {
	out := map[pathway.Category]int{}
	for _, f := range findings {
		out[f.Category]++
	}
	return out
}

func TestValidPathwayHasNoFindings(t *testing.T) {
	findings := NewValidator().Validate(validPathway())
	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestStructuralPassGatesDeeperPasses(t *testing.T) {
	// A pathway with a nameless node and no start would also trip the
	// completeness pass, but only the structural finding may surface.
	p := pathway.New()
	n := node("a", "", pathway.NodeConversation, 100)
	p.Nodes["a"] = n

	findings := NewValidator().Validate(p)
	cats := categories(findings)
	if cats[pathway.CategoryMissingDataFields] == 0 {
		t.Errorf("missing structural finding: %v", findings)
	}
	if cats[pathway.CategoryMissingStart] != 0 || cats[pathway.CategoryIsolatedNode] != 0 {
		t.Errorf("deeper passes ran despite structural findings: %v", findings)
	}
}

func TestStructuralFindings(t *testing.T) {
	p := pathway.New()
	bad := node("a", "Label", pathway.NodeType("Bogus"), 100)
	bad.Width = 0
	bad.Data.Prompt = ""
	bad.Data.ModelOptions.ModelType = ""
	p.Nodes["a"] = bad
	p.Edges["e"] = &pathway.Edge{ID: "e", Source: "a"}

	cats := categories(NewValidator().Validate(p))
	if cats[pathway.CategoryMissingFields] != 3 {
		t.Errorf("missing_fields = %d, want 3 (type, geometry, edge)", cats[pathway.CategoryMissingFields])
	}
	if cats[pathway.CategoryMissingDataFields] != 2 {
		t.Errorf("missing_data_fields = %d, want 2 (prompt, model options)", cats[pathway.CategoryMissingDataFields])
	}
}

func TestConnectivityUnknownEndpoints(t *testing.T) {
	p := validPathway()
	p.Edges["dangling"] = edge("dangling", "ghost", "phantom")

	cats := categories(NewValidator().Validate(p))
	if cats[pathway.CategoryInvalidConnection] != 2 {
		t.Errorf("invalid_connection = %d, want 2", cats[pathway.CategoryInvalidConnection])
	}
}

func TestConnectivityRuleViolations(t *testing.T) {
	p := validPathway()
	p.Nodes["g"] = node("g", "Frustration Handling", pathway.NodeGlobal, 250)
	// Global handlers may only escalate to transfer nodes.
	p.Edges["ge"] = edge("ge", "g", "end")
	// Terminal nodes have no outgoing edges.
	p.Edges["back"] = edge("back", "end", "a")

	cats := categories(NewValidator().Validate(p))
	if cats[pathway.CategoryInvalidConnection] != 2 {
		t.Errorf("invalid_connection = %d, want 2", cats[pathway.CategoryInvalidConnection])
	}
}

func TestCompletenessFindings(t *testing.T) {
	t.Run("missing start", func(t *testing.T) {
		p := validPathway()
		p.Nodes["start"].Data.IsStart = false
		cats := categories(NewValidator().Validate(p))
		if cats[pathway.CategoryMissingStart] != 1 {
			t.Errorf("missing_start = %d", cats[pathway.CategoryMissingStart])
		}
	})

	t.Run("multiple starts", func(t *testing.T) {
		p := validPathway()
		p.Nodes["a"].Data.IsStart = true
		cats := categories(NewValidator().Validate(p))
		if cats[pathway.CategoryMultipleStarts] != 1 {
			t.Errorf("multiple_starts = %d", cats[pathway.CategoryMultipleStarts])
		}
	})

	t.Run("missing end", func(t *testing.T) {
		p := validPathway()
		delete(p.Nodes, "end")
		delete(p.Edges, "e2")
		cats := categories(NewValidator().Validate(p))
		if cats[pathway.CategoryMissingEnd] != 1 {
			t.Errorf("missing_end = %d", cats[pathway.CategoryMissingEnd])
		}
	})

	t.Run("isolated node", func(t *testing.T) {
		p := validPathway()
		p.Nodes["lonely"] = node("lonely", "Orphan Step", pathway.NodeConversation, 1000)
		findings := NewValidator().Validate(p)
		cats := categories(findings)
		if cats[pathway.CategoryIsolatedNode] != 1 {
			t.Errorf("isolated_node = %d", cats[pathway.CategoryIsolatedNode])
		}
		for _, f := range findings {
			if f.Category == pathway.CategoryIsolatedNode && f.NodeID != "lonely" {
				t.Errorf("isolated finding names %q", f.NodeID)
			}
		}
	})
}

func TestCycleReportedOnce(t *testing.T) {
	// A -> B -> A yields exactly one circular_reference finding.
	p := pathway.New()
	p.Nodes["start"] = node("start", "Start", pathway.NodeStart, 100)
	p.Nodes["a"] = node("a", "Step A", pathway.NodeConversation, 400)
	p.Nodes["b"] = node("b", "Step B", pathway.NodeConversation, 700)
	p.Nodes["end"] = node("end", "Goodbye", pathway.NodeEndCall, 1000)
	p.Edges["e1"] = edge("e1", "start", "a")
	p.Edges["e2"] = edge("e2", "a", "b")
	p.Edges["e3"] = edge("e3", "b", "a")
	p.Edges["e4"] = edge("e4", "b", "end")

	cats := categories(NewValidator().Validate(p))
	if cats[pathway.CategoryCircularReference] != 1 {
		t.Errorf("circular_reference = %d, want 1", cats[pathway.CategoryCircularReference])
	}
}

func TestBackwardFlow(t *testing.T) {
	p := validPathway()
	// b sits above a but receives an edge from it.
	p.Nodes["b"] = node("b", "Step B", pathway.NodeConversation, 200)
	p.Edges["up"] = edge("up", "a", "b")

	findings := NewValidator().Validate(p)
	cats := categories(findings)
	if cats[pathway.CategoryInvalidFlow] != 1 {
		t.Errorf("invalid_flow = %d, want 1: %v", cats[pathway.CategoryInvalidFlow], findings)
	}
}

func TestBackwardFlowGlobalTransferExempt(t *testing.T) {
	p := validPathway()
	p.Nodes["tr"] = node("tr", "Human Transfer", pathway.NodeTransferCall, 300)
	p.Nodes["g"] = node("g", "Frustration Handling", pathway.NodeGlobal, 900)
	// Transfer sits above the global handler; the escalation edge is exempt.
	p.Edges["esc"] = edge("esc", "g", "tr")

	cats := categories(NewValidator().Validate(p))
	if cats[pathway.CategoryInvalidFlow] != 0 {
		t.Errorf("invalid_flow = %d, want 0", cats[pathway.CategoryInvalidFlow])
	}
	if cats[pathway.CategoryInvalidConnection] != 0 {
		t.Errorf("invalid_connection = %d, want 0", cats[pathway.CategoryInvalidConnection])
	}
}

func TestValidateIdempotent(t *testing.T) {
	p := validPathway()
	p.Nodes["lonely"] = node("lonely", "Orphan Step", pathway.NodeConversation, 1000)
	p.Edges["up"] = edge("up", "a", "start")

	v := NewValidator()
	first := v.Validate(p)
	second := v.Validate(p)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation not idempotent:\n%v\n%v", first, second)
	}
	if len(first) == 0 {
		t.Error("fixture should produce findings")
	}
}

func TestNilPathway(t *testing.T) {
	findings := NewValidator().Validate(nil)
	if len(findings) != 1 || findings[0].Category != pathway.CategoryMissingFields {
		t.Errorf("findings = %v", findings)
	}
}
