package pathway

import "slices"

// =============================================================================
// Node Types
// =============================================================================

// NodeType identifies the role of a node in the conversation flow.
type NodeType string

// Node types. Exactly one Start node exists per pathway; EndCall and
// TransferCall nodes are terminal and never have outgoing edges.
const (
	NodeStart         NodeType = "Start"
	NodeConversation  NodeType = "Conversation"
	NodeKnowledgeBase NodeType = "Knowledge Base"
	NodeEndCall       NodeType = "End Call"
	NodeTransferCall  NodeType = "Transfer Call"
	NodeGlobal        NodeType = "Global"
)

// IsTerminal reports whether the type ends the call (EndCall or TransferCall).
func (t NodeType) IsTerminal() bool {
	return t == NodeEndCall || t == NodeTransferCall
}

// Valid reports whether t is one of the defined node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeStart, NodeConversation, NodeKnowledgeBase, NodeEndCall, NodeTransferCall, NodeGlobal:
		return true
	}
	return false
}

// EdgeTypeFlow is the default edge type for conversation transitions.
const EdgeTypeFlow = "flow"

// Node geometry defaults, matching the hosting system's canvas.
const (
	DefaultNodeWidth  = 320
	DefaultNodeHeight = 127
)

// =============================================================================
// Geometry
// =============================================================================

// Position is a 2-D canvas coordinate assigned during layout.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// =============================================================================
// Model Options
// =============================================================================

// ModelOptions controls the language model behavior at a single node.
type ModelOptions struct {
	ModelType          string  `json:"modelType" bson:"model_type"`
	Temperature        float64 `json:"temperature" bson:"temperature"`
	SkipUserResponse   bool    `json:"skipUserResponse" bson:"skip_user_response"`
	BlockInterruptions bool    `json:"blockInterruptions" bson:"block_interruptions"`
}

// DefaultModelOptions returns the model options applied to new nodes.
func DefaultModelOptions() ModelOptions {
	return ModelOptions{ModelType: "smart", Temperature: 0.2}
}

// =============================================================================
// Node
// =============================================================================

// NodeData is the behavioral payload of a node. Name, layout and the derived
// metadata fields may be amended by later pipeline passes; the surrounding
// node's ID and Type never change after creation.
type NodeData struct {
	Name             string   `json:"name" bson:"name"`
	Active           bool     `json:"active" bson:"active"`
	Prompt           string   `json:"prompt" bson:"prompt"`
	Intent           string   `json:"intent,omitempty" bson:"intent,omitempty"`
	Condition        string   `json:"condition,omitempty" bson:"condition,omitempty"`
	SuccessCondition string   `json:"success_condition,omitempty" bson:"success_condition,omitempty"`
	FailureCondition string   `json:"failure_condition,omitempty" bson:"failure_condition,omitempty"`
	ExpectedOutcomes []string `json:"expected_outcomes,omitempty" bson:"expected_outcomes,omitempty"`
	TransitionTriggers []string `json:"transition_triggers,omitempty" bson:"transition_triggers,omitempty"`

	GlobalPrompt string       `json:"globalPrompt,omitempty" bson:"global_prompt,omitempty"`
	ModelOptions ModelOptions `json:"modelOptions" bson:"model_options"`

	IsStart  bool `json:"isStart,omitempty" bson:"is_start,omitempty"`
	IsGlobal bool `json:"isGlobal,omitempty" bson:"is_global,omitempty"`

	// TransferNumber is set on TransferCall nodes only.
	TransferNumber string `json:"transferNumber,omitempty" bson:"transfer_number,omitempty"`
}

// Node is a single conversational step, decision point, or terminal outcome.
//
// ID is immutable once created. Data may be amended in place by later passes
// (naming, layout) but Type never changes after creation.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Type     NodeType `json:"type" bson:"type"`
	Data     NodeData `json:"data" bson:"data"`
	Position Position `json:"position" bson:"position"`
	Width    int      `json:"width" bson:"width"`
	Height   int      `json:"height" bson:"height"`
}

// IsTerminal reports whether the node ends the call.
func (n *Node) IsTerminal() bool { return n.Type.IsTerminal() }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Data.ExpectedOutcomes = slices.Clone(n.Data.ExpectedOutcomes)
	c.Data.TransitionTriggers = slices.Clone(n.Data.TransitionTriggers)
	return &c
}

// =============================================================================
// Edge
// =============================================================================

// EdgeData describes when a transition is taken, in user-facing terms.
type EdgeData struct {
	Label       string   `json:"label" bson:"label"`
	Description string   `json:"description" bson:"description"`
	Condition   string   `json:"condition" bson:"condition"`
	UserSignals []string `json:"user_signals,omitempty" bson:"user_signals,omitempty"`
}

// Edge is a directed transition between two nodes. Source and Target must
// reference nodes present in the same pathway, and Source != Target.
type Edge struct {
	ID     string   `json:"id" bson:"id"`
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	Type   string   `json:"type" bson:"type"`
	Data   EdgeData `json:"data" bson:"data"`
}

// Clone returns a deep copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	c.Data.UserSignals = slices.Clone(e.Data.UserSignals)
	return &c
}
