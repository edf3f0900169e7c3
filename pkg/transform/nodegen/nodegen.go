// Package nodegen builds fully populated conversation nodes from raw prompt
// text. A node gets a semantic label from the naming collaborator (degrading
// to the fixed fallback on any failure) and behavioral metadata derived from
// that label through the keyword tables in templates.go.
package nodegen

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pathforge/pathforge/pkg/naming"
	"github.com/pathforge/pathforge/pkg/pathway"
)

// StartNodeID is the fixed identifier of the start node.
const StartNodeID = "start"

// Fixed prompts used by the special constructors.
const (
	// DefaultGreetingPrompt opens the call when no start prompt is supplied.
	DefaultGreetingPrompt = "Introduce yourself and establish the purpose of the call. Ask if they have a moment to talk."

	// GlobalPrompt is attached to every node's data.
	GlobalPrompt = "Maintain a professional and helpful demeanor throughout the conversation."

	// startCondition marks the start node's failure case.
	startCondition = "Condition fails if the user immediately refuses to talk"

	successClosingPrompt   = "Thank you for your time. We've successfully completed our conversation."
	rejectionClosingPrompt = "I understand this isn't what you're looking for. Thank you for your time."
	transferPrompt         = "I'll transfer you to a human assistant who can better help with your needs."
)

// DefaultTransferNumber is the placeholder destination on transfer nodes.
const DefaultTransferNumber = "+1234567890"

// EndKind selects one of the fixed terminal node constructors.
type EndKind string

// Terminal node kinds.
const (
	EndSuccess   EndKind = "success"
	EndRejection EndKind = "rejection"
	EndTransfer  EndKind = "transfer"
)

// Options configures a Generator.
type Options struct {
	// Namer produces semantic labels. Nil means every node gets the
	// fallback label.
	Namer naming.Namer

	// NewID generates node identifiers. Defaults to random UUIDs.
	NewID func() string

	// Logger receives a warning for every degraded label.
	Logger *log.Logger
}

// ValidateAndSetDefaults applies defaults for unset fields.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Namer == nil {
		o.Namer = naming.Func(func(context.Context, string) (string, error) {
			return naming.Fallback, nil
		})
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Generator builds conversation nodes.
type Generator struct {
	opts Options
}

// NewGenerator creates a node generator.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts}, nil
}

// Namer returns the naming collaborator, after defaulting.
func (g *Generator) Namer() naming.Namer { return g.opts.Namer }

// Node builds a fully populated node for a prompt. The semantic label comes
// from the naming collaborator; any failure or blank result degrades to the
// fallback label and never surfaces as an error.
func (g *Generator) Node(ctx context.Context, prompt string, typ pathway.NodeType, pos pathway.Position, isGlobal bool) *pathway.Node {
	name, err := g.opts.Namer.Name(ctx, prompt)
	if err != nil {
		g.opts.Logger.Warn("node naming failed, using fallback", "error", err)
		name = naming.Fallback
	} else if name = naming.Sanitize(name); name == "" {
		g.opts.Logger.Warn("node naming returned blank label, using fallback")
		name = naming.Fallback
	}
	return g.NamedNode(name, prompt, typ, pos, isGlobal)
}

// NamedNode builds a node with a precomputed label. Used when labels come
// from a batch naming pool; pure computation, no external calls.
func (g *Generator) NamedNode(name, prompt string, typ pathway.NodeType, pos pathway.Position, isGlobal bool) *pathway.Node {
	return &pathway.Node{
		ID:   g.opts.NewID(),
		Type: typ,
		Data: pathway.NodeData{
			Name:               name,
			Prompt:             prompt,
			Intent:             Intent(name),
			SuccessCondition:   SuccessCondition(name),
			FailureCondition:   FailureCondition(name),
			ExpectedOutcomes:   Outcomes(name),
			TransitionTriggers: Triggers(name),
			GlobalPrompt:       GlobalPrompt,
			ModelOptions:       pathway.DefaultModelOptions(),
			IsGlobal:           isGlobal,
		},
		Position: pos,
		Width:    pathway.DefaultNodeWidth,
		Height:   pathway.DefaultNodeHeight,
	}
}

// StartNode builds the start node. An empty prompt gets the default
// greeting. The id is fixed so incremental edits can always find it.
func (g *Generator) StartNode(prompt string) *pathway.Node {
	if prompt == "" {
		prompt = DefaultGreetingPrompt
	}
	return &pathway.Node{
		ID:   StartNodeID,
		Type: pathway.NodeStart,
		Data: pathway.NodeData{
			Name:         "Start",
			Prompt:       prompt,
			Condition:    startCondition,
			GlobalPrompt: GlobalPrompt,
			ModelOptions: pathway.DefaultModelOptions(),
			IsStart:      true,
		},
		Width:  pathway.DefaultNodeWidth,
		Height: pathway.DefaultNodeHeight,
	}
}

// EndNode builds one of the three fixed terminal nodes.
func (g *Generator) EndNode(ctx context.Context, kind EndKind, pos pathway.Position) (*pathway.Node, error) {
	switch kind {
	case EndSuccess:
		return g.Node(ctx, successClosingPrompt, pathway.NodeEndCall, pos, false), nil
	case EndRejection:
		return g.Node(ctx, rejectionClosingPrompt, pathway.NodeEndCall, pos, false), nil
	case EndTransfer:
		node := g.Node(ctx, transferPrompt, pathway.NodeTransferCall, pos, false)
		node.Data.TransferNumber = DefaultTransferNumber
		return node, nil
	default:
		return nil, fmt.Errorf("unknown end node kind: %q", kind)
	}
}
