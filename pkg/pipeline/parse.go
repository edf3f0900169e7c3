package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/pathforge/pathforge/pkg/pathway"
)

// ContentItem is one unit of extracted call content. Content is either a
// JSON document describing a prompt or plain prompt text.
type ContentItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// promptPayload is the decoded form of a content item. Items whose content
// is not valid JSON are treated as plain voice prompts.
type promptPayload struct {
	Prompt          string `json:"prompt"`
	Type            string `json:"type"`
	IsGlobal        bool   `json:"isGlobal"`
	IsEnd           bool   `json:"isEnd"`
	TransferNumber  string `json:"transferNumber"`
	KnowledgeBaseID string `json:"kb_id"`
}

// parseItem decodes a content item. The second return value reports whether
// the item carries usable prompt text.
func parseItem(item ContentItem) (promptPayload, bool) {
	var p promptPayload
	if err := json.Unmarshal([]byte(item.Content), &p); err != nil || p.Prompt == "" {
		// Not a structured payload; treat the raw content as the prompt.
		p = promptPayload{
			Prompt: strings.TrimSpace(item.Content),
			Type:   "voice_prompt",
		}
	}
	return p, p.Prompt != ""
}

// nodeType infers the node type from the payload's flags and type string.
func (p promptPayload) nodeType() pathway.NodeType {
	typ := strings.ToLower(p.Type)
	switch {
	case p.IsGlobal:
		return pathway.NodeGlobal
	case p.TransferNumber != "" || strings.Contains(typ, "transfer"):
		return pathway.NodeTransferCall
	case p.IsEnd || strings.Contains(typ, "end"):
		return pathway.NodeEndCall
	case p.KnowledgeBaseID != "" || strings.Contains(typ, "knowledge"):
		return pathway.NodeKnowledgeBase
	}
	return pathway.NodeConversation
}

// conversational reports whether the payload describes a mid-flow node, as
// opposed to a terminal one. The start node is drawn from the first
// conversational payload.
func (p promptPayload) conversational() bool {
	typ := p.nodeType()
	return typ == pathway.NodeConversation || typ == pathway.NodeKnowledgeBase
}
