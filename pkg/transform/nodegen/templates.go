package nodegen

import "strings"

// Behavioral metadata is a pure function of the node's generated name.
// Each table is an ordered list of (keyword, template) pairs checked against
// the lowercase name; the first match wins and unmatched names fall through
// to a generic default. Keeping the tables explicit makes the heuristic
// swappable and testable on its own.

type textRule struct {
	keyword string
	text    string
}

type listRule struct {
	keyword string
	extras  []string
}

func matchText(rules []textRule, name, fallback string) string {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.text
		}
	}
	return fallback
}

func matchList(rules []listRule, name string, base []string) []string {
	lower := strings.ToLower(name)
	out := make([]string, len(base), len(base)+2)
	copy(out, base)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return append(out, r.extras...)
		}
	}
	return out
}

// =============================================================================
// Intent
// =============================================================================

var intentRules = []textRule{
	{"rapport", "Build initial connection and establish trust with the user"},
	{"discovery", "Understand user needs and gather relevant information"},
	{"value", "Present and explain the value proposition"},
	{"objection", "Address user concerns and provide clarification"},
	{"commitment", "Secure user agreement and determine next steps"},
}

const defaultIntent = "Progress the conversation effectively"

// Intent returns the primary conversational intent for a node name.
func Intent(name string) string {
	return matchText(intentRules, name, defaultIntent)
}

// =============================================================================
// Success / Failure Conditions
// =============================================================================

var successRules = []textRule{
	{"discovery", "User provides clear information about their needs"},
	{"value", "User shows interest in the proposed value"},
	{"objection", "User's concerns are successfully addressed"},
	{"commitment", "User agrees to proceed or take next steps"},
}

const defaultSuccess = "User engages positively and conversation progresses"

// SuccessCondition returns the success condition for a node name.
func SuccessCondition(name string) string {
	return matchText(successRules, name, defaultSuccess)
}

var failureRules = []textRule{
	{"discovery", "User refuses to share information"},
	{"value", "User explicitly rejects the proposed value"},
	{"objection", "User's objection intensifies"},
	{"commitment", "User declines to proceed"},
}

const defaultFailure = "User shows clear disengagement"

// FailureCondition returns the failure condition for a node name.
func FailureCondition(name string) string {
	return matchText(failureRules, name, defaultFailure)
}

// =============================================================================
// Outcomes / Triggers
// =============================================================================

var baseOutcomes = []string{
	"positive_progression",
	"needs_clarification",
	"resistance_detected",
}

var outcomeRules = []listRule{
	{"discovery", []string{"information_gathered", "deeper_exploration_needed"}},
	{"value", []string{"value_accepted", "objection_raised"}},
	{"objection", []string{"objection_resolved", "escalation_needed"}},
	{"commitment", []string{"commitment_secured", "further_discussion_needed"}},
}

// Outcomes returns the expected-outcome set for a node name.
func Outcomes(name string) []string {
	return matchList(outcomeRules, name, baseOutcomes)
}

var baseTriggers = []string{
	"explicit_agreement",
	"explicit_disagreement",
	"confusion_expressed",
	"more_information_requested",
}

var triggerRules = []listRule{
	{"discovery", []string{"need_expressed", "resistance_to_sharing"}},
	{"value", []string{"benefit_interest", "value_objection"}},
	{"objection", []string{"satisfaction_expressed", "escalation_requested"}},
	{"commitment", []string{"ready_to_proceed", "need_more_time"}},
}

// Triggers returns the transition-trigger set for a node name.
func Triggers(name string) []string {
	return matchList(triggerRules, name, baseTriggers)
}
