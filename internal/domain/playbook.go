package domain

import "strings"

// ScriptCategory groups WhatsApp scripts.
type ScriptCategory string

// Script categories.
const (
	ScriptInquiry      ScriptCategory = "inquiry"
	ScriptCulture      ScriptCategory = "culture"
	ScriptPrice        ScriptCategory = "price"
	ScriptObjection    ScriptCategory = "objection"
	ScriptUpsell       ScriptCategory = "upsell"
	ScriptConfirmation ScriptCategory = "confirmation"
	ScriptEmergency    ScriptCategory = "emergency"
)

// WhatsAppScript is a ready-to-paste message template.
type WhatsAppScript struct {
	ID       string
	Category ScriptCategory
	Scenario string
	Script   string
	Tags     []string
}

// ObjectionCategory classifies customer objections.
type ObjectionCategory string

// Objection categories.
const (
	ObjectionPrice      ObjectionCategory = "price"
	ObjectionTrust      ObjectionCategory = "trust"
	ObjectionTiming     ObjectionCategory = "timing"
	ObjectionComparison ObjectionCategory = "comparison"
	ObjectionIndecision ObjectionCategory = "indecision"
)

// Severity is how often an objection comes up and how hard it is to handle.
type Severity string

// Severities.
const (
	SeverityCommon Severity = "common"
	SeverityTricky Severity = "tricky"
	SeverityRare   Severity = "rare"
)

// ObjectionHandler pairs an objection with a scripted response.
type ObjectionHandler struct {
	ID        string
	Objection string
	Category  ObjectionCategory
	Severity  Severity
	Response  string
	FollowUp  string
	ProTip    string
}

// SOPRule is a standard operating procedure agents must follow.
type SOPRule struct {
	ID          string
	Category    string
	Title       string
	Description string
	Importance  string
}

// CheatCode is a quick-reference selling shortcut.
type CheatCode struct {
	ID         string
	Type       string
	Title      string
	Details    string
	PriceRange string
}

// ScriptFilter narrows the script list. Zero fields match everything.
type ScriptFilter struct {
	Category ScriptCategory
	Query    string
}

// Match reports whether s passes the filter. Query is a case-insensitive
// substring of the scenario, the script text or any tag.
func (f ScriptFilter) Match(s WhatsAppScript) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}

	if f.Query == "" {
		return true
	}

	return containsFold(f.Query, append([]string{s.Scenario, s.Script}, s.Tags...)...)
}

// ObjectionFilter narrows the objection library. Zero fields match everything.
type ObjectionFilter struct {
	Category ObjectionCategory
	Severity Severity
	Query    string
}

// Match reports whether h passes the filter.
func (f ObjectionFilter) Match(h ObjectionHandler) bool {
	if f.Category != "" && h.Category != f.Category {
		return false
	}

	if f.Severity != "" && h.Severity != f.Severity {
		return false
	}

	if f.Query == "" {
		return true
	}

	return containsFold(f.Query, h.Objection, h.Response)
}

// FilterScripts returns the scripts matching f in catalog order.
func FilterScripts(scripts []WhatsAppScript, f ScriptFilter) []WhatsAppScript {
	out := make([]WhatsAppScript, 0, len(scripts))

	for _, s := range scripts {
		if f.Match(s) {
			out = append(out, s)
		}
	}

	return out
}

// FilterObjections returns the handlers matching f in catalog order.
func FilterObjections(handlers []ObjectionHandler, f ObjectionFilter) []ObjectionHandler {
	out := make([]ObjectionHandler, 0, len(handlers))

	for _, h := range handlers {
		if f.Match(h) {
			out = append(out, h)
		}
	}

	return out
}

// FilterSOPRules returns the rules with the given importance, or all rules
// when importance is empty.
func FilterSOPRules(rules []SOPRule, importance string) []SOPRule {
	if importance == "" {
		return rules
	}

	var out []SOPRule

	for _, r := range rules {
		if r.Importance == importance {
			out = append(out, r)
		}
	}

	return out
}

func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(query)

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}

	return false
}
