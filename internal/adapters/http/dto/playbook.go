package dto

import (
	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/domain"
)

// ScriptsQuery filters GET /scripts.
type ScriptsQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=inquiry culture price objection upsell confirmation emergency"`
	Query    string `form:"q"        validate:"omitempty,max=200"`
}

// Filter converts the query for the playbook service.
func (q ScriptsQuery) Filter() domain.ScriptFilter {
	return domain.ScriptFilter{Category: domain.ScriptCategory(q.Category), Query: q.Query}
}

// ObjectionsQuery filters GET /objections.
type ObjectionsQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=price trust timing comparison indecision"`
	Severity string `form:"severity" validate:"omitempty,oneof=common tricky rare"`
	Query    string `form:"q"        validate:"omitempty,max=200"`
}

// Filter converts the query for the playbook service.
func (q ObjectionsQuery) Filter() domain.ObjectionFilter {
	return domain.ObjectionFilter{
		Category: domain.ObjectionCategory(q.Category),
		Severity: domain.Severity(q.Severity),
		Query:    q.Query,
	}
}

// SOPQuery filters GET /sop.
type SOPQuery struct {
	Importance string `form:"importance" validate:"omitempty,oneof=critical important standard"`
}

// ScriptResponse is a script as the requesting agent sees it.
type ScriptResponse struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Scenario string   `json:"scenario"`
	Script   string   `json:"script"`
	Tags     []string `json:"tags"`
	Favorite bool     `json:"favorite"`
}

// NewScriptResponse maps a script view.
func NewScriptResponse(v app.ScriptView) ScriptResponse {
	return ScriptResponse{
		ID:       v.ID,
		Category: string(v.Category),
		Scenario: v.Scenario,
		Script:   v.Script,
		Tags:     nonNil(v.Tags),
		Favorite: v.Favorite,
	}
}

// NewScriptsResponse maps a script list.
func NewScriptsResponse(vs []app.ScriptView) []ScriptResponse {
	out := make([]ScriptResponse, len(vs))
	for i, v := range vs {
		out[i] = NewScriptResponse(v)
	}

	return out
}

// FavoriteResponse reports a script's favorite state after a change.
type FavoriteResponse struct {
	ScriptID string `json:"scriptId"`
	Favorite bool   `json:"favorite"`
}

// ObjectionResponse is an objection handler.
type ObjectionResponse struct {
	ID        string `json:"id"`
	Objection string `json:"objection"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Response  string `json:"response"`
	FollowUp  string `json:"followUp,omitempty"`
	ProTip    string `json:"proTip,omitempty"`
}

// NewObjectionResponse maps an objection handler.
func NewObjectionResponse(h domain.ObjectionHandler) ObjectionResponse {
	return ObjectionResponse{
		ID:        h.ID,
		Objection: h.Objection,
		Category:  string(h.Category),
		Severity:  string(h.Severity),
		Response:  h.Response,
		FollowUp:  h.FollowUp,
		ProTip:    h.ProTip,
	}
}

// NewObjectionsResponse maps an objection list.
func NewObjectionsResponse(hs []domain.ObjectionHandler) []ObjectionResponse {
	out := make([]ObjectionResponse, len(hs))
	for i, h := range hs {
		out[i] = NewObjectionResponse(h)
	}

	return out
}

// SOPRuleResponse is a standard operating procedure.
type SOPRuleResponse struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

// NewSOPRulesResponse maps SOP rules.
func NewSOPRulesResponse(rs []domain.SOPRule) []SOPRuleResponse {
	out := make([]SOPRuleResponse, len(rs))
	for i, r := range rs {
		out[i] = SOPRuleResponse(r)
	}

	return out
}

// CheatCodeResponse is a selling shortcut.
type CheatCodeResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Details    string `json:"details"`
	PriceRange string `json:"priceRange,omitempty"`
}

// NewCheatCodesResponse maps cheat codes.
func NewCheatCodesResponse(cs []domain.CheatCode) []CheatCodeResponse {
	out := make([]CheatCodeResponse, len(cs))
	for i, c := range cs {
		out[i] = CheatCodeResponse(c)
	}

	return out
}
