package dto

import (
	"strings"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// RecommendRequest carries either quiz answers or free text. Strategy is
// optional; without it the service picks one.
type RecommendRequest struct {
	Strategy string            `json:"strategy" validate:"omitempty,oneof=structured freeform"`
	Answers  map[string]string `json:"answers"  validate:"omitempty,max=8"`
	Text     string            `json:"text"     validate:"omitempty,max=2000"`
}

// Criteria picks the variant the request carries. Answers win when both are
// present and the strategy is not freeform.
func (r RecommendRequest) Criteria() (domain.Criteria, error) {
	text := strings.TrimSpace(r.Text)

	switch {
	case len(r.Answers) > 0 && (text == "" || r.Strategy != domain.StrategyFreeform):
		return domain.StructuredAnswers(r.Answers), nil
	case text != "":
		return domain.FreeText(text), nil
	default:
		return nil, domain.NewValidationError("criteria", "answers or text is required")
	}
}

// RankedTourResponse is a recommended tour.
type RankedTourResponse struct {
	TourResponse
	Score     int `json:"score"`
	Resonance int `json:"resonance"`
}

// RecommendationResponse is a strategy's answer.
type RecommendationResponse struct {
	Strategy string               `json:"strategy"`
	Tours    []RankedTourResponse `json:"tours"`
	Combos   []ComboResponse      `json:"combos"`
	Tips     []string             `json:"tips"`
}

// NewRecommendationResponse maps a recommendation.
func NewRecommendationResponse(r domain.Recommendation) RecommendationResponse {
	tours := make([]RankedTourResponse, len(r.Tours))
	for i, rt := range r.Tours {
		tours[i] = RankedTourResponse{TourResponse: NewTourResponse(rt.Tour), Score: rt.Score, Resonance: rt.Resonance}
	}

	return RecommendationResponse{
		Strategy: r.Strategy,
		Tours:    tours,
		Combos:   NewCombosResponse(r.Combos),
		Tips:     nonNil(r.Tips),
	}
}

// QuestionOptionResponse is one quiz answer.
type QuestionOptionResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// QuestionResponse is one quiz step.
type QuestionResponse struct {
	ID      string                   `json:"id"`
	Prompt  string                   `json:"prompt"`
	Options []QuestionOptionResponse `json:"options"`
}

// NewQuestionsResponse maps the quiz.
func NewQuestionsResponse(qs []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, len(qs))
	for i, q := range qs {
		opts := make([]QuestionOptionResponse, len(q.Options))
		for j, o := range q.Options {
			opts[j] = QuestionOptionResponse(o)
		}

		out[i] = QuestionResponse{ID: q.ID, Prompt: q.Prompt, Options: opts}
	}

	return out
}

// StrategiesResponse lists the registered strategies.
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
}
