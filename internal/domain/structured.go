package domain

import (
	"slices"
	"strings"
)

// Question ids and the option values the structured strategy understands.
const (
	QuestionGroup    = "group"
	QuestionInterest = "interest"
	QuestionBudget   = "budget"
	QuestionTime     = "time"
)

// QuestionOption is one selectable answer.
type QuestionOption struct {
	Label string
	Value string
	Icon  string
}

// Question is one step of the recommender quiz.
type Question struct {
	ID      string
	Prompt  string
	Options []QuestionOption
}

// Questions returns the quiz in the order agents ask it.
func Questions() []Question {
	return []Question{
		{
			ID:     QuestionGroup,
			Prompt: "What's the group composition?",
			Options: []QuestionOption{
				{Label: "Couple", Value: "couple", Icon: "💑"},
				{Label: "Family with kids", Value: "family", Icon: "👨‍👩‍👧‍👦"},
				{Label: "Friends group", Value: "friends", Icon: "👥"},
				{Label: "Solo traveler", Value: "solo", Icon: "🧳"},
			},
		},
		{
			ID:     QuestionInterest,
			Prompt: "What's their main interest?",
			Options: []QuestionOption{
				{Label: "Culture & History", Value: "culture", Icon: "🕌"},
				{Label: "Adventure & Thrills", Value: "adventure", Icon: "🏜️"},
				{Label: "Relaxation & Luxury", Value: "luxury", Icon: "✨"},
				{Label: "Photography & Views", Value: "photo", Icon: "📸"},
			},
		},
		{
			ID:     QuestionBudget,
			Prompt: "What's their budget level?",
			Options: []QuestionOption{
				{Label: "Budget-friendly", Value: "budget", Icon: "💵"},
				{Label: "Mid-range", Value: "mid", Icon: "💰"},
				{Label: "Premium", Value: "premium", Icon: "💎"},
			},
		},
		{
			ID:     QuestionTime,
			Prompt: "How much time do they have?",
			Options: []QuestionOption{
				{Label: "Half day (4-5 hrs)", Value: "half", Icon: "⏱️"},
				{Label: "Full day (8-10 hrs)", Value: "full", Icon: "🌅"},
				{Label: "Multi-day", Value: "multi", Icon: "📅"},
			},
		},
	}
}

// StructuredStrategy filters the catalog with hard exclusion rules keyed by
// quiz answers. Survivors keep catalog order.
type StructuredStrategy struct {
	TourLimit  int
	ComboLimit int
}

// NewStructuredStrategy returns the strategy with the dashboard limits of 3
// tours and 2 combos.
func NewStructuredStrategy() *StructuredStrategy {
	return &StructuredStrategy{TourLimit: 3, ComboLimit: 2}
}

// Name implements Recommender.
func (s *StructuredStrategy) Name() string { return StrategyStructured }

// Recommend implements Recommender.
func (s *StructuredStrategy) Recommend(c *Catalog, criteria Criteria) (Recommendation, error) {
	answers, ok := criteria.(StructuredAnswers)
	if !ok {
		return Recommendation{}, NewValidationError("criteria", "structured strategy needs quiz answers")
	}

	tourLimit, comboLimit := orDefault(s.TourLimit, 3), orDefault(s.ComboLimit, 2)
	rec := Recommendation{Strategy: s.Name(), Tours: []RankedTour{}, Combos: []ComboPackage{}}

	for _, t := range c.Tours {
		if len(rec.Tours) == tourLimit {
			break
		}

		if tourSurvives(answers, t) {
			rec.Tours = append(rec.Tours, RankedTour{Tour: t})
		}
	}

	for _, p := range c.Combos {
		if len(rec.Combos) == comboLimit {
			break
		}

		if comboSurvives(answers, p) {
			rec.Combos = append(rec.Combos, p)
		}
	}

	rec.Tips = structuredTips(answers)

	return rec, nil
}

func tourSurvives(a StructuredAnswers, t Tour) bool {
	switch a[QuestionInterest] {
	case "culture":
		if t.Category != CategoryAbuDhabi && t.Category != CategoryDubai {
			return false
		}
	case "adventure":
		if t.Category != CategoryAdventure && t.Category != CategoryDesert {
			return false
		}
	case "luxury":
		if t.Margin == MarginLow {
			return false
		}
	case "photo":
		if !isPhotogenic(t) && t.Category != CategoryExperience && t.Category != CategoryCruise {
			return false
		}
	}

	switch a[QuestionBudget] {
	case "budget":
		if t.Margin == MarginHigh {
			return false
		}
	case "premium":
		if t.Margin == MarginLow {
			return false
		}
	}

	if a[QuestionTime] == "half" && strings.Contains(t.Duration, "10 hours") {
		return false
	}

	if a[QuestionGroup] == "family" {
		for _, r := range t.Requirements {
			if strings.Contains(r, "16+") || strings.Contains(r, "20+") {
				return false
			}
		}
	}

	return true
}

func isPhotogenic(t Tour) bool {
	if slices.Contains(t.VisualCues, "📸") {
		return true
	}

	for _, h := range t.Highlights {
		if strings.Contains(strings.ToLower(h), "photo") {
			return true
		}
	}

	return false
}

func comboSurvives(a StructuredAnswers, p ComboPackage) bool {
	if a[QuestionBudget] == "budget" && p.Margin == MarginHigh {
		return false
	}

	if a[QuestionGroup] == "family" && slices.Contains(p.IdealFor, "Families") {
		return true
	}

	if a[QuestionInterest] == "culture" {
		for _, item := range p.Items {
			if strings.Contains(item, "Qasr") || strings.Contains(item, "Abu Dhabi") {
				return true
			}
		}
	}

	for _, ideal := range p.IdealFor {
		switch {
		case a[QuestionGroup] == "couple" && strings.Contains(ideal, "Couple"):
			return true
		case a[QuestionBudget] == "budget" && strings.Contains(ideal, "Budget"):
			return true
		case a[QuestionInterest] == "adventure" && strings.Contains(ideal, "Adventure"):
			return true
		}
	}

	return false
}

func structuredTips(a StructuredAnswers) []string {
	tips := []string{}

	if a[QuestionGroup] == "family" {
		tips = append(tips, "Recommend private vehicle for comfort with kids")
	}

	if a[QuestionGroup] == "couple" {
		tips = append(tips, "Upsell romantic dinner cruise or balloon ride")
	}

	if a[QuestionInterest] == "culture" {
		tips = append(tips, "Remind about mosque dress code requirements")
	}

	if a[QuestionInterest] == "adventure" {
		tips = append(tips, "Check age requirements and send waiver links")
	}

	if a[QuestionBudget] == "premium" {
		tips = append(tips, "Push private 4x4 and VIP experiences")
	}

	if a[QuestionTime] == "multi" {
		tips = append(tips, "Create custom multi-day itinerary package")
	}

	return tips
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}

	return n
}
