package domain

// Strategy names accepted by the recommendation service.
const (
	StrategyStructured = "structured"
	StrategyFreeform   = "freeform"
)

// Criteria is what a caller knows about the customer. It is either
// StructuredAnswers or FreeText.
type Criteria interface {
	criteria()
}

// StructuredAnswers maps a question id (group, interest, budget, time) to the
// chosen option value.
type StructuredAnswers map[string]string

// FreeText is a natural-language description of what the customer wants.
type FreeText string

func (StructuredAnswers) criteria() {}
func (FreeText) criteria()          {}

// StrategyFor names the strategy that natively handles criteria.
func StrategyFor(c Criteria) string {
	if _, ok := c.(FreeText); ok {
		return StrategyFreeform
	}

	return StrategyStructured
}

// RankedTour is one recommended tour. Score is 0 for strategies that filter
// rather than score. Resonance is a display figure, not a probability.
type RankedTour struct {
	Tour      Tour
	Score     int
	Resonance int
}

// Recommendation is a strategy's answer. Empty slices are a valid outcome.
type Recommendation struct {
	Strategy string
	Tours    []RankedTour
	Combos   []ComboPackage
	Tips     []string
}

// Recommender ranks the catalog against criteria.
type Recommender interface {
	Name() string
	Recommend(c *Catalog, criteria Criteria) (Recommendation, error)
}

// Resonance is the cosmetic match percentage shown next to the result at
// index.
func Resonance(index int) int {
	return 98 - index*4
}
