package domain

import (
	"slices"
	"sort"
	"strings"
)

// Vector is one independent intent signal. It activates when the customer's
// text contains any IntentKeyword, and then adds Weight to every catalog
// entry whose metadata contains any MatchKeyword.
type Vector struct {
	Name           string
	IntentKeywords []string
	MatchKeywords  []string
	Weight         int
	Tip            string
}

// FreeformConfig tunes the freeform strategy.
type FreeformConfig struct {
	Vectors    []Vector
	TourLimit  int
	ComboLimit int
}

// Default vector weights.
const (
	DefaultThrillWeight   = 5
	DefaultSerenityWeight = 4
	DefaultCultureWeight  = 4
	DefaultLuxuryWeight   = 3
	DefaultMorningWeight  = 3
	DefaultNightWeight    = 3
)

// VectorWeights overrides the weight of each default vector. Zero keeps the
// default.
type VectorWeights struct {
	Thrill   int
	Serenity int
	Culture  int
	Luxury   int
	Morning  int
	Night    int
}

// DefaultVectors returns the keyword vectors with w applied.
func DefaultVectors(w VectorWeights) []Vector {
	return []Vector{
		{
			Name:           "thrill",
			IntentKeywords: []string{"thrill", "adrenaline", "adventure", "fast", "speed", "extreme", "exciting", "rush", "action"},
			MatchKeywords:  []string{"buggy", "quad", "dune", "bashing", "adventure", "ferrari", "sandboard", "thrill"},
			Weight:         orDefault(w.Thrill, DefaultThrillWeight),
			Tip:            "Check age requirements and send waiver links",
		},
		{
			Name:           "serenity",
			IntentKeywords: []string{"relax", "romantic", "romance", "calm", "peaceful", "honeymoon", "couple", "quiet", "chill"},
			MatchKeywords:  []string{"cruise", "dhow", "balloon", "sunset", "sunrise", "skyline", "couples"},
			Weight:         orDefault(w.Serenity, DefaultSerenityWeight),
			Tip:            "Upsell romantic dinner cruise or balloon ride",
		},
		{
			Name:           "culture",
			IntentKeywords: []string{"culture", "history", "heritage", "museum", "mosque", "tradition", "souk", "local", "architecture"},
			MatchKeywords:  []string{"mosque", "heritage", "museum", "souk", "bastakiya", "palace", "village", "corniche", "culture"},
			Weight:         orDefault(w.Culture, DefaultCultureWeight),
			Tip:            "Remind about mosque dress code requirements",
		},
		{
			Name:           "luxury",
			IntentKeywords: []string{"luxury", "vip", "premium", "private", "exclusive", "5-star", "upscale", "fancy"},
			MatchKeywords:  []string{"vip", "private", "premium", "balloon", "falcon", "yacht", "luxury"},
			Weight:         orDefault(w.Luxury, DefaultLuxuryWeight),
			Tip:            "Push private 4x4 and VIP experiences",
		},
		{
			Name:           "morning",
			IntentKeywords: []string{"morning", "sunrise", "early", "dawn"},
			MatchKeywords:  []string{"sunrise", "morning", "early"},
			Weight:         orDefault(w.Morning, DefaultMorningWeight),
			Tip:            "Confirm early pickup times the evening before",
		},
		{
			Name:           "night",
			IntentKeywords: []string{"night", "evening", "dinner", "sunset", "late"},
			MatchKeywords:  []string{"dinner", "night", "evening", "sunset", "fire show", "bbq", "tanoura"},
			Weight:         orDefault(w.Night, DefaultNightWeight),
			Tip:            "Evening slots fill first, so lock the booking early",
		},
	}
}

// FreeformStrategy scores every catalog entry against the intent vectors
// found in free text. Negative weights count as zero so that adding matched
// keywords never lowers a score.
type FreeformStrategy struct {
	cfg FreeformConfig
}

// NewFreeformStrategy returns a strategy for cfg. Missing vectors and limits
// take their defaults.
func NewFreeformStrategy(cfg FreeformConfig) *FreeformStrategy {
	if len(cfg.Vectors) == 0 {
		cfg.Vectors = DefaultVectors(VectorWeights{})
	}

	cfg.TourLimit = orDefault(cfg.TourLimit, 3)
	cfg.ComboLimit = orDefault(cfg.ComboLimit, 2)

	return &FreeformStrategy{cfg: cfg}
}

// Name implements Recommender.
func (s *FreeformStrategy) Name() string { return StrategyFreeform }

// ActiveVectors returns the vectors whose intent keywords occur in text.
func (s *FreeformStrategy) ActiveVectors(text string) []Vector {
	lower := strings.ToLower(text)

	var active []Vector

	for _, v := range s.cfg.Vectors {
		if containsAny(lower, v.IntentKeywords) {
			active = append(active, v)
		}
	}

	return active
}

// ScoreTour sums the weights of the active vectors that match the tour's
// name, category, highlights and tags.
func ScoreTour(active []Vector, t Tour) int {
	parts := append([]string{t.Name, string(t.Category)}, t.Highlights...)
	parts = append(parts, t.Tags...)

	return score(active, strings.ToLower(strings.Join(parts, " ")))
}

// ScoreCombo sums the weights of the active vectors that match the combo's
// name, items and ideal-for tags.
func ScoreCombo(active []Vector, p ComboPackage) int {
	parts := append([]string{p.Name}, p.Items...)
	parts = append(parts, p.IdealFor...)

	return score(active, strings.ToLower(strings.Join(parts, " ")))
}

// Recommend implements Recommender.
func (s *FreeformStrategy) Recommend(c *Catalog, criteria Criteria) (Recommendation, error) {
	text, ok := criteria.(FreeText)
	if !ok {
		return Recommendation{}, NewValidationError("criteria", "freeform strategy needs free text")
	}

	active := s.ActiveVectors(string(text))

	rec := Recommendation{Strategy: s.Name(), Tours: []RankedTour{}, Combos: []ComboPackage{}, Tips: []string{}}
	if len(active) == 0 {
		return rec, nil
	}

	for _, t := range c.Tours {
		if sc := ScoreTour(active, t); sc > 0 {
			rec.Tours = append(rec.Tours, RankedTour{Tour: t, Score: sc})
		}
	}

	sort.SliceStable(rec.Tours, func(i, j int) bool { return rec.Tours[i].Score > rec.Tours[j].Score })

	if len(rec.Tours) > s.cfg.TourLimit {
		rec.Tours = rec.Tours[:s.cfg.TourLimit]
	}

	for i := range rec.Tours {
		rec.Tours[i].Resonance = Resonance(i)
	}

	type scoredCombo struct {
		combo ComboPackage
		score int
	}

	var combos []scoredCombo

	for _, p := range c.Combos {
		if sc := ScoreCombo(active, p); sc > 0 {
			combos = append(combos, scoredCombo{combo: p, score: sc})
		}
	}

	sort.SliceStable(combos, func(i, j int) bool { return combos[i].score > combos[j].score })

	for i := 0; i < len(combos) && i < s.cfg.ComboLimit; i++ {
		rec.Combos = append(rec.Combos, combos[i].combo)
	}

	for _, v := range active {
		if v.Tip != "" && !slices.Contains(rec.Tips, v.Tip) {
			rec.Tips = append(rec.Tips, v.Tip)
		}
	}

	return rec, nil
}

func score(active []Vector, haystack string) int {
	total := 0

	for _, v := range active {
		if v.Weight > 0 && containsAny(haystack, v.MatchKeywords) {
			total += v.Weight
		}
	}

	return total
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}

	return false
}
