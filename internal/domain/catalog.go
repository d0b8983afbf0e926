package domain

import (
	"strings"
)

// Category groups tours on the dashboard.
type Category string

// Tour categories.
const (
	CategoryDubai      Category = "dubai"
	CategoryAbuDhabi   Category = "abu-dhabi"
	CategoryDesert     Category = "desert"
	CategoryAdventure  Category = "adventure"
	CategoryCruise     Category = "cruise"
	CategoryExperience Category = "experience"
)

// Categories lists every tour category in display order.
var Categories = []Category{
	CategoryDubai,
	CategoryAbuDhabi,
	CategoryDesert,
	CategoryAdventure,
	CategoryCruise,
	CategoryExperience,
}

var categoryLabels = map[Category]string{
	CategoryDubai:      "Dubai Tours",
	CategoryAbuDhabi:   "Abu Dhabi",
	CategoryDesert:     "Desert Safari",
	CategoryAdventure:  "Adventure",
	CategoryCruise:     "Cruises",
	CategoryExperience: "Experiences",
}

// Label returns the dashboard heading for the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}

	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// MarginTier is a coarse profitability class attached to tours and combos.
type MarginTier string

// Margin tiers.
const (
	MarginHigh   MarginTier = "high"
	MarginMedium MarginTier = "medium"
	MarginLow    MarginTier = "low"
)

// Difficulty describes how much coordination a tour needs.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyComplex  Difficulty = "complex"
)

// PriceRange is an indicative AED price band.
type PriceRange struct {
	Min float64
	Max float64
}

// Tour is a sellable tour or experience.
type Tour struct {
	ID           string
	Name         string
	Category     Category
	Pickup       string
	Duration     string
	Highlights   []string
	Inclusions   []string
	Requirements []string
	ProTip       string
	Note         string
	DressCode    string
	VisualCues   []string
	Margin       MarginTier
	Difficulty   Difficulty
	IdealFor     []string
	PriceRange   *PriceRange
	BestFor      string
	Tags         []string
	WaiverURL    string
}

// VehicleRate is the day-rate card for one vehicle class.
type VehicleRate struct {
	Vehicle         string
	Capacity        int
	FullDayDubai    int
	HalfDayDubai    int
	FullDayAbuDhabi int
	TransferDXB     int
}

// Zone is a pickup pricing bracket.
type Zone struct {
	ID    int
	Name  string
	Areas []string
	Rates map[CapacityBucket]int
}

// AttractionCategory classifies add-on attraction tickets.
type AttractionCategory string

// Attraction categories.
const (
	AttractionAdventure AttractionCategory = "adventure"
	AttractionCulture   AttractionCategory = "culture"
	AttractionLuxury    AttractionCategory = "luxury"
	AttractionFamily    AttractionCategory = "family"
)

// Attraction is an add-on ticket priced per guest.
type Attraction struct {
	ID        string
	Name      string
	SellPrice int
	NetPrice  int
	Category  AttractionCategory
}

// Margin is (sell - net) / sell, or 0 for a free attraction.
func (a Attraction) Margin() float64 {
	if a.SellPrice == 0 {
		return 0
	}

	return float64(a.SellPrice-a.NetPrice) / float64(a.SellPrice)
}

// ComboPackage is a bundle sold at a fixed aggregate price.
type ComboPackage struct {
	ID         string
	Name       string
	Items      []string
	TotalPrice int
	Savings    string
	Tag        string
	IdealFor   []string
	Margin     MarginTier
}

// Catalog is an immutable snapshot of all reference data. Callers must not
// mutate the slices it exposes.
type Catalog struct {
	Tours       []Tour
	Vehicles    []VehicleRate
	Zones       []Zone
	Attractions []Attraction
	Combos      []ComboPackage
	Scripts     []WhatsAppScript
	Objections  []ObjectionHandler
	SOPRules    []SOPRule
	CheatCodes  []CheatCode
}

// Vehicle finds a vehicle by its display name, ignoring case.
func (c *Catalog) Vehicle(name string) (VehicleRate, bool) {
	for _, v := range c.Vehicles {
		if strings.EqualFold(v.Vehicle, name) {
			return v, true
		}
	}

	return VehicleRate{}, false
}

// Zone finds a pickup zone by number.
func (c *Catalog) Zone(id int) (Zone, bool) {
	for _, z := range c.Zones {
		if z.ID == id {
			return z, true
		}
	}

	return Zone{}, false
}

// Attraction finds an attraction by id.
func (c *Catalog) Attraction(id string) (Attraction, bool) {
	for _, a := range c.Attractions {
		if a.ID == id {
			return a, true
		}
	}

	return Attraction{}, false
}

// Tour finds a tour by id.
func (c *Catalog) Tour(id string) (Tour, bool) {
	for _, t := range c.Tours {
		if t.ID == id {
			return t, true
		}
	}

	return Tour{}, false
}

// ToursByCategory returns the tours in category, in catalog order. An empty
// category returns every tour.
func (c *Catalog) ToursByCategory(category Category) []Tour {
	if category == "" {
		return c.Tours
	}

	var out []Tour

	for _, t := range c.Tours {
		if t.Category == category {
			out = append(out, t)
		}
	}

	return out
}

// Combo finds a combo package by id.
func (c *Catalog) Combo(id string) (ComboPackage, bool) {
	for _, p := range c.Combos {
		if p.ID == id {
			return p, true
		}
	}

	return ComboPackage{}, false
}
