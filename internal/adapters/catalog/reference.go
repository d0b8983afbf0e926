// Package catalog provides the catalog sources: the reference data compiled
// into the binary and the supplier product file store.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/ahmedtravel/playbook/internal/domain"
)

//go:embed reference.yaml
var referenceYAML []byte

// ReferenceSource serves the reference catalog: tours, rate cards, zones,
// attractions, combos and the sales playbook.
type ReferenceSource struct {
	data []byte
}

// NewReferenceSource returns the source for the embedded reference data.
func NewReferenceSource() *ReferenceSource {
	return &ReferenceSource{data: referenceYAML}
}

// NewReferenceSourceFromBytes parses an alternative reference document.
func NewReferenceSourceFromBytes(data []byte) *ReferenceSource {
	return &ReferenceSource{data: data}
}

// Name implements ports.CatalogSource.
func (s *ReferenceSource) Name() string { return "reference" }

// Required implements ports.CatalogSource. Pricing cannot work without the
// rate cards, so the reference data is mandatory.
func (s *ReferenceSource) Required() bool { return true }

// Load implements ports.CatalogSource.
func (s *ReferenceSource) Load(_ context.Context) (*domain.Catalog, error) {
	k := koanf.New(".")

	err := k.Load(rawbytes.Provider(s.data), yaml.Parser())
	if err != nil {
		return nil, fmt.Errorf("parsing reference catalog: %w", err)
	}

	var doc referenceDoc

	err = k.Unmarshal("", &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding reference catalog: %w", err)
	}

	c, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("reference catalog: %w", err)
	}

	return c, nil
}

type referenceDoc struct {
	Tours       []tourDoc       `koanf:"tours"`
	Vehicles    []vehicleDoc    `koanf:"vehicles"`
	Zones       []zoneDoc       `koanf:"zones"`
	Attractions []attractionDoc `koanf:"attractions"`
	Combos      []comboDoc      `koanf:"combos"`
	Scripts     []scriptDoc     `koanf:"scripts"`
	Objections  []objectionDoc  `koanf:"objections"`
	SOPRules    []sopDoc        `koanf:"sop_rules"`
	CheatCodes  []cheatCodeDoc  `koanf:"cheat_codes"`
}

type tourDoc struct {
	ID           string   `koanf:"id"`
	Name         string   `koanf:"name"`
	Category     string   `koanf:"category"`
	Pickup       string   `koanf:"pickup"`
	Duration     string   `koanf:"duration"`
	Highlights   []string `koanf:"highlights"`
	Inclusions   []string `koanf:"inclusions"`
	Requirements []string `koanf:"requirements"`
	ProTip       string   `koanf:"pro_tip"`
	Note         string   `koanf:"note"`
	DressCode    string   `koanf:"dress_code"`
	VisualCues   []string `koanf:"visual_cues"`
	Margin       string   `koanf:"margin"`
	Difficulty   string   `koanf:"difficulty"`
	IdealFor     []string `koanf:"ideal_for"`
	BestFor      string   `koanf:"best_for"`
	Tags         []string `koanf:"tags"`
	WaiverURL    string   `koanf:"waiver_url"`
}

type vehicleDoc struct {
	Vehicle         string `koanf:"vehicle"`
	Capacity        int    `koanf:"capacity"`
	FullDayDubai    int    `koanf:"full_day_dubai"`
	HalfDayDubai    int    `koanf:"half_day_dubai"`
	FullDayAbuDhabi int    `koanf:"full_day_abu_dhabi"`
	TransferDXB     int    `koanf:"transfer_dxb"`
}

type zoneDoc struct {
	Zone  int            `koanf:"zone"`
	Name  string         `koanf:"name"`
	Areas []string       `koanf:"areas"`
	Rates map[string]int `koanf:"rates"`
}

type attractionDoc struct {
	ID        string `koanf:"id"`
	Name      string `koanf:"name"`
	SellPrice int    `koanf:"sell_price"`
	NetPrice  int    `koanf:"net_price"`
	Category  string `koanf:"category"`
}

type comboDoc struct {
	ID         string   `koanf:"id"`
	Name       string   `koanf:"name"`
	Items      []string `koanf:"items"`
	TotalPrice int      `koanf:"total_price"`
	Savings    string   `koanf:"savings"`
	Tag        string   `koanf:"tag"`
	IdealFor   []string `koanf:"ideal_for"`
	Margin     string   `koanf:"margin"`
}

type scriptDoc struct {
	ID       string   `koanf:"id"`
	Category string   `koanf:"category"`
	Scenario string   `koanf:"scenario"`
	Script   string   `koanf:"script"`
	Tags     []string `koanf:"tags"`
}

type objectionDoc struct {
	ID        string `koanf:"id"`
	Objection string `koanf:"objection"`
	Category  string `koanf:"category"`
	Severity  string `koanf:"severity"`
	Response  string `koanf:"response"`
	FollowUp  string `koanf:"follow_up"`
	ProTip    string `koanf:"pro_tip"`
}

type sopDoc struct {
	ID          string `koanf:"id"`
	Category    string `koanf:"category"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	Importance  string `koanf:"importance"`
}

type cheatCodeDoc struct {
	ID         string `koanf:"id"`
	Type       string `koanf:"type"`
	Title      string `koanf:"title"`
	Details    string `koanf:"details"`
	PriceRange string `koanf:"price_range"`
}

func (d referenceDoc) toDomain() (*domain.Catalog, error) {
	c := &domain.Catalog{
		Tours:       make([]domain.Tour, 0, len(d.Tours)),
		Vehicles:    make([]domain.VehicleRate, 0, len(d.Vehicles)),
		Zones:       make([]domain.Zone, 0, len(d.Zones)),
		Attractions: make([]domain.Attraction, 0, len(d.Attractions)),
		Combos:      make([]domain.ComboPackage, 0, len(d.Combos)),
		Scripts:     make([]domain.WhatsAppScript, 0, len(d.Scripts)),
		Objections:  make([]domain.ObjectionHandler, 0, len(d.Objections)),
		SOPRules:    make([]domain.SOPRule, 0, len(d.SOPRules)),
		CheatCodes:  make([]domain.CheatCode, 0, len(d.CheatCodes)),
	}

	for _, t := range d.Tours {
		cat := domain.Category(t.Category)
		if !cat.Valid() {
			return nil, fmt.Errorf("tour %q: unknown category %q", t.ID, t.Category)
		}

		c.Tours = append(c.Tours, domain.Tour{
			ID:           t.ID,
			Name:         t.Name,
			Category:     cat,
			Pickup:       t.Pickup,
			Duration:     t.Duration,
			Highlights:   t.Highlights,
			Inclusions:   t.Inclusions,
			Requirements: t.Requirements,
			ProTip:       t.ProTip,
			Note:         t.Note,
			DressCode:    t.DressCode,
			VisualCues:   t.VisualCues,
			Margin:       domain.MarginTier(t.Margin),
			Difficulty:   domain.Difficulty(t.Difficulty),
			IdealFor:     t.IdealFor,
			BestFor:      t.BestFor,
			Tags:         t.Tags,
			WaiverURL:    t.WaiverURL,
		})
	}

	for _, v := range d.Vehicles {
		if v.Capacity <= 0 {
			return nil, fmt.Errorf("vehicle %q: capacity must be positive", v.Vehicle)
		}

		c.Vehicles = append(c.Vehicles, domain.VehicleRate(v))
	}

	for _, z := range d.Zones {
		rates := make(map[domain.CapacityBucket]int, len(z.Rates))

		for k, v := range z.Rates {
			rates[domain.CapacityBucket(k)] = v
		}

		c.Zones = append(c.Zones, domain.Zone{ID: z.Zone, Name: z.Name, Areas: z.Areas, Rates: rates})
	}

	for _, a := range d.Attractions {
		c.Attractions = append(c.Attractions, domain.Attraction{
			ID:        a.ID,
			Name:      a.Name,
			SellPrice: a.SellPrice,
			NetPrice:  a.NetPrice,
			Category:  domain.AttractionCategory(a.Category),
		})
	}

	for _, p := range d.Combos {
		c.Combos = append(c.Combos, domain.ComboPackage{
			ID:         p.ID,
			Name:       p.Name,
			Items:      p.Items,
			TotalPrice: p.TotalPrice,
			Savings:    p.Savings,
			Tag:        p.Tag,
			IdealFor:   p.IdealFor,
			Margin:     domain.MarginTier(p.Margin),
		})
	}

	for _, s := range d.Scripts {
		c.Scripts = append(c.Scripts, domain.WhatsAppScript{
			ID:       s.ID,
			Category: domain.ScriptCategory(s.Category),
			Scenario: s.Scenario,
			Script:   s.Script,
			Tags:     s.Tags,
		})
	}

	for _, o := range d.Objections {
		c.Objections = append(c.Objections, domain.ObjectionHandler{
			ID:        o.ID,
			Objection: o.Objection,
			Category:  domain.ObjectionCategory(o.Category),
			Severity:  domain.Severity(o.Severity),
			Response:  o.Response,
			FollowUp:  o.FollowUp,
			ProTip:    o.ProTip,
		})
	}

	for _, r := range d.SOPRules {
		c.SOPRules = append(c.SOPRules, domain.SOPRule(r))
	}

	for _, cc := range d.CheatCodes {
		c.CheatCodes = append(c.CheatCodes, domain.CheatCode(cc))
	}

	return c, nil
}
