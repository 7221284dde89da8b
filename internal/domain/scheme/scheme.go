// Package scheme holds the catalog of welfare schemes a claim can be
// matched against, plus the scoring knobs the eligibility engine reads.
package scheme

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// BenefitModel selects how a scheme's monetary benefit is computed.
type BenefitModel string

const (
	// BenefitFlat pays Amount once per accepted claim.
	BenefitFlat BenefitModel = "flat"
	// BenefitPerHectare pays Amount per hectare of recognized land.
	BenefitPerHectare BenefitModel = "per_hectare"
)

// Horizon is the implementation-plan bucket a scheme lands in.
type Horizon string

const (
	HorizonImmediate Horizon = "immediate"
	HorizonShort     Horizon = "short_term"
	HorizonMedium    Horizon = "medium_term"
	HorizonLong      Horizon = "long_term"
)

// Benefit is a scheme's payout rule.
type Benefit struct {
	Model  BenefitModel `yaml:"model" json:"model"`
	Amount int64        `yaml:"amount" json:"amount"`
}

// LandRule constrains the claimed parcel.  A zero MaxAreaHectares means no
// area ceiling; an empty AllowedUses list admits any use.
type LandRule struct {
	MaxAreaHectares float64        `yaml:"max_area_hectares" json:"max_area_hectares"`
	AllowedUses     []claim.LandUse `yaml:"allowed_uses" json:"allowed_uses"`
}

// Empty reports whether the rule constrains nothing, in which case the land
// category is omitted from scoring entirely.
func (r LandRule) Empty() bool {
	return r.MaxAreaHectares == 0 && len(r.AllowedUses) == 0
}

// Definition is one catalog entry.
type Definition struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Agency string `yaml:"agency" json:"agency"`

	// Regions lists states or districts where the scheme operates.  Empty
	// means nationwide.
	Regions []string `yaml:"regions" json:"regions,omitempty"`

	// RequiresApproval gates the scheme on the claim already being
	// approved; otherwise a submitted claim qualifies.
	RequiresApproval bool `yaml:"requires_approval" json:"requires_approval"`

	// PriorityPopulation names a tribal group or marks forest dwellers as
	// the target population.  Empty means the community category does not
	// apply.
	PriorityPopulation string `yaml:"priority_population" json:"priority_population,omitempty"`

	Land    LandRule `yaml:"land" json:"land"`
	Benefit Benefit  `yaml:"benefit" json:"benefit"`

	// Urgent schemes land in earlier plan buckets and qualify for the
	// high-priority tier.
	Urgent  bool    `yaml:"urgent" json:"urgent"`
	Horizon Horizon `yaml:"horizon" json:"horizon"`
}

// EstimateBenefit computes the payout for a claim in whole rupees.  The
// per-hectare model rounds half up.
func (d *Definition) EstimateBenefit(snap *claim.Snapshot) common.Money {
	switch d.Benefit.Model {
	case BenefitPerHectare:
		amount := int64(math.Round(float64(d.Benefit.Amount) * snap.Land.AreaHectares))
		return common.INR(amount)
	default:
		return common.INR(d.Benefit.Amount)
	}
}

// Catalog is an ordered, immutable set of scheme definitions.  Order is the
// tie-break of last resort when ranking.
type Catalog struct {
	defs []Definition
	byID map[string]*Definition
}

// NewCatalog validates and indexes definitions.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if d.ID == "" || d.Name == "" {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "scheme catalog: entry %d is missing id or name", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "scheme catalog: duplicate scheme %q", d.ID)
		}
		switch d.Benefit.Model {
		case BenefitFlat, BenefitPerHectare:
		default:
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "scheme catalog: scheme %q has unknown benefit model %q", d.ID, d.Benefit.Model)
		}
		switch d.Horizon {
		case HorizonImmediate, HorizonShort, HorizonMedium, HorizonLong:
		default:
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "scheme catalog: scheme %q has unknown horizon %q", d.ID, d.Horizon)
		}
		c.defs = append(c.defs, d)
		c.byID[d.ID] = &c.defs[len(c.defs)-1]
	}
	return c, nil
}

// All returns the definitions in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns a definition by ID.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Len returns the catalog size.
func (c *Catalog) Len() int { return len(c.defs) }

type catalogFile struct {
	Schemes []Definition `yaml:"schemes"`
}

// LoadCatalog reads a YAML scheme catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, fmt.Sprintf("scheme catalog: read %q", path))
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, fmt.Sprintf("scheme catalog: parse %q", path))
	}
	if len(file.Schemes) == 0 {
		return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "scheme catalog: %q defines no schemes", path)
	}
	return NewCatalog(file.Schemes)
}

// DefaultCatalog returns the built-in catalog used when no YAML override is
// supplied.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Definition{
		{
			ID:                 "fra_title",
			Name:               "Forest Rights Title Recognition",
			Agency:             "Ministry of Tribal Affairs",
			PriorityPopulation: "forest_dweller",
			Land: LandRule{
				MaxAreaHectares: 4.0,
				AllowedUses:     []claim.LandUse{claim.UseAgriculture, claim.UseHabitation, claim.UseBoth},
			},
			Benefit: Benefit{Model: BenefitFlat, Amount: 0},
			Urgent:  true,
			Horizon: HorizonImmediate,
		},
		{
			ID:                 "pm_kisan",
			Name:               "PM-KISAN Income Support",
			Agency:             "Ministry of Agriculture",
			RequiresApproval:   true,
			Land: LandRule{
				MaxAreaHectares: 2.0,
				AllowedUses:     []claim.LandUse{claim.UseAgriculture},
			},
			Benefit: Benefit{Model: BenefitFlat, Amount: 6000},
			Horizon: HorizonShort,
		},
		{
			ID:      "mgnrega_job_card",
			Name:    "MGNREGA Job Card Enrollment",
			Agency:  "Ministry of Rural Development",
			Benefit: Benefit{Model: BenefitFlat, Amount: 30000},
			Urgent:  true,
			Horizon: HorizonImmediate,
		},
		{
			ID:                 "van_dhan",
			Name:               "Van Dhan Vikas Livelihood",
			Agency:             "TRIFED",
			PriorityPopulation: "forest_dweller",
			Benefit:            Benefit{Model: BenefitFlat, Amount: 15000},
			Horizon:            HorizonMedium,
		},
		{
			ID:               "land_development",
			Name:             "Recognized Land Development Grant",
			Agency:           "State Tribal Welfare Department",
			RequiresApproval: true,
			Land: LandRule{
				MaxAreaHectares: 4.0,
				AllowedUses:     []claim.LandUse{claim.UseAgriculture, claim.UseBoth},
			},
			Benefit: Benefit{Model: BenefitPerHectare, Amount: 25000},
			Horizon: HorizonMedium,
		},
		{
			ID:      "pmay_gramin",
			Name:    "PMAY-G Rural Housing",
			Agency:  "Ministry of Rural Development",
			Land: LandRule{
				AllowedUses: []claim.LandUse{claim.UseHabitation, claim.UseBoth},
			},
			Benefit: Benefit{Model: BenefitFlat, Amount: 130000},
			Horizon: HorizonLong,
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
