package scheme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/pkg/errors"
)

func TestDefaultCatalogWellFormed(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 6, c.Len())

	seen := map[string]bool{}
	for _, d := range c.All() {
		assert.False(t, seen[d.ID], d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Agency, d.ID)
	}

	fra, ok := c.Get("fra_title")
	require.True(t, ok)
	assert.True(t, fra.Urgent)
	assert.Equal(t, HorizonImmediate, fra.Horizon)
}

func TestEstimateBenefit(t *testing.T) {
	snap := &claim.Snapshot{Land: claim.Land{AreaHectares: 1.5}}

	flat := &Definition{Benefit: Benefit{Model: BenefitFlat, Amount: 6000}}
	assert.Equal(t, int64(6000), flat.EstimateBenefit(snap).Amount)

	perHa := &Definition{Benefit: Benefit{Model: BenefitPerHectare, Amount: 25000}}
	assert.Equal(t, int64(37500), perHa.EstimateBenefit(snap).Amount)

	snap.Land.AreaHectares = 0.333
	assert.Equal(t, int64(8325), perHa.EstimateBenefit(snap).Amount)
}

func TestLandRuleEmpty(t *testing.T) {
	assert.True(t, LandRule{}.Empty())
	assert.False(t, LandRule{MaxAreaHectares: 2}.Empty())
	assert.False(t, LandRule{AllowedUses: []claim.LandUse{claim.UseAgriculture}}.Empty())
}

func TestNewCatalogRejectsBadEntries(t *testing.T) {
	valid := Definition{
		ID: "a", Name: "A", Agency: "X",
		Benefit: Benefit{Model: BenefitFlat},
		Horizon: HorizonShort,
	}

	_, err := NewCatalog([]Definition{valid, valid})
	assert.Error(t, err, "duplicate id")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogInvalid))

	bad := valid
	bad.Benefit.Model = "lump_sum"
	_, err = NewCatalog([]Definition{bad})
	assert.Error(t, err, "unknown benefit model")

	bad = valid
	bad.Horizon = "someday"
	_, err = NewCatalog([]Definition{bad})
	assert.Error(t, err, "unknown horizon")

	bad = valid
	bad.ID = ""
	_, err = NewCatalog([]Definition{bad})
	assert.Error(t, err, "missing id")
}

func TestLoadCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.yaml")
	content := `
schemes:
  - id: test_grant
    name: Test Grant
    agency: Test Agency
    regions: [Odisha]
    priority_population: forest_dweller
    land:
      max_area_hectares: 2.5
      allowed_uses: [agriculture]
    benefit:
      model: per_hectare
      amount: 10000
    urgent: true
    horizon: immediate
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	d, ok := c.Get("test_grant")
	require.True(t, ok)
	assert.Equal(t, []string{"Odisha"}, d.Regions)
	assert.Equal(t, 2.5, d.Land.MaxAreaHectares)
	assert.Equal(t, BenefitPerHectare, d.Benefit.Model)
	assert.True(t, d.Urgent)
}

func TestScoringConfigDefaultsAndValidate(t *testing.T) {
	cfg := DefaultScoringConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.20, cfg.GeographicWeight)
	assert.Equal(t, 0.25, cfg.StatusWeight)
	assert.Equal(t, 0.15, cfg.CommunityWeight)
	assert.Equal(t, 0.20, cfg.LandWeight)
	assert.Equal(t, 0.20, cfg.DocumentationWeight)
	assert.Equal(t, 0.6, cfg.EligibleThreshold)
	assert.Equal(t, 0.8, cfg.HighThreshold)
	assert.Equal(t, 0.7, cfg.MediumThreshold)

	bad := cfg
	bad.LandWeight = 1.2
	err := bad.Validate()
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeScoringConfig))

	bad = cfg
	bad.HighThreshold = 0.5
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.GeographicWeight, bad.StatusWeight, bad.CommunityWeight, bad.LandWeight, bad.DocumentationWeight = 0, 0, 0, 0, 0
	assert.Error(t, bad.Validate())
}
