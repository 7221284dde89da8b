package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/document"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claim.txt")
	content := "Applicant Name: Ramu Majhi\n" +
		"Village: Salebhata\n" +
		"District: Bargarh\n" +
		"Land Area Hectares: 1.8\n" +
		"Land Use Type: agriculture\n" +
		"Occupation Date: 2003-06-15\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runCommand(t, "process", path, "--type", "fra_claim_form")
	require.NoError(t, err)

	var result struct {
		TypeTag    string                     `json:"type_tag"`
		Extraction document.ExtractionResult  `json:"extraction"`
		Entities   document.EntitySet         `json:"entities"`
		Fields     document.FieldSet          `json:"fields"`
		Validation *document.ValidationResult `json:"validation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "fra_claim_form", result.TypeTag)
	assert.Equal(t, 1.0, result.Extraction.Confidence)
	assert.Contains(t, result.Entities.People, "Ramu Majhi")
	assert.Equal(t, 1.8, result.Fields["land_area_hectares"])
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.IsValid, "errors: %v", result.Validation.Errors)
}

func TestProcessCommandUnknownType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := runCommand(t, "process", path, "--type", "ration_card")
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	snap := claim.NewSnapshot(claim.Applicant{
		Name:          "Ramu Majhi",
		TribalGroup:   "Gond",
		ForestDweller: true,
	}, "Salebhata", "Bargarh", "Odisha",
		claim.Land{AreaHectares: 1.8, UseType: claim.UseAgriculture})
	snap.Status = claim.StatusApproved
	snap.AttachDocument("doc-1")

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "claim.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := runCommand(t, "analyze", path)
	require.NoError(t, err)

	var result analysisOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, snap.ID.String(), result.ClaimID)
	assert.NotEmpty(t, result.EligibilityMatrix)
	assert.NotEmpty(t, result.RecommendedSchemes)
	require.NotNil(t, result.ImplementationPlan)
	assert.Greater(t, result.ImpactAssessment.SuccessProbability, 0.0)
}

func TestAnalyzeCommandBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := runCommand(t, "analyze", path)
	assert.Error(t, err)
}
