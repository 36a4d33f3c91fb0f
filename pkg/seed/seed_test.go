package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/excelra/asset-scout/pkg/asset"
)

var today = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

func TestDecode_JSONDefaults(t *testing.T) {
	doc := `[
		{"name": "ChEMBL", "url": "https://www.ebi.ac.uk/chembl/", "short_summary": "Bioactivity data",
		 "primary_bu": "Chemistry Services", "asset_type": "Dataset", "license_flag": "Yellow",
		 "readiness_score": 5, "use_cases": ["Bioactivity curation", " "]},
		{"name": "Bare", "url": "u", "short_summary": "s", "primary_bu": "Cross-BU",
		 "asset_type": "Model", "license_flag": "Green", "last_validated_on": "2023-11-02"}
	]`

	assets, err := Decode(strings.NewReader(doc), today)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, 5, assets[0].ReadinessScore)
	assert.Equal(t, 3, assets[0].EngineeringScore)
	assert.Equal(t, asset.TagList{"Bioactivity curation"}, assets[0].UseCases)
	assert.Equal(t, asset.TagList{}, assets[0].SecondaryBUs)
	assert.Equal(t, "2025-03-09", assets[0].LastValidatedOn)

	assert.Equal(t, "2023-11-02", assets[1].LastValidatedOn)
	assert.Equal(t, "", assets[1].Notes)
}

func TestDecode_YAML(t *testing.T) {
	doc := `
- name: RDKit
  url: https://www.rdkit.org
  short_summary: Cheminformatics toolkit
  primary_bu: Chemistry Services
  asset_type: Library
  license_flag: Green
  maintenance_score: 0
`
	assets, err := Decode(strings.NewReader(doc), today)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "RDKit", assets[0].Name)
	assert.Equal(t, 0, assets[0].MaintenanceScore)
}

func TestDecode_EmptyAndInvalid(t *testing.T) {
	assets, err := Decode(strings.NewReader(""), today)
	require.NoError(t, err)
	assert.Empty(t, assets)

	_, err = Decode(strings.NewReader(`{"name": "not a list"}`), today)
	assert.Error(t, err)
}

func TestFileSource_MissingFileIsNotFatal(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), nil)
	assets, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)

	assets, err = NewFileSource("", nil).Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestFileSource_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: a\n  url: u\n  short_summary: s\n"), 0o600))

	assets, err := NewFileSource(path, nil).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "a", assets[0].Name)
}

func TestFileSource_ShippedSeedIsValid(t *testing.T) {
	assets, err := NewFileSource("../../seed_assets.yaml", nil).Records(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, assets)

	v := asset.NewValidator(asset.DefaultVocabulary())
	for i := range assets {
		assert.NoError(t, v.Validate(asset.PayloadFromAsset(&assets[i])), assets[i].Name)
	}
}
