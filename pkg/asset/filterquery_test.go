package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Filter
	}{
		{"empty", "   ", Filter{}},
		{"single equality", `asset_type = 'Model'`, Filter{AssetType: "Model"}},
		{
			"conjunction",
			`primary_bu = 'Cross-BU' AND readiness_score >= 3 AND use_cases LIKE '%nlp%'`,
			Filter{PrimaryBU: "Cross-BU", MinReadiness: 3, UseCase: "nlp"},
		},
		{"lowercase keywords", `q like "dock" and license_flag = "Green"`, Filter{Text: "dock", LicenseFlag: LicenseGreen}},
		{"alias", `min_ready >= 4`, Filter{MinReadiness: 4}},
		{"inner percent kept", `q LIKE '%100%%'`, Filter{Text: "100%"}},
		{"bare trailing wildcard", `q LIKE '100%'`, Filter{Text: "100"}},
		{"percent inside", `use_case LIKE 'a%b'`, Filter{UseCase: "a%b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilterQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"syntax", `asset_type 'Model'`},
		{"unknown field", `owner = 'alice'`},
		{"wrong operator", `asset_type LIKE 'Mod'`},
		{"repeated field", `asset_type = 'Model' AND asset_type = 'Dataset'`},
		{"repeated via alias", `q LIKE 'a' AND text LIKE 'b'`},
		{"non integer readiness", `readiness_score >= 'high'`},
		{"dangling and", `asset_type = 'Model' AND`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilterQuery(tt.query)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}
