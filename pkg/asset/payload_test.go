package asset

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScore_UnmarshalJSON(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"readiness_score": 4, "engineering_score": "2", "maintenance_score": null}`), &p))
	assert.Equal(t, Score("4"), p.ReadinessScore)
	assert.Equal(t, Score("2"), p.EngineeringScore)
	assert.Equal(t, Score(""), p.MaintenanceScore)

	require.NoError(t, json.Unmarshal([]byte(`{"readiness_score": "lots"}`), &p))
	assert.Equal(t, Score("lots"), p.ReadinessScore)

	assert.Error(t, json.Unmarshal([]byte(`{"readiness_score": [1]}`), &p))
}

func TestScore_IntegralNumbers(t *testing.T) {
	tests := []struct {
		body string
		want Score
	}{
		{`3.0`, "3"},
		{`5.00`, "5"},
		{`4e0`, "4"},
		{`-0.0`, "0"},
		{`2.5`, "2.5"},
		{`"3.0"`, "3.0"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var p Payload
			require.NoError(t, json.Unmarshal([]byte(`{"readiness_score": `+tt.body+`}`), &p))
			assert.Equal(t, tt.want, p.ReadinessScore)
		})
	}

	v := NewValidator(DefaultVocabulary())
	p := validPayload()
	require.NoError(t, json.Unmarshal([]byte(`{"readiness_score": 3.0}`), &p))
	assert.NoError(t, v.Validate(p.Normalize()))
	require.NoError(t, json.Unmarshal([]byte(`{"readiness_score": 2.5}`), &p))
	assert.Error(t, v.Validate(p.Normalize()))
}

func TestScore_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Score{"a": "3", "b": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":"x"}`, string(b))
}

func TestScore_UnmarshalYAML(t *testing.T) {
	var p Payload
	require.NoError(t, yaml.Unmarshal([]byte("readiness_score: 5\nengineering_score: '1'\n"), &p))
	assert.Equal(t, Score("5"), p.ReadinessScore)
	assert.Equal(t, Score("1"), p.EngineeringScore)

	require.NoError(t, yaml.Unmarshal([]byte("readiness_score: 4.0\nengineering_score: '4.0'\n"), &p))
	assert.Equal(t, Score("4"), p.ReadinessScore)
	assert.Equal(t, Score("4.0"), p.EngineeringScore)

	assert.Error(t, yaml.Unmarshal([]byte("readiness_score: [1, 2]\n"), &p))
}

func TestPayload_Normalize(t *testing.T) {
	p := Payload{
		Name:             "  ChEMBL ",
		SecondaryBUs:     []string{" Cross-BU", "", "  "},
		MaintenanceScore: " 2 ",
	}.Normalize()

	assert.Equal(t, "ChEMBL", p.Name)
	assert.Equal(t, []string{"Cross-BU"}, p.SecondaryBUs)
	assert.Empty(t, p.UseCases)
	assert.Equal(t, Score("3"), p.ReadinessScore)
	assert.Equal(t, Score("3"), p.EngineeringScore)
	assert.Equal(t, Score("2"), p.MaintenanceScore)
}

func TestPayloadFromForm(t *testing.T) {
	form := url.Values{
		"name":              {" Tox21 "},
		"secondary_bus":     {"Chemistry Services", "Cross-BU"},
		"use_cases":         {"ADMET / Property prediction"},
		"readiness_score":   {"4"},
		"last_validated_on": {"2024-01-02"},
	}
	p := PayloadFromForm(form)
	assert.Equal(t, "Tox21", p.Name)
	assert.Equal(t, []string{"Chemistry Services", "Cross-BU"}, p.SecondaryBUs)
	assert.Equal(t, Score("4"), p.ReadinessScore)
	assert.Equal(t, Score(""), p.EngineeringScore)
	assert.Equal(t, "2024-01-02", p.LastValidatedOn)
}

func TestPayloadFromAsset_RoundTrip(t *testing.T) {
	a := sampleAsset("roundtrip")
	a.ReadinessScore = 0
	got := PayloadFromAsset(a).Normalize().toAsset()
	assert.Equal(t, a, got)
}
