package asset

import (
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(name string, r, e, m int) Asset {
	a := sampleAsset(name)
	a.ReadinessScore, a.EngineeringScore, a.MaintenanceScore = r, e, m
	return *a
}

func names(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Name
	}
	return out
}

func TestApply_SortIsStableByScores(t *testing.T) {
	records := []Asset{
		scored("first", 5, 1, 1),
		scored("second", 5, 1, 1),
		scored("third", 5, 2, 0),
		scored("fourth", 3, 5, 5),
	}

	got := Apply(records, Filter{})
	assert.Equal(t, []string{"third", "first", "second", "fourth"}, names(got))
	assert.Equal(t, "first", records[0].Name, "input must not be reordered")
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Filter{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func conjunctionRecords() []Asset {
	nlp := scored("nlp-model", 4, 4, 4)
	nlp.AssetType = "Model"
	nlp.PrimaryBU = "Bioinformatics Services"
	nlp.UseCases = TagList{"Biomedical NLP / NER"}

	screening := scored("docking-pipeline", 5, 3, 3)
	screening.AssetType = "Pipeline"
	screening.UseCases = TagList{"Virtual screening / Docking"}
	screening.LicenseFlag = LicenseRed

	kg := scored("kg", 2, 2, 2)
	kg.AssetType = "Model"
	kg.Notes = "internal NLP graph"
	kg.UseCases = TagList{"Knowledge graph"}

	return []Asset{nlp, screening, kg}
}

func TestApply_Conjunction(t *testing.T) {
	records := conjunctionRecords()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"docking-pipeline", "nlp-model", "kg"}},
		{"text matches notes and use cases", Filter{Text: "nlp"}, []string{"nlp-model", "kg"}},
		{"text is case insensitive", Filter{Text: "DOCKING"}, []string{"docking-pipeline"}},
		{"text matches url", Filter{Text: "example.org/kg"}, []string{"kg"}},
		{"asset type", Filter{AssetType: "Model"}, []string{"nlp-model", "kg"}},
		{"type and text", Filter{AssetType: "Model", Text: "graph"}, []string{"kg"}},
		{"primary bu exact", Filter{PrimaryBU: "Bioinformatics Services"}, []string{"nlp-model"}},
		{"license", Filter{LicenseFlag: LicenseRed}, []string{"docking-pipeline"}},
		{"min readiness", Filter{MinReadiness: 4}, []string{"docking-pipeline", "nlp-model"}},
		{"use case substring", Filter{UseCase: "screening"}, []string{"docking-pipeline"}},
		{"use case case insensitive", Filter{UseCase: "knowledge"}, []string{"kg"}},
		{"no match", Filter{AssetType: "Ontology"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(records, tt.filter)
			assert.Equal(t, tt.want, names(got))
			for i := range got {
				assert.True(t, tt.filter.Matches(&got[i]))
			}
		})
	}
}

func TestApply_CombinedFiltersIntersect(t *testing.T) {
	records := conjunctionRecords()
	singles := []Filter{
		{Text: "nlp"},
		{AssetType: "Model"},
		{MinReadiness: 4},
		{UseCase: "g"},
		{LicenseFlag: LicenseRed},
		{PrimaryBU: "Bioinformatics Services"},
	}
	browse := names(Apply(records, Filter{}))

	intersect := func(filters ...Filter) []string {
		out := []string{}
		for _, name := range browse {
			keep := true
			for _, f := range filters {
				keep = keep && slices.Contains(names(Apply(records, f)), name)
			}
			if keep {
				out = append(out, name)
			}
		}
		return out
	}

	for i := range singles {
		for j := i + 1; j < len(singles); j++ {
			combined := singles[i].Merge(singles[j])
			assert.Equal(t, intersect(singles[i], singles[j]), names(Apply(records, combined)),
				"pair %+v and %+v", singles[i], singles[j])

			for k := j + 1; k < len(singles); k++ {
				combined := combined.Merge(singles[k])
				assert.Equal(t, intersect(singles[i], singles[j], singles[k]), names(Apply(records, combined)),
					"triple %+v, %+v and %+v", singles[i], singles[j], singles[k])
			}
		}
	}
}

func TestFilterFromValues(t *testing.T) {
	q := url.Values{}
	q.Set("q", "  nlp ")
	q.Set("asset_type", "Model")
	q.Set("min_ready", "3")

	f, err := FilterFromValues(q)
	require.NoError(t, err)
	assert.Equal(t, "nlp", f.Text)
	assert.Equal(t, "Model", f.AssetType)
	assert.Equal(t, 3, f.MinReadiness)
	assert.Empty(t, f.PrimaryBU)
	assert.Equal(t, "nlp", f.Values().Get("q"))
	assert.Equal(t, "3", f.Values().Get("min_ready"))
	assert.NotContains(t, f.Values(), "primary_bu")

	q.Set("min_ready", "high")
	_, err = FilterFromValues(q)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestFilter_Merge(t *testing.T) {
	base := Filter{Text: "nlp", AssetType: "Model"}
	got := base.Merge(Filter{AssetType: "Dataset", MinReadiness: 2})
	assert.Equal(t, Filter{Text: "nlp", AssetType: "Dataset", MinReadiness: 2}, got)
}

func TestFilter_MergeExplicitZeroReadiness(t *testing.T) {
	base, err := ParseFilterQuery(`readiness_score >= 4`)
	require.NoError(t, err)

	explicit, err := FilterFromValues(url.Values{ParamMinReadiness: {"0"}})
	require.NoError(t, err)
	got := base.Merge(explicit)
	assert.Equal(t, 0, got.MinReadiness)
	assert.Equal(t, "0", got.Values().Get(ParamMinReadiness))

	absent, err := FilterFromValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 4, base.Merge(absent).MinReadiness)
}
