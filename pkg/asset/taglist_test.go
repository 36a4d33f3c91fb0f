package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagList(t *testing.T) {
	tl := NewTagList("  PK/PD ", "", "   ", "Benchmarking")
	assert.Equal(t, TagList{"PK/PD", "Benchmarking"}, tl)
	assert.True(t, tl.Contains("PK/PD"))
	assert.False(t, tl.Contains("pk/pd"))

	assert.NotNil(t, NewTagList())
	assert.Empty(t, NewTagList())
}

func TestTagList_Value(t *testing.T) {
	v, err := TagList{"a|b", " c "}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a|b","c"]`, v)

	v, err = TagList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestTagList_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  TagList
	}{
		{"nil", nil, TagList{}},
		{"empty string", "", TagList{}},
		{"json array", `["RAG / Search","PK/PD"]`, TagList{"RAG / Search", "PK/PD"}},
		{"json bytes", []byte(`["x"]`), TagList{"x"}},
		{"json with blanks", `["x", "  ", ""]`, TagList{"x"}},
		{"malformed json", `["x"`, TagList{}},
		{"legacy pipes", "PK/PD| Benchmarking ||", TagList{"PK/PD", "Benchmarking"}},
		{"legacy single", "Knowledge graph", TagList{"Knowledge graph"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tl TagList
			require.NoError(t, tl.Scan(tt.input))
			assert.Equal(t, tt.want, tl)
		})
	}

	var tl TagList
	assert.Error(t, tl.Scan(42))
}

func TestTagList_MarshalJSONNeverNull(t *testing.T) {
	b, err := json.Marshal(struct {
		Tags TagList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(b))
}
