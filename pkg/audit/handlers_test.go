package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ListAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	first := newEvent("create", OutcomeSuccess, "1", now.Add(-2*time.Second))
	second := newEvent("delete", OutcomeSuccess, "1", now.Add(-time.Second))
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	srv := httptest.NewServer(Router(store, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?pageSize=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Events        []Event `json:"events"`
		NextPageToken string  `json:"nextPageToken"`
		TotalSize     int     `json:"totalSize"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.TotalSize)
	require.Len(t, body.Events, 1)
	assert.Equal(t, second.ID, body.Events[0].ID)
	assert.NotEmpty(t, body.NextPageToken)

	resp2, err := http.Get(srv.URL + "/events/" + first.ID)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var got Event
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&got))
	assert.Equal(t, "create", got.Action)
}

func TestRouter_Errors(t *testing.T) {
	srv := httptest.NewServer(Router(newTestStore(t), nil))
	defer srv.Close()

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown event", "/events/does-not-exist", http.StatusNotFound},
		{"bad page size", "/events?pageSize=zero", http.StatusBadRequest},
		{"bad page token", "/events?pageToken=yesterday", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRouter_EmptyListIsArray(t *testing.T) {
	srv := httptest.NewServer(Router(newTestStore(t), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.JSONEq(t, "[]", string(body["events"]))
}
