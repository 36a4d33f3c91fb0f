package audit

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func newEvent(action, outcome, resourceID string, at time.Time) *Event {
	return &Event{
		ID:           uuid.New().String(),
		Method:       "POST",
		Path:         "/api/v1/assets",
		ResourceType: "assets",
		ResourceID:   resourceID,
		Action:       action,
		Outcome:      outcome,
		StatusCode:   201,
		CreatedAt:    at.UTC(),
	}
}

func TestStore_AppendAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := newEvent("create", OutcomeSuccess, "7", time.Now())
	event.Metadata = datatypes.JSONMap{"userAgent": "scoutctl"}
	require.NoError(t, store.Append(ctx, event))

	got, err := store.Get(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "create", got.Action)
	assert.Equal(t, "7", got.ResourceID)
	assert.Equal(t, "scoutctl", got.Metadata["userAgent"])

	missing, err := store.Get(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListPaginatesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, newEvent("create", OutcomeSuccess, "1", base.Add(time.Duration(i)*time.Minute))))
	}

	page, next, total, err := store.List(ctx, ListFilter{}, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.NotEmpty(t, next)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	seen := len(page)
	for next != "" {
		page, next, _, err = store.List(ctx, ListFilter{}, 2, next)
		require.NoError(t, err)
		seen += len(page)
	}
	assert.Equal(t, 5, seen)
}

func TestStore_ListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Append(ctx, newEvent("create", OutcomeSuccess, "1", now.Add(-3*time.Second))))
	require.NoError(t, store.Append(ctx, newEvent("update", OutcomeFailure, "1", now.Add(-2*time.Second))))
	require.NoError(t, store.Append(ctx, newEvent("delete", OutcomeSuccess, "2", now.Add(-time.Second))))

	events, _, total, err := store.List(ctx, ListFilter{Outcome: OutcomeSuccess}, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, events, 2)

	events, _, total, err = store.List(ctx, ListFilter{Action: "update"}, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, OutcomeFailure, events[0].Outcome)

	_, _, total, err = store.List(ctx, ListFilter{ResourceID: "1"}, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestStore_ListInvalidToken(t *testing.T) {
	store := newTestStore(t)

	_, _, _, err := store.List(context.Background(), ListFilter{}, 10, "yesterday")
	assert.ErrorIs(t, err, ErrInvalidPageToken)
}
