package assignment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Assignment{}))
	return NewService(NewRepo(db))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func essayInput() CreateInput {
	return CreateInput{
		Title:   "Essay",
		Subject: "English",
		Type:    "homework",
		DueDate: "2024-06-01",
	}
}

func TestCreateGeneratesIDAndDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", essayInput())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Completed)
	assert.False(t, a.CreatedAt.IsZero())
	assert.False(t, a.UpdatedAt.IsZero())

	// completed must serialize as a real boolean
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"completed":false`)
	assert.NotContains(t, string(b), `"userId"`)
}

func TestCreateKeepsCallerSuppliedID(t *testing.T) {
	svc := newTestService(t)

	in := essayInput()
	in.ID = "client-id-1"
	in.Completed = boolPtr(true)
	a, err := svc.Create(context.Background(), "alice", in)
	require.NoError(t, err)
	assert.Equal(t, "client-id-1", a.ID)
	assert.True(t, a.Completed)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		field  string
		mutate func(*CreateInput)
	}{
		{"title", func(in *CreateInput) { in.Title = "" }},
		{"subject", func(in *CreateInput) { in.Subject = "  " }},
		{"type", func(in *CreateInput) { in.Type = "" }},
		{"dueDate", func(in *CreateInput) { in.DueDate = "" }},
	}
	for _, tc := range cases {
		in := essayInput()
		tc.mutate(&in)
		_, err := svc.Create(ctx, "alice", in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, tc.field)
		assert.Equal(t, tc.field, ve.Field)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", CreateInput{
		Title: "Essay", Subject: "English", Type: "homework",
		DueDate: "2024-06-01", Description: "ch. 4",
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	got, err := svc.Update(ctx, "alice", a.ID, UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)

	assert.True(t, got.Completed)
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, "English", got.Subject)
	assert.Equal(t, "homework", got.Type)
	assert.Equal(t, "2024-06-01", got.DueDate)
	assert.Equal(t, "ch. 4", got.Description)
	assert.True(t, got.UpdatedAt.After(a.UpdatedAt))
}

func TestUpdateEmptyPayloadOnlyTouchesUpdatedAt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", essayInput())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	got, err := svc.Update(ctx, "alice", a.ID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Completed, got.Completed)
	assert.True(t, got.UpdatedAt.After(a.UpdatedAt))
}

func TestUpdateRejectsEmptyRequiredField(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", essayInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", a.ID, UpdateInput{Title: strPtr(" ")})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(context.Background(), "alice", "nope", UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCrossUserRecordsLookMissing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "bob", essayInput())
	require.NoError(t, err)

	// Alice holding Bob's id gets NotFound, never a permission error.
	_, err = svc.Update(ctx, "alice", a.ID, UpdateInput{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", a.ID), ErrNotFound)

	// Bob's record is untouched.
	items, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Completed)
}

func TestDeleteTwiceReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", essayInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", a.ID), ErrNotFound)
}

func TestListOrderedByDueDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Title: "Later", Subject: "Math", Type: "homework", DueDate: "2024-07-01"},
		{Title: "Sooner", Subject: "Math", Type: "homework", DueDate: "2024-05-01"},
		{Title: "Middle", Subject: "Math", Type: "homework", DueDate: "2024-06-01"},
	} {
		_, err := svc.Create(ctx, "alice", in)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Sooner", items[0].Title)
	assert.Equal(t, "Middle", items[1].Title)
	assert.Equal(t, "Later", items[2].Title)
}

func TestSyncIsAFullReplace(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice", essayInput())
		require.NoError(t, err)
	}

	items, err := svc.Sync(ctx, "alice", []SyncItem{
		{CreateInput: CreateInput{Title: "Only", Subject: "Math", Type: "quiz", DueDate: "2024-06-15"}},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Only", items[0].Title)

	got, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSyncReplacesPriorDataOrdered(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreateInput{Title: "Old", Subject: "History", Type: "homework", DueDate: "2024-01-01"})
	require.NoError(t, err)

	items, err := svc.Sync(ctx, "alice", []SyncItem{
		{CreateInput: CreateInput{Title: "B", Subject: "Math", Type: "homework", DueDate: "2024-06-02"}},
		{CreateInput: CreateInput{Title: "A", Subject: "Math", Type: "homework", DueDate: "2024-06-01"}},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "B", items[1].Title)
}

func TestSyncAtomicOnBadItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice", essayInput())
		require.NoError(t, err)
	}

	_, err := svc.Sync(ctx, "alice", []SyncItem{
		{CreateInput: CreateInput{Title: "Fine", Subject: "Math", Type: "homework", DueDate: "2024-06-01"}},
		{CreateInput: CreateInput{Title: "", Subject: "Math", Type: "homework", DueDate: "2024-06-02"}},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// pre-sync set fully intact, no partial delete
	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSyncPreservesPayloadCreatedAt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	orig := time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC)
	items, err := svc.Sync(ctx, "alice", []SyncItem{
		{
			CreateInput: CreateInput{Title: "Kept", Subject: "Math", Type: "homework", DueDate: "2024-06-01"},
			CreatedAt:   &orig,
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.WithinDuration(t, orig, items[0].CreatedAt, time.Second)
}

func TestSyncDuplicateIDLastWriteWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items, err := svc.Sync(ctx, "alice", []SyncItem{
		{CreateInput: CreateInput{ID: "dup", Title: "First", Subject: "Math", Type: "homework", DueDate: "2024-06-01"}},
		{CreateInput: CreateInput{ID: "dup", Title: "Second", Subject: "Math", Type: "homework", DueDate: "2024-06-01"}},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Second", items[0].Title)
}

func TestSyncEmptyListClearsEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", essayInput())
	require.NoError(t, err)

	items, err := svc.Sync(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSyncScopedToUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "bob", essayInput())
	require.NoError(t, err)

	_, err = svc.Sync(ctx, "alice", []SyncItem{
		{CreateInput: CreateInput{Title: "Mine", Subject: "Math", Type: "homework", DueDate: "2024-06-01"}},
	})
	require.NoError(t, err)

	bobs, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 1, "a sync by alice must not touch bob's rows")
}
