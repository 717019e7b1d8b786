package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avelines/gradeboard/internal/database/testutil"
)

func TestDatabaseStoreSetGetRoundTrip(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	value, ok, err := store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, value)

	require.NoError(t, store.Set(ctx, "students:all", []byte(`[]`), 5*time.Minute))

	value, ok, err = store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`[]`), value)
}

func TestDatabaseStoreSetReplacesExistingEntry(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "students:all", []byte("old"), time.Minute))
	require.NoError(t, store.Set(ctx, "students:all", []byte("new"), time.Minute))

	value, ok, err := store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("new"), value)
}

func TestDatabaseStoreTTLExpiry(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "students:all", []byte(`[]`), 30*time.Second))

	_, ok, err := store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.True(t, ok)

	// advance past the entry's TTL
	current = current.Add(31 * time.Second)

	_, ok, err = store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStoreDeletePrefix(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, NamespaceStudents.Key(DiscriminatorAll), []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, NamespaceStudents.Key(FilterDiscriminator("zoe")), []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "metrics:cache", []byte("c"), time.Minute))

	deleted, err := store.DeletePrefix(ctx, NamespaceStudents.Prefix())
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	_, ok, err := store.Get(ctx, "students:all")
	require.NoError(t, err)
	require.False(t, ok)

	// unrelated namespaces survive
	_, ok, err = store.Get(ctx, "metrics:cache")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDatabaseStoreStatsAreEmpty(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, BackendStats{}, stats)
}
