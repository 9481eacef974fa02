package ampevents

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventEntry(eventType string) StoredEntry {
	return StoredEntry{Kind: EventEntryKind, Event: Event{Type: eventType, Timestamp: 1000, SessionID: 1000}}
}

func appendAllEntries(t *testing.T, store EventStore, eventTypes ...string) []int64 {
	ids := make([]int64, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		id, err := store.Append(eventEntry(eventType))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func entryTypes(entries []StoredEntry) []string {
	types := make([]string, 0, len(entries))
	for _, entry := range entries {
		types = append(types, entry.Event.Type)
	}
	return types
}

// The FIFO contract tests run against both store implementations.
func withEachStoreKind(t *testing.T, action func(t *testing.T, makeStore func(t *testing.T) EventStore)) {
	t.Run("memory", func(t *testing.T) {
		action(t, func(t *testing.T) EventStore {
			return NewInMemoryEventStore()
		})
	})
	t.Run("file", func(t *testing.T) {
		action(t, func(t *testing.T) EventStore {
			store, err := NewFileEventStore(filepath.Join(t.TempDir(), "events"), ldlog.NewDisabledLoggers())
			require.NoError(t, err)
			return store
		})
	})
}

func TestStoreAppendAssignsIncreasingIDs(t *testing.T) {
	withEachStoreKind(t, func(t *testing.T, makeStore func(t *testing.T) EventStore) {
		store := makeStore(t)
		defer store.Close() //nolint:errcheck

		ids := appendAllEntries(t, store, "e1", "e2", "e3")
		assert.Equal(t, []int64{1, 2, 3}, ids)
		assert.Equal(t, 3, store.Count())
	})
}

func TestStorePeekBatchReturnsOldestFirstWithoutRemoving(t *testing.T) {
	withEachStoreKind(t, func(t *testing.T, makeStore func(t *testing.T) EventStore) {
		store := makeStore(t)
		defer store.Close() //nolint:errcheck

		appendAllEntries(t, store, "e1", "e2", "e3")
		batch := store.PeekBatch(2)
		assert.Equal(t, []string{"e1", "e2"}, entryTypes(batch))
		assert.Equal(t, 3, store.Count())

		batch = store.PeekBatch(100)
		assert.Equal(t, []string{"e1", "e2", "e3"}, entryTypes(batch))
	})
}

func TestStoreRemoveUpToLeavesEntriesAppendedDuringUpload(t *testing.T) {
	withEachStoreKind(t, func(t *testing.T, makeStore func(t *testing.T) EventStore) {
		store := makeStore(t)
		defer store.Close() //nolint:errcheck

		appendAllEntries(t, store, "e1", "e2", "e3")
		batch := store.PeekBatch(100)
		// Entries arriving while the batch is in flight must survive the acknowledgment.
		appendAllEntries(t, store, "e4", "e5")

		store.RemoveUpTo(batch[len(batch)-1].ID)
		assert.Equal(t, []string{"e4", "e5"}, entryTypes(store.PeekBatch(100)))
	})
}

func TestStoreTrimOldestNeverRemovesNewestEntry(t *testing.T) {
	withEachStoreKind(t, func(t *testing.T, makeStore func(t *testing.T) EventStore) {
		store := makeStore(t)
		defer store.Close() //nolint:errcheck

		appendAllEntries(t, store, "e1", "e2", "e3")
		assert.Equal(t, 2, store.TrimOldest(100))
		assert.Equal(t, []string{"e3"}, entryTypes(store.PeekBatch(100)))
		assert.Equal(t, 0, store.TrimOldest(100))
	})
}

func TestStoreTrimOldestRemovesRequestedCount(t *testing.T) {
	withEachStoreKind(t, func(t *testing.T, makeStore func(t *testing.T) EventStore) {
		store := makeStore(t)
		defer store.Close() //nolint:errcheck

		appendAllEntries(t, store, "e1", "e2", "e3", "e4")
		assert.Equal(t, 2, store.TrimOldest(2))
		assert.Equal(t, []string{"e3", "e4"}, entryTypes(store.PeekBatch(100)))
	})
}

func TestFileStoreRestoresEntriesAfterRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events")

	store, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	appendAllEntries(t, store, "e1", "e2", "e3")
	require.NoError(t, store.Close())

	reopened, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck
	assert.Equal(t, []string{"e1", "e2", "e3"}, entryTypes(reopened.PeekBatch(100)))
}

func TestFileStoreIDsDoNotRegressAfterRemovalAndRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events")

	store, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	ids := appendAllEntries(t, store, "e1", "e2")
	store.RemoveUpTo(ids[len(ids)-1])
	require.Equal(t, 0, store.Count())
	require.NoError(t, store.Close())

	reopened, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck
	id, err := reopened.Append(eventEntry("e3"))
	require.NoError(t, err)
	assert.Greater(t, id, ids[len(ids)-1])
}

func TestFileStoreSkipsUnreadableRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events")

	store, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	appendAllEntries(t, store, "e1", "e2")
	require.NoError(t, store.Close())

	// Simulate a line truncated by a crash mid-write.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":3,"kind":"ev`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	mockLog := ldlogtest.NewMockLog()
	reopened, err := NewFileEventStore(path, mockLog.Loggers)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck
	assert.Equal(t, []string{"e1", "e2"}, entryTypes(reopened.PeekBatch(100)))
	mockLog.AssertMessageMatch(t, true, ldlog.Warn, "unreadable record")
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "events")

	store, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck
	appendAllEntries(t, store, "e1")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreRewriteSurvivesManyCycles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events")

	store, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		ids := appendAllEntries(t, store, fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i))
		store.RemoveUpTo(ids[0])
	}
	require.NoError(t, store.Close())

	reopened, err := NewFileEventStore(path, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck
	types := entryTypes(reopened.PeekBatch(100))
	require.Len(t, types, 10)
	assert.Equal(t, "b0", types[0])
	assert.Equal(t, "b9", types[9])
}
