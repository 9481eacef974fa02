package ampevents

import (
	"encoding/json"
	"sync"
)

// inMemoryEventStore is the non-persistent EventStore used when no storage path is configured, and
// in tests. Entries do not survive a process restart.
type inMemoryEventStore struct {
	entries []StoredEntry
	nextID  int64
	lock    sync.Mutex
}

// NewInMemoryEventStore creates an EventStore that holds queued entries in memory only.
func NewInMemoryEventStore() EventStore {
	return &inMemoryEventStore{nextID: 1}
}

func (s *inMemoryEventStore) Append(entry StoredEntry) (int64, error) {
	// Serialize eagerly so that an unrepresentable property value is detected here, where the
	// offending entry can be rejected on its own, rather than poisoning a whole upload batch.
	if _, err := json.Marshal(entry); err != nil {
		return 0, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	entry.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

func (s *inMemoryEventStore) PeekBatch(max int) []StoredEntry {
	s.lock.Lock()
	defer s.lock.Unlock()
	n := len(s.entries)
	if n > max {
		n = max
	}
	batch := make([]StoredEntry, n)
	copy(batch, s.entries[:n])
	return batch
}

func (s *inMemoryEventStore) RemoveUpTo(id int64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := 0
	for i < len(s.entries) && s.entries[i].ID <= id {
		i++
	}
	s.entries = append([]StoredEntry(nil), s.entries[i:]...)
}

func (s *inMemoryEventStore) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.entries)
}

func (s *inMemoryEventStore) TrimOldest(n int) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	// The most recently appended entry is never trimmed.
	if n > len(s.entries)-1 {
		n = len(s.entries) - 1
	}
	if n <= 0 {
		return 0
	}
	s.entries = append([]StoredEntry(nil), s.entries[n:]...)
	return n
}

func (s *inMemoryEventStore) Close() error {
	return nil
}
