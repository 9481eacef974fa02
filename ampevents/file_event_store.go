package ampevents

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// fileEventStore is the persistent EventStore. The queue is kept in memory and mirrored to a flat
// file of JSON records, one per line: a meta record first, then one record per entry in FIFO
// order. Appends are appended to the file; removals and trims rewrite the file through a temporary
// file and rename, so a crash can never lose acknowledged removals partially.
//
// Entry IDs never regress: the meta record carries the highest ID ever assigned, so after all
// entries have been uploaded and removed, a restart still continues the sequence.
type fileEventStore struct {
	path    string
	file    *os.File
	entries []StoredEntry
	lastID  int64
	loggers ldlog.Loggers
	lock    sync.Mutex
}

type fileStoreMeta struct {
	LastID int64 `json:"lastId"`
}

// NewFileEventStore creates an EventStore backed by the file at path. If the file exists,
// previously queued entries are restored and remain eligible for upload; otherwise the file is
// created. A record that cannot be parsed (for instance, a line truncated by a crash mid-write) is
// skipped with a logged warning.
func NewFileEventStore(path string, loggers ldlog.Loggers) (EventStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("unable to create event storage directory: %w", err)
	}
	s := &fileEventStore{path: path, loggers: loggers}
	if err := s.load(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("unable to open event storage file: %w", err)
	}
	s.file = f
	return s, nil
}

func (s *fileEventStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("unable to read event storage file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			var meta fileStoreMeta
			if err := json.Unmarshal(line, &meta); err == nil && meta.LastID > 0 {
				s.lastID = meta.LastID
				continue
			}
			// Not a meta record; fall through and try it as an entry.
		}
		var entry StoredEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			s.loggers.Warnf("Skipping an unreadable record in the event storage file: %v", err)
			continue
		}
		s.entries = append(s.entries, entry)
		if entry.ID > s.lastID {
			s.lastID = entry.ID
		}
	}
	return scanner.Err()
}

func (s *fileEventStore) Append(entry StoredEntry) (int64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entry.ID = s.lastID + 1
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, err
	}
	if s.file != nil {
		if _, err := s.file.Write(append(data, '\n')); err != nil {
			// The entry still counts as queued in memory; persistence of this one entry is lost
			// but logging must not fail because the disk misbehaved.
			s.loggers.Warnf("Failed to persist a queued %s: %v", describeEntryForLog(entry), err)
		}
	}
	s.lastID = entry.ID
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

func (s *fileEventStore) PeekBatch(max int) []StoredEntry {
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

func (s *fileEventStore) RemoveUpTo(id int64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := 0
	for i < len(s.entries) && s.entries[i].ID <= id {
		i++
	}
	if i == 0 {
		return
	}
	s.entries = append([]StoredEntry(nil), s.entries[i:]...)
	s.rewriteLocked()
}

func (s *fileEventStore) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.entries)
}

func (s *fileEventStore) TrimOldest(n int) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if n > len(s.entries)-1 {
		n = len(s.entries) - 1
	}
	if n <= 0 {
		return 0
	}
	s.entries = append([]StoredEntry(nil), s.entries[n:]...)
	s.rewriteLocked()
	return n
}

func (s *fileEventStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// rewriteLocked replaces the storage file with the current in-memory state. The caller must hold
// the lock.
func (s *fileEventStore) rewriteLocked() {
	tempPath := s.path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		s.loggers.Warnf("Failed to rewrite the event storage file: %v", err)
		return
	}
	w := bufio.NewWriter(f)
	ok := writeJSONLine(w, fileStoreMeta{LastID: s.lastID})
	for _, entry := range s.entries {
		ok = ok && writeJSONLine(w, entry)
	}
	if flushErr := w.Flush(); flushErr != nil {
		ok = false
	}
	if closeErr := f.Close(); closeErr != nil {
		ok = false
	}
	if !ok {
		s.loggers.Warn("Failed to rewrite the event storage file")
		_ = os.Remove(tempPath)
		return
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		s.loggers.Warnf("Failed to replace the event storage file: %v", err)
		return
	}
	if s.file != nil {
		_ = s.file.Close()
	}
	f, err = os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		s.loggers.Warnf("Failed to reopen the event storage file: %v", err)
		s.file = nil
		return
	}
	s.file = f
}

func writeJSONLine(w *bufio.Writer, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return false
	}
	return true
}
