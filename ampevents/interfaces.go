package ampevents

import "time"

// EventProcessor defines the interface for the analytics event pipeline: it accepts events and
// identify operations, queues them durably, and schedules batched uploads.
type EventProcessor interface {
	// SendEvent records an event asynchronously. The event's session ID is assigned by the
	// processor's session tracker.
	SendEvent(Event)
	// SendIdentify records a pending user-property mutation asynchronously.
	SendIdentify(Identify)
	// Flush specifies that any queued entries should be uploaded as soon as possible, rather than
	// waiting for the next scheduled upload. This method is asynchronous, so entries still may not
	// be uploaded until a later time. An explicit flush also re-enables automatic uploads if they
	// were suspended after an unrecoverable upload error.
	Flush()
	// FlushBlocking triggers an upload like Flush, and then waits until all uploads that were in
	// progress have finished, or until the timeout elapses. It returns true if the uploads
	// completed within the timeout. This is the best-effort hook for application backgrounding or
	// termination; entries that could not be delivered in time remain queued for the next launch.
	FlushBlocking(timeout time.Duration) bool
	// SetUserID updates the user identity attached to subsequent upload payloads.
	SetUserID(userID string)
	// StartSession forces the start of a new session, ending any current one.
	StartSession()
	// EndSession forces the end of the current session, if there is one.
	EndSession()
	// Close shuts down all event processor activity, after first attempting to deliver all queued
	// entries. Subsequent calls to SendEvent or Flush will be ignored. Close does not close the
	// event store; its owner does.
	Close() error
}

// EventSender defines the interface for delivering an already-serialized upload payload to the
// event service. A custom implementation can be used for testing or for alternative transports.
type EventSender interface {
	// SendEventData attempts to deliver a payload and reports how the attempt should be treated.
	// It must not panic, and it should not be called concurrently; the processor serializes all
	// upload attempts.
	SendEventData(data []byte, eventCount int) EventSenderResult
}

// EventSenderResult is the return type for EventSender.SendEventData.
type EventSenderResult struct {
	// Success is true if the event service acknowledged the payload. The delivered entries can
	// then be removed from the store.
	Success bool
	// MustSuspend is true if the service reported an unrecoverable error, such as an invalid API
	// key. The entries are kept in the store, but automatic upload attempts are suspended until
	// the application explicitly requests a flush or reconfigures the client.
	MustSuspend bool
}

// EventStore is the append-only local queue of pending events and identify operations.
//
// Implementations must be safe for concurrent use: appends happen on the event dispatcher
// goroutine while PeekBatch and RemoveUpTo are called from the upload task. Entries appended after
// a batch has been read are never removed by RemoveUpTo, because their IDs are greater than any ID
// in the batch.
type EventStore interface {
	// Append adds an entry at the tail of the queue, assigning its ID, and returns the ID. It
	// returns an error if the entry cannot be serialized; the entry is not stored in that case.
	Append(entry StoredEntry) (int64, error)
	// PeekBatch returns up to max entries from the head of the queue, oldest first, without
	// removing them.
	PeekBatch(max int) []StoredEntry
	// RemoveUpTo deletes all entries with ID <= id. It is called after a confirmed upload.
	RemoveUpTo(id int64)
	// Count returns the number of queued entries.
	Count() int
	// TrimOldest deletes up to n of the oldest entries, never including the most recently appended
	// one, and returns the number deleted.
	TrimOldest(n int) int
	// Close releases any resources held by the store. Queued entries remain persisted, if the
	// implementation is persistent.
	Close() error
}
