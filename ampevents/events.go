package ampevents

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Event types generated by the SDK itself rather than by the application.
const (
	// SessionStartEventType is the type of the synthetic event emitted at the start of a session,
	// if session event tracking is enabled.
	SessionStartEventType = "session_start"
	// SessionEndEventType is the type of the synthetic event emitted at the end of a session,
	// if session event tracking is enabled.
	SessionEndEventType = "session_end"
	// RevenueEventType is the type of the synthetic event emitted for revenue tracking calls.
	RevenueEventType = "revenue_amount"
	// IdentifyEventType is the event type under which queued user-property mutations appear in
	// upload payloads.
	IdentifyEventType = "$identify"
)

// SessionIDOutOfSession is the sentinel session ID assigned to events that were logged as
// out-of-session, and to identify entries, which are never attributed to a session.
const SessionIDOutOfSession int64 = -1

// Event is one discrete tracked occurrence. Events are immutable once they have been appended to
// the event store.
type Event struct {
	// Type is the application-defined event type. It must be non-empty.
	Type string `json:"event_type"`
	// Properties is an optional JSON object of additional event data.
	Properties ldvalue.Value `json:"event_properties,omitempty"`
	// Timestamp is the event creation time in milliseconds since epoch. If zero, the event
	// pipeline stamps it with the current time when the event is processed.
	Timestamp ldtime.UnixMillisecondTime `json:"timestamp"`
	// SessionID is the ID of the session the event belongs to, or SessionIDOutOfSession. It is
	// assigned by the session tracker; any value set by the caller is overwritten.
	SessionID int64 `json:"session_id"`
	// OutOfSession marks the event as excluded from session attribution (for instance, an event
	// triggered by a push notification while the app is closed).
	OutOfSession bool `json:"out_of_session,omitempty"`
	// InsertID is a unique ID assigned when the event is queued, allowing the event service to
	// deduplicate retried uploads.
	InsertID string `json:"insert_id"`
}

// IdentifyOp distinguishes the two kinds of user-property mutation.
type IdentifyOp string

const (
	// IdentifyOpMerge merges the given properties into the user's existing properties.
	IdentifyOpMerge IdentifyOp = "merge"
	// IdentifyOpReplace replaces the user's existing properties entirely.
	IdentifyOpReplace IdentifyOp = "replace"
)

// Identify is a pending mutation to user-level properties. Identify entries are queued in the same
// FIFO as events and uploaded in the same batch cycle, appearing in payloads as synthetic events of
// type IdentifyEventType.
type Identify struct {
	UserProperties ldvalue.Value              `json:"user_properties"`
	Op             IdentifyOp                 `json:"op"`
	Timestamp      ldtime.UnixMillisecondTime `json:"timestamp"`
	InsertID       string                     `json:"insert_id"`
}

// EntryKind distinguishes the kinds of entry in the event store.
type EntryKind string

const (
	// EventEntryKind marks a stored entry as holding an Event.
	EventEntryKind EntryKind = "event"
	// IdentifyEntryKind marks a stored entry as holding an Identify.
	IdentifyEntryKind EntryKind = "identify"
)

// StoredEntry is one queued item in an EventStore: either an event or an identify, tagged with the
// store-assigned ID that determines upload order.
type StoredEntry struct {
	// ID is assigned by the store on append. IDs increase monotonically and are unique within the
	// store, including across process restarts.
	ID       int64     `json:"id"`
	Kind     EntryKind `json:"kind"`
	Event    Event     `json:"event,omitempty"`
	Identify Identify  `json:"identify,omitempty"`
}

// InvalidEventError is returned synchronously by the client's logging methods when an event is
// rejected before persistence, such as for an empty event type.
type InvalidEventError struct {
	Message string
}

func (e InvalidEventError) Error() string {
	return e.Message
}

// ValidateEventType checks the constraint that the facade enforces synchronously before an event
// is queued.
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return InvalidEventError{Message: "event type must not be empty"}
	}
	return nil
}

// NewRevenueEvent constructs the synthetic event representing a revenue transaction. The receipt,
// if any, has already been encoded as a string by the caller.
func NewRevenueEvent(productID string, quantity int, price float64, receipt string) Event {
	b := ldvalue.ObjectBuild().
		Set("quantity", ldvalue.Int(quantity)).
		Set("price", ldvalue.Float64(price))
	if productID != "" {
		b.Set("productId", ldvalue.String(productID))
	}
	if receipt != "" {
		b.Set("receipt", ldvalue.String(receipt))
	}
	return Event{Type: RevenueEventType, Properties: b.Build()}
}

func describeEntryForLog(entry StoredEntry) string {
	if entry.Kind == IdentifyEntryKind {
		return "identify"
	}
	return fmt.Sprintf("event %q", entry.Event.Type)
}
