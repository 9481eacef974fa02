package ampevents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// DefaultUploadThreshold is the default value for EventsConfiguration.UploadThreshold.
const DefaultUploadThreshold = 30

// DefaultMaxBatchSize is the default value for EventsConfiguration.MaxBatchSize.
const DefaultMaxBatchSize = 100

// DefaultEventMaxCount is the default value for EventsConfiguration.EventMaxCount.
const DefaultEventMaxCount = 1000

// DefaultUploadPeriod is the default value for EventsConfiguration.UploadPeriod.
const DefaultUploadPeriod = 30 * time.Second

// DefaultMinTimeBetweenSessions is the default value for EventsConfiguration.MinTimeBetweenSessions.
const DefaultMinTimeBetweenSessions = 15 * time.Minute

// EventsConfiguration contains options affecting the behavior of the event pipeline.
type EventsConfiguration struct {
	// APIKey is included in every upload payload.
	APIKey string
	// DeviceID is the resolved device identifier, included in the payload identity block.
	DeviceID string
	// UserID is the initial user identifier, or "". It can be changed later with
	// EventProcessor.SetUserID.
	UserID string
	// Store is the event store to queue entries in. If nil, a non-persistent in-memory store is
	// used.
	Store EventStore
	// EventSender delivers serialized payloads to the event service.
	EventSender EventSender
	// UploadThreshold is the number of queued entries that triggers an upload attempt, regardless
	// of the upload period.
	UploadThreshold int
	// MaxBatchSize is the maximum number of entries uploaded in a single request.
	MaxBatchSize int
	// EventMaxCount is the maximum number of entries kept in the store. When it is exceeded, the
	// oldest EventRemoveBatchSize entries are deleted.
	EventMaxCount int
	// EventRemoveBatchSize is the number of oldest entries deleted when the store exceeds
	// EventMaxCount. If zero, it defaults to EventMaxCount / 10 (at least 1).
	EventRemoveBatchSize int
	// UploadPeriod is the interval of the periodic upload trigger.
	UploadPeriod time.Duration
	// MinTimeBetweenSessions is the inactivity gap after which a new session begins.
	MinTimeBetweenSessions time.Duration
	// TrackSessionEvents enables the synthetic session_start/session_end events. Session IDs are
	// assigned to events regardless of this setting.
	TrackSessionEvents bool
	// InboxCapacity is the capacity of the channel between application goroutines and the event
	// dispatcher. If the dispatcher falls this far behind, further events are dropped with a
	// one-time warning rather than blocking the application. If zero, it defaults to
	// EventMaxCount + UploadThreshold, so that a burst large enough to fill the store to capacity
	// is absorbed by the inbox and handled by the store's oldest-first trim, instead of losing the
	// newest events here.
	InboxCapacity int
	// Loggers is the destination for log output.
	Loggers ldlog.Loggers
}

func (c EventsConfiguration) withDefaults() EventsConfiguration {
	if c.Store == nil {
		c.Store = NewInMemoryEventStore()
	}
	if c.UploadThreshold <= 0 {
		c.UploadThreshold = DefaultUploadThreshold
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.EventMaxCount <= 0 {
		c.EventMaxCount = DefaultEventMaxCount
	}
	if c.EventRemoveBatchSize <= 0 {
		c.EventRemoveBatchSize = c.EventMaxCount / 10
		if c.EventRemoveBatchSize < 1 {
			c.EventRemoveBatchSize = 1
		}
	}
	if c.UploadPeriod <= 0 {
		c.UploadPeriod = DefaultUploadPeriod
	}
	if c.MinTimeBetweenSessions <= 0 {
		c.MinTimeBetweenSessions = DefaultMinTimeBetweenSessions
	}
	if c.InboxCapacity <= 0 {
		c.InboxCapacity = c.EventMaxCount + c.UploadThreshold
	}
	return c
}
