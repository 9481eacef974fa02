package ampcomponents

import (
	"time"

	"github.com/amplitude/go-client-sdk/ampevents"
	"github.com/amplitude/go-client-sdk/interfaces"
)

// DefaultEventsBaseURI is the default value for EventUploadBuilder.BaseURI.
const DefaultEventsBaseURI = "https://api.amplitude.com"

// EventUploadBuilder provides methods for configuring analytics event behavior.
//
// See SendEvents for usage.
type EventUploadBuilder struct {
	baseURI                string
	uploadThreshold        int
	maxBatchSize           int
	eventMaxCount          int
	eventRemoveBatchSize   int
	uploadPeriod           time.Duration
	minTimeBetweenSessions time.Duration
	trackSessionEvents     bool
	retryableStatusCheck   func(int) bool
}

// SendEvents returns a configuration builder for analytics event delivery.
//
// The default configuration has events enabled with default settings. If you want to customize
// this behavior, call this method to obtain a builder, change its properties with the
// EventUploadBuilder methods, and store it in Config.Events:
//
//	config := amplitude.Config{
//	    Events: ampcomponents.SendEvents().UploadThreshold(50).UploadPeriod(time.Minute),
//	}
//
// To disable event delivery, use NoEvents instead of SendEvents.
func SendEvents() *EventUploadBuilder {
	return &EventUploadBuilder{
		uploadThreshold:        ampevents.DefaultUploadThreshold,
		maxBatchSize:           ampevents.DefaultMaxBatchSize,
		eventMaxCount:          ampevents.DefaultEventMaxCount,
		uploadPeriod:           ampevents.DefaultUploadPeriod,
		minTimeBetweenSessions: ampevents.DefaultMinTimeBetweenSessions,
	}
}

// CreateEventProcessor is called by the SDK to create the event pipeline instance.
func (b *EventUploadBuilder) CreateEventProcessor(context interfaces.ClientContext) (ampevents.EventProcessor, error) {
	configuredBaseURI := b.baseURI
	if configuredBaseURI == "" {
		configuredBaseURI = context.ServiceEndpoints.Events
	}
	if configuredBaseURI == "" {
		configuredBaseURI = DefaultEventsBaseURI
	}

	eventSender := ampevents.NewServerSideEventSender(context.HTTPClient, configuredBaseURI,
		context.Loggers, b.retryableStatusCheck)
	eventsConfig := ampevents.EventsConfiguration{
		APIKey:                 context.APIKey,
		DeviceID:               context.DeviceID,
		UserID:                 context.UserID,
		Store:                  context.Store,
		EventSender:            eventSender,
		UploadThreshold:        b.uploadThreshold,
		MaxBatchSize:           b.maxBatchSize,
		EventMaxCount:          b.eventMaxCount,
		EventRemoveBatchSize:   b.eventRemoveBatchSize,
		UploadPeriod:           b.uploadPeriod,
		MinTimeBetweenSessions: b.minTimeBetweenSessions,
		TrackSessionEvents:     b.trackSessionEvents,
		Loggers:                context.Loggers,
	}
	return ampevents.NewDefaultEventProcessor(eventsConfig), nil
}

// BaseURI sets a custom base URI for the event upload service. If empty, the value from
// Config.ServiceEndpoints is used, or DefaultEventsBaseURI if that is also empty.
func (b *EventUploadBuilder) BaseURI(baseURI string) *EventUploadBuilder {
	b.baseURI = baseURI
	return b
}

// UploadThreshold sets the number of queued events that forces an upload, regardless of the upload
// period. The default value is ampevents.DefaultUploadThreshold.
func (b *EventUploadBuilder) UploadThreshold(threshold int) *EventUploadBuilder {
	b.uploadThreshold = threshold
	return b
}

// MaxBatchSize sets the maximum number of events uploaded in a single request. The default value
// is ampevents.DefaultMaxBatchSize.
func (b *EventUploadBuilder) MaxBatchSize(size int) *EventUploadBuilder {
	b.maxBatchSize = size
	return b
}

// EventMaxCount sets the maximum number of events that can be stored locally. When the limit is
// exceeded, the oldest events are dropped. The default value is ampevents.DefaultEventMaxCount.
func (b *EventUploadBuilder) EventMaxCount(count int) *EventUploadBuilder {
	b.eventMaxCount = count
	return b
}

// EventRemoveBatchSize sets how many of the oldest events are dropped when the store exceeds
// EventMaxCount. If zero, EventMaxCount / 10 is used.
func (b *EventUploadBuilder) EventRemoveBatchSize(size int) *EventUploadBuilder {
	b.eventRemoveBatchSize = size
	return b
}

// UploadPeriod sets the interval between scheduled uploads of queued events. The default value is
// ampevents.DefaultUploadPeriod.
func (b *EventUploadBuilder) UploadPeriod(period time.Duration) *EventUploadBuilder {
	b.uploadPeriod = period
	return b
}

// MinTimeBetweenSessions sets the inactivity gap after which a subsequent event starts a new
// session. The default value is ampevents.DefaultMinTimeBetweenSessions.
func (b *EventUploadBuilder) MinTimeBetweenSessions(gap time.Duration) *EventUploadBuilder {
	b.minTimeBetweenSessions = gap
	return b
}

// TrackSessionEvents sets whether synthetic session_start/session_end events are recorded. The
// default is false.
func (b *EventUploadBuilder) TrackSessionEvents(track bool) *EventUploadBuilder {
	b.trackSessionEvents = track
	return b
}

// RetryableStatusCheck sets the predicate that classifies an HTTP error status from the event
// service as retryable or unrecoverable. If nil, ampevents.IsHTTPErrorRecoverable is used.
func (b *EventUploadBuilder) RetryableStatusCheck(check func(int) bool) *EventUploadBuilder {
	b.retryableStatusCheck = check
	return b
}
