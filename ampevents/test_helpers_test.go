package ampevents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	testAPIKey   = "fake-api-key"
	testDeviceID = "fake-device-id"
)

// basicConfig returns a configuration wired to a mock sender and an in-memory store, with the
// periodic trigger and the count threshold pushed far enough away that uploads only happen when a
// test asks for them.
func basicConfig(sender EventSender) EventsConfiguration {
	return EventsConfiguration{
		APIKey:          testAPIKey,
		DeviceID:        testDeviceID,
		Store:           NewInMemoryEventStore(),
		EventSender:     sender,
		UploadThreshold: 10000,
		UploadPeriod:    time.Hour,
		Loggers:         ldlog.NewDisabledLoggers(),
	}
}

func withProcessor(config EventsConfiguration, action func(EventProcessor)) {
	ep := NewDefaultEventProcessor(config)
	defer ep.Close() //nolint:errcheck
	action(ep)
}

func eventTypes(payload receivedPayload) []string {
	types := make([]string, 0, len(payload.Events))
	for _, e := range payload.Events {
		types = append(types, e.Type)
	}
	return types
}
