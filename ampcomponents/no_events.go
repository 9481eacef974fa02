package ampcomponents

import (
	"github.com/amplitude/go-client-sdk/ampevents"
	"github.com/amplitude/go-client-sdk/interfaces"
)

type nullEventProcessorFactory struct{}

// NoEvents returns a configuration object that disables analytics event delivery entirely.
//
// Storing this in Config.Events causes the client to discard all events without queueing or
// uploading them:
//
//	config := amplitude.Config{
//	    Events: ampcomponents.NoEvents(),
//	}
//
// To opt a single user out of tracking at runtime instead, use Client.SetOptOut.
func NoEvents() interfaces.EventProcessorFactory {
	return nullEventProcessorFactory{}
}

func (f nullEventProcessorFactory) CreateEventProcessor(
	context interfaces.ClientContext,
) (ampevents.EventProcessor, error) {
	return ampevents.NewNullEventProcessor(), nil
}
