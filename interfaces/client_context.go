package interfaces

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/amplitude/go-client-sdk/ampevents"
)

// ClientContext provides basic SDK configuration state to component factories. It is created
// internally by the client; component factory implementations receive it in CreateEventProcessor.
type ClientContext struct {
	// APIKey is the Amplitude API key the client was constructed with.
	APIKey string

	// DeviceID is the resolved device identifier.
	DeviceID string

	// UserID is the initially configured user identifier, or "" if none.
	UserID string

	// ServiceEndpoints contains any custom service URIs.
	ServiceEndpoints ServiceEndpoints

	// Loggers is the configured logging destination.
	Loggers ldlog.Loggers

	// HTTPClient is the HTTP client instance to be used for uploads, or nil for http.DefaultClient.
	HTTPClient *http.Client

	// Store is the event store the client created from its storage configuration, or nil if the
	// factory should create its own.
	Store ampevents.EventStore
}

// EventProcessorFactory is a factory that creates some implementation of ampevents.EventProcessor.
// The standard implementations are provided by ampcomponents.SendEvents() and
// ampcomponents.NoEvents().
type EventProcessorFactory interface {
	CreateEventProcessor(context ClientContext) (ampevents.EventProcessor, error)
}
