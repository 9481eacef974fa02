package amplitude

import (
	"net/http"

	"github.com/amplitude/go-client-sdk/ampcomponents"
	"github.com/amplitude/go-client-sdk/interfaces"
)

// Config exposes advanced configuration options for the Amplitude client.
//
// All of these settings are optional, so an empty Config struct is always valid. See the
// description of each field for the default behavior if it is not set.
type Config struct {
	// Events sets the SDK's behavior regarding analytics event queueing and upload.
	//
	// If nil, the default is ampcomponents.SendEvents(); see that method for an explanation of
	// how to further configure event delivery. You may also turn off event delivery using
	// ampcomponents.NoEvents().
	//
	//	// example: upload every 10 seconds, or whenever 50 events are queued
	//	config.Events = ampcomponents.SendEvents().UploadPeriod(10 * time.Second).UploadThreshold(50)
	Events interfaces.EventProcessorFactory

	// Logging provides configuration of the SDK's logging behavior.
	//
	// If nil, the default is ampcomponents.Logging(); see that method for an explanation of how
	// to further configure logging behavior. The other option is ampcomponents.NoLogging().
	Logging *ampcomponents.LoggingConfigurationBuilder

	// ServiceEndpoints overrides the default service URIs, for instance to route uploads through
	// a proxy. Normally this is left empty.
	ServiceEndpoints interfaces.ServiceEndpoints

	// HTTPClient is the HTTP client instance used for uploads. If nil, http.DefaultClient is
	// used.
	HTTPClient *http.Client

	// StoragePath is the file path under which queued events are persisted, so that events
	// survive a process restart. If empty, events are queued in memory only and are lost when
	// the process exits.
	StoragePath string

	// DeviceID forces a specific device identifier. If empty, DeviceIDProvider is consulted.
	DeviceID string

	// DeviceIDProvider is the component that resolves the device identifier when DeviceID is not
	// set. If nil, the SDK generates a random identifier and, if StoragePath is set, persists it
	// next to the event storage file so it remains stable for the lifetime of the installation.
	DeviceIDProvider interfaces.DeviceIDProvider

	// UserID is the initial user identifier, if your application has its own login system. It
	// can be changed later with Client.SetUserID.
	UserID string

	// OptOut starts the client in the opted-out state, in which no events are queued or
	// uploaded. It can be changed later with Client.SetOptOut.
	OptOut bool
}
