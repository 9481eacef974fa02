package amplitude

import (
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/sync/singleflight"

	"github.com/amplitude/go-client-sdk/ampcomponents"
	"github.com/amplitude/go-client-sdk/ampevents"
	"github.com/amplitude/go-client-sdk/interfaces"
	"github.com/amplitude/go-client-sdk/internal"
	"github.com/amplitude/go-client-sdk/internal/identity"
)

// Version is the SDK version string.
const Version = "1.0.0"

// defaultCloseTimeout bounds the best-effort final upload attempted by Close.
const defaultCloseTimeout = 2 * time.Second

// Client is the Amplitude analytics client. An application normally creates a single Client per
// process at startup, with MakeClient or MakeCustomClient, and keeps it for the lifetime of the
// process.
//
// All methods are safe for concurrent use. Logging methods return quickly; queueing and uploading
// happen on background goroutines, and a slow network never blocks the caller.
type Client struct {
	apiKey     string
	deviceID   string
	userID     string
	userIDLock sync.Mutex
	optOut     internal.AtomicBoolean
	loggers    ldlog.Loggers
	events     ampevents.EventProcessor
	store      ampevents.EventStore
	flushGroup singleflight.Group
}

// MakeClient creates a new client instance with a default configuration.
//
// The api key is required; obtain it from your dashboard at https://amplitude.com/settings. For
// non-default configuration, use MakeCustomClient instead. Note that with the default
// configuration there is no storage path, so queued events do not survive a process restart.
func MakeClient(apiKey string) (*Client, error) {
	return MakeCustomClient(apiKey, Config{})
}

// MakeCustomClient creates a new client instance with a custom configuration.
func MakeCustomClient(apiKey string, config Config) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	loggingBuilder := config.Logging
	if loggingBuilder == nil {
		loggingBuilder = ampcomponents.Logging()
	}
	loggers := loggingBuilder.CreateLoggers()

	store, err := makeEventStore(config, loggers)
	if err != nil {
		return nil, err
	}

	deviceID, err := resolveDeviceID(config)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	context := interfaces.ClientContext{
		APIKey:           apiKey,
		DeviceID:         deviceID,
		UserID:           config.UserID,
		ServiceEndpoints: config.ServiceEndpoints,
		Loggers:          loggers,
		HTTPClient:       config.HTTPClient,
		Store:            store,
	}
	eventsFactory := config.Events
	if eventsFactory == nil {
		eventsFactory = ampcomponents.SendEvents()
	}
	events, err := eventsFactory.CreateEventProcessor(context)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client := &Client{
		apiKey:   apiKey,
		deviceID: deviceID,
		userID:   config.UserID,
		loggers:  loggers,
		events:   events,
		store:    store,
	}
	client.optOut.Set(config.OptOut)
	loggers.Infof("Amplitude client %s initialized (device ID %s)", Version, deviceID)
	return client, nil
}

func makeEventStore(config Config, loggers ldlog.Loggers) (ampevents.EventStore, error) {
	if config.StoragePath == "" {
		return ampevents.NewInMemoryEventStore(), nil
	}
	return ampevents.NewFileEventStore(config.StoragePath, loggers)
}

func resolveDeviceID(config Config) (string, error) {
	if config.DeviceID != "" {
		return config.DeviceID, nil
	}
	provider := config.DeviceIDProvider
	if provider == nil {
		if config.StoragePath != "" {
			provider = identity.NewFileBackedProvider(config.StoragePath + ".deviceid")
		} else {
			provider = identity.EphemeralProvider{}
		}
	}
	return provider.DeviceID()
}

// LogEvent tracks an event with no additional properties.
//
// It's important to think about what types of events you care about as a developer. You should
// aim to track between 10 and 100 types of events within your app. Common event types are
// different screens within the app, actions the user initiates (such as pressing a button), and
// events you want the user to complete (such as filling out a form, completing a level, or making
// a payment).
func (c *Client) LogEvent(eventType string) error {
	return c.logEventInternal(eventType, ldvalue.Null(), false)
}

// LogEventWithProperties tracks an event, attaching additional data as a JSON object of
// properties.
func (c *Client) LogEventWithProperties(eventType string, properties ldvalue.Value) error {
	return c.logEventInternal(eventType, properties, false)
}

// LogEventOutOfSession tracks an event as out of session, excluding it from session attribution.
// Useful for events triggered by push notifications while the application is closed.
func (c *Client) LogEventOutOfSession(eventType string, properties ldvalue.Value) error {
	return c.logEventInternal(eventType, properties, true)
}

func (c *Client) logEventInternal(eventType string, properties ldvalue.Value, outOfSession bool) error {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return errors.New("tried to call a method on a nil *Client")
	}
	if err := ampevents.ValidateEventType(eventType); err != nil {
		return err
	}
	if c.optOut.Get() {
		return nil
	}
	c.events.SendEvent(ampevents.Event{
		Type:         eventType,
		Properties:   properties,
		OutOfSession: outOfSession,
	})
	return nil
}

// LogRevenue tracks a revenue amount, e.g. 3.99, as a synthetic revenue event. Call it each time
// a user generates revenue.
func (c *Client) LogRevenue(amount float64) error {
	return c.logRevenueInternal(ampevents.NewRevenueEvent("", 1, amount, ""))
}

// LogRevenuePurchase tracks a revenue transaction for a specific product, with an optional
// transaction receipt for revenue validation.
func (c *Client) LogRevenuePurchase(productID string, quantity int, price float64, receipt []byte) error {
	encodedReceipt := ""
	if len(receipt) > 0 {
		encodedReceipt = base64.StdEncoding.EncodeToString(receipt)
	}
	return c.logRevenueInternal(ampevents.NewRevenueEvent(productID, quantity, price, encodedReceipt))
}

func (c *Client) logRevenueInternal(event ampevents.Event) error {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return errors.New("tried to call a method on a nil *Client")
	}
	if c.optOut.Get() {
		return nil
	}
	c.events.SendEvent(event)
	return nil
}

// SetUserProperties merges the given properties into the properties tracked on the user level.
// Property keys must be strings and values must be JSON-serializable.
func (c *Client) SetUserProperties(properties ldvalue.Value) error {
	return c.sendIdentify(properties, ampevents.IdentifyOpMerge)
}

// ReplaceUserProperties replaces all properties tracked on the user level with the given ones.
func (c *Client) ReplaceUserProperties(properties ldvalue.Value) error {
	return c.sendIdentify(properties, ampevents.IdentifyOpReplace)
}

func (c *Client) sendIdentify(properties ldvalue.Value, op ampevents.IdentifyOp) error {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return errors.New("tried to call a method on a nil *Client")
	}
	if properties.Type() != ldvalue.ObjectType {
		return ampevents.InvalidEventError{Message: "user properties must be a JSON object"}
	}
	if c.optOut.Get() {
		return nil
	}
	c.events.SendIdentify(ampevents.Identify{UserProperties: properties, Op: op})
	return nil
}

// SetUserID sets the user identifier attached to subsequent events, if your application has its
// own login system that you want to track users with. An empty string reverts to anonymous
// (device-only) identity.
func (c *Client) SetUserID(userID string) {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	c.userIDLock.Lock()
	c.userID = userID
	c.userIDLock.Unlock()
	c.events.SetUserID(userID)
}

// SetOptOut enables or disables tracking opt-out for the current user. While opted out, no events
// are queued locally or sent to the server. Events queued before opting out remain queued.
func (c *Client) SetOptOut(optOut bool) {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	if c.optOut.GetAndSet(optOut) != optOut {
		c.loggers.Infof("Tracking opt-out set to %t", optOut)
	}
}

// OptOut reports whether tracking opt-out is currently enabled.
func (c *Client) OptOut() bool {
	return c != nil && c.optOut.Get()
}

// APIKey returns the API key the client was created with.
func (c *Client) APIKey() string {
	if c == nil {
		return ""
	}
	return c.apiKey
}

// UserID returns the current user identifier, or "" if none has been set.
func (c *Client) UserID() string {
	if c == nil {
		return ""
	}
	c.userIDLock.Lock()
	defer c.userIDLock.Unlock()
	return c.userID
}

// DeviceID returns the device identifier used to determine unique users when no user ID has been
// set.
func (c *Client) DeviceID() string {
	if c == nil {
		return ""
	}
	return c.deviceID
}

// EventsCount returns the number of events currently queued locally. Intended for diagnostics.
func (c *Client) EventsCount() int {
	if c == nil {
		return 0
	}
	return c.store.Count()
}

// PrintEventsCount logs the number of events currently queued locally. Debugging method to find
// out how many events are being stored on the device.
func (c *Client) PrintEventsCount() {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	c.loggers.Infof("%d events currently queued", c.store.Count())
}

// UploadEvents asks the client to upload all queued events as soon as possible, rather than
// waiting for the next scheduled upload. This method is asynchronous. It also re-enables
// automatic uploads if they were suspended after an unrecoverable upload error.
func (c *Client) UploadEvents() {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	if c.optOut.Get() {
		return
	}
	c.events.Flush()
}

// UploadEventsBlocking uploads queued events like UploadEvents and waits until the attempt has
// finished, or until the timeout elapses, returning true if it finished in time. This is the
// recommended call when the host application is backgrounded or about to terminate. Concurrent
// calls are coalesced into a single wait.
func (c *Client) UploadEventsBlocking(timeout time.Duration) bool {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return false
	}
	if c.optOut.Get() {
		return true
	}
	result, _, _ := c.flushGroup.Do("flush", func() (interface{}, error) {
		return c.events.FlushBlocking(timeout), nil
	})
	done, _ := result.(bool)
	return done
}

// StartSession forces the start of a new session, ending the current one if any. Sessions
// normally start automatically with the first event after an inactivity gap, so most applications
// never need to call this.
func (c *Client) StartSession() {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	if c.optOut.Get() {
		return
	}
	c.events.StartSession()
}

// EndSession forces the end of the current session.
func (c *Client) EndSession() {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	if c.optOut.Get() {
		return
	}
	c.events.EndSession()
}

// Close shuts down the client. It makes one best-effort attempt, bounded by a short deadline, to
// upload any queued events; events that cannot be delivered in time remain persisted (if a
// storage path was configured) and are uploaded on the next launch.
func (c *Client) Close() error {
	if c == nil {
		internal.LogErrorNilPointerMethod("Client")
		return nil
	}
	c.events.FlushBlocking(defaultCloseTimeout)
	closed := make(chan error, 1)
	go func() { closed <- c.events.Close() }()
	timer := time.NewTimer(defaultCloseTimeout)
	defer timer.Stop()
	select {
	case err := <-closed:
		if storeErr := c.store.Close(); err == nil {
			err = storeErr
		}
		return err
	case <-timer.C:
		// An in-flight upload that is still waiting on the network cannot be cancelled. The
		// queued batch stays persisted and becomes eligible for upload on the next launch.
		return errors.New("timed out waiting for the final upload")
	}
}
