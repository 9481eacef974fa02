package amplitude

import (
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/amplitude/go-client-sdk/internal"
)

// This file provides the package-level entry points that mirror the historical singleton-style
// API. They are thin forwarding wrappers around one shared Client instance and hold no state of
// their own. New code should create and own a Client directly.

var sharedInstance *Client     //nolint:gochecknoglobals // the deprecated singleton API requires it
var sharedInstanceLock sync.Mutex //nolint:gochecknoglobals

// Initialize creates the shared client instance used by the package-level methods, with a default
// configuration. It is a no-op if the shared instance already exists.
//
// Deprecated: Create a Client with MakeClient and own it in your application instead.
func Initialize(apiKey string) error {
	return InitializeWithConfig(apiKey, Config{})
}

// InitializeWithConfig creates the shared client instance used by the package-level methods, with
// a custom configuration. It is a no-op if the shared instance already exists.
//
// Deprecated: Create a Client with MakeCustomClient and own it in your application instead.
func InitializeWithConfig(apiKey string, config Config) error {
	sharedInstanceLock.Lock()
	defer sharedInstanceLock.Unlock()
	if sharedInstance != nil {
		return nil
	}
	client, err := MakeCustomClient(apiKey, config)
	if err != nil {
		return err
	}
	sharedInstance = client
	return nil
}

// Instance returns the shared client instance, or nil if Initialize has not been called.
//
// Deprecated: Create a Client with MakeClient and own it in your application instead.
func Instance() *Client {
	sharedInstanceLock.Lock()
	defer sharedInstanceLock.Unlock()
	return sharedInstance
}

func requireInstance(methodName string) *Client {
	client := Instance()
	if client == nil {
		internal.LogErrorNotInitialized(methodName)
	}
	return client
}

// LogEvent tracks an event through the shared client instance.
//
// Deprecated: Use Client.LogEvent.
func LogEvent(eventType string) error {
	return requireInstance("LogEvent").LogEvent(eventType)
}

// LogEventWithProperties tracks an event with properties through the shared client instance.
//
// Deprecated: Use Client.LogEventWithProperties.
func LogEventWithProperties(eventType string, properties ldvalue.Value) error {
	return requireInstance("LogEventWithProperties").LogEventWithProperties(eventType, properties)
}

// LogRevenue tracks a revenue amount through the shared client instance.
//
// Deprecated: Use Client.LogRevenue.
func LogRevenue(amount float64) error {
	return requireInstance("LogRevenue").LogRevenue(amount)
}

// LogRevenuePurchase tracks a revenue transaction through the shared client instance.
//
// Deprecated: Use Client.LogRevenuePurchase.
func LogRevenuePurchase(productID string, quantity int, price float64, receipt []byte) error {
	return requireInstance("LogRevenuePurchase").LogRevenuePurchase(productID, quantity, price, receipt)
}

// SetUserProperties merges user properties through the shared client instance.
//
// Deprecated: Use Client.SetUserProperties.
func SetUserProperties(properties ldvalue.Value) error {
	return requireInstance("SetUserProperties").SetUserProperties(properties)
}

// SetUserID sets the user identifier on the shared client instance.
//
// Deprecated: Use Client.SetUserID.
func SetUserID(userID string) {
	requireInstance("SetUserID").SetUserID(userID)
}

// SetOptOut sets tracking opt-out on the shared client instance.
//
// Deprecated: Use Client.SetOptOut.
func SetOptOut(optOut bool) {
	requireInstance("SetOptOut").SetOptOut(optOut)
}

// UploadEvents requests an immediate upload through the shared client instance.
//
// Deprecated: Use Client.UploadEvents.
func UploadEvents() {
	requireInstance("UploadEvents").UploadEvents()
}

// UploadEventsBlocking requests an immediate upload through the shared client instance and waits
// for it.
//
// Deprecated: Use Client.UploadEventsBlocking.
func UploadEventsBlocking(timeout time.Duration) bool {
	return requireInstance("UploadEventsBlocking").UploadEventsBlocking(timeout)
}

// DeviceID returns the device identifier of the shared client instance.
//
// Deprecated: Use Client.DeviceID.
func DeviceID() string {
	return requireInstance("DeviceID").DeviceID()
}

// PrintEventsCount logs the queued event count of the shared client instance.
//
// Deprecated: Use Client.PrintEventsCount.
func PrintEventsCount() {
	requireInstance("PrintEventsCount").PrintEventsCount()
}
