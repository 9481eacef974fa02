package interfaces

// DeviceIDProvider is the interface for the component that resolves the device identifier used to
// distinguish unique users when no user ID has been set.
//
// Device identity resolution is inherently platform-specific (for instance, a mobile platform might
// use a vendor identifier or an advertising identifier), so the SDK treats it as an injected
// capability rather than implementing any platform logic itself. The default implementation
// generates a random identifier once and persists it for the lifetime of the installation.
//
// DeviceID is called exactly once, while the client is being constructed; the returned value is
// stable for the lifetime of the client.
type DeviceIDProvider interface {
	DeviceID() (string, error)
}
