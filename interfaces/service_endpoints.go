package interfaces

// ServiceEndpoints allow configuration of custom service URIs.
//
// If you want to set a non-default base URI for the event upload service -- for instance, to send
// events through an internal proxy that forwards them to Amplitude -- set the Events field here and
// store the struct in Config.ServiceEndpoints. An empty string means "use the default endpoint".
type ServiceEndpoints struct {
	Events string
}
