// Package amplitude is the main package for the Amplitude analytics client SDK for Go.
//
// Use amplitude.MakeClient or amplitude.MakeCustomClient to create a Client, then call its
// methods to record events and revenue transactions:
//
//	client, err := amplitude.MakeClient("YOUR_API_KEY_HERE")
//	if err != nil { ... }
//	defer client.Close()
//
//	client.LogEvent("Compute Hash")
//
// Events are queued durably on the device and uploaded in batches: every 30 events, every 30
// seconds, and on Close. See ampcomponents.SendEvents for tuning these thresholds.
package amplitude
