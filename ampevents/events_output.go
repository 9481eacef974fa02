package ampevents

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// eventOutputFormatter serializes an upload batch into the wire payload: a JSON object carrying
// the API key, the device/user identity block, and the events array. Identify entries are folded
// in as synthetic events of type IdentifyEventType.
type eventOutputFormatter struct {
	config EventsConfiguration
}

func (f eventOutputFormatter) makeUploadPayload(deviceID, userID string, batch []StoredEntry) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("api_key").String(f.config.APIKey)
	obj.Name("device_id").String(deviceID)
	if userID != "" {
		obj.Name("user_id").String(userID)
	}
	eventsArr := obj.Name("events").Array()
	for _, entry := range batch {
		writeOutputEntry(&w, entry)
	}
	eventsArr.End()
	obj.End()
	if err := w.Error(); err != nil {
		f.config.Loggers.Errorf("Unexpected error serializing event payload: %+v", err)
		return nil
	}
	return w.Bytes()
}

func writeOutputEntry(w *jwriter.Writer, entry StoredEntry) {
	obj := w.Object()
	switch entry.Kind {
	case IdentifyEntryKind:
		identify := entry.Identify
		obj.Name("event_type").String(IdentifyEventType)
		identify.UserProperties.WriteToJSONWriter(obj.Name("user_properties"))
		obj.Name("replace").Bool(identify.Op == IdentifyOpReplace)
		// Millisecond timestamps and session IDs exceed 32 bits, so they are written as float64
		// rather than int, which is 32 bits on some platforms.
		obj.Name("timestamp").Float64(float64(identify.Timestamp))
		obj.Name("session_id").Float64(float64(SessionIDOutOfSession))
		obj.Name("insert_id").String(identify.InsertID)
	default:
		event := entry.Event
		obj.Name("event_type").String(event.Type)
		if !event.Properties.IsNull() {
			event.Properties.WriteToJSONWriter(obj.Name("event_properties"))
		}
		obj.Name("timestamp").Float64(float64(event.Timestamp))
		obj.Name("session_id").Float64(float64(event.SessionID))
		obj.Name("insert_id").String(event.InsertID)
	}
	obj.End()
}
