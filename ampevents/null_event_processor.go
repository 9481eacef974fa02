package ampevents

import "time"

type nullEventProcessor struct{}

// NewNullEventProcessor creates an EventProcessor that discards everything. It is used when event
// delivery is disabled entirely.
func NewNullEventProcessor() EventProcessor {
	return nullEventProcessor{}
}

func (n nullEventProcessor) SendEvent(e Event) {}

func (n nullEventProcessor) SendIdentify(i Identify) {}

func (n nullEventProcessor) Flush() {}

func (n nullEventProcessor) FlushBlocking(timeout time.Duration) bool {
	return true
}

func (n nullEventProcessor) SetUserID(userID string) {}

func (n nullEventProcessor) StartSession() {}

func (n nullEventProcessor) EndSession() {}

func (n nullEventProcessor) Close() error {
	return nil
}
