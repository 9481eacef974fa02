package ampevents

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/require"
)

type receivedEvent struct {
	Type           string        `json:"event_type"`
	Properties     ldvalue.Value `json:"event_properties"`
	UserProperties ldvalue.Value `json:"user_properties"`
	Replace        *bool         `json:"replace"`
	Timestamp      uint64        `json:"timestamp"`
	SessionID      int64         `json:"session_id"`
	InsertID       string        `json:"insert_id"`
}

type receivedPayload struct {
	APIKey   string          `json:"api_key"`
	DeviceID string          `json:"device_id"`
	UserID   string          `json:"user_id"`
	Events   []receivedEvent `json:"events"`
}

type mockEventSender struct {
	payloads     []receivedPayload
	payloadsCh   chan receivedPayload
	payloadCount int
	result       EventSenderResult
	gateCh       <-chan struct{}
	waitingCh    chan<- struct{}
	lock         sync.Mutex
}

func newMockEventSender() *mockEventSender {
	return &mockEventSender{
		payloadsCh: make(chan receivedPayload, 100),
		result:     EventSenderResult{Success: true},
	}
}

func (ms *mockEventSender) SendEventData(data []byte, eventCount int) EventSenderResult {
	var payload receivedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		panic(err)
	}
	ms.lock.Lock()
	ms.payloads = append(ms.payloads, payload)
	ms.payloadCount++
	gateCh, waitingCh := ms.gateCh, ms.waitingCh
	result := ms.result
	ms.lock.Unlock()
	ms.payloadsCh <- payload

	if gateCh != nil {
		// instrumentation used for tests that need an upload to be in progress
		waitingCh <- struct{}{}
		<-gateCh
	}

	return result
}

func (ms *mockEventSender) setResult(result EventSenderResult) {
	ms.lock.Lock()
	ms.result = result
	ms.lock.Unlock()
}

func (ms *mockEventSender) setGate(gateCh <-chan struct{}, waitingCh chan<- struct{}) {
	ms.lock.Lock()
	ms.gateCh = gateCh
	ms.waitingCh = waitingCh
	ms.lock.Unlock()
}

func (ms *mockEventSender) getPayloadCount() int {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	return ms.payloadCount
}

func (ms *mockEventSender) awaitPayload(t *testing.T) receivedPayload {
	payload, ok := ms.tryAwaitPayload()
	if !ok {
		require.Fail(t, "timed out waiting for an upload payload")
	}
	return payload
}

func (ms *mockEventSender) tryAwaitPayload() (receivedPayload, bool) {
	select {
	case p := <-ms.payloadsCh:
		return p, true
	case <-time.After(time.Second):
	}
	return receivedPayload{}, false
}

func (ms *mockEventSender) assertNoMorePayloads(t *testing.T) {
	select {
	case <-ms.payloadsCh:
		require.Fail(t, "received an upload payload that should not have been sent")
	case <-time.After(100 * time.Millisecond):
	}
}
