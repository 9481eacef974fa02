package ampevents

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	payloadIDHeader      = "X-Amplitude-Payload-ID"
	defaultEventsURIPath = "/batch"
	defaultRetryDelay    = time.Second
)

type serverSideEventSender struct {
	client               *http.Client
	eventsURI            string
	loggers              ldlog.Loggers
	retryableStatusCheck func(int) bool
	retryDelay           time.Duration
}

// NewServerSideEventSender creates the standard implementation of EventSender, which delivers
// payloads to the event service over HTTP.
//
// retryableStatusCheck decides whether an HTTP error status should be treated as retryable (the
// batch stays queued and is retried on the next scheduled trigger) or unrecoverable (automatic
// uploads are suspended). If nil, IsHTTPErrorRecoverable is used.
func NewServerSideEventSender(
	client *http.Client,
	baseURI string,
	loggers ldlog.Loggers,
	retryableStatusCheck func(int) bool,
) EventSender {
	if client == nil {
		client = http.DefaultClient
	}
	if retryableStatusCheck == nil {
		retryableStatusCheck = isHTTPErrorRecoverable
	}
	return &serverSideEventSender{
		client:               client,
		eventsURI:            strings.TrimRight(baseURI, "/") + defaultEventsURIPath,
		loggers:              loggers,
		retryableStatusCheck: retryableStatusCheck,
		retryDelay:           defaultRetryDelay,
	}
}

func (s *serverSideEventSender) SendEventData(data []byte, eventCount int) EventSenderResult {
	payloadUUID, _ := uuid.NewRandom()
	payloadID := payloadUUID.String() // if NewRandom somehow failed, we'll just proceed with an empty string

	s.loggers.Debugf("Sending %d events: %s", eventCount, data)

	var resp *http.Response
	var respErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			s.loggers.Warnf("Will retry posting events after %s", s.retryDelay)
			time.Sleep(s.retryDelay)
		}
		req, reqErr := http.NewRequest("POST", s.eventsURI, bytes.NewReader(data))
		if reqErr != nil {
			s.loggers.Errorf("Unexpected error while creating event request: %+v", reqErr)
			return EventSenderResult{}
		}
		req.Header.Add("Content-Type", "application/json")
		req.Header.Add(payloadIDHeader, payloadID)

		resp, respErr = s.client.Do(req)

		if resp != nil && resp.Body != nil {
			_, _ = ioutil.ReadAll(resp.Body)
			_ = resp.Body.Close()
		}

		if respErr != nil {
			s.loggers.Warnf("Unexpected error while sending events: %+v", respErr)
			continue
		} else if resp.StatusCode >= 400 && s.retryableStatusCheck(resp.StatusCode) {
			s.loggers.Warnf("Received error status %d when sending events", resp.StatusCode)
			continue
		} else {
			break
		}
	}

	if respErr != nil {
		// Network-level failure after the retry; the batch stays queued for the next trigger.
		return EventSenderResult{}
	}
	if err := checkForHTTPError(resp.StatusCode, s.eventsURI); err != nil {
		context := fmt.Sprintf("posting %d events", eventCount)
		if s.retryableStatusCheck(resp.StatusCode) {
			s.loggers.Error(httpErrorMessage(resp.StatusCode, context, true, "will retry on the next upload cycle"))
			return EventSenderResult{}
		}
		s.loggers.Error(httpErrorMessage(resp.StatusCode, context, false, ""))
		return EventSenderResult{MustSuspend: true}
	}
	return EventSenderResult{Success: true}
}
