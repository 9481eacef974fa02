package ampevents

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/stretchr/testify/assert"
)

const testMinGap = 15 * time.Minute

func makeSessionTracker(trackEvents bool) *sessionTracker {
	return newSessionTracker(EventsConfiguration{
		MinTimeBetweenSessions: testMinGap,
		TrackSessionEvents:     trackEvents,
	})
}

func TestSessionStartsWithFirstEvent(t *testing.T) {
	s := makeSessionTracker(false)

	sessionID, events := s.routeEvent(1000)
	assert.Equal(t, int64(1000), sessionID)
	assert.Empty(t, events)
}

func TestEventsWithinGapShareSession(t *testing.T) {
	s := makeSessionTracker(false)
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())

	first, _ := s.routeEvent(1000)
	second, _ := s.routeEvent(1000 + gap - 1)
	assert.Equal(t, first, second)
}

func TestEventAfterGapStartsNewSession(t *testing.T) {
	s := makeSessionTracker(false)
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())

	first, _ := s.routeEvent(1000)
	second, _ := s.routeEvent(1000 + gap + 1)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int64(1000+gap+1), second)
}

func TestGapIsMeasuredFromLastEventNotSessionStart(t *testing.T) {
	s := makeSessionTracker(false)
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())

	first, _ := s.routeEvent(1000)
	// Activity just before the gap elapses keeps the session alive and resets the idle timer.
	mid, _ := s.routeEvent(1000 + gap - 1)
	assert.Equal(t, first, mid)
	third, _ := s.routeEvent(1000 + 2*(gap-1))
	assert.Equal(t, first, third)
}

func TestClockMovingBackwardsDoesNotEndSession(t *testing.T) {
	s := makeSessionTracker(false)

	first, _ := s.routeEvent(10000)
	second, _ := s.routeEvent(5000)
	assert.Equal(t, first, second)
	// lastEventTime must not have regressed.
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())
	third, _ := s.routeEvent(10000 + gap - 1)
	assert.Equal(t, first, third)
}

func TestSyntheticSessionEventsAreEmittedWhenEnabled(t *testing.T) {
	s := makeSessionTracker(true)
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())

	_, events := s.routeEvent(1000)
	if assert.Len(t, events, 1) {
		assert.Equal(t, SessionStartEventType, events[0].Type)
		assert.Equal(t, ldtime.UnixMillisecondTime(1000), events[0].Timestamp)
		assert.Equal(t, int64(1000), events[0].SessionID)
	}

	s.routeEvent(2000)

	newStart := 1000 + 2*gap
	_, events = s.routeEvent(newStart)
	if assert.Len(t, events, 2) {
		assert.Equal(t, SessionEndEventType, events[0].Type)
		// The end event carries the time of the last activity in the old session, not the
		// time at which the gap was noticed.
		assert.Equal(t, ldtime.UnixMillisecondTime(2000), events[0].Timestamp)
		assert.Equal(t, int64(1000), events[0].SessionID)
		assert.Equal(t, SessionStartEventType, events[1].Type)
		assert.Equal(t, int64(newStart), events[1].SessionID)
	}
}

func TestNoSyntheticSessionEventsWhenDisabled(t *testing.T) {
	s := makeSessionTracker(false)
	gap := ldtime.UnixMillisecondTime(testMinGap.Milliseconds())

	_, events := s.routeEvent(1000)
	assert.Empty(t, events)
	_, events = s.routeEvent(1000 + 2*gap)
	assert.Empty(t, events)
	assert.Empty(t, s.endSession())
}

func TestStartSessionForcesNewSession(t *testing.T) {
	s := makeSessionTracker(true)

	s.routeEvent(1000)
	events := s.startSession(2000)
	if assert.Len(t, events, 2) {
		assert.Equal(t, SessionEndEventType, events[0].Type)
		assert.Equal(t, SessionStartEventType, events[1].Type)
	}
	sessionID, _ := s.routeEvent(2500)
	assert.Equal(t, int64(2000), sessionID)
}

func TestStartSessionWithoutActiveSessionOnlyBegins(t *testing.T) {
	s := makeSessionTracker(true)

	events := s.startSession(1000)
	if assert.Len(t, events, 1) {
		assert.Equal(t, SessionStartEventType, events[0].Type)
	}
}

func TestEndSessionReturnsToNoSessionState(t *testing.T) {
	s := makeSessionTracker(true)

	s.routeEvent(1000)
	events := s.endSession()
	if assert.Len(t, events, 1) {
		assert.Equal(t, SessionEndEventType, events[0].Type)
	}
	assert.Empty(t, s.endSession())

	// The next event starts a fresh session even though the gap has not elapsed.
	sessionID, events := s.routeEvent(2000)
	assert.Equal(t, int64(2000), sessionID)
	if assert.Len(t, events, 1) {
		assert.Equal(t, SessionStartEventType, events[0].Type)
	}
}
