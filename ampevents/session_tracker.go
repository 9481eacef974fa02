package ampevents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

// sessionTracker decides session boundaries from inter-event timing gaps. It has two states:
// no session, and an active session identified by the millisecond timestamp at which it began.
//
// The tracker is driven only from the event dispatcher goroutine, so it needs no locking.
type sessionTracker struct {
	minGap        ldtime.UnixMillisecondTime
	trackEvents   bool
	active        bool
	sessionID     int64
	lastEventTime ldtime.UnixMillisecondTime
}

func newSessionTracker(config EventsConfiguration) *sessionTracker {
	return &sessionTracker{
		minGap:      ldtime.UnixMillisecondTime(config.MinTimeBetweenSessions.Milliseconds()),
		trackEvents: config.TrackSessionEvents,
	}
}

// routeEvent observes an in-session event at the given time and returns the session ID the event
// should be tagged with, plus any synthetic session events that must be appended first. Events
// logged as out-of-session must not be passed here; they are tagged with SessionIDOutOfSession
// and leave the tracker untouched.
func (s *sessionTracker) routeEvent(now ldtime.UnixMillisecondTime) (int64, []Event) {
	if !s.active {
		events := s.begin(now)
		return s.sessionID, events
	}
	// Timestamps earlier than the last observed event can occur if the host clock moves
	// backwards; treat them as part of the current session without regressing lastEventTime.
	if now > s.lastEventTime && now-s.lastEventTime >= s.minGap {
		events := s.end()
		events = append(events, s.begin(now)...)
		return s.sessionID, events
	}
	if now > s.lastEventTime {
		s.lastEventTime = now
	}
	return s.sessionID, nil
}

// startSession forces a new session beginning at the given time, ending the current one if any.
func (s *sessionTracker) startSession(now ldtime.UnixMillisecondTime) []Event {
	events := s.end()
	return append(events, s.begin(now)...)
}

// endSession forces the current session to end, returning to the no-session state.
func (s *sessionTracker) endSession() []Event {
	return s.end()
}

func (s *sessionTracker) begin(now ldtime.UnixMillisecondTime) []Event {
	s.active = true
	s.sessionID = int64(now)
	s.lastEventTime = now
	if !s.trackEvents {
		return nil
	}
	return []Event{{Type: SessionStartEventType, Timestamp: now, SessionID: s.sessionID}}
}

func (s *sessionTracker) end() []Event {
	if !s.active {
		return nil
	}
	s.active = false
	if !s.trackEvents {
		return nil
	}
	return []Event{{Type: SessionEndEventType, Timestamp: s.lastEventTime, SessionID: s.sessionID}}
}
