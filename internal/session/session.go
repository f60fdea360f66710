// ABOUTME: Explicit per-request session: who is acting, what time it is, and where.
// ABOUTME: Passed to calculators and aggregators instead of package-level state.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock func() time.Time

// Session carries the acting user and the time source for one operation.
type Session struct {
	UserID   uuid.UUID
	Clock    Clock
	Location *time.Location
}

// New returns a session for userID on the wall clock in the local zone.
func New(userID uuid.UUID) Session {
	return Session{UserID: userID, Clock: time.Now, Location: time.Local}
}

// Fixed returns a session whose clock is frozen at t, in t's location.
func Fixed(userID uuid.UUID, t time.Time) Session {
	return Session{UserID: userID, Clock: func() time.Time { return t }, Location: t.Location()}
}

// Now returns the session's current time in its location.
func (s Session) Now() time.Time {
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(s.loc())
}

// Today returns midnight of the session's current date.
func (s Session) Today() time.Time {
	now := s.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc())
}

// Day returns midnight of t's date in the session's location.
func (s Session) Day(t time.Time) time.Time {
	t = t.In(s.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc())
}

func (s Session) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
