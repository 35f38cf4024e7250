package play

import "github.com/gillessed/palantarot/engine"

// EventLog is the append-only record of one game. It is not safe for
// concurrent use; Game serializes access to it.
type EventLog struct {
	events []engine.Event
}

// Append adds events to the end of the log and returns the index of the
// first one.
func (l *EventLog) Append(events ...engine.Event) int {
	start := len(l.events)
	l.events = append(l.events, events...)
	return start
}

// Len returns the number of events in the log, private ones included.
func (l *EventLog) Len() int { return len(l.events) }

// Since replays the log from index startAt, keeping only events visible to
// player. A negative limit returns everything after startAt.
func (l *EventLog) Since(player engine.PlayerID, startAt, limit int) []engine.Event {
	if startAt < 0 {
		startAt = 0
	}
	out := make([]engine.Event, 0)
	for i := startAt; i < len(l.events); i++ {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if engine.VisibleTo(l.events[i], player) {
			out = append(out, l.events[i])
		}
	}
	return out
}
