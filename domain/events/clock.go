package events

import "time"

// msToTime converts an epoch-millisecond timestamp, the wire format used
// throughout the domain layer, into the time.Time BaseEvent expects.
func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
