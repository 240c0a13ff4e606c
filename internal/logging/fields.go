package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// With applies fields to e in order.
func With(e *bolt.Event, fields ...Field) *bolt.Event {
	for _, f := range fields {
		e = f(e)
	}
	return e
}

func Command(name string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("command", name) }
}

func Chart(kind string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("chart", kind) }
}

// Period adds the period unit and its start date.
func Period(unit string, start time.Time) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("period", unit).Str("start", start.Format("2006-01-02"))
	}
}

func DBMode(mode string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("db_mode", mode) }
}

func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("path", p) }
}

func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int64("duration_ms", d.Milliseconds()) }
}

func Count(n int) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int("count", n) }
}

func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
