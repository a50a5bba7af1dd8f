package processor

import (
	"github.com/rs/zerolog"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
	LevelProgress
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelProgress:
		return "PROGRESS"
	default:
		return "UNKNOWN"
	}
}

// Event is one entry of the stream a batch emits while it runs. Name is the
// file the event is about, if any. Done and Total are set on progress events.
type Event struct {
	Level   Level
	Name    string
	Message string
	Err     error
	Done    int
	Total   int
}

// EventSink receives the events of a batch. The engine calls Emit from a
// single goroutine, in order, so implementations need no locking of their own
// as long as one sink is not shared by concurrent batches.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) {
	f(ev)
}

// Discard drops every event.
var Discard EventSink = SinkFunc(func(Event) {})

// ChanSink forwards events to a channel, blocking when it is full. The
// consumer must keep draining until the batch returns.
type ChanSink chan<- Event

func (c ChanSink) Emit(ev Event) {
	c <- ev
}

// LogSink writes events through a zerolog logger. Progress events are logged
// at debug level so they do not drown the per-file lines.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Emit(ev Event) {
	var le *zerolog.Event
	switch ev.Level {
	case LevelError:
		le = s.Logger.Error().Err(ev.Err)
	case LevelProgress:
		le = s.Logger.Debug().Int("done", ev.Done).Int("total", ev.Total)
	default:
		le = s.Logger.Info()
	}
	if ev.Name != "" {
		le = le.Str("file", ev.Name)
	}
	le.Msg(ev.Message)
}

// MultiSink fans each event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}
