package cpu

// EventKind is the type of a trace event.
type EventKind int

//go:generate go tool stringer -linecomment -type=EventKind
const (
	EVENT_FETCH  = EventKind(0) // fetch
	EVENT_READ   = EventKind(1) // read
	EVENT_WRITE  = EventKind(2) // write
	EVENT_INPUT  = EventKind(3) // input
	EVENT_OUTPUT = EventKind(4) // output
	EVENT_HALT   = EventKind(5) // halt
)

// Event is a single structured trace record from the CPU core.
type Event struct {
	Kind EventKind
	Pc   Word // Address of the executing instruction.

	Code Code // EVENT_FETCH: instruction word.

	Addr   int  // EVENT_READ, EVENT_WRITE, EVENT_INPUT, EVENT_OUTPUT: bus address.
	Value  Word // EVENT_READ, EVENT_WRITE, EVENT_INPUT, EVENT_OUTPUT: bus value.
	Signed int  // EVENT_INPUT, EVENT_OUTPUT: device side value.

	Halt Halt // EVENT_HALT: why the machine stopped.
}

// Sink receives trace events.
type Sink interface {
	Trace(ev Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev Event)

func (sf SinkFunc) Trace(ev Event) {
	sf(ev)
}

// Recorder is a Sink that keeps every event.
type Recorder struct {
	Events []Event
}

func (rec *Recorder) Trace(ev Event) {
	rec.Events = append(rec.Events, ev)
}

// Kinds returns the kind of each recorded event, in order.
func (rec *Recorder) Kinds() (kinds []EventKind) {
	for _, ev := range rec.Events {
		kinds = append(kinds, ev.Kind)
	}
	return
}
