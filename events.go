package dragon

// EventKind identifies an engine event.
type EventKind uint8

const (
	EventDragStart  EventKind = iota // a gesture began
	EventChain                       // a snap continued into a new drag
	EventSnap                        // a snap ended the gesture
	EventRelease                     // the pointer was released
	EventSettle                      // the engine came to rest at a state
	EventDiagnostic                  // an author error was caught
)

var eventNames = [...]string{"drag-start", "chain", "snap", "release", "settle", "diagnostic"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "event?"
}

// Event is emitted to an EventSink as the engine changes state.
type Event struct {
	Kind     EventKind
	Mode     Mode   // mode after the event
	NodePath string // dragged node, when there is one
	State    any    // resting or target state, when relevant
	Err      error  // EventDiagnostic only
}

// EventSink receives engine events. Emit is called synchronously from the
// engine's entry points and must not call back into the engine.
type EventSink interface {
	EmitEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(e).
func (f EventSinkFunc) EmitEvent(e Event) { f(e) }
