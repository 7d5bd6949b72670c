// Package event implements the synchronous publish/subscribe bus that the
// converter and its plugins communicate through.
package event

// Action tells the dispatcher whether to keep calling handlers.
type Action int

const (
	// Continue lets the remaining handlers run.
	Continue Action = iota
	// Stop ends dispatch for the current Trigger call.
	Stop
)

// Handler receives the arguments passed to Trigger.
type Handler func(args ...any) Action

// HandlerID identifies one registration. It is the handler identity used by Off.
type HandlerID uint64

// Resetter is implemented by event objects whose per-dispatch state must be
// cleared before handlers see them.
type Resetter interface {
	Reset()
}

// Event is an optional event object that may be passed as the first Trigger argument.
type Event struct {
	name             string
	defaultPrevented bool
}

// NewEvent creates a named event object.
func NewEvent(name string) *Event {
	return &Event{name: name}
}

func (e *Event) Name() string { return e.name }

// PreventDefault asks the triggering component to skip its default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

func (e *Event) IsDefaultPrevented() bool { return e.defaultPrevented }

// Reset clears per-dispatch state. Trigger calls it before the first handler.
func (e *Event) Reset() { e.defaultPrevented = false }
