package event

import "sort"

type subscription struct {
	id         HandlerID
	name       string
	handler    Handler
	subscriber any
	priority   int
}

// Dispatcher keeps one ordered subscriber list per event name. Lists are
// sorted by descending priority when a handler registers; ties keep
// registration order.
//
// A Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	handlers map[string][]*subscription
	nextID   HandlerID

	// dispatchers this one registered handlers on through ListenTo
	listeningTo []*Dispatcher
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]*subscription)}
}

// On registers handler for name. subscriber may be nil; it only matters for Off.
func (d *Dispatcher) On(name string, handler Handler, subscriber any, priority int) HandlerID {
	if d.handlers == nil {
		d.handlers = make(map[string][]*subscription)
	}
	d.nextID++
	sub := &subscription{
		id:         d.nextID,
		name:       name,
		handler:    handler,
		subscriber: subscriber,
		priority:   priority,
	}

	list := d.handlers[name]
	// first index with a strictly lower priority keeps ties in registration order
	at := sort.Search(len(list), func(i int) bool { return list[i].priority < priority })
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = sub
	d.handlers[name] = list
	return sub.id
}

// Once registers a handler that removes itself after its first call.
func (d *Dispatcher) Once(name string, handler Handler, subscriber any, priority int) HandlerID {
	var id HandlerID
	id = d.On(name, func(args ...any) Action {
		d.Off(name, id, nil)
		return handler(args...)
	}, subscriber, priority)
	return id
}

// Off removes registrations matching every non-zero argument. With all
// arguments zero it clears the dispatcher.
func (d *Dispatcher) Off(name string, id HandlerID, subscriber any) {
	if name == "" && id == 0 && subscriber == nil {
		d.handlers = make(map[string][]*subscription)
		return
	}

	names := []string{name}
	if name == "" {
		names = names[:0]
		for n := range d.handlers {
			names = append(names, n)
		}
	}

	for _, n := range names {
		list, ok := d.handlers[n]
		if !ok {
			continue
		}
		kept := list[:0:0]
		for _, sub := range list {
			if id != 0 && sub.id != id {
				kept = append(kept, sub)
				continue
			}
			if subscriber != nil && sub.subscriber != subscriber {
				kept = append(kept, sub)
				continue
			}
		}
		if len(kept) == 0 {
			delete(d.handlers, n)
		} else {
			d.handlers[n] = kept
		}
	}
}

// Trigger calls every handler registered for name in priority order. Unknown
// names are a no-op. If the first argument implements Resetter it is reset
// before dispatch. Trigger reports false when a handler returned Stop.
func (d *Dispatcher) Trigger(name string, args ...any) bool {
	list := d.handlers[name]
	if len(list) == 0 {
		return true
	}
	if len(args) > 0 {
		if r, ok := args[0].(Resetter); ok {
			r.Reset()
		}
	}

	// handlers may register or remove subscriptions while we iterate
	snapshot := make([]*subscription, len(list))
	copy(snapshot, list)
	for _, sub := range snapshot {
		if sub.handler(args...) == Stop {
			return false
		}
	}
	return true
}

// HasListeners reports whether any handler is registered for name.
func (d *Dispatcher) HasListeners(name string) bool {
	return len(d.handlers[name]) > 0
}

// ListenTo registers handler on target with d as the subscriber so that
// StopListening can release it later.
func (d *Dispatcher) ListenTo(target *Dispatcher, name string, handler Handler, priority int) HandlerID {
	id := target.On(name, handler, d, priority)
	for _, t := range d.listeningTo {
		if t == target {
			return id
		}
	}
	d.listeningTo = append(d.listeningTo, target)
	return id
}

// StopListening removes handlers d registered through ListenTo. A nil target
// means every dispatcher d listens to; empty name and zero id match everything.
func (d *Dispatcher) StopListening(target *Dispatcher, name string, id HandlerID) {
	var remaining []*Dispatcher
	for _, t := range d.listeningTo {
		if target != nil && t != target {
			remaining = append(remaining, t)
			continue
		}
		t.Off(name, id, d)
		if name != "" || id != 0 {
			if t.hasSubscriber(d) {
				remaining = append(remaining, t)
			}
		}
	}
	d.listeningTo = remaining
}

func (d *Dispatcher) hasSubscriber(subscriber any) bool {
	for _, list := range d.handlers {
		for _, sub := range list {
			if sub.subscriber == subscriber {
				return true
			}
		}
	}
	return false
}
