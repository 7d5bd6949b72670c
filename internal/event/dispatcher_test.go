package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recorder(out *[]string, tag string) Handler {
	return func(args ...any) Action {
		*out = append(*out, tag)
		return Continue
	}
}

func TestDispatcher_PriorityOrder(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	d.On("begin", recorder(&calls, "low"), nil, -10)
	d.On("begin", recorder(&calls, "first-zero"), nil, 0)
	d.On("begin", recorder(&calls, "high"), nil, 100)
	d.On("begin", recorder(&calls, "second-zero"), nil, 0)

	assert.True(t, d.Trigger("begin"))
	assert.Equal(t, []string{"high", "first-zero", "second-zero", "low"}, calls)
}

func TestDispatcher_Stop(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	d.On("resolve", recorder(&calls, "a"), nil, 10)
	d.On("resolve", func(args ...any) Action {
		calls = append(calls, "stopper")
		return Stop
	}, nil, 5)
	d.On("resolve", recorder(&calls, "never"), nil, 0)

	assert.False(t, d.Trigger("resolve"))
	assert.Equal(t, []string{"a", "stopper"}, calls)

	// stopping only affects one trigger call
	calls = nil
	d.Trigger("resolve")
	assert.Equal(t, []string{"a", "stopper"}, calls)
}

func TestDispatcher_UnknownEventIsNoop(t *testing.T) {
	d := NewDispatcher()
	assert.True(t, d.Trigger("nobody-listens", 1, 2))
	assert.False(t, d.HasListeners("nobody-listens"))
}

func TestDispatcher_PassesArgsAndResetsEvent(t *testing.T) {
	d := NewDispatcher()
	ev := NewEvent("render")
	ev.PreventDefault()

	var seen []any
	d.On("render", func(args ...any) Action {
		e := args[0].(*Event)
		assert.False(t, e.IsDefaultPrevented())
		seen = args[1:]
		e.PreventDefault()
		return Continue
	}, nil, 0)

	d.Trigger("render", ev, "x", 3)
	assert.Equal(t, []any{"x", 3}, seen)
	assert.True(t, ev.IsDefaultPrevented())
}

func TestDispatcher_Off(t *testing.T) {
	ownerA, ownerB := &struct{ n int }{1}, &struct{ n int }{2}

	setup := func() (*Dispatcher, *[]string, HandlerID) {
		d := NewDispatcher()
		calls := &[]string{}
		id := d.On("x", recorder(calls, "a-x"), ownerA, 0)
		d.On("y", recorder(calls, "a-y"), ownerA, 0)
		d.On("x", recorder(calls, "b-x"), ownerB, 0)
		return d, calls, id
	}
	fire := func(d *Dispatcher) {
		d.Trigger("x")
		d.Trigger("y")
	}

	t.Run("by handler", func(t *testing.T) {
		d, calls, id := setup()
		d.Off("", id, nil)
		fire(d)
		assert.Equal(t, []string{"b-x", "a-y"}, *calls)
	})

	t.Run("by name", func(t *testing.T) {
		d, calls, _ := setup()
		d.Off("x", 0, nil)
		fire(d)
		assert.Equal(t, []string{"a-y"}, *calls)
	})

	t.Run("by subscriber", func(t *testing.T) {
		d, calls, _ := setup()
		d.Off("", 0, ownerA)
		fire(d)
		assert.Equal(t, []string{"b-x"}, *calls)
	})

	t.Run("by name and subscriber", func(t *testing.T) {
		d, calls, _ := setup()
		d.Off("x", 0, ownerB)
		fire(d)
		assert.Equal(t, []string{"a-x", "a-y"}, *calls)
	})

	t.Run("everything", func(t *testing.T) {
		d, calls, _ := setup()
		d.Off("", 0, nil)
		fire(d)
		assert.Empty(t, *calls)
	})
}

func TestDispatcher_Once(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	d.Once("end", recorder(&calls, "once"), nil, 0)

	d.Trigger("end")
	d.Trigger("end")
	assert.Equal(t, []string{"once"}, calls)
}

func TestDispatcher_HandlerRegisteringDuringTrigger(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	d.On("e", func(args ...any) Action {
		calls = append(calls, "outer")
		d.On("e", recorder(&calls, "late"), nil, 0)
		return Continue
	}, nil, 0)

	d.Trigger("e")
	assert.Equal(t, []string{"outer"}, calls)
}

func TestDispatcher_ListenTo(t *testing.T) {
	source := NewDispatcher()
	other := NewDispatcher()
	plugin := NewDispatcher()

	var calls []string
	source.On("e", recorder(&calls, "owner"), nil, 0)
	plugin.ListenTo(source, "e", recorder(&calls, "plugin-1"), 0)
	id := plugin.ListenTo(source, "f", recorder(&calls, "plugin-f"), 0)
	plugin.ListenTo(other, "e", recorder(&calls, "plugin-other"), 0)

	plugin.StopListening(source, "", id)
	source.Trigger("e")
	source.Trigger("f")
	other.Trigger("e")
	assert.Equal(t, []string{"owner", "plugin-1", "plugin-other"}, calls)

	calls = nil
	plugin.StopListening(nil, "", 0)
	source.Trigger("e")
	other.Trigger("e")
	assert.Equal(t, []string{"owner"}, calls)
	assert.Empty(t, plugin.listeningTo)
}
