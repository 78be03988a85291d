package sdk

import (
	"strings"

	"github.com/agentwire/agentwire/sdk/go/events"
)

// FilterByType passes through only events whose type is in types. Order is
// preserved; errors from the source propagate unchanged.
func FilterByType(source EventStream, types ...events.EventType) EventStream {
	allowed := make(map[events.EventType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return &filterStream{source: source, allowed: allowed}
}

type filterStream struct {
	source  EventStream
	allowed map[events.EventType]struct{}
}

func (f *filterStream) Next() (events.Event, bool, error) {
	for {
		ev, ok, err := f.source.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		if _, want := f.allowed[ev.Type()]; want {
			return ev, true, nil
		}
	}
}

func (f *filterStream) Close() error { return f.source.Close() }

// EventGroup collects the events of one logical unit: a streamed text
// message or a tool call. Complete reports whether the group's end event
// arrived before the stream finished.
type EventGroup struct {
	Key      string
	Events   []events.Event
	Complete bool
}

// GroupStream yields EventGroups assembled from a flat event stream. Text
// message events group by message ID and tool call events by tool call ID; a
// tool call result joins its call's group when that group is still open.
// Events with no grouping key become singleton complete groups in arrival
// order. When the source ends, groups still open are flushed incomplete, in
// the order they were opened.
type GroupStream struct {
	source  EventStream
	open    map[string]*EventGroup
	order   []string
	pending []*EventGroup
	flushed bool
}

// NewGroupStream returns a grouping adapter over source.
func NewGroupStream(source EventStream) *GroupStream {
	return &GroupStream{
		source: source,
		open:   make(map[string]*EventGroup),
	}
}

// Next returns the next completed (or flushed) group.
func (g *GroupStream) Next() (EventGroup, bool, error) {
	for {
		if len(g.pending) > 0 {
			group := g.pending[0]
			g.pending = g.pending[1:]
			return *group, true, nil
		}
		if g.flushed {
			return EventGroup{}, false, nil
		}
		ev, ok, err := g.source.Next()
		if err != nil {
			return EventGroup{}, false, err
		}
		if !ok {
			g.flushOpen()
			g.flushed = true
			continue
		}
		g.consume(ev)
	}
}

// Close closes the underlying stream without flushing open groups.
func (g *GroupStream) Close() error { return g.source.Close() }

func (g *GroupStream) consume(ev events.Event) {
	key, position := groupKey(ev)
	if key == "" {
		g.pending = append(g.pending, &EventGroup{Events: []events.Event{ev}, Complete: true})
		return
	}
	group, isOpen := g.open[key]
	switch position {
	case groupOpens:
		if isOpen {
			group.Events = append(group.Events, ev)
			return
		}
		group = &EventGroup{Key: key, Events: []events.Event{ev}}
		g.open[key] = group
		g.order = append(g.order, key)
	case groupContinues:
		if !isOpen {
			g.pending = append(g.pending, &EventGroup{Key: key, Events: []events.Event{ev}, Complete: true})
			return
		}
		group.Events = append(group.Events, ev)
	case groupCloses:
		if !isOpen {
			g.pending = append(g.pending, &EventGroup{Key: key, Events: []events.Event{ev}, Complete: true})
			return
		}
		group.Events = append(group.Events, ev)
		group.Complete = true
		g.closeGroup(key)
		g.pending = append(g.pending, group)
	}
}

func (g *GroupStream) flushOpen() {
	for _, key := range g.order {
		if group, ok := g.open[key]; ok {
			g.pending = append(g.pending, group)
		}
	}
	g.open = make(map[string]*EventGroup)
	g.order = nil
}

func (g *GroupStream) closeGroup(key string) {
	delete(g.open, key)
	for i, k := range g.order {
		if k == key {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

type groupPosition int

const (
	groupOpens groupPosition = iota
	groupContinues
	groupCloses
)

// groupKey classifies an event for grouping. An empty key means the event
// stands alone.
func groupKey(ev events.Event) (string, groupPosition) {
	switch e := ev.(type) {
	case *events.TextMessageStartEvent:
		return e.MessageID, groupOpens
	case *events.TextMessageContentEvent:
		return e.MessageID, groupContinues
	case *events.TextMessageEndEvent:
		return e.MessageID, groupCloses
	case *events.ToolCallStartEvent:
		return e.ToolCallID, groupOpens
	case *events.ToolCallArgsEvent:
		return e.ToolCallID, groupContinues
	case *events.ToolCallResultEvent:
		return e.ToolCallID, groupContinues
	case *events.ToolCallEndEvent:
		return e.ToolCallID, groupCloses
	default:
		return "", groupContinues
	}
}

// MessageText is one fully accumulated text message.
type MessageText struct {
	MessageID string
	Text      string
}

// TextStream reduces text message events to whole messages: start opens an
// accumulator, content appends, end emits. Chunk events emit immediately as
// standalone fragments. Content for an unopened message opens an accumulator
// rather than failing, since snapshots may have consumed the start. Messages
// still open when the source ends are dropped.
type TextStream struct {
	source EventStream
	open   map[string]*strings.Builder
}

// NewTextStream returns a text accumulation adapter over source.
func NewTextStream(source EventStream) *TextStream {
	return &TextStream{
		source: source,
		open:   make(map[string]*strings.Builder),
	}
}

// Next returns the next completed message text.
func (t *TextStream) Next() (MessageText, bool, error) {
	for {
		ev, ok, err := t.source.Next()
		if err != nil || !ok {
			return MessageText{}, false, err
		}
		switch e := ev.(type) {
		case *events.TextMessageStartEvent:
			t.open[e.MessageID] = &strings.Builder{}
		case *events.TextMessageContentEvent:
			builder, ok := t.open[e.MessageID]
			if !ok {
				builder = &strings.Builder{}
				t.open[e.MessageID] = builder
			}
			builder.WriteString(e.Delta)
		case *events.TextMessageEndEvent:
			builder, ok := t.open[e.MessageID]
			if !ok {
				continue
			}
			delete(t.open, e.MessageID)
			return MessageText{MessageID: e.MessageID, Text: builder.String()}, true, nil
		case *events.TextMessageChunkEvent:
			return MessageText{MessageID: e.MessageID, Text: e.Delta}, true, nil
		}
	}
}

// Close closes the underlying stream.
func (t *TextStream) Close() error { return t.source.Close() }
