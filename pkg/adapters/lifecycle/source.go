// Package lifecycle exposes meta file change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/metafile/pkg/core"
)

// Option configures a Source.
type Option func(*Source)

// WithTypes forwards only events of the given types. By default every type passes.
func WithTypes(types ...core.EventType) Option {
	return func(s *Source) {
		s.types = types
	}
}

// WithCoalesce drops an event when the same asset already produced an event
// of the same type less than window ago. One save of a meta file often
// surfaces as several filesystem events. Zero disables it.
func WithCoalesce(window time.Duration) Option {
	return func(s *Source) {
		s.window = window
	}
}

// Source re-emits core.Event values, such as those returned by
// fs.Project.Watch, as lifecycle events.
type Source struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	types  []core.EventType
	window time.Duration

	forwarded atomic.Int64
	filtered  atomic.Int64
	coalesced atomic.Int64
}

// NewSource creates a Source reading from events. Its channel closes when
// events closes or the context passed to Start is done.
func NewSource(events <-chan core.Event, opts ...Option) *Source {
	s := &Source{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		last := make(map[core.Event]time.Time)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.accept(e, last) {
					continue
				}
				select {
				case s.out <- e:
					s.forwarded.Add(1)
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// accept applies the type filter and the coalescing window. last is keyed by
// the event with its timestamp cleared.
func (s *Source) accept(e core.Event, last map[core.Event]time.Time) bool {
	if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
		s.filtered.Add(1)
		return false
	}
	if s.window <= 0 {
		return true
	}

	key := core.Event{Type: e.Type, Asset: e.Asset}
	now := time.Now()
	if at, ok := last[key]; ok && now.Sub(at) < s.window {
		s.coalesced.Add(1)
		return false
	}
	last[key] = now
	return true
}

// SourceState exposes the bridge counters for observability.
type SourceState struct {
	Forwarded int64 `json:"forwarded"`
	Filtered  int64 `json:"filtered"`
	Coalesced int64 `json:"coalesced"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	return SourceState{
		Forwarded: s.forwarded.Load(),
		Filtered:  s.filtered.Load(),
		Coalesced: s.coalesced.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "event-source"
}

var (
	_ lifecycle.Source             = (*Source)(nil)
	_ introspection.Introspectable = (*Source)(nil)
	_ introspection.Component      = (*Source)(nil)
)
