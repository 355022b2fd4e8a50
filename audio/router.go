package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNoActiveSink is returned by Router.Play when no sink is enabled.
var ErrNoActiveSink = errors.New("no active sink")

type sink struct {
	Player
	active bool
}

// Router is a Player which plays every buffer on all of its active
// sinks at the same time (e.g. a speaker and a wav recorder). Play
// returns once all active sinks have consumed the buffer.
type Router struct {
	sync.RWMutex // for map & variables
	sinks        map[string]*sink
}

// NewRouter returns an initialized Router without sinks.
func NewRouter() *Router {
	return &Router{
		sinks: make(map[string]*sink),
	}
}

// AddSink adds a Player. When marked as active, buffers will be played
// on this sink.
func (r *Router) AddSink(name string, p Player, active bool) {
	r.Lock()
	defer r.Unlock()
	r.sinks[name] = &sink{p, active}
}

// EnableSink marks the sink as active, so that upcoming buffers will be
// played on it.
func (r *Router) EnableSink(name string, active bool) error {
	r.Lock()
	defer r.Unlock()
	s, ok := r.sinks[name]
	if !ok {
		return fmt.Errorf("unknown sink %s", name)
	}
	s.active = active
	return nil
}

// Play plays msg on all active sinks and waits until all of them have
// returned. If one of the sinks has been stopped, ErrStopped is returned.
// Without any active sink, Play fails with ErrNoActiveSink instead of
// returning immediately.
func (r *Router) Play(msg Msg) error {

	r.RLock()
	active := make(map[string]Player, len(r.sinks))
	for name, s := range r.sinks {
		if s.active {
			active[name] = s.Player
		}
	}
	r.RUnlock()

	if len(active) == 0 {
		return ErrNoActiveSink
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var sinkErrors []*SinkError

	for name, p := range active {
		wg.Add(1)
		go func(name string, p Player) {
			defer wg.Done()
			if err := p.Play(msg); err != nil {
				mu.Lock()
				sinkErrors = append(sinkErrors, &SinkError{Sink: name, Err: err})
				mu.Unlock()
			}
		}(name, p)
	}
	wg.Wait()

	if len(sinkErrors) == 0 {
		return nil
	}

	for _, sErr := range sinkErrors {
		if errors.Is(sErr.Err, ErrStopped) {
			return ErrStopped
		}
	}

	return &PlayError{Errors: sinkErrors}
}

// Stop stops all sinks.
func (r *Router) Stop() {
	r.RLock()
	defer r.RUnlock()
	for _, s := range r.sinks {
		s.Stop()
	}
}

// Close closes all sinks. The first error is returned.
func (r *Router) Close() error {
	r.Lock()
	defer r.Unlock()
	var firstErr error
	for name, s := range r.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", name, err)
		}
	}
	return firstErr
}

// SinkError is an Error which is used when a buffer could not be played
// on a particular sink.
type SinkError struct {
	Sink string
	Err  error
}

// PlayError is returned by Router.Play when one or more sinks failed.
type PlayError struct {
	Errors []*SinkError
}

func (e *PlayError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, sErr := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %v", sErr.Sink, sErr.Err))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
