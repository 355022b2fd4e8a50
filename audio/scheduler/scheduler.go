package scheduler

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dh1tw/hz/audio"
	"github.com/dh1tw/hz/audio/synth"
	"github.com/dh1tw/hz/params"
)

// State is the state of the playback.
type State int

// Playback states.
const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// stopPollInterval is the interval at which Stop repeats the hard stop
// of the player until the playback loop has exited.
const stopPollInterval = time.Millisecond * 10

// Scheduler generates audio buffers from the parameters in a params.Store
// and plays them on an audio.Player, one buffer after another. The
// parameters are read at every buffer boundary.
type Scheduler struct {
	sync.RWMutex
	cmdMu   sync.Mutex // serializes Start & Stop
	options Options
	store   *params.Store
	player  audio.Player
	state   State
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New returns a Scheduler in the Stopped state.
func New(store *params.Store, player audio.Player, opts ...Option) *Scheduler {

	s := &Scheduler{
		options: Options{
			Samplerate:     DefaultSamplerate,
			BufferDuration: DefaultBufferDuration,
			RetryPause:     DefaultRetryPause,
		},
		store:  store,
		player: player,
		state:  Stopped,
	}

	for _, option := range opts {
		option(&s.options)
	}

	// empty buffers would turn the loop into a busy loop
	if synth.Samples(s.options.Samplerate, s.options.BufferDuration.Seconds()) == 0 {
		log.Printf("invalid buffer duration %v at %vHz; using %v\n",
			s.options.BufferDuration, s.options.Samplerate, DefaultBufferDuration)
		s.options.BufferDuration = DefaultBufferDuration
		if s.options.Samplerate <= 0 {
			s.options.Samplerate = DefaultSamplerate
		}
	}

	return s
}

// Start starts the playback loop. Calling Start while the playback is
// already running has no effect.
func (s *Scheduler) Start() {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.Lock()
	if s.state == Playing {
		s.Unlock()
		return
	}
	s.state = Playing
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.loop(s.stopCh, s.doneCh)
	s.Unlock()

	log.Println("playback started")
	s.onStateChanged(true)
}

// Stop stops the playback loop and truncates the buffer which is currently
// being played. Stop returns after the playback loop has exited. Calling
// Stop while the playback is stopped has no effect.
func (s *Scheduler) Stop() {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.Lock()
	if s.state == Stopped {
		s.Unlock()
		return
	}
	s.state = Stopped
	close(s.stopCh)
	doneCh := s.doneCh
	s.Unlock()

	// the loop may be between two buffers when the hard stop is issued,
	// so it is repeated until the loop has exited
	ticker := time.NewTicker(stopPollInterval)
	defer ticker.Stop()

	for {
		s.player.Stop()
		select {
		case <-doneCh:
			log.Println("playback stopped")
			s.onStateChanged(false)
			return
		case <-ticker.C:
		}
	}
}

// State returns the current playback state.
func (s *Scheduler) State() State {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// Playing indicates if the playback loop is running.
func (s *Scheduler) Playing() bool {
	return s.State() == Playing
}

func (s *Scheduler) onStateChanged(playing bool) {
	if s.options.StateChanged != nil {
		go s.options.StateChanged(playing)
	}
}

// loop generates and plays buffers until stopCh is closed.
func (s *Scheduler) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	duration := s.options.BufferDuration.Seconds()

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		msg := synth.Generate(s.store.Snapshot(), s.options.Samplerate, duration)

		for _, cb := range s.options.OnData {
			cb(msg)
		}

		err := s.player.Play(msg)
		if err == nil {
			continue
		}

		if errors.Is(err, audio.ErrStopped) {
			// truncated by Stop; the loop exits at the next check
			continue
		}

		log.Println("playback error:", err)

		select {
		case <-stopCh:
			return
		case <-time.After(s.options.RetryPause):
		}
	}
}
