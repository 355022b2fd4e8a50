package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrVolumeRange is returned when a volume outside of [0...1] is provided
// through a textual payload.
var ErrVolumeRange = errors.New("volume must be within [0...1]")

// Store is the shared parameter container. It is read by the playback
// loop (through Snapshot) and written by the control surface. All methods
// are safe for concurrent use.
type Store struct {
	sync.RWMutex
	tones    [NumSources]Tone
	mix      Mix
	linked   bool
	beat     float64
	target   float64
	notifyCb func()
}

// NewStore returns a Store initialized with the default parameters,
// modified by the provided functional options.
func NewStore(opts ...Option) *Store {

	options := Options{
		Frequencies: [NumSources]float64{
			DefaultLeftFrequency,
			DefaultRightFrequency,
			DefaultTopFrequency,
		},
		Volume: DefaultVolume,
		Mode:   Stereo,
		Linked: true,
		Target: DefaultTargetFrequency,
	}

	for _, option := range opts {
		option(&options)
	}

	s := &Store{
		mix: Mix{
			Volume: options.Volume,
			Mode:   options.Mode,
		},
		linked: options.Linked,
		target: options.Target,
	}

	for _, src := range Sources {
		s.tones[src] = Tone{
			Source:    src,
			Frequency: options.Frequencies[src],
			Position:  options.Positions[src],
		}
	}

	// the beat frequency is always derived once, even if not linked
	s.beat = beatFrequency(s.tones[Left].Frequency, s.tones[Right].Frequency)

	return s
}

// SetNotifyCb sets a callback which will be executed (asynchronously)
// after each change of the parameters.
func (s *Store) SetNotifyCb(f func()) {
	s.Lock()
	defer s.Unlock()
	s.notifyCb = f
}

// notify must be called while holding the lock.
func (s *Store) notify() {
	if s.notifyCb != nil {
		go s.notifyCb()
	}
}

// Snapshot returns a consistent copy of the parameters needed by the
// audio pipeline.
func (s *Store) Snapshot() Snapshot {
	s.RLock()
	defer s.RUnlock()
	return Snapshot{
		Tones: s.tones,
		Mix:   s.mix,
	}
}

// Frequency returns the frequency (Hz) of a tone source.
func (s *Store) Frequency(src Source) float64 {
	if !src.valid() {
		return 0
	}
	s.RLock()
	defer s.RUnlock()
	return s.tones[src].Frequency
}

// SetFrequency sets the frequency (Hz) of a tone source. Zero and negative
// frequencies are accepted.
func (s *Store) SetFrequency(src Source, f float64) error {
	if !src.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownSource, src)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid frequency %v", f)
	}
	s.Lock()
	defer s.Unlock()
	s.tones[src].Frequency = f
	s.updateBeat()
	s.notify()
	return nil
}

// ParseFrequency parses a textual frequency (e.g. from an input field)
// and applies it to the tone source. On error the frequency remains
// unchanged.
func (s *Store) ParseFrequency(src Source, text string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("%v frequency: %w", src, err)
	}
	return s.SetFrequency(src, f)
}

// Position returns the position of a tone source.
func (s *Store) Position(src Source) Position {
	if !src.valid() {
		return Position{}
	}
	s.RLock()
	defer s.RUnlock()
	return s.tones[src].Position
}

// SetPosition sets the position of a tone source.
func (s *Store) SetPosition(src Source, pos Position) error {
	if !src.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownSource, src)
	}
	for _, c := range pos {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("invalid position %v", pos)
		}
	}
	s.Lock()
	defer s.Unlock()
	s.tones[src].Position = pos
	s.notify()
	return nil
}

// SetX sets only the horizontal (pan) coordinate of a tone source.
func (s *Store) SetX(src Source, x float64) error {
	if !src.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownSource, src)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("invalid x position %v", x)
	}
	s.Lock()
	defer s.Unlock()
	s.tones[src].Position[0] = x
	s.notify()
	return nil
}

// Volume returns the current volume.
func (s *Store) Volume() float64 {
	s.RLock()
	defer s.RUnlock()
	return s.mix.Volume
}

// SetVolume sets the volume. Values outside of [0...1] are not rejected.
func (s *Store) SetVolume(v float64) {
	s.Lock()
	defer s.Unlock()
	s.mix.Volume = v
	s.notify()
}

// ParseVolume parses a textual volume and applies it if it is within
// [0...1]. On error the volume remains unchanged.
func (s *Store) ParseVolume(text string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	if err := ValidVolume(v); err != nil {
		return err
	}
	s.SetVolume(v)
	return nil
}

// ValidVolume checks if v is a volume which can be accepted from a
// textual payload.
func ValidVolume(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w (got %v)", ErrVolumeRange, v)
	}
	return nil
}

// Mode returns the channel mode.
func (s *Store) Mode() Mode {
	s.RLock()
	defer s.RUnlock()
	return s.mix.Mode
}

// SetMode sets the channel mode (Stereo / Mono).
func (s *Store) SetMode(m Mode) {
	s.Lock()
	defer s.Unlock()
	s.mix.Mode = m
	s.notify()
}

// Linked indicates if the beat frequency follows the left / right
// frequencies.
func (s *Store) Linked() bool {
	s.RLock()
	defer s.RUnlock()
	return s.linked
}

// SetLinked enables / disables the beat frequency recalculation. Enabling
// it recalculates the beat frequency immediately.
func (s *Store) SetLinked(linked bool) {
	s.Lock()
	defer s.Unlock()
	s.linked = linked
	s.updateBeat()
	s.notify()
}

// BeatFrequency returns |right - left| (rounded to 2 decimals) as of the
// last frequency change while linked.
func (s *Store) BeatFrequency() float64 {
	s.RLock()
	defer s.RUnlock()
	return s.beat
}

// TargetFrequency returns the center frequency used by AutoSetTones.
func (s *Store) TargetFrequency() float64 {
	s.RLock()
	defer s.RUnlock()
	return s.target
}

// SetTargetFrequency sets the center frequency used by AutoSetTones.
// The tones are not changed.
func (s *Store) SetTargetFrequency(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid target frequency %v", f)
	}
	s.Lock()
	defer s.Unlock()
	s.target = f
	s.notify()
	return nil
}

// AutoSetTones places the left and right tone symmetrically around
// target, so that they are beat Hz apart.
func (s *Store) AutoSetTones(target, beat float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) ||
		math.IsNaN(beat) || math.IsInf(beat, 0) {
		return fmt.Errorf("invalid target (%v) or beat (%v) frequency", target, beat)
	}
	s.Lock()
	defer s.Unlock()
	s.target = target
	s.tones[Left].Frequency = target - beat/2
	s.tones[Right].Frequency = target + beat/2
	s.updateBeat()
	s.notify()
	return nil
}

// updateBeat must be called while holding the lock.
func (s *Store) updateBeat() {
	if !s.linked {
		return
	}
	s.beat = beatFrequency(s.tones[Left].Frequency, s.tones[Right].Frequency)
}

func beatFrequency(left, right float64) float64 {
	return math.Round(math.Abs(right-left)*100) / 100
}
