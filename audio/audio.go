package audio

import (
	"errors"
)

// ErrStopped is returned by Player.Play when the playback of the buffer
// has been truncated through Player.Stop.
var ErrStopped = errors.New("playback stopped")

// Player is the interface which is implemented by an audio output. This
// could be a local audio device (e.g. speakers) or a file for recording.
type Player interface {
	// Play blocks until the buffer has been consumed by the output.
	Play(Msg) error
	// Stop truncates immediately the buffer which is currently being
	// played. A blocked Play call returns ErrStopped.
	Stop()
	Close() error
}

// OnDataCb is called with every audio buffer before it is handed to
// a Player.
type OnDataCb func(Msg)

// Msg contains an audio buffer with it's metadata. The samples are
// interleaved (L, R, L, R, ...) when Channels > 1.
type Msg struct {
	Data       []float32
	Samplerate float64
	Channels   int
	Frames     int // Number of Frames in the buffer
}

// Duration returns the play time of the buffer in seconds.
func (m Msg) Duration() float64 {
	if m.Samplerate <= 0 {
		return 0
	}
	return float64(m.Frames) / m.Samplerate
}
