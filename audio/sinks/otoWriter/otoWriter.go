package otoWriter

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/dh1tw/hz/audio"
	"github.com/ebitengine/oto/v3"
)

const bytesPerSample = 4 // float32

// OtoWriter implements the audio.Player interface on top of an oto
// context. It is an alternative to the portaudio based scWriter which
// doesn't require any C libraries on Windows and macOS.
type OtoWriter struct {
	sync.Mutex
	options  Options
	ctx      *oto.Context
	player   *oto.Player
	queue    []byte
	volume   float32
	consumed chan struct{}
	stopCh   chan struct{}
}

// NewOtoWriter creates the oto context and returns an OtoWriter. Only one
// OtoWriter can exist per process.
func NewOtoWriter(opts ...Option) (*OtoWriter, error) {

	w := &OtoWriter{
		options: Options{
			Channels:   2,
			Samplerate: 44100,
			Latency:    time.Millisecond * 40,
			LowWater:   time.Millisecond * 20,
		},
		volume:   1,
		consumed: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}

	for _, option := range opts {
		option(&w.options)
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(w.options.Samplerate),
		ChannelCount: w.options.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   w.options.Latency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("unable to create oto context: %v", err)
	}
	<-ready

	w.ctx = ctx
	w.player = ctx.NewPlayer(w)
	w.player.SetBufferSize(w.bytes(w.options.Latency))

	log.Printf("output: oto, %vHz, %d channel(s)\n", w.options.Samplerate, w.options.Channels)

	return w, nil
}

// bytes returns the amount of bytes needed for the duration d
func (w *OtoWriter) bytes(d time.Duration) int {
	frames := int(math.Round(d.Seconds() * w.options.Samplerate))
	return frames * w.options.Channels * bytesPerSample
}

// Start starts pulling audio from the queue.
func (w *OtoWriter) Start() error {
	w.player.Play()
	return w.player.Err()
}

// Read is called by the oto player. If no data is queued, silence is
// returned so that the player keeps running.
func (w *OtoWriter) Read(p []byte) (int, error) {
	w.Lock()
	n := copy(p, w.queue)
	w.queue = w.queue[n:]
	w.Unlock()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}

	if n > 0 {
		select {
		case w.consumed <- struct{}{}:
		default:
		}
	}

	return len(p), nil
}

// SetVolume sets the volume for all upcoming audio frames.
func (w *OtoWriter) SetVolume(v float32) {
	w.Lock()
	defer w.Unlock()
	if v < 0 {
		w.volume = 0
	} else if v > 1 {
		w.volume = 1
	} else {
		w.volume = v
	}
}

// Volume returns the current volume.
func (w *OtoWriter) Volume() float32 {
	w.Lock()
	defer w.Unlock()
	return w.volume
}

// Play queues the buffer and blocks until it has been pulled by the
// player (except LowWater), or until Stop is called.
func (w *OtoWriter) Play(msg audio.Msg) error {

	if msg.Samplerate != w.options.Samplerate {
		return fmt.Errorf("oto: samplerate %vHz not supported; expected %vHz",
			msg.Samplerate, w.options.Samplerate)
	}

	var aData []float32
	if msg.Channels != w.options.Channels {
		aData = audio.AdjustChannels(msg.Channels, w.options.Channels, msg.Data)
	} else {
		aData = msg.Data
	}

	w.Lock()
	stopCh := w.stopCh
	vol := w.volume
	w.Unlock()

	buf := make([]byte, len(aData)*bytesPerSample)
	for i, s := range aData {
		binary.LittleEndian.PutUint32(buf[i*bytesPerSample:], math.Float32bits(s*vol))
	}

	w.Lock()
	w.queue = append(w.queue, buf...)
	w.Unlock()

	lowWater := w.bytes(w.options.LowWater)

	for {
		w.Lock()
		queued := len(w.queue)
		w.Unlock()

		if queued <= lowWater {
			return nil
		}

		select {
		case <-w.consumed:
		case <-stopCh:
			return audio.ErrStopped
		}
	}
}

// Stop drops all queued audio. A blocked Play call returns
// audio.ErrStopped.
func (w *OtoWriter) Stop() {
	w.Lock()
	defer w.Unlock()
	close(w.stopCh)
	w.stopCh = make(chan struct{})
	w.queue = nil
}

// Close stops the playback and releases the oto player.
func (w *OtoWriter) Close() error {
	w.Stop()
	return w.player.Close()
}
