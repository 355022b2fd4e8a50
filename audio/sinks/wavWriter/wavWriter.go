package wavWriter

import (
	"fmt"
	"os"
	"sync"

	"github.com/dh1tw/gosamplerate"
	"github.com/dh1tw/hz/audio"
	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
)

// WavWriter implements the audio.Player interface and renders the
// audio buffers into a wav file instead of a speaker. Play returns
// as soon as the buffer has been written.
type WavWriter struct {
	sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	options Options
	volume  float32
	src     src
	frames  int
}

// src contains a samplerate converter and its needed variables
type src struct {
	gosamplerate.Src
	samplerate float64
	ratio      float64
}

// NewWavWriter returns a WavWriter which writes the audio into a new file
// at path.
func NewWavWriter(path string, opts ...Option) (*WavWriter, error) {

	w := &WavWriter{
		options: Options{
			Channels:   DefaultChannels,
			BitDepth:   DefaultBitDepth,
			Samplerate: DefaultSamplerate,
		},
		volume: 1.0,
	}

	for _, o := range opts {
		o(&w.options)
	}

	// make sure we only allow 12 / 16 bit Bitdepth (dynamic range)
	switch w.options.BitDepth {
	case 12, 16:
	default:
		w.options.BitDepth = 16
	}

	// setup a samplerate converter
	srConv, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST,
		w.options.Channels, 65536)
	if err != nil {
		return nil, fmt.Errorf("WavWriter samplerate converter: %v", err)
	}
	w.src = src{
		Src:        srConv,
		samplerate: w.options.Samplerate,
		ratio:      1,
	}

	f, err := os.Create(path)
	if err != nil {
		gosamplerate.Delete(srConv)
		return nil, err
	}
	w.file = f

	w.encoder = wav.NewEncoder(f, int(w.options.Samplerate),
		w.options.BitDepth, w.options.Channels, 1)

	return w, nil
}

// Stop is a no-op; Play never blocks.
func (w *WavWriter) Stop() {}

// Close finalizes the wav header and closes the file.
func (w *WavWriter) Close() error {
	w.Lock()
	defer w.Unlock()
	err := w.encoder.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	gosamplerate.Delete(w.src.Src)
	return err
}

// SetVolume sets the volume for all incoming audio frames.
func (w *WavWriter) SetVolume(v float32) {
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
func (w *WavWriter) Volume() float32 {
	w.Lock()
	defer w.Unlock()
	return w.volume
}

// Frames returns the amount of sample frames written so far.
func (w *WavWriter) Frames() int {
	w.Lock()
	defer w.Unlock()
	return w.frames
}

// Play writes the audio buffer into the wav file. Channels and Samplerate
// will be adjusted, if necessary.
func (w *WavWriter) Play(msg audio.Msg) error {

	var err error

	// max size of an audio sample converted from float32 to int16
	const (
		b12 int = 4096
		b16 int = 32768
	)

	// if necessary adjust the amount of audio channels
	aData := make([]float32, len(msg.Data))
	copy(aData, msg.Data)
	if msg.Channels != w.options.Channels {
		aData = audio.AdjustChannels(msg.Channels, w.options.Channels, aData)
	}

	w.Lock()
	defer w.Unlock()

	audio.AdjustVolume(w.volume, aData)

	if msg.Samplerate != w.options.Samplerate {
		if w.src.samplerate != msg.Samplerate {
			w.src.Reset()
			w.src.samplerate = msg.Samplerate
			w.src.ratio = w.options.Samplerate / msg.Samplerate
		}
		aData, err = w.src.Process(aData, w.src.ratio, false)
		if err != nil {
			return err
		}
	}

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  int(w.options.Samplerate),
			NumChannels: w.options.Channels,
		},
		SourceBitDepth: w.options.BitDepth,
		Data:           make([]int, 0, len(aData)),
	}

	// prepare the bitdepth / dynamic range
	max := b16
	if w.options.BitDepth == 12 {
		max = b12
	}

	for _, frame := range aData {
		f := int(frame * float32(max))
		if f > max-1 {
			buf.Data = append(buf.Data, max-1)
		} else if f < -max {
			buf.Data = append(buf.Data, -max)
		} else {
			buf.Data = append(buf.Data, f)
		}
	}

	if err := w.encoder.Write(&buf); err != nil {
		return fmt.Errorf("unable to write wav data: %v", err)
	}

	w.frames += len(aData) / w.options.Channels

	return nil
}
