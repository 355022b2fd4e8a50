package otoWriter

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dh1tw/hz/audio"
)

// newTestWriter returns an OtoWriter without an oto context. The tests
// act as the oto player by calling Read.
func newTestWriter() *OtoWriter {
	return &OtoWriter{
		options: Options{
			Channels:   2,
			Samplerate: 1000,
			Latency:    time.Millisecond * 10,
			LowWater:   0,
		},
		volume:   1,
		consumed: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

func TestReadSilence(t *testing.T) {
	w := newTestWriter()
	p := []byte{1, 2, 3, 4}
	n, err := w.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("unexpected read result %d, %v", n, err)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("expected silence at byte %d", i)
		}
	}
}

func TestPlayBlocksUntilConsumed(t *testing.T) {
	w := newTestWriter()

	msg := audio.Msg{
		Data:       []float32{0.5, -0.5, 0.25, -0.25},
		Samplerate: 1000,
		Channels:   2,
		Frames:     2,
	}

	done := make(chan error)
	go func() { done <- w.Play(msg) }()

	select {
	case <-done:
		t.Fatal("Play returned before the data was consumed")
	case <-time.After(time.Millisecond * 20):
	}

	p := make([]byte, 16)
	w.Read(p)

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play did not return after the data was consumed")
	}

	for i, exp := range msg.Data {
		s := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if s != exp {
			t.Fatalf("sample %d: expected %v, got %v", i, exp, s)
		}
	}
}

func TestStopTruncatesPlay(t *testing.T) {
	w := newTestWriter()

	msg := audio.Msg{
		Data:       make([]float32, 2000),
		Samplerate: 1000,
		Channels:   2,
		Frames:     1000,
	}

	done := make(chan error)
	go func() { done <- w.Play(msg) }()

	time.Sleep(time.Millisecond * 10)
	w.Stop()

	select {
	case err := <-done:
		if !errors.Is(err, audio.ErrStopped) {
			t.Fatalf("expected ErrStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play not interrupted by Stop")
	}

	w.Lock()
	defer w.Unlock()
	if len(w.queue) != 0 {
		t.Fatal("queue not flushed")
	}
}

func TestVolumeAndChannels(t *testing.T) {
	w := newTestWriter()
	w.SetVolume(0.5)
	if w.Volume() != 0.5 {
		t.Fatalf("unexpected volume %v", w.Volume())
	}

	// mono buffer is expanded to stereo
	msg := audio.Msg{
		Data:       []float32{1},
		Samplerate: 1000,
		Channels:   1,
		Frames:     1,
	}

	done := make(chan error)
	go func() { done <- w.Play(msg) }()

	p := make([]byte, 8)
	deadline := time.Now().Add(time.Second)
	for {
		w.Lock()
		queued := len(w.queue)
		w.Unlock()
		if queued > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	w.Read(p)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		s := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if s != 0.5 {
			t.Fatalf("channel %d: expected 0.5, got %v", i, s)
		}
	}
}

func TestSamplerateMismatch(t *testing.T) {
	w := newTestWriter()
	err := w.Play(audio.Msg{Data: []float32{0, 0}, Samplerate: 48000, Channels: 2, Frames: 1})
	if err == nil {
		t.Fatal("expected an error for a samplerate mismatch")
	}
}
