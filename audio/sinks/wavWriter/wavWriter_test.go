package wavWriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dh1tw/hz/audio"
	wav "github.com/go-audio/wav"
)

func TestWriteStereoFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "tones.wav")

	w, err := NewWavWriter(path, Samplerate(8000), Channels(2))
	if err != nil {
		t.Fatal(err)
	}

	data := make([]float32, 0, 200)
	for i := 0; i < 100; i++ {
		data = append(data, 0.5, -0.5)
	}
	msg := audio.Msg{Data: data, Samplerate: 8000, Channels: 2, Frames: 100}

	for i := 0; i < 3; i++ {
		if err := w.Play(msg); err != nil {
			t.Fatal(err)
		}
	}
	w.Stop()

	if w.Frames() != 300 {
		t.Fatalf("expected 300 frames, got %d", w.Frames())
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// the source buffer must not be modified
	if msg.Data[0] != 0.5 {
		t.Fatal("Play modified the audio buffer")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("invalid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if d.SampleRate != 8000 || d.NumChans != 2 || d.BitDepth != 16 {
		t.Fatalf("unexpected format %dHz, %d channels, %d bit",
			d.SampleRate, d.NumChans, d.BitDepth)
	}
	if len(buf.Data) != 600 {
		t.Fatalf("expected 600 samples, got %d", len(buf.Data))
	}
	if buf.Data[0] != 16384 || buf.Data[1] != -16384 {
		t.Fatalf("unexpected sample values %d, %d", buf.Data[0], buf.Data[1])
	}
}

func TestVolumeAndClipping(t *testing.T) {

	path := filepath.Join(t.TempDir(), "mono.wav")

	w, err := NewWavWriter(path, Samplerate(8000), Channels(1), BitDepth(24))
	if err != nil {
		t.Fatal(err)
	}
	if w.options.BitDepth != 16 {
		t.Fatalf("unsupported bit depth must fall back to 16, got %d", w.options.BitDepth)
	}

	w.SetVolume(2)
	if w.Volume() != 1 {
		t.Fatalf("volume must be clipped to 1, got %v", w.Volume())
	}

	// stereo -> mono; left = 1, right = 1
	msg := audio.Msg{Data: []float32{1, 1, -1, -1}, Samplerate: 8000, Channels: 2, Frames: 2}
	if err := w.Play(msg); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Data) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(buf.Data))
	}
	if buf.Data[0] != 32767 || buf.Data[1] != -32768 {
		t.Fatalf("samples not clipped: %d, %d", buf.Data[0], buf.Data[1])
	}
}
