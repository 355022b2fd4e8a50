package params

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func TestNewStoreDefaults(t *testing.T) {

	s := NewStore()

	if f := s.Frequency(Left); f != 210 {
		t.Fatalf("left frequency: expected 210, got %v", f)
	}
	if f := s.Frequency(Right); f != 220 {
		t.Fatalf("right frequency: expected 220, got %v", f)
	}
	if f := s.Frequency(Top); f != 10 {
		t.Fatalf("top frequency: expected 10, got %v", f)
	}
	if v := s.Volume(); v != 0.5 {
		t.Fatalf("volume: expected 0.5, got %v", v)
	}
	if m := s.Mode(); m != Stereo {
		t.Fatalf("mode: expected stereo, got %v", m)
	}
	if !s.Linked() {
		t.Fatal("expected store to be linked by default")
	}
	if b := s.BeatFrequency(); b != 10 {
		t.Fatalf("beat frequency: expected 10, got %v", b)
	}
	if tf := s.TargetFrequency(); tf != 20000 {
		t.Fatalf("target frequency: expected 20000, got %v", tf)
	}
}

func TestNewStoreOptions(t *testing.T) {

	s := NewStore(
		Frequency(Left, 100),
		Frequency(Right, 104.5),
		InitialPosition(Top, Position{0.5, 1, 2}),
		Volume(0.8),
		ChannelMode(Mono),
		Linked(false),
	)

	if f := s.Frequency(Left); f != 100 {
		t.Fatalf("expected 100, got %v", f)
	}
	if p := s.Position(Top); p != (Position{0.5, 1, 2}) {
		t.Fatalf("unexpected position %v", p)
	}
	if s.Mode() != Mono {
		t.Fatal("expected mono mode")
	}
	// the beat frequency is derived once even when not linked
	if b := s.BeatFrequency(); b != 4.5 {
		t.Fatalf("expected beat 4.5, got %v", b)
	}
}

func TestBeatFrequencyLinked(t *testing.T) {

	s := NewStore()

	if err := s.SetFrequency(Right, 230.123); err != nil {
		t.Fatal(err)
	}
	if b := s.BeatFrequency(); b != 20.12 {
		t.Fatalf("expected beat 20.12, got %v", b)
	}

	// right below left
	if err := s.SetFrequency(Left, 240); err != nil {
		t.Fatal(err)
	}
	if b := s.BeatFrequency(); b != 9.88 {
		t.Fatalf("expected beat 9.88, got %v", b)
	}
}

func TestBeatFrequencyUnlinked(t *testing.T) {

	s := NewStore()
	s.SetLinked(false)

	if err := s.SetFrequency(Right, 300); err != nil {
		t.Fatal(err)
	}
	if b := s.BeatFrequency(); b != 10 {
		t.Fatalf("beat must not follow frequencies when unlinked; got %v", b)
	}

	s.SetLinked(true)
	if b := s.BeatFrequency(); b != 90 {
		t.Fatalf("expected beat 90 after linking, got %v", b)
	}
}

func TestAutoSetTones(t *testing.T) {

	s := NewStore()

	if err := s.AutoSetTones(20000, 10); err != nil {
		t.Fatal(err)
	}

	if f := s.Frequency(Left); f != 19995 {
		t.Fatalf("left: expected 19995, got %v", f)
	}
	if f := s.Frequency(Right); f != 20005 {
		t.Fatalf("right: expected 20005, got %v", f)
	}
	if f := s.Frequency(Top); f != 10 {
		t.Fatalf("top must stay unchanged, got %v", f)
	}
	if b := s.BeatFrequency(); b != 10 {
		t.Fatalf("expected beat 10, got %v", b)
	}

	if err := s.AutoSetTones(math.NaN(), 10); err == nil {
		t.Fatal("expected error for NaN target")
	}
}

func TestSetTargetFrequency(t *testing.T) {

	s := NewStore()

	if err := s.SetTargetFrequency(440); err != nil {
		t.Fatal(err)
	}
	if f := s.TargetFrequency(); f != 440 {
		t.Fatalf("expected target 440, got %v", f)
	}
	if f := s.Frequency(Left); f != DefaultLeftFrequency {
		t.Fatalf("tones must not change, left = %v", f)
	}

	if err := s.SetTargetFrequency(math.Inf(1)); err == nil {
		t.Fatal("expected error for an infinite target")
	}
	if f := s.TargetFrequency(); f != 440 {
		t.Fatalf("target changed to %v", f)
	}
}

func TestParseFrequency(t *testing.T) {

	s := NewStore()

	if err := s.ParseFrequency(Top, " 12.5 "); err != nil {
		t.Fatal(err)
	}
	if f := s.Frequency(Top); f != 12.5 {
		t.Fatalf("expected 12.5, got %v", f)
	}

	if err := s.ParseFrequency(Top, "abc"); err == nil {
		t.Fatal("expected parse error")
	}
	if f := s.Frequency(Top); f != 12.5 {
		t.Fatalf("frequency changed after parse error: %v", f)
	}

	// degenerate values are accepted
	if err := s.ParseFrequency(Left, "-5"); err != nil {
		t.Fatal(err)
	}
}

func TestParseVolume(t *testing.T) {

	s := NewStore()

	tests := []struct {
		input   string
		wantErr bool
		want    float64
	}{
		{"0.7", false, 0.7},
		{"1", false, 1},
		{"0", false, 0},
		{"2.0", true, 0},
		{"-0.1", true, 0},
		{"loud", true, 0},
	}

	for _, tt := range tests {
		before := s.Volume()
		err := s.ParseVolume(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVolume(%q): expected error", tt.input)
			}
			if s.Volume() != before {
				t.Errorf("ParseVolume(%q): volume changed to %v", tt.input, s.Volume())
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVolume(%q): %v", tt.input, err)
		}
		if s.Volume() != tt.want {
			t.Errorf("ParseVolume(%q) = %v, want %v", tt.input, s.Volume(), tt.want)
		}
	}

	if err := s.ParseVolume("3"); !errors.Is(err, ErrVolumeRange) {
		t.Fatalf("expected ErrVolumeRange, got %v", err)
	}
}

func TestSetPositionAndX(t *testing.T) {

	s := NewStore()

	if err := s.SetPosition(Right, Position{0.2, 0.3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetX(Right, -1); err != nil {
		t.Fatal(err)
	}
	if p := s.Position(Right); p != (Position{-1, 0.3, 4}) {
		t.Fatalf("unexpected position %v", p)
	}

	if err := s.SetX(Source(7), 1); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if err := s.SetPosition(Left, Position{math.Inf(1), 0, 0}); err == nil {
		t.Fatal("expected error for infinite coordinate")
	}
}

func TestParseSource(t *testing.T) {

	for _, src := range Sources {
		got, err := ParseSource(src.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != src {
			t.Fatalf("expected %v, got %v", src, got)
		}
	}

	if _, err := ParseSource("bottom"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestNotifyCb(t *testing.T) {

	s := NewStore()

	notified := make(chan struct{}, 10)
	s.SetNotifyCb(func() { notified <- struct{}{} })

	s.SetVolume(0.1)

	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("notify callback not executed")
	}
}

func TestSnapshotConcurrentAccess(t *testing.T) {

	s := NewStore()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetFrequency(Left, float64(i))
			s.SetX(Right, float64(i%3)-1)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := s.Snapshot()
			if snap.Tone(Right).Source != Right {
				t.Error("snapshot contains wrong source")
				return
			}
		}
	}()

	wg.Wait()
}
