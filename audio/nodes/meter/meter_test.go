package meter

import (
	"testing"
	"time"

	"github.com/chewxy/math32"

	"github.com/dh1tw/hz/audio"
)

func TestRms(t *testing.T) {

	tests := []struct {
		data []float32
		want float32
	}{
		{[]float32{}, 0},
		{[]float32{1, -1, 1, -1}, 1},
		{[]float32{0.5, 0.5}, 0.5},
		{[]float32{3, 4}, math32.Sqrt(12.5)},
	}

	for _, tt := range tests {
		if got := rms(tt.data); math32.Abs(got-tt.want) > 1e-6 {
			t.Errorf("rms(%v) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestStereoLevels(t *testing.T) {

	data := []float32{1, 0, -1, 0, 1, 0.5, -1, -0.5}
	lvl := stereoLevels(data)

	if lvl.Left != 1 {
		t.Fatalf("left: expected 1, got %v", lvl.Left)
	}
	if math32.Abs(lvl.Right-math32.Sqrt(0.125)) > 1e-6 {
		t.Fatalf("right: expected %v, got %v", math32.Sqrt(0.125), lvl.Right)
	}
	if lvl.Peak != 1 {
		t.Fatalf("peak: expected 1, got %v", lvl.Peak)
	}
}

func TestStateChanges(t *testing.T) {

	states := make(chan bool, 10)
	levels := make(chan Levels, 10)

	m := New(
		HoldTime(0),
		StateChanged(func(audible bool) { states <- audible }),
		LevelsChanged(func(l Levels) { levels <- l }),
	)

	loud := audio.Msg{Data: []float32{0.5, 0.5, -0.5, -0.5}, Channels: 2, Frames: 2}
	silent := audio.Msg{Data: []float32{0, 0, 0, 0}, Channels: 2, Frames: 2}

	m.Write(loud)

	select {
	case s := <-states:
		if !s {
			t.Fatal("expected audible state")
		}
	case <-time.After(time.Second):
		t.Fatal("state change callback not executed")
	}

	select {
	case l := <-levels:
		if l.Left != 0.5 || l.Right != 0.5 {
			t.Fatalf("unexpected levels %+v", l)
		}
	case <-time.After(time.Second):
		t.Fatal("levels callback not executed")
	}

	if !m.Audible() {
		t.Fatal("meter should report audible")
	}

	time.Sleep(time.Millisecond)
	m.Write(silent)

	select {
	case s := <-states:
		if s {
			t.Fatal("expected silent state")
		}
	case <-time.After(time.Second):
		t.Fatal("state change callback not executed")
	}

	if m.Audible() {
		t.Fatal("meter should report silent")
	}
}

func TestEmptyBuffer(t *testing.T) {
	called := false
	m := New(LevelsChanged(func(Levels) { called = true }))
	m.Write(audio.Msg{Channels: 2})
	time.Sleep(10 * time.Millisecond)
	if called {
		t.Fatal("levels must not be reported for empty buffers")
	}
}
