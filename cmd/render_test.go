package cmd

import (
	"testing"
	"time"

	"github.com/dh1tw/hz/audio"
	"github.com/dh1tw/hz/params"
)

type countingPlayer struct {
	frames []int
}

func (p *countingPlayer) Play(msg audio.Msg) error {
	p.frames = append(p.frames, msg.Frames)
	return nil
}

func (p *countingPlayer) Stop()        {}
func (p *countingPlayer) Close() error { return nil }

func TestRender(t *testing.T) {

	p := &countingPlayer{}
	err := render(params.NewStore(), p, 8000, time.Second, time.Millisecond*300)
	if err != nil {
		t.Fatal(err)
	}

	exp := []int{2400, 2400, 2400, 800}
	if len(p.frames) != len(exp) {
		t.Fatalf("expected %d buffers, got %d", len(exp), len(p.frames))
	}
	for i := range exp {
		if p.frames[i] != exp[i] {
			t.Fatalf("buffer %d: expected %d frames, got %d", i, exp[i], p.frames[i])
		}
	}
}

func TestRenderBufferTooShort(t *testing.T) {
	p := &countingPlayer{}
	if err := render(params.NewStore(), p, 8000, time.Second, time.Microsecond); err == nil {
		t.Fatal("expected an error")
	}
}
