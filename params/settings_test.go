package params

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestApplyVolumeOutOfRange(t *testing.T) {

	s := NewStore()

	err := s.Apply([]byte(`{"volume": 2.0}`))
	if err == nil {
		t.Fatal("expected error for volume 2.0")
	}

	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected *ApplyError, got %T", err)
	}
	if _, ok := applyErr.Fields["volume"]; !ok {
		t.Fatalf("expected volume field error, got %v", applyErr.Fields)
	}
	if v := s.Volume(); v != 0.5 {
		t.Fatalf("volume must be retained, got %v", v)
	}
}

func TestApplySingleFrequency(t *testing.T) {

	s := NewStore()

	if err := s.Apply([]byte(`{"frequencies":{"left":300}}`)); err != nil {
		t.Fatal(err)
	}

	if f := s.Frequency(Left); f != 300 {
		t.Fatalf("left: expected 300, got %v", f)
	}
	if f := s.Frequency(Right); f != 220 {
		t.Fatalf("right must be unchanged, got %v", f)
	}
	if f := s.Frequency(Top); f != 10 {
		t.Fatalf("top must be unchanged, got %v", f)
	}
	if b := s.BeatFrequency(); b != 80 {
		t.Fatalf("expected beat 80, got %v", b)
	}
}

func TestApplyMalformed(t *testing.T) {

	payloads := []string{
		`{"frequencies":`,
		`[1, 2, 3]`,
		`null`,
		`"volume"`,
	}

	for _, p := range payloads {
		s := NewStore()
		before := s.Export()
		if err := s.Apply([]byte(p)); err == nil {
			t.Errorf("payload %q: expected error", p)
		}
		if after := s.Export(); !reflect.DeepEqual(before, after) {
			t.Errorf("payload %q changed the store: %+v", p, after)
		}
	}
}

func TestApplyPartialFailure(t *testing.T) {

	s := NewStore()

	payload := `{
		"frequencies": {"left": 100, "right": "fast", "bottom": 5},
		"positions": {"top": [1, 2], "right": [0.5, 0, 3]},
		"volume": 0.25,
		"unknown": {"foo": 1}
	}`

	err := s.Apply([]byte(payload))

	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected *ApplyError, got %v", err)
	}

	for _, f := range []string{"frequencies.right", "frequencies.bottom", "positions.top"} {
		if _, ok := applyErr.Fields[f]; !ok {
			t.Errorf("expected error for field %s", f)
		}
	}
	if len(applyErr.Fields) != 3 {
		t.Errorf("expected 3 failed fields, got %v", applyErr.Fields)
	}

	if f := s.Frequency(Left); f != 100 {
		t.Errorf("left: expected 100, got %v", f)
	}
	if f := s.Frequency(Right); f != 220 {
		t.Errorf("right must be unchanged, got %v", f)
	}
	if p := s.Position(Top); p != (Position{}) {
		t.Errorf("top position must be unchanged, got %v", p)
	}
	if p := s.Position(Right); p != (Position{0.5, 0, 3}) {
		t.Errorf("unexpected right position %v", p)
	}
	if v := s.Volume(); v != 0.25 {
		t.Errorf("volume: expected 0.25, got %v", v)
	}
}

func TestApplyNullFields(t *testing.T) {

	s := NewStore()

	if err := s.Apply([]byte(`{"volume": null, "frequencies": {"left": null}}`)); err != nil {
		t.Fatal(err)
	}
	if v := s.Volume(); v != 0.5 {
		t.Fatalf("volume changed to %v", v)
	}
	if f := s.Frequency(Left); f != 210 {
		t.Fatalf("left frequency changed to %v", f)
	}
}

func TestApplyModeAndLinked(t *testing.T) {

	s := NewStore()

	if err := s.Apply([]byte(`{"stereo": false, "linked": false}`)); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != Mono {
		t.Fatal("expected mono mode")
	}
	if s.Linked() {
		t.Fatal("expected unlinked")
	}
}

func TestExportApplyRoundTrip(t *testing.T) {

	src := NewStore()
	src.SetFrequency(Left, 123.456)
	src.SetFrequency(Right, 130.1)
	src.SetFrequency(Top, 7.83)
	src.SetPosition(Left, Position{-0.75, 0.1, 2.5})
	src.SetPosition(Top, Position{0.3, -1, 9.9})
	src.SetVolume(0.33)

	data, err := json.Marshal(src.Export())
	if err != nil {
		t.Fatal(err)
	}

	dst := NewStore()
	if err := dst.Apply(data); err != nil {
		t.Fatal(err)
	}

	const tolerance = 1e-9
	for _, s := range Sources {
		if d := math.Abs(src.Frequency(s) - dst.Frequency(s)); d > tolerance {
			t.Errorf("%v frequency: %v != %v", s, src.Frequency(s), dst.Frequency(s))
		}
		if src.Position(s) != dst.Position(s) {
			t.Errorf("%v position: %v != %v", s, src.Position(s), dst.Position(s))
		}
	}
	if d := math.Abs(src.Volume() - dst.Volume()); d > tolerance {
		t.Errorf("volume: %v != %v", src.Volume(), dst.Volume())
	}
	if !reflect.DeepEqual(src.Snapshot(), dst.Snapshot()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", src.Snapshot(), dst.Snapshot())
	}
}

func TestApplySettings(t *testing.T) {

	s := NewStore()
	vol := 0.9
	st := Settings{
		Frequencies: map[string]float64{"top": 4},
		Volume:      &vol,
	}
	if err := s.ApplySettings(st); err != nil {
		t.Fatal(err)
	}
	if s.Frequency(Top) != 4 || s.Volume() != 0.9 {
		t.Fatalf("settings not applied: %+v", s.Snapshot())
	}
}
