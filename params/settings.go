package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Settings is the bulk settings payload. All fields are optional; a
// missing field leaves the corresponding parameter untouched.
type Settings struct {
	Frequencies map[string]float64   `json:"frequencies,omitempty"`
	Positions   map[string][]float64 `json:"positions,omitempty"`
	Volume      *float64             `json:"volume,omitempty"`
	Stereo      *bool                `json:"stereo,omitempty"`
	Linked      *bool                `json:"linked,omitempty"`
}

// ApplyError is returned by Apply when one or more fields of a payload
// could not be applied. The remaining fields have been applied.
type ApplyError struct {
	Fields map[string]error
}

func (e *ApplyError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %v", k, e.Fields[k]))
	}
	return "unable to apply settings: " + strings.Join(msgs, "; ")
}

func (e *ApplyError) add(field string, err error) {
	if e.Fields == nil {
		e.Fields = make(map[string]error)
	}
	e.Fields[field] = err
}

// Export returns the current parameters as a Settings payload. Applying
// the returned payload reproduces the current parameters.
func (s *Store) Export() Settings {
	s.RLock()
	defer s.RUnlock()

	vol := s.mix.Volume
	stereo := s.mix.Mode == Stereo
	linked := s.linked

	st := Settings{
		Frequencies: make(map[string]float64, NumSources),
		Positions:   make(map[string][]float64, NumSources),
		Volume:      &vol,
		Stereo:      &stereo,
		Linked:      &linked,
	}

	for _, t := range s.tones {
		st.Frequencies[t.Source.String()] = t.Frequency
		st.Positions[t.Source.String()] = []float64{
			t.Position[0], t.Position[1], t.Position[2]}
	}

	return st
}

// Apply decodes a JSON settings payload and applies it. A malformed
// payload returns an error and leaves all parameters unchanged. Every
// field is validated on its own; fields which fail validation are left
// unchanged and reported through an *ApplyError, while all valid fields
// are applied. Unknown fields are ignored.
func (s *Store) Apply(data []byte) error {

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid settings payload: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("invalid settings payload: not an object")
	}

	applyErr := &ApplyError{}

	freqs := map[Source]float64{}
	if msg, ok := raw["frequencies"]; ok && !isNull(msg) {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			applyErr.add("frequencies", err)
		}
		for name, rawFreq := range m {
			if isNull(rawFreq) {
				continue
			}
			field := "frequencies." + name
			src, err := ParseSource(name)
			if err != nil {
				applyErr.add(field, err)
				continue
			}
			var f float64
			if err := json.Unmarshal(rawFreq, &f); err != nil {
				applyErr.add(field, err)
				continue
			}
			freqs[src] = f
		}
	}

	positions := map[Source]Position{}
	if msg, ok := raw["positions"]; ok && !isNull(msg) {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			applyErr.add("positions", err)
		}
		for name, rawPos := range m {
			if isNull(rawPos) {
				continue
			}
			field := "positions." + name
			src, err := ParseSource(name)
			if err != nil {
				applyErr.add(field, err)
				continue
			}
			var p []float64
			if err := json.Unmarshal(rawPos, &p); err != nil {
				applyErr.add(field, err)
				continue
			}
			if len(p) != 3 {
				applyErr.add(field,
					fmt.Errorf("expected 3 coordinates, got %d", len(p)))
				continue
			}
			positions[src] = Position{p[0], p[1], p[2]}
		}
	}

	var volume *float64
	if msg, ok := raw["volume"]; ok && !isNull(msg) {
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			applyErr.add("volume", err)
		} else if err := ValidVolume(v); err != nil {
			applyErr.add("volume", err)
		} else {
			volume = &v
		}
	}

	var stereo, linked *bool
	if msg, ok := raw["stereo"]; ok && !isNull(msg) {
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			applyErr.add("stereo", err)
		} else {
			stereo = &b
		}
	}
	if msg, ok := raw["linked"]; ok && !isNull(msg) {
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			applyErr.add("linked", err)
		} else {
			linked = &b
		}
	}

	changed := len(freqs) > 0 || len(positions) > 0 ||
		volume != nil || stereo != nil || linked != nil

	if changed {
		s.Lock()
		for src, f := range freqs {
			s.tones[src].Frequency = f
		}
		for src, p := range positions {
			s.tones[src].Position = p
		}
		if volume != nil {
			s.mix.Volume = *volume
		}
		if stereo != nil {
			if *stereo {
				s.mix.Mode = Stereo
			} else {
				s.mix.Mode = Mono
			}
		}
		if linked != nil {
			s.linked = *linked
		}
		s.updateBeat()
		s.notify()
		s.Unlock()
	}

	if len(applyErr.Fields) > 0 {
		return applyErr
	}

	return nil
}

// ApplySettings applies an already decoded Settings payload. See Apply
// for the validation rules.
func (s *Store) ApplySettings(st Settings) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("invalid settings payload: %w", err)
	}
	return s.Apply(data)
}

// a JSON null is treated like a missing field
func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}
