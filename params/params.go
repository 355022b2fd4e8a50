package params

import (
	"errors"
	"fmt"
	"strings"
)

// Source identifies one of the three tone sources.
type Source int

// The three tone sources. Left and Right produce the binaural pair,
// Top is an additional (typically sub-audio) tone.
const (
	Left Source = iota
	Right
	Top
)

// NumSources is the amount of tone sources.
const NumSources = 3

// Sources contains all tone sources in their canonical order.
var Sources = [NumSources]Source{Left, Right, Top}

// ErrUnknownSource is returned when a tone source name can not be resolved.
var ErrUnknownSource = errors.New("unknown tone source")

func (s Source) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource returns the Source for a name (left, right, top).
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "top":
		return Top, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

func (s Source) valid() bool {
	return s >= Left && s <= Top
}

// Position is a point (x, y, z) in space. Only x (pan) and z (distance)
// affect the generated signal; y is carried along but unused.
type Position [3]float64

// X returns the horizontal (pan) coordinate.
func (p Position) X() float64 { return p[0] }

// Y returns the vertical coordinate.
func (p Position) Y() float64 { return p[1] }

// Z returns the distance coordinate.
func (p Position) Z() float64 { return p[2] }

// Mode is the channel mode of the generated signal.
type Mode int

// Channel modes.
const (
	Stereo Mode = iota
	Mono
)

func (m Mode) String() string {
	if m == Mono {
		return "mono"
	}
	return "stereo"
}

// Tone holds the parameters of one tone source.
type Tone struct {
	Source    Source
	Frequency float64 // Hz
	Position  Position
}

// Mix holds the parameters applied after summing all tone sources.
type Mix struct {
	Volume float64 // 0...1
	Mode   Mode
}

// Snapshot is a consistent copy of all parameters needed to generate
// an audio buffer.
type Snapshot struct {
	Tones [NumSources]Tone
	Mix   Mix
}

// Tone returns the parameters of a particular tone source.
func (s Snapshot) Tone(src Source) Tone {
	return s.Tones[src]
}
