package webserver

import (
	"encoding/json"

	"github.com/dh1tw/hz/audio/nodes/meter"
)

// ApplicationState is pushed to the websocket clients whenever a
// parameter or the playback state changes.
type ApplicationState struct {
	Tones   map[string]ToneState `json:"tones"`
	Volume  float64              `json:"volume"`
	Stereo  bool                 `json:"stereo"`
	Linked  bool                 `json:"linked"`
	Beat    float64              `json:"beat"`
	Target  float64              `json:"target"`
	Playing bool                 `json:"playing"`
}

type ToneState struct {
	Frequency float64    `json:"frequency"`
	Position  [3]float64 `json:"position"`
}

// LevelsMsg carries the output levels of the last buffer.
type LevelsMsg struct {
	Levels meter.Levels `json:"levels"`
}

// AudibleMsg is sent when the output becomes audible or falls silent.
type AudibleMsg struct {
	Audible bool `json:"audible"`
}

// ClientMessage is sent by the websocket clients. Settings contains
// a bulk settings payload. If Target is set, the left and right tones
// are placed around it (Beat Hz apart; current beat if omitted).
type ClientMessage struct {
	On       *bool           `json:"on,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Target   *float64        `json:"target,omitempty"`
	Beat     *float64        `json:"beat,omitempty"`
}

type FrequencyMsg struct {
	Frequency *float64 `json:"frequency"`
}

type PositionMsg struct {
	Position []float64 `json:"position"`
}

type VolumeMsg struct {
	Volume *float64 `json:"volume"`
}

type ModeMsg struct {
	Stereo *bool `json:"stereo"`
}

type LinkedMsg struct {
	Linked *bool `json:"linked"`
}

type BeatMsg struct {
	Beat float64 `json:"beat"`
}

type TargetMsg struct {
	Target *float64 `json:"target"`
}

type AutoSetMsg struct {
	Target *float64 `json:"target"`
	Beat   *float64 `json:"beat"`
}

type StateMsg struct {
	On *bool `json:"on"`
}
