package meter

import (
	"log"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/dh1tw/hz/audio"
)

// Levels contains the RMS and peak values of the left and right channel
// of an audio buffer.
type Levels struct {
	Left  float32 `json:"left"`
	Right float32 `json:"right"`
	Peak  float32 `json:"peak"`
}

// Meter measures the levels of the generated audio buffers and detects
// if the output has fallen silent (e.g. all sources out of range or
// the volume set to zero).
type Meter struct {
	sync.Mutex
	active         bool
	lastActivation time.Time
	onStateChange  func(audible bool)
	onLevels       func(Levels)
	threshold      float32
	holdTime       time.Duration
	chWarning      sync.Once
}

// New is the constructor method for a Meter. By default the threshold
// is set to 0.001 and the hold time to 500ms.
func New(opts ...Option) *Meter {
	m := &Meter{
		holdTime:       time.Millisecond * 500,
		threshold:      0.001,
		lastActivation: time.Time{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Write measures an audio buffer. Its signature matches audio.OnDataCb.
func (m *Meter) Write(msg audio.Msg) {
	m.Lock()
	defer m.Unlock()

	if len(msg.Data) == 0 {
		return
	}

	var lvl Levels

	switch msg.Channels {
	case 2:
		lvl = stereoLevels(msg.Data)
	case 1:
		lvl.Left = rms(msg.Data)
		lvl.Right = lvl.Left
		lvl.Peak = peak(msg.Data)
	default:
		m.multiChannelWarning()
		lvl.Left = rms(msg.Data)
		lvl.Right = lvl.Left
		lvl.Peak = peak(msg.Data)
	}

	if m.onLevels != nil {
		go m.onLevels(lvl)
	}

	if math32.Max(lvl.Left, lvl.Right) >= m.threshold {
		m.lastActivation = time.Now()
		if !m.active {
			m.active = true
			log.Println("output audible")
			if m.onStateChange != nil {
				go m.onStateChange(true)
			}
		}
	} else {
		if m.active && time.Since(m.lastActivation) > m.holdTime {
			m.active = false
			log.Println("output silent")
			if m.onStateChange != nil {
				go m.onStateChange(false)
			}
		}
	}
}

// Audible indicates if the last measured buffers were above the threshold.
func (m *Meter) Audible() bool {
	m.Lock()
	defer m.Unlock()
	return m.active
}

// stereoLevels calculates the levels of an interleaved stereo buffer
func stereoLevels(data []float32) Levels {
	var sumL, sumR, pk float32

	frames := len(data) / 2
	if frames == 0 {
		return Levels{}
	}

	for i := 0; i+1 < len(data); i += 2 {
		l, r := data[i], data[i+1]
		sumL += l * l
		sumR += r * r
		pk = math32.Max(pk, math32.Max(math32.Abs(l), math32.Abs(r)))
	}

	return Levels{
		Left:  math32.Sqrt(sumL / float32(frames)),
		Right: math32.Sqrt(sumR / float32(frames)),
		Peak:  pk,
	}
}

// calculate the root mean square for a non-interlaced audio
// frame
func rms(data []float32) float32 {

	var sum float32

	if len(data) == 0 {
		return sum
	}

	for _, el := range data {
		sum = sum + el*el
	}

	sum = sum / float32(len(data))

	return math32.Sqrt(sum)
}

func peak(data []float32) float32 {
	var pk float32
	for _, el := range data {
		pk = math32.Max(pk, math32.Abs(el))
	}
	return pk
}

func (m *Meter) multiChannelWarning() {
	m.chWarning.Do(func() {
		log.Println("WARNING: more than 2 channels detected; levels will be calculated over all channel samples")
	})
}
