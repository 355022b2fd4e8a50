package scWriter

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	ringBuffer "github.com/dh1tw/golang-ring"
	"github.com/dh1tw/gosamplerate"
	"github.com/dh1tw/hz/audio"
	pa "github.com/gordonklaus/portaudio"
)

// ScWriter implements the audio.Player interface and is used to play
// audio on a local audio output device (e.g. speakers).
type ScWriter struct {
	sync.RWMutex
	options    Options
	deviceInfo *pa.DeviceInfo
	stream     *pa.Stream
	ring       ringBuffer.Ring
	stash      []float32
	volume     float32
	srcMu      sync.Mutex // protects src; never taken by the callback
	src        src
	bufFill    bool          // indicates if the buffer is filling up
	consumed   chan struct{} // signaled by the callback after each dequeue
	stopCh     chan struct{} // closed (and replaced) by Stop
}

// src contains a samplerate converter and its needed variables
type src struct {
	gosamplerate.Src
	samplerate float64
	ratio      float64
}

// NewScWriter returns a new soundcard writer for a specific audio output
// device. This is typically a speaker or a pair of headphones.
// portaudio.Initialize() must have been called before.
func NewScWriter(opts ...Option) (*ScWriter, error) {

	w := &ScWriter{
		options: Options{
			DeviceName:      "default",
			HostAPI:         "default",
			Channels:        2,
			Samplerate:      44100,
			FramesPerBuffer: 441,
			RingBufferSize:  20,
			LowWater:        2,
			Latency:         time.Millisecond * 10,
		},
		deviceInfo: nil,
		ring:       ringBuffer.Ring{},
		volume:     1,
		consumed:   make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
	}

	for _, option := range opts {
		option(&w.options)
	}

	if w.options.LowWater >= w.options.RingBufferSize {
		return nil, fmt.Errorf("player: low water (%d) must be smaller than the ring buffer size (%d)",
			w.options.LowWater, w.options.RingBufferSize)
	}

	// setup a samplerate converter
	srConv, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST, w.options.Channels, 65536)
	if err != nil {
		return nil, fmt.Errorf("player: %v", err)
	}

	w.src = src{
		Src:        srConv,
		samplerate: w.options.Samplerate,
		ratio:      1,
	}

	var hostAPI *pa.HostApiInfo

	if w.options.HostAPI == "default" {
		switch runtime.GOOS {
		case "windows":
			// try to use WASAPI since it provides lower latency than the
			// other windows audio apis
			ha, err := pa.HostApi(pa.WASAPI)
			if err != nil {
				// try to fallback to the default API
				ha, err = pa.DefaultHostApi()
				if err != nil {
					return nil, fmt.Errorf("unable to determine the default host api - please provide a specific host api")
				}
			}
			hostAPI = ha
		default:
			// all other OS
			ha, err := pa.DefaultHostApi()
			if err != nil {
				return nil, fmt.Errorf("unable to determine the default host api - please provide a specific host api")
			}
			hostAPI = ha
		}
	} else {
		// non-default HostAPI
		ha, err := getHostAPI(w.options.HostAPI)
		if err != nil {
			return nil, err
		}
		hostAPI = ha
	}

	if w.options.DeviceName == "default" {
		w.deviceInfo = hostAPI.DefaultOutputDevice
	} else {
		dev, err := getPaDevice(w.options.DeviceName, hostAPI)
		if err != nil {
			return nil, err
		}
		w.deviceInfo = dev
	}

	if w.deviceInfo == nil {
		return nil, fmt.Errorf("no output device available for host api %s", hostAPI.Name)
	}

	// setup Audio Stream
	streamDeviceParam := pa.StreamDeviceParameters{
		Device:   w.deviceInfo,
		Channels: w.options.Channels,
		Latency:  w.options.Latency,
	}

	streamParm := pa.StreamParameters{
		FramesPerBuffer: w.options.FramesPerBuffer,
		Output:          streamDeviceParam,
		SampleRate:      w.options.Samplerate,
	}

	// setup ring buffer
	w.ring.SetCapacity(w.options.RingBufferSize)

	stream, err := pa.OpenStream(streamParm, w.playCb)
	if err != nil {
		return nil,
			fmt.Errorf("unable to open playback audio stream on device %s: %s",
				w.options.DeviceName, err)
	}

	w.stream = stream
	log.Printf("output sound device: %s, HostAPI: %s\n", w.deviceInfo.Name, w.deviceInfo.HostApi.Name)

	return w, nil
}

// portaudio callback which will be called continuously when the stream is
// started; this function should be short and never block
func (p *ScWriter) playCb(in []float32,
	iTime pa.StreamCallbackTimeInfo,
	iFlags pa.StreamCallbackFlags) {
	switch iFlags {
	case pa.OutputUnderflow:
		log.Println("Output Underflow")
		return // move on!
	case pa.OutputOverflow:
		log.Println("Output Overflow")
		return // move on!
	}

	var data interface{}

	p.Lock()
	bufFill := p.bufFill
	bufCapacity := p.ring.Capacity()
	bufLength := p.ring.Length()
	// when filling up the buffer, don't dequeue data
	if !bufFill {
		//pull data from Ringbuffer
		data = p.ring.Dequeue()
	}

	// start filling buffer when buffer runs empty
	if bufLength == 0 {
		p.bufFill = true
	}

	// stop filling buffer when it's again half full
	if bufFill && bufLength >= bufCapacity/2 {
		p.bufFill = false
	}
	p.Unlock()

	// if no data is available we fill the audio package with silence
	if data == nil {
		for i := 0; i < len(in); i++ {
			in[i] = 0
		}
		return
	}

	// wake up a waiting Play call
	select {
	case p.consumed <- struct{}{}:
	default:
	}

	audioData := data.([]float32)

	// should never happen
	if len(audioData) != len(in) {
		log.Printf("unable to play audio frame; expected frame size %d, but got %d",
			len(in), len(audioData))
		return
	}

	//copy data into buffer
	copy(in, audioData)
}

// Start starts streaming audio to the Soundcard output device (e.g. Speaker).
func (p *ScWriter) Start() error {
	if p.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	return p.stream.Start()
}

// Close shutsdown properly the soundcard audio device.
func (p *ScWriter) Close() error {
	if p.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	p.Stop()
	p.stream.Abort()
	err := p.stream.Close()
	gosamplerate.Delete(p.src.Src)
	return err
}

// SetVolume sets the volume for all upcoming audio frames.
func (p *ScWriter) SetVolume(v float32) {
	p.Lock()
	defer p.Unlock()
	if v < 0 {
		p.volume = 0
	} else if v > 1 {
		p.volume = 1
	} else {
		p.volume = v
	}
}

// Volume returns the current volume.
func (p *ScWriter) Volume() float32 {
	p.RLock()
	defer p.RUnlock()
	return p.volume
}

// Play converts the frames in the audio buffer into the right format
// and queues them into the ring buffer for playing on the speaker. Play
// blocks until all but the last LowWater device buffers have been played,
// or until Stop is called.
func (p *ScWriter) Play(msg audio.Msg) error {

	var aData []float32
	var err error

	p.RLock()
	stopCh := p.stopCh
	p.RUnlock()

	// if necessary adjust the amount of audio channels
	if msg.Channels != p.options.Channels {
		aData = audio.AdjustChannels(msg.Channels, p.options.Channels, msg.Data)
	} else {
		aData = msg.Data
	}

	// if necessary, resample the audio
	if msg.Samplerate != p.options.Samplerate {
		p.srcMu.Lock()
		if p.src.samplerate != msg.Samplerate {
			p.src.Reset()
			p.src.samplerate = msg.Samplerate
			p.src.ratio = p.options.Samplerate / msg.Samplerate
		}
		aData, err = p.src.Process(aData, p.src.ratio, false)
		p.srcMu.Unlock()
		if err != nil {
			return err
		}
	}

	// audio buffer size we want to write into our ring buffer
	// (size expected by portaudio callback)
	expBufferSize := p.options.FramesPerBuffer * p.options.Channels

	p.Lock()
	// if there is data stashed from previous calls, get it and prepend it
	// to the data received
	if len(p.stash) > 0 {
		aData = append(p.stash, aData...)
		p.stash = nil
	}
	vol := p.volume
	p.Unlock()

	// slice of audio buffers which will be enqueued into the ring buffer
	var bData [][]float32

	for len(aData) >= expBufferSize {
		frame := make([]float32, expBufferSize)
		copy(frame, aData[:expBufferSize])
		if vol != 1 {
			// if necessary, adjust the volume
			audio.AdjustVolume(vol, frame)
		}
		bData = append(bData, frame)
		aData = aData[expBufferSize:]
	}

	// stash the left over for the next call
	if len(aData) > 0 {
		p.Lock()
		p.stash = append([]float32(nil), aData...)
		p.Unlock()
	}

	for _, frame := range bData {
		if err := p.enqueue(frame, stopCh); err != nil {
			return err
		}
	}

	// the queued data is sufficient to start playing, even if the
	// ring buffer has not been filled up to the half
	p.Lock()
	p.bufFill = false
	p.Unlock()

	return p.waitLowWater(stopCh)
}

// enqueue waits until there is space in the ring buffer and enqueues
// the frame.
func (p *ScWriter) enqueue(frame []float32, stopCh chan struct{}) error {
	for {
		p.Lock()
		if p.ring.Length() < p.ring.Capacity() {
			p.ring.Enqueue(frame)
			p.Unlock()
			return nil
		}
		// full ring; make sure the callback drains it
		p.bufFill = false
		p.Unlock()

		select {
		case <-p.consumed:
		case <-stopCh:
			return audio.ErrStopped
		}
	}
}

// waitLowWater blocks until the ring buffer contains at most LowWater
// device buffers.
func (p *ScWriter) waitLowWater(stopCh chan struct{}) error {
	for {
		p.RLock()
		length := p.ring.Length()
		p.RUnlock()

		if length <= p.options.LowWater {
			return nil
		}

		select {
		case <-p.consumed:
		case <-stopCh:
			return audio.ErrStopped
		}
	}
}

// Stop truncates the audio which is currently queued. A blocked Play call
// returns audio.ErrStopped. The portaudio stream keeps running and plays
// silence until new data is queued.
func (p *ScWriter) Stop() {
	p.Lock()
	defer p.Unlock()

	close(p.stopCh)
	p.stopCh = make(chan struct{})

	// delete the stash
	p.stash = nil

	p.ring = ringBuffer.Ring{}
	p.ring.SetCapacity(p.options.RingBufferSize)

	p.srcMu.Lock()
	p.src.Reset()
	p.srcMu.Unlock()
}

// getHostAPI takes the name of a supported portaudio host api and returns
// the corresponding portaudio hostApiInfo object
func getHostAPI(name string) (*pa.HostApiInfo, error) {

	var hostAPIType pa.HostApiType

	switch strings.ToLower(name) {
	case "indevelopment":
		hostAPIType = pa.InDevelopment
	case "directsound":
		hostAPIType = pa.DirectSound
	case "mme":
		hostAPIType = pa.MME
	case "asio":
		hostAPIType = pa.ASIO
	case "soundmanager":
		hostAPIType = pa.SoundManager
	case "coreaudio":
		hostAPIType = pa.CoreAudio
	case "oss":
		hostAPIType = pa.OSS
	case "alsa":
		hostAPIType = pa.ALSA
	case "al":
		hostAPIType = pa.AL
	case "beos":
		hostAPIType = pa.BeOS
	case "wdmks":
		hostAPIType = pa.WDMkS
	case "jack":
		hostAPIType = pa.JACK
	case "wasapi":
		hostAPIType = pa.WASAPI
	case "audiosciencehpi":
		hostAPIType = pa.AudioScienceHPI
	default:
		return nil, fmt.Errorf("unknown host api type: %s", name)
	}

	hostAPIInfo, err := pa.HostApi(hostAPIType)
	if err != nil {
		return nil, fmt.Errorf("unable to load host api %s: %s", name, err.Error())
	}

	return hostAPIInfo, nil

}

// getPaDevice checks if the Audio Devices actually exist and
// then returns it
func getPaDevice(name string, hostAPI *pa.HostApiInfo) (*pa.DeviceInfo, error) {
	for _, device := range hostAPI.Devices {
		if strings.EqualFold(device.Name, name) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("unknown audio device '%s'", name)
}
