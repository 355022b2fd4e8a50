package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

func checkToneParameterValues() error {

	for _, key := range []string{"tones.left", "tones.right", "tones.top"} {
		f := viper.GetFloat64(key)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &parmError{
				parm: key,
				msg:  "value must be a finite number",
			}
		}
	}

	if v := viper.GetFloat64("mix.volume"); v < 0 || v > 1 {
		return &parmError{
			parm: "mix.volume",
			msg:  "allowed values are [0...1]",
		}
	}

	return nil
}

func checkAudioParameterValues() error {

	if _, err := getBackend(viper.GetString("audio.backend")); err != nil {
		return &parmError{
			parm: "audio.backend",
			msg:  "allowed values are portaudio, oto",
		}
	}

	if sr := viper.GetFloat64("audio.samplerate"); sr < 8000 || sr > 192000 {
		return &parmError{
			parm: "audio.samplerate",
			msg:  "allowed values are [8000...192000]",
		}
	}

	if d := viper.GetDuration("audio.buffer-duration"); d <= 0 {
		return &parmError{
			parm: "audio.buffer-duration",
			msg:  "value must be > 0",
		}
	}

	if chs := viper.GetInt("output-device.channels"); chs < 1 || chs > 2 {
		return &parmError{
			parm: "output-device.channels",
			msg:  "allowed values are [1 (Mono), 2 (Stereo)]",
		}
	}

	if vol := viper.GetInt("output-device.volume"); vol < 0 || vol > 100 {
		return &parmError{
			parm: "output-device.volume",
			msg:  "allowed values are [0...100]",
		}
	}

	if viper.GetDuration("output-device.latency") <= 0 {
		return &parmError{
			parm: "output-device.latency",
			msg:  "value must be > 0",
		}
	}

	return checkToneParameterValues()
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v\n", p.parm, p.msg)
}

type backend int

const (
	portaudioBackend backend = iota
	otoBackend
)

// getBackend returns the audio backend for a backend name (typically
// read from application settings)
func getBackend(name string) (backend, error) {
	switch strings.ToLower(name) {
	case "portaudio", "pa":
		return portaudioBackend, nil
	case "oto":
		return otoBackend, nil
	}
	return 0, fmt.Errorf("unknown audio backend '%s'", name)
}
