package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setValidAudioParameters() {
	viper.Set("audio.backend", "portaudio")
	viper.Set("audio.samplerate", 44100.0)
	viper.Set("audio.buffer-duration", time.Millisecond*100)
	viper.Set("output-device.channels", 2)
	viper.Set("output-device.volume", 70)
	viper.Set("output-device.latency", time.Millisecond*10)
	viper.Set("tones.left", 210.0)
	viper.Set("tones.right", 220.0)
	viper.Set("tones.top", 10.0)
	viper.Set("mix.volume", 0.5)
}

func TestCheckAudioParameterValues(t *testing.T) {

	tt := []struct {
		name  string
		key   string
		value interface{}
		valid bool
	}{
		{"valid", "", nil, true},
		{"oto backend", "audio.backend", "oto", true},
		{"unknown backend", "audio.backend", "alsa", false},
		{"samplerate too low", "audio.samplerate", 1000.0, false},
		{"zero buffer duration", "audio.buffer-duration", time.Duration(0), false},
		{"3 channels", "output-device.channels", 3, false},
		{"device volume out of range", "output-device.volume", 101, false},
		{"mix volume out of range", "mix.volume", 1.5, false},
		{"negative mix volume", "mix.volume", -0.1, false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			setValidAudioParameters()
			if tc.key != "" {
				viper.Set(tc.key, tc.value)
			}
			err := checkAudioParameterValues()
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid {
				perr, ok := err.(*parmError)
				if !ok {
					t.Fatalf("expected a parmError, got %v", err)
				}
				if perr.parm != tc.key {
					t.Fatalf("expected error for %s, got %s", tc.key, perr.parm)
				}
			}
		})
	}
}

func TestGetBackend(t *testing.T) {
	if b, err := getBackend("PortAudio"); err != nil || b != portaudioBackend {
		t.Fatalf("unexpected result %v, %v", b, err)
	}
	if b, err := getBackend("oto"); err != nil || b != otoBackend {
		t.Fatalf("unexpected result %v, %v", b, err)
	}
	if _, err := getBackend(""); err == nil {
		t.Fatal("expected an error for an empty backend")
	}
}
