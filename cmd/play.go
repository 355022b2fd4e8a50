// Copyright © 2016 Tobias Wellnitz, DH1TW <Tobias.Wellnitz@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cskr/pubsub"
	"github.com/dh1tw/hz/audio"
	"github.com/dh1tw/hz/audio/nodes/meter"
	"github.com/dh1tw/hz/audio/scheduler"
	"github.com/dh1tw/hz/audio/sinks/otoWriter"
	"github.com/dh1tw/hz/audio/sinks/scWriter"
	"github.com/dh1tw/hz/audio/sinks/wavWriter"
	"github.com/dh1tw/hz/events"
	"github.com/dh1tw/hz/webserver"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "play the tones on the speaker",
	Long: `play the tones on the speaker

The tones can be controlled through the web interface (by default on
http://127.0.0.1:9090) or the REST API. If --keyboard is set, playback can
also be started (p) and stopped (s) from the terminal; r pauses and
resumes the recording (--record).`,
	Run: playTones,
}

func init() {
	RootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("backend", "b", "portaudio", "audio backend (portaudio, oto)")
	playCmd.Flags().StringP("output-device-name", "o", "default", "output device (portaudio only)")
	playCmd.Flags().String("hostapi", "default", "host API (portaudio only)")
	playCmd.Flags().Duration("output-device-latency", time.Millisecond*10, "output latency")
	playCmd.Flags().Int("output-device-channels", 2, "output channels")
	playCmd.Flags().Int("output-volume", 70, "volume of the output device [0...100]")
	playCmd.Flags().Float64P("samplerate", "s", scheduler.DefaultSamplerate, "sampling rate")
	playCmd.Flags().Duration("buffer-duration", scheduler.DefaultBufferDuration, "duration of each generated buffer")
	playCmd.Flags().StringP("http-host", "w", "127.0.0.1", "Host (use '0.0.0.0' to listen on all network adapters)")
	playCmd.Flags().IntP("http-port", "k", 9090, "Port to access the web interface")
	playCmd.Flags().BoolP("stream-on-startup", "t", false, "start playing immediately")
	playCmd.Flags().Bool("keyboard", false, "control the playback from the terminal")
	playCmd.Flags().String("record", "", "additionally record the played audio into this wav file")
	addToneFlags(playCmd)
}

func playTones(cmd *cobra.Command, args []string) {

	readConfig()

	// bind the pflags to viper settings
	viper.BindPFlag("audio.backend", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("audio.samplerate", cmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("audio.buffer-duration", cmd.Flags().Lookup("buffer-duration"))
	viper.BindPFlag("audio.stream-on-startup", cmd.Flags().Lookup("stream-on-startup"))
	viper.BindPFlag("output-device.device-name", cmd.Flags().Lookup("output-device-name"))
	viper.BindPFlag("output-device.hostapi", cmd.Flags().Lookup("hostapi"))
	viper.BindPFlag("output-device.latency", cmd.Flags().Lookup("output-device-latency"))
	viper.BindPFlag("output-device.channels", cmd.Flags().Lookup("output-device-channels"))
	viper.BindPFlag("output-device.volume", cmd.Flags().Lookup("output-volume"))
	viper.BindPFlag("http.host", cmd.Flags().Lookup("http-host"))
	viper.BindPFlag("http.port", cmd.Flags().Lookup("http-port"))
	viper.BindPFlag("keyboard.enabled", cmd.Flags().Lookup("keyboard"))
	viper.BindPFlag("audio.record", cmd.Flags().Lookup("record"))
	bindToneFlags(cmd)

	// check if values from config file / pflags are valid
	if err := checkAudioParameterValues(); err != nil {
		exit(err)
	}

	// viper settings need to be copied in local variables
	// since viper lookups allocate of each lookup a copy
	// and are quite inperformant
	be, _ := getBackend(viper.GetString("audio.backend")) // checked before
	samplerate := viper.GetFloat64("audio.samplerate")
	bufferDuration := viper.GetDuration("audio.buffer-duration")
	streamOnStartup := viper.GetBool("audio.stream-on-startup")

	oDeviceName := viper.GetString("output-device.device-name")
	oHostAPI := viper.GetString("output-device.hostapi")
	oLatency := viper.GetDuration("output-device.latency")
	oChannels := viper.GetInt("output-device.channels")
	oVolume := viper.GetInt("output-device.volume")

	httpHost := viper.GetString("http.host")
	httpPort := viper.GetInt("http.port")
	keyboard := viper.GetBool("keyboard.enabled")
	recordPath := viper.GetString("audio.record")

	store, err := newStore()
	if err != nil {
		exit(err)
	}

	var speaker audio.Player

	switch be {
	case portaudioBackend:
		portaudio.Initialize()
		defer portaudio.Terminate()

		sc, err := scWriter.NewScWriter(
			scWriter.HostAPI(oHostAPI),
			scWriter.DeviceName(oDeviceName),
			scWriter.Channels(oChannels),
			scWriter.Samplerate(samplerate),
			scWriter.Latency(oLatency),
		)
		if err != nil {
			exit(err)
		}
		sc.SetVolume(float32(oVolume) / 100)
		if err := sc.Start(); err != nil {
			exit(err)
		}
		speaker = sc

	case otoBackend:
		ow, err := otoWriter.NewOtoWriter(
			otoWriter.Channels(oChannels),
			otoWriter.Samplerate(samplerate),
			otoWriter.Latency(oLatency*4),
			otoWriter.LowWater(oLatency*2),
		)
		if err != nil {
			exit(err)
		}
		ow.SetVolume(float32(oVolume) / 100)
		if err := ow.Start(); err != nil {
			exit(err)
		}
		speaker = ow
	}

	router := audio.NewRouter()
	router.AddSink("speaker", speaker, true)

	if recordPath != "" {
		recorder, err := wavWriter.NewWavWriter(recordPath,
			wavWriter.Samplerate(samplerate),
			wavWriter.Channels(2),
		)
		if err != nil {
			exit(err)
		}
		router.AddSink("recorder", recorder, true)
		log.Println("recording into", recordPath)
	}
	recording := recordPath != ""

	// the event bus lives until the process exits; publishers (scheduler,
	// store, meter) may still fire while shutting down
	evPS := pubsub.New(10)

	store.SetNotifyCb(func() {
		evPS.Pub(true, events.ParamsChanged)
	})

	lvlMeter := meter.New(
		meter.LevelsChanged(func(l meter.Levels) {
			evPS.Pub(l, events.Levels)
		}),
		meter.StateChanged(func(audible bool) {
			evPS.Pub(audible, events.OutputAudible)
		}),
	)

	sched := scheduler.New(store, router,
		scheduler.Samplerate(samplerate),
		scheduler.BufferDuration(bufferDuration),
		scheduler.StateChanged(func(on bool) {
			evPS.Pub(on, events.PlaybackOn)
		}),
		scheduler.OnData(lvlMeter.Write),
	)

	web, err := webserver.NewWebServer(httpHost, httpPort, store, sched, evPS)
	if err != nil {
		exit(err)
	}

	go func() {
		if err := web.Start(); err != nil {
			exit(fmt.Errorf("webserver: %v", err))
		}
	}()

	requestCh := evPS.Sub(events.RequestPlayback)
	recordingCh := evPS.Sub(events.ToggleRecording)
	osExitCh := evPS.Sub(events.OsExit)

	go events.WatchSystemEvents(evPS)
	if keyboard {
		go events.CaptureKeyboard(os.Stdin, evPS)
	}

	if streamOnStartup {
		sched.Start()
	}

	for {
		select {
		case ev := <-requestCh:
			if ev.(bool) {
				sched.Start()
			} else {
				sched.Stop()
			}

		case <-recordingCh:
			if recordPath == "" {
				log.Println("no recording file specified (--record)")
				continue
			}
			recording = !recording
			if err := router.EnableSink("recorder", recording); err != nil {
				log.Println(err)
				continue
			}
			if recording {
				log.Println("recording resumed")
			} else {
				log.Println("recording paused")
			}

		case <-osExitCh:
			sched.Stop()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
			if err := web.Shutdown(ctx); err != nil {
				log.Println("webserver shutdown:", err)
			}
			cancel()

			if err := router.Close(); err != nil {
				log.Println(err)
			}
			return
		}
	}
}
