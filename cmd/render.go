package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/dh1tw/hz/audio"
	"github.com/dh1tw/hz/audio/scheduler"
	"github.com/dh1tw/hz/audio/sinks/wavWriter"
	"github.com/dh1tw/hz/audio/synth"
	"github.com/dh1tw/hz/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "render the tones into a wav file",
	Long: `render the tones into a wav file

The generated buffers are identical to the ones played by 'hz play',
including the phase reset at every buffer boundary.`,
	Run: renderTones,
}

func init() {
	RootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("file", "f", "hz.wav", "output file")
	renderCmd.Flags().DurationP("duration", "d", time.Second*10, "length of the recording")
	renderCmd.Flags().Float64P("samplerate", "s", scheduler.DefaultSamplerate, "sampling rate of the file")
	renderCmd.Flags().Duration("buffer-duration", scheduler.DefaultBufferDuration, "duration of each generated buffer")
	renderCmd.Flags().Int("channels", 2, "channels of the file")
	renderCmd.Flags().Int("bitdepth", 16, "bit depth of the file (12, 16)")
	addToneFlags(renderCmd)
}

func renderTones(cmd *cobra.Command, args []string) {

	readConfig()

	viper.BindPFlag("render.file", cmd.Flags().Lookup("file"))
	viper.BindPFlag("render.duration", cmd.Flags().Lookup("duration"))
	viper.BindPFlag("render.samplerate", cmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("render.buffer-duration", cmd.Flags().Lookup("buffer-duration"))
	viper.BindPFlag("render.channels", cmd.Flags().Lookup("channels"))
	viper.BindPFlag("render.bitdepth", cmd.Flags().Lookup("bitdepth"))
	bindToneFlags(cmd)

	if err := checkToneParameterValues(); err != nil {
		exit(err)
	}

	path := viper.GetString("render.file")
	duration := viper.GetDuration("render.duration")
	samplerate := viper.GetFloat64("render.samplerate")
	bufferDuration := viper.GetDuration("render.buffer-duration")
	channels := viper.GetInt("render.channels")
	bitDepth := viper.GetInt("render.bitdepth")

	if duration <= 0 || bufferDuration <= 0 {
		exit(&parmError{parm: "render.duration", msg: "durations must be > 0"})
	}
	if channels < 1 || channels > 2 {
		exit(&parmError{parm: "render.channels", msg: "allowed values are [1 (Mono), 2 (Stereo)]"})
	}

	store, err := newStore()
	if err != nil {
		exit(err)
	}

	w, err := wavWriter.NewWavWriter(path,
		wavWriter.Samplerate(samplerate),
		wavWriter.Channels(channels),
		wavWriter.BitDepth(bitDepth),
	)
	if err != nil {
		exit(err)
	}

	if err := render(store, w, samplerate, duration, bufferDuration); err != nil {
		if cerr := w.Close(); cerr != nil {
			log.Println(cerr)
		}
		exit(err)
	}

	if err := w.Close(); err != nil {
		exit(err)
	}

	log.Printf("rendered %v into %s\n", duration, path)
}

// render generates buffers of bufferDuration until duration has been
// written to p. The last buffer is shortened if necessary.
func render(store *params.Store, p audio.Player, samplerate float64,
	duration, bufferDuration time.Duration) error {

	total := synth.Samples(samplerate, duration.Seconds())
	perBuffer := synth.Samples(samplerate, bufferDuration.Seconds())
	if perBuffer == 0 {
		return fmt.Errorf("buffer duration %v too short at %vHz", bufferDuration, samplerate)
	}

	for written := 0; written < total; {
		frames := perBuffer
		if remaining := total - written; remaining < frames {
			frames = remaining
		}
		msg := synth.Generate(store.Snapshot(), samplerate, float64(frames)/samplerate)
		if err := p.Play(msg); err != nil {
			return err
		}
		written += msg.Frames
		if msg.Frames == 0 {
			break
		}
	}

	return nil
}
