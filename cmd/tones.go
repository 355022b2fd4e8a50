package cmd

import (
	"fmt"
	"os"

	"github.com/dh1tw/hz/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addToneFlags adds the flags which set the initial tone parameters.
func addToneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("left", "l", params.DefaultLeftFrequency, "frequency (Hz) of the left tone")
	cmd.Flags().Float64P("right", "r", params.DefaultRightFrequency, "frequency (Hz) of the right tone")
	cmd.Flags().Float64("top", params.DefaultTopFrequency, "frequency (Hz) of the top tone")
	cmd.Flags().Float64P("volume", "v", params.DefaultVolume, "mix volume [0...1]")
	cmd.Flags().BoolP("mono", "m", false, "mix the tones down to mono")
	cmd.Flags().String("settings", "", "JSON file with settings applied on startup")
}

// bindToneFlags binds the tone pflags to viper settings. Must be called
// from the Run function of the command.
func bindToneFlags(cmd *cobra.Command) {
	viper.BindPFlag("tones.left", cmd.Flags().Lookup("left"))
	viper.BindPFlag("tones.right", cmd.Flags().Lookup("right"))
	viper.BindPFlag("tones.top", cmd.Flags().Lookup("top"))
	viper.BindPFlag("mix.volume", cmd.Flags().Lookup("volume"))
	viper.BindPFlag("mix.mono", cmd.Flags().Lookup("mono"))
	viper.BindPFlag("tones.settings", cmd.Flags().Lookup("settings"))
}

// newStore creates the parameter store from the viper settings. If a
// settings file has been specified, it is applied on top.
func newStore() (*params.Store, error) {

	mode := params.Stereo
	if viper.GetBool("mix.mono") {
		mode = params.Mono
	}

	store := params.NewStore(
		params.Frequency(params.Left, viper.GetFloat64("tones.left")),
		params.Frequency(params.Right, viper.GetFloat64("tones.right")),
		params.Frequency(params.Top, viper.GetFloat64("tones.top")),
		params.Volume(viper.GetFloat64("mix.volume")),
		params.ChannelMode(mode),
	)

	path := viper.GetString("tones.settings")
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read settings file: %w", err)
	}

	if err := store.Apply(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return store, nil
}
