package events

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cskr/pubsub"
)

// Event channel names used for event Pubsub

// internal
const (
	ParamsChanged   = "paramsChanged"   // params.Snapshot
	PlaybackOn      = "playbackOn"      // bool
	RequestPlayback = "requestPlayback" // bool
	ToggleRecording = "toggleRecording" // bool
	Levels          = "levels"          // meter.Levels
	OutputAudible   = "outputAudible"   // bool
	OsExit          = "osExit"          // bool
)

// WatchSystemEvents blocks until the process receives SIGINT or SIGTERM
// and publishes the OsExit event.
func WatchSystemEvents(evPS *pubsub.PubSub) {

	// Channel to handle OS signals
	osSignals := make(chan os.Signal, 1)

	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	<-osSignals
	evPS.Pub(true, OsExit)
}
