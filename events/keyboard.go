package events

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cskr/pubsub"
)

// CaptureKeyboard reads commands line by line from r and translates them
// into events. It returns when r is exhausted.
//
//	p   start playback
//	s   stop playback
//	r   pause / resume the recording
//	q   quit
func CaptureKeyboard(r io.Reader, evPS *pubsub.PubSub) {

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		switch scanner.Text() {
		case "p", "P":
			evPS.Pub(true, RequestPlayback)
		case "s", "S":
			evPS.Pub(false, RequestPlayback)
		case "r", "R":
			evPS.Pub(true, ToggleRecording)
		case "q", "Q":
			evPS.Pub(true, OsExit)
		case "":
		default:
			fmt.Println("unknown command:", scanner.Text(), "(p: play, s: stop, r: recording, q: quit)")
		}
	}
}
