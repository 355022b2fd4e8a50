package audio

// AdjustChannels converts interleaved audio frames from iChs to oChs
// channels. Only mono <-> stereo conversions are supported; for any other
// combination the frames are returned unmodified.
func AdjustChannels(iChs, oChs int, audioFrames []float32) []float32 {

	// mono -> stereo
	if iChs == 1 && oChs == 2 {
		res := make([]float32, 0, len(audioFrames)*2)
		// left channel = right channel
		for _, frame := range audioFrames {
			res = append(res, frame)
			res = append(res, frame)
		}
		return res
	}

	// stereo -> mono
	if iChs == 2 && oChs == 1 {
		res := make([]float32, 0, len(audioFrames)/2)
		// average left and right
		for i := 0; i+1 < len(audioFrames); i += 2 {
			res = append(res, (audioFrames[i]+audioFrames[i+1])/2)
		}
		return res
	}

	return audioFrames
}

// AdjustVolume scales all samples in place.
func AdjustVolume(volume float32, audioFrames []float32) {
	for i := 0; i < len(audioFrames); i++ {
		audioFrames[i] *= volume
	}
}
