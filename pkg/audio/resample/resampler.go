// ABOUTME: Linear interpolation resampler for interleaved int16 audio
// ABOUTME: Carries the last frame between chunks so output stays continuous
package resample

// Resampler performs linear interpolation at a variable ratio of input
// frames consumed per output frame
type Resampler struct {
	channels int
	position float64 // read position, relative to the first frame of the current window
	last     []int16 // last input frame of the previous chunk
	primed   bool
}

// New creates a resampler for the given channel count
func New(channels int) *Resampler {
	return &Resampler{
		channels: channels,
		last:     make([]int16, max(channels, 0)),
	}
}

// Ratio returns the ratio that converts inputRate to outputRate
func Ratio(inputRate, outputRate int) float64 {
	if outputRate <= 0 {
		return 0
	}
	return float64(inputRate) / float64(outputRate)
}

// frame returns sample ch of frame i of the window formed by the carried
// frame (if primed) followed by input
func (r *Resampler) frame(input []int16, i, ch int) int16 {
	if r.primed {
		if i == 0 {
			return r.last[ch]
		}
		i--
	}
	return input[i*r.channels+ch]
}

// Process resamples input at ratio and appends the result to dst
func (r *Resampler) Process(ratio float64, input []int16, dst []int16) []int16 {
	if r.channels <= 0 || ratio <= 0 {
		return dst
	}

	frames := len(input) / r.channels
	total := frames
	if r.primed {
		total++
	}
	if total == 0 {
		return dst
	}

	for {
		idx := int(r.position)
		if idx+1 >= total {
			break
		}
		frac := r.position - float64(idx)
		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(r.frame(input, idx, ch))
			s2 := float64(r.frame(input, idx+1, ch))
			dst = append(dst, int16(s1*(1-frac)+s2*frac))
		}
		r.position += ratio
	}

	// The last frame becomes index 0 of the next window
	for ch := 0; ch < r.channels; ch++ {
		r.last[ch] = r.frame(input, total-1, ch)
	}
	r.position -= float64(total - 1)
	r.primed = true

	return dst
}

// OutputSamplesNeeded estimates how many samples Process produces from
// inputSamples at ratio
func (r *Resampler) OutputSamplesNeeded(ratio float64, inputSamples int) int {
	if r.channels <= 0 || ratio <= 0 {
		return 0
	}
	frames := inputSamples / r.channels
	return (int(float64(frames)/ratio) + 1) * r.channels
}

// Reset drops carried state, used after seeks
func (r *Resampler) Reset() {
	r.position = 0
	r.primed = false
	for i := range r.last {
		r.last[i] = 0
	}
}
