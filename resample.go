// SPDX-License-Identifier: EPL-2.0

package audsrc

import (
	"fmt"

	"github.com/ik5/audsrc/audio"
)

// ResampleToMono16 converts src to targetRate, averages its channels and
// collects the result as 16-bit PCM. It returns the samples and the output
// rate. The source is not resampled when it already runs at targetRate.
//
// bufferSize controls how many samples are read per call, e.g. 4096.
//
//	src, _ := wav.Decoder{}.Decode(file)
//	pcm16, rate, err := audsrc.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	if src.SampleRate() != targetRate {
		src = audio.NewResampler(src, targetRate)
	}
	mono := audio.NewMonoMixer(src)

	pcm16, err := audio.ReadInt16(mono, bufferSize)
	if err != nil {
		return pcm16, targetRate, fmt.Errorf("resample to mono: %w", err)
	}
	return pcm16, targetRate, nil
}
