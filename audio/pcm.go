// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audsrc/utils"
)

// ReadInt16 drains src and converts every sample to 16-bit PCM, keeping the
// interleaving of the source. bufferSize is rounded down to a multiple of the
// channel count.
func ReadInt16(src Source, bufferSize int) ([]int16, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidFormat
	}
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 1024 * channels
	}

	buf := make([]float32, bufferSize)
	out := make([]int16, 0, src.SampleRate()*channels)

	for {
		n, err := src.ReadSamples(buf)
		for _, x := range buf[:n] {
			out = append(out, utils.Float32ToInt16(x))
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}
