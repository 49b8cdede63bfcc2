// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audsrc/utils"
)

// Resampler streams src at a different sample rate using Catmull-Rom cubic
// interpolation. Channel count is preserved. When downsampling a one-pole
// low-pass runs on the input to tame aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window holds four consecutive source frames: t-1, t0, t+1, t+2.
	window [4][]float32
	filled [4]bool
	primed bool

	pos    float64 // fractional position between window[1] and window[2]
	eof    bool
	srcBuf []float32

	lowpass bool
	alpha   float32
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		srcBuf:   make([]float32, channels),
		lowpass:  step > 1.0,
		alpha:    0.5,
		lpState:  make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls one frame from the source into dst. ok is false when the
// source had nothing left.
func (r *Resampler) readFrame(dst []float32, first bool) (ok bool, err error) {
	if r.eof {
		return false, nil
	}
	n, err := r.src.ReadSamples(r.srcBuf)
	if n > 0 {
		copy(dst, r.srcBuf[:n])
		ok = true
		if r.lowpass {
			if first {
				copy(r.lpState, dst)
			}
			for c := range r.channels {
				dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lpState[c]
				r.lpState[c] = dst[c]
			}
		}
	}
	if err == io.EOF {
		r.eof = true
		return ok, nil
	}
	if err != nil {
		return ok, fmt.Errorf("%w", err)
	}
	return ok, nil
}

// prime fills the initial window, repeating the last frame when the source
// is shorter than four frames.
func (r *Resampler) prime() error {
	r.primed = true
	for i := range r.window {
		ok, err := r.readFrame(r.window[i], i == 0)
		if err != nil {
			return err
		}
		if ok {
			r.filled[i] = true
		}
		if !r.eof {
			continue
		}
		last := i
		if !ok {
			last = i - 1
		}
		if last < 0 {
			return io.EOF
		}
		for j := last + 1; j < len(r.window); j++ {
			copy(r.window[j], r.window[last])
			r.filled[j] = true
		}
		break
	}
	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}
	oldest := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.filled[:], r.filled[1:])
	r.window[3] = oldest

	ok, err := r.readFrame(r.window[3], false)
	if err != nil {
		return err
	}
	r.filled[3] = ok
	if r.eof && !ok {
		return io.EOF
	}
	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// len(dst) must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if err == io.EOF {
					return r.finish(written)
				}
				return written * r.channels, err
			}
		}
		if !r.filled[1] || !r.filled[2] {
			return r.finish(written)
		}

		x := float32(r.pos)
		base := written * r.channels
		for c := range r.channels {
			y0 := r.window[1][c]
			if r.filled[0] {
				y0 = r.window[0][c]
			}
			y3 := r.window[2][c]
			if r.filled[3] {
				y3 = r.window[3][c]
			}
			dst[base+c] = utils.CubicInterpolate(y0, r.window[1][c], r.window[2][c], y3, x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}

func (r *Resampler) finish(written int) (int, error) {
	return written * r.channels, io.EOF
}
