// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Buffer is a fully decoded clip held in memory. Samples are interleaved
// float32 values in [-1,1].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32

	monoOnce sync.Once
	mono     *Buffer
}

// NewBuffer wraps already decoded samples. len(samples) must be a multiple of
// channels.
func NewBuffer(sampleRate, channels int, samples []float32) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}
	return &Buffer{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}

// ReadBuffer drains src into a Buffer. src is not closed.
func ReadBuffer(src Source) (*Buffer, error) {
	channels := src.Channels()
	if src.SampleRate() <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}

	size := src.BufSize()
	if size < 1024*channels {
		size = 1024 * channels
	}
	size -= size % channels
	chunk := make([]float32, size)
	samples := make([]float32, 0, size)

	for {
		n, err := src.ReadSamples(chunk)
		if n > 0 {
			samples = append(samples, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			// Decoders may report a short read without EOF; treat an empty read
			// that carries no error as the end of stream.
			break
		}
	}

	if len(samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	samples = samples[:len(samples)-len(samples)%channels]

	return &Buffer{SampleRate: src.SampleRate(), Channels: channels, Samples: samples}, nil
}

// ReadBufferAt drains src into a Buffer at sampleRate, routing it through a
// Resampler when the rates differ. A sampleRate of 0 keeps the source rate.
func ReadBufferAt(src Source, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 || sampleRate == src.SampleRate() {
		return ReadBuffer(src)
	}
	return ReadBuffer(NewResampler(src, sampleRate))
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback length at the buffer's own sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Mono returns a single channel version of b, computed once and cached.
// Mono buffers return themselves.
func (b *Buffer) Mono() *Buffer {
	if b.Channels == 1 {
		return b
	}
	b.monoOnce.Do(func() {
		mono, err := ReadBuffer(NewMonoMixer(b.Reader()))
		if err != nil {
			mono = b
		}
		b.mono = mono
	})
	return b.mono
}

// Reader returns a Source that streams the buffer from the start. Each call
// returns an independent reader.
func (b *Buffer) Reader() Source {
	return &bufferReader{buf: b}
}

type bufferReader struct {
	buf *Buffer
	pos int
}

func (r *bufferReader) SampleRate() int { return r.buf.SampleRate }
func (r *bufferReader) Channels() int   { return r.buf.Channels }
func (r *bufferReader) BufSize() int    { return 4096 }
func (r *bufferReader) Close() error    { return nil }

func (r *bufferReader) ReadSamples(dst []float32) (int, error) {
	if r.pos >= len(r.buf.Samples) {
		return 0, io.EOF
	}
	n := copy(dst, r.buf.Samples[r.pos:])
	r.pos += n
	if r.pos >= len(r.buf.Samples) {
		return n, io.EOF
	}
	return n, nil
}
