// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"io"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type mockReader struct {
	samples []int
	offset  int
	err     error
}

func (m *mockReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: 8000, NumChannels: 1}
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestSource_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		unsigned bool
		in       []int
		want     []float32
	}{
		{"16-bit", 16, false, []int{0, 16384, -32768}, []float32{0, 0.5, -1}},
		{"24-bit", 24, false, []int{4194304}, []float32{0.5}},
		{"8-bit unsigned", 8, true, []int{128, 192, 0}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewSource(&mockReader{samples: tt.in}, 8000, 1, tt.bitDepth, tt.unsigned)
			dst := make([]float32, 16)
			n, err := src.ReadSamples(dst)
			if err != io.EOF {
				t.Fatalf("short read error = %v, want io.EOF", err)
			}
			if n != len(tt.want) {
				t.Fatalf("n = %d, want %d", n, len(tt.want))
			}
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

func TestSource_Exhausted(t *testing.T) {
	t.Parallel()

	src := NewSource(&mockReader{samples: []int{1, 2}}, 8000, 1, 16, false)
	dst := make([]float32, 2)
	if n, err := src.ReadSamples(dst); n != 2 || err != nil {
		t.Fatalf("first read = %d, %v; want 2, nil", n, err)
	}
	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("second read = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_DecoderError(t *testing.T) {
	t.Parallel()

	src := NewSource(&mockReader{err: io.ErrUnexpectedEOF}, 8000, 1, 16, false)
	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want wrapped io.ErrUnexpectedEOF", err)
	}
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	rs, err := Seekable(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Seekable() error = %v", err)
	}
	if _, err := rs.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	b, _ := io.ReadAll(rs)
	if string(b) != "bc" {
		t.Errorf("read %q after seek, want %q", b, "bc")
	}
}
