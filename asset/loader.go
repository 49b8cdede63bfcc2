// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/ik5/audsrc/audio"
)

// Loader fetches and decodes the file of an asset. Implementations are
// called from loader goroutines and must honor ctx.
type Loader interface {
	Load(ctx context.Context, file string) (*audio.Buffer, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, file string) (*audio.Buffer, error)

func (f LoaderFunc) Load(ctx context.Context, file string) (*audio.Buffer, error) {
	return f(ctx, file)
}

// FileLoader reads files from FS and decodes them by extension.
type FileLoader struct {
	FS     fs.FS
	Codecs *audio.Registry
	// SampleRate converts every decoded buffer to this rate. Zero keeps
	// the file rate.
	SampleRate int
}

func (l FileLoader) Load(ctx context.Context, file string) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec, err := l.Codecs.ForPath(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	f, err := l.FS.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	defer src.Close()

	buf, err := audio.ReadBufferAt(src, l.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return buf, nil
}
