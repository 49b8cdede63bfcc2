// SPDX-License-Identifier: EPL-2.0

package audsrc

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/goleak"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/config"
	"github.com/ik5/audsrc/formats/wav"
	"github.com/ik5/audsrc/scene"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const engineYAML = `
audio: {sample_rate: 8000}
log: {level: error}
assets:
  - {id: tone, file: sfx/tone.wav}
  - {id: hum, file: sfx/hum.wav}
sources:
  - name: speaker
    assets: [tone]
  - name: muted
    assets: [hum]
    enabled: false
`

// toneFS holds 100ms of constant mono PCM at 8kHz per file.
func toneFS(t testing.TB) fstest.MapFS {
	t.Helper()

	samples := make([]int16, 800)
	for i := range samples {
		samples[i] = 16384
	}
	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, 8000, 1, samples); err != nil {
		t.Fatal(err)
	}
	return fstest.MapFS{
		"sfx/tone.wav": {Data: buf.Bytes()},
		"sfx/hum.wav":  {Data: buf.Bytes()},
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()

	cfg, err := config.Parse([]byte(engineYAML))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func settle(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Settle(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestEngine_PlaysConfiguredSources(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Options{FS: toneFS(t)})
	if got := e.SourceNames(); len(got) != 2 || got[0] != "speaker" || got[1] != "muted" {
		t.Fatalf("SourceNames() = %v", got)
	}

	settle(t, e)
	if e.Source("speaker").IsPlaying() {
		t.Fatal("playing before Start")
	}

	e.Start()
	if !e.Source("speaker").IsPlaying() {
		t.Fatal("speaker not playing after Start")
	}
	if e.Source("muted").Channel() != nil {
		t.Error("disabled node must not play")
	}
	if got := e.Mixer().Active(); got != 1 {
		t.Errorf("Mixer().Active() = %d, want 1", got)
	}

	pcm, err := e.RenderStereo16(200 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) != 3200 {
		t.Fatalf("RenderStereo16() = %d samples, want 3200", len(pcm))
	}
	if mid := pcm[800]; math.Abs(float64(mid)-16383) > 1000 {
		t.Errorf("mid sample = %d, want ≈16383", mid)
	}
	if tail := pcm[3000]; tail != 0 {
		t.Errorf("tail sample = %d, want silence", tail)
	}

	// The clip is over.
	pcm, err = e.RenderMono16(50*time.Millisecond, 4000)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) < 190 || len(pcm) > 210 {
		t.Errorf("RenderMono16() = %d samples, want ≈200", len(pcm))
	}
	for i, s := range pcm {
		if s != 0 {
			t.Errorf("pcm[%d] = %d after the clip ended", i, s)
			break
		}
	}
}

func TestEngine_EnableLaterSource(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Options{FS: toneFS(t)})
	e.Start()
	settle(t, e)

	hum, _ := e.Store().Get("hum")
	if hum.Loaded() {
		t.Fatal("asset of a disabled source loaded")
	}

	e.Node("muted").SetEnabled(true)
	settle(t, e)
	if !e.Source("muted").IsPlaying() {
		t.Error("muted source not playing once its node is enabled")
	}
}

func TestEngine_Step(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Options{FS: toneFS(t)})
	e.Start()
	settle(t, e)

	e.Node("speaker").Translate(scene.Vec3{X: 5})
	e.Step()

	pcm, err := e.RenderStereo16(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	left, right := pcm[100], pcm[101]
	if left != 0 || right == 0 {
		t.Errorf("frame = (%d, %d), want the source hard right", left, right)
	}
}

func TestEngine_CustomLoader(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	loader := asset.LoaderFunc(func(context.Context, string) (*audio.Buffer, error) {
		loads.Add(1)
		return &audio.Buffer{SampleRate: 8000, Channels: 1, Samples: make([]float32, 80)}, nil
	})

	e := newTestEngine(t, Options{Loader: loader})
	e.Start()
	settle(t, e)

	if n := loads.Load(); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
}

func TestEngine_LoadFailure(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Options{FS: fstest.MapFS{}})
	e.Start()
	settle(t, e)

	src := e.Source("speaker")
	if src.CurrentSource() != "" || src.Channel() != nil {
		t.Errorf("current = %q, channel = %v, want nothing", src.CurrentSource(), src.Channel())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Audio.SampleRate = 0

	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want %v", err, config.ErrInvalidConfig)
	}
}

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	e, err := New(nil, Options{FS: fstest.MapFS{}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if len(e.SourceNames()) != 0 || e.Config().Audio.SampleRate != config.DefaultSampleRate {
		t.Errorf("unexpected default engine: %+v", e.Config())
	}
}
