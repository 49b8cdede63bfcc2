// SPDX-License-Identifier: EPL-2.0

package audsrc

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/component"
	"github.com/ik5/audsrc/config"
	"github.com/ik5/audsrc/formats"
	"github.com/ik5/audsrc/mixer"
	"github.com/ik5/audsrc/scene"
)

const renderBufferSize = 4096

// Options tune how an Engine reads its assets.
type Options struct {
	// Root is the directory asset files are relative to. Defaults to ".".
	Root string
	// FS replaces reading from Root.
	FS fs.FS
	// Loader replaces decoding files from FS.
	Loader asset.Loader
	Logger *slog.Logger
}

// Engine wires an asset store, a mixer and a component system from a
// config, with one scene node and audio source per configured source.
// Apart from Close, its methods must be called from one goroutine.
type Engine struct {
	cfg  *config.Config
	log  *slog.Logger
	root string

	store  *asset.Store
	mixer  *mixer.Mixer
	system *component.System

	order   []string
	nodes   map[string]*scene.Node
	sources map[string]*component.AudioSource
}

// New validates cfg and builds the engine. Sources do not play until
// Start is called.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	loader := opts.Loader
	if loader == nil {
		fsys := opts.FS
		if fsys == nil {
			fsys = os.DirFS(root)
		}
		loader = asset.FileLoader{FS: fsys, Codecs: formats.NewRegistry(), SampleRate: cfg.Audio.SampleRate}
	}

	e := &Engine{
		cfg:     cfg,
		log:     log,
		root:    root,
		store:   asset.NewStore(loader, asset.WithLogger(log)),
		nodes:   make(map[string]*scene.Node),
		sources: make(map[string]*component.AudioSource),
	}
	e.mixer = mixer.New(mixer.Options{
		SampleRate: cfg.Audio.SampleRate,
		Quality:    cfg.Audio.Quality,
		Logger:     log,
	})
	e.mixer.SetMasterVolume(cfg.Audio.MasterVolume)
	e.mixer.SetListener(cfg.Listener.Vec3())
	e.system = component.NewSystem(e.store, e.mixer, log)

	for _, a := range cfg.Assets {
		if _, err := e.store.Add(a.Spec()); err != nil {
			_ = e.store.Close()
			return nil, fmt.Errorf("audsrc: add asset %q: %w", a.ID, err)
		}
	}

	for _, s := range cfg.Sources {
		p, err := s.Params()
		if err != nil {
			_ = e.store.Close()
			return nil, fmt.Errorf("audsrc: source %q: %w", s.Name, err)
		}
		node := scene.NewNode(s.Name, s.Position.Vec3())
		node.SetEnabled(s.Enabled)

		e.order = append(e.order, s.Name)
		e.nodes[s.Name] = node
		e.sources[s.Name] = e.system.Add(node, p, s.AssetIDs()...)
	}

	log.Info("engine ready",
		"assets", len(cfg.Assets),
		"sources", len(cfg.Sources),
		"sample_rate", cfg.Audio.SampleRate)
	return e, nil
}

func (e *Engine) Config() *config.Config    { return e.cfg }
func (e *Engine) Store() *asset.Store       { return e.store }
func (e *Engine) Mixer() *mixer.Mixer       { return e.mixer }
func (e *Engine) System() *component.System { return e.system }
func (e *Engine) Logger() *slog.Logger      { return e.log }

// SourceNames lists configured sources in config order.
func (e *Engine) SourceNames() []string { return append([]string(nil), e.order...) }

// Node returns the scene node carrying the named source, or nil.
func (e *Engine) Node(name string) *scene.Node { return e.nodes[name] }

func (e *Engine) Source(name string) *component.AudioSource { return e.sources[name] }

// Start initializes the system, starting every loaded source that
// activates automatically.
func (e *Engine) Start() {
	e.system.Initialize()
}

// Step delivers pending asset results and syncs channel positions. It
// returns the number of callbacks run.
func (e *Engine) Step() int {
	n := e.store.Pump()
	e.system.Update()
	return n
}

// Settle steps until every asset load has finished or ctx is done.
func (e *Engine) Settle(ctx context.Context) error {
	if err := e.store.Settle(ctx); err != nil {
		return fmt.Errorf("audsrc: settle: %w", err)
	}
	e.system.Update()
	return nil
}

// Watch reloads assets when their files under Root change.
func (e *Engine) Watch() (*asset.Watcher, error) {
	return asset.NewWatcher(e.store, e.root, e.log)
}

func (e *Engine) frames(d time.Duration) int {
	return int(d.Seconds() * float64(e.cfg.Audio.SampleRate))
}

// RenderStereo16 mixes the next d of output into interleaved stereo PCM at
// the configured sample rate.
func (e *Engine) RenderStereo16(d time.Duration) ([]int16, error) {
	pcm, err := audio.ReadInt16(e.mixer.Source(e.frames(d)), renderBufferSize)
	if err != nil {
		return pcm, fmt.Errorf("audsrc: render: %w", err)
	}
	return pcm, nil
}

// RenderMono16 mixes the next d of output down to mono PCM at rate. A
// rate of zero keeps the configured sample rate.
func (e *Engine) RenderMono16(d time.Duration, rate int) ([]int16, error) {
	if rate <= 0 {
		rate = e.cfg.Audio.SampleRate
	}
	pcm, _, err := ResampleToMono16(e.mixer.Source(e.frames(d)), rate, renderBufferSize)
	if err != nil {
		return pcm, fmt.Errorf("audsrc: render: %w", err)
	}
	return pcm, nil
}

// Close stops every source and waits for running loads.
func (e *Engine) Close() error {
	for _, name := range e.order {
		e.system.Remove(e.sources[name])
	}
	if err := e.store.Close(); err != nil {
		return fmt.Errorf("audsrc: close: %w", err)
	}
	return nil
}
