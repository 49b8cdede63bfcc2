// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audsrc"
	"github.com/ik5/audsrc/mixer"
)

// output plays a streamer on an audio device.
type output interface {
	Start(rate beep.SampleRate, bufferSize int, s beep.Streamer) error
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Start(rate beep.SampleRate, bufferSize int, s beep.Streamer) error {
	if err := speaker.Init(rate, bufferSize); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s)
	return nil
}

func (speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}

type playOptions struct {
	duration time.Duration
	tick     time.Duration
	report   time.Duration
	watch    bool
}

func playCommand(o *options, out output) *cobra.Command {
	po := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play <config>",
		Short: "Play a scene on the default audio device until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.engine(cmd, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if po.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, po.duration)
				defer cancel()
			}
			return play(ctx, e, out, po)
		},
	}

	cmd.Flags().DurationVar(&po.duration, "duration", 0, "stop after this long (0 plays until interrupted)")
	cmd.Flags().DurationVar(&po.tick, "tick", 20*time.Millisecond, "interval between engine steps")
	cmd.Flags().DurationVar(&po.report, "report", 5*time.Second, "interval between status log lines (0 disables)")
	cmd.Flags().BoolVar(&po.watch, "watch", true, "reload assets when their files change")
	return cmd
}

func play(ctx context.Context, e *audsrc.Engine, out output, po *playOptions) error {
	cfg := e.Config().Audio
	rate := beep.SampleRate(cfg.SampleRate)
	if err := out.Start(rate, rate.N(time.Duration(cfg.BufferMS)*time.Millisecond), e.Mixer()); err != nil {
		return err
	}
	defer out.Close()

	e.Start()
	if po.watch {
		w, err := e.Watch()
		if err != nil {
			return fmt.Errorf("watch assets: %w", err)
		}
		defer w.Close()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return stepLoop(ctx, e, po.tick) })
	if po.report > 0 {
		g.Go(func() error { return reportLoop(ctx, e.Logger(), e.Mixer(), po.report) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// stepLoop is the only goroutine touching the engine once playback runs.
func stepLoop(ctx context.Context, e *audsrc.Engine, tick time.Duration) error {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.Store().Notify():
			e.Step()
		case <-t.C:
			e.Step()
		}
	}
}

func reportLoop(ctx context.Context, log *slog.Logger, m *mixer.Mixer, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			log.Info("playback status", "channels", m.Active(), "suspended", m.Suspended())
		}
	}
}
