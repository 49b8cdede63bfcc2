// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audsrc/formats/wav"
)

type renderOptions struct {
	duration time.Duration
	rate     int
	mono     bool
	timeout  time.Duration
}

func renderCommand(o *options) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <config> <out.wav>",
		Short: "Mix a scene offline into a 16-bit WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.engine(cmd, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), ro.timeout)
			defer cancel()
			if err := e.Settle(ctx); err != nil {
				return err
			}
			e.Start()

			rate, channels := e.Config().Audio.SampleRate, 2
			var pcm []int16
			if ro.mono {
				if ro.rate > 0 {
					rate = ro.rate
				}
				channels = 1
				pcm, err = e.RenderMono16(ro.duration, rate)
			} else {
				pcm, err = e.RenderStereo16(ro.duration)
			}
			if err != nil {
				return err
			}

			if err := writeWAV(args[1], rate, channels, pcm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d frames, %d Hz, %d channels\n",
				args[1], len(pcm)/channels, rate, channels)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ro.duration, "duration", 5*time.Second, "length of the render")
	cmd.Flags().BoolVar(&ro.mono, "mono", false, "mix down to mono")
	cmd.Flags().IntVar(&ro.rate, "rate", 0, "output sample rate for --mono (default: audio.sample_rate)")
	cmd.Flags().DurationVar(&ro.timeout, "load-timeout", 30*time.Second, "how long to wait for assets to load")
	return cmd
}

func writeWAV(path string, rate, channels int, pcm []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := wav.WriteWAV16(f, rate, channels, pcm); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
