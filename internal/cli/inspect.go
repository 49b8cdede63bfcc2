// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audsrc"
)

func inspectCommand(o *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "inspect <config>",
		Short: "Load a scene and print its assets and resolved sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.engine(cmd, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := e.Settle(ctx); err != nil {
				return err
			}
			inspect(cmd.OutOrStdout(), e)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "load-timeout", 30*time.Second, "how long to wait for assets to load")
	return cmd
}

func inspect(w io.Writer, e *audsrc.Engine) {
	fmt.Fprintln(w, "assets:")
	for _, h := range e.Store().Assets() {
		status := "pending"
		switch {
		case h.Loaded():
			b := h.Resource()
			status = fmt.Sprintf("%d Hz, %d ch, %s", b.SampleRate, b.Channels, b.Duration().Round(time.Millisecond))
		case h.Err() != nil:
			status = "error: " + h.Err().Error()
		}
		fmt.Fprintf(w, "  %s (%s) %s: %s\n", h.ID(), h.Name(), h.File(), status)
	}

	fmt.Fprintln(w, "sources:")
	for _, name := range e.SourceNames() {
		src := e.Source(name)
		current := src.CurrentSource()
		if current == "" {
			current = "-"
		}
		state := "enabled"
		if !e.Node(name).Enabled() || !src.Enabled() {
			state = "disabled"
		}
		fmt.Fprintf(w, "  %s [%s] current=%s\n", name, state, current)

		sources := src.Sources()
		for _, clip := range slices.Sorted(maps.Keys(sources)) {
			fmt.Fprintf(w, "    %s: %d frames\n", clip, sources[clip].Frames())
		}
	}
}
