// SPDX-License-Identifier: EPL-2.0

// Package cli implements the audsrc command.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/audsrc"
	"github.com/ik5/audsrc/config"
)

type options struct {
	root     string
	logLevel string
}

// RootCommand returns the audsrc command with its subcommands.
func RootCommand() *cobra.Command {
	return newRootCommand(speakerOutput{})
}

func newRootCommand(out output) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:           "audsrc",
		Short:         "Play, render and inspect audio source scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&o.root, "root", "", "directory asset files are relative to (default: the config file directory)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override log.level from the config")

	cmd.AddCommand(
		playCommand(o, out),
		renderCommand(o),
		inspectCommand(o),
	)
	return cmd
}

// engine loads the config at path and builds an engine logging to the
// command's stderr.
func (o *options) engine(cmd *cobra.Command, path string) (*audsrc.Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	root := o.root
	if root == "" {
		root = filepath.Dir(path)
	}

	e, err := audsrc.New(cfg, audsrc.Options{
		Root:   root,
		Logger: cfg.Log.NewLogger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return e, nil
}
