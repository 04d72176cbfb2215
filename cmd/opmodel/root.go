// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app holds the state shared by all subcommands.
type app struct {
	cfgFile string
	verbose bool
	json    bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	root := &cobra.Command{
		Use:   "opmodel",
		Short: "Operations-research models and partial derivative calculator",
		Long: `opmodel evaluates small operational models:

  lp       production optimization by linear programming
  eoq      economic order quantity
  mm1      M/M/1 queue measures
  growth   exponential growth curve
  partial  partial derivatives and tangent plane of f(x, y)

Every flag can also be set in a config file (--config) under a section named
after the command, or through OPMODEL_<COMMAND>_<FLAG> environment variables.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log inputs and solver diagnostics")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "print the result as JSON")

	root.AddCommand(
		newLPCmd(a),
		newEOQCmd(a),
		newMM1Cmd(a),
		newGrowthCmd(a),
		newPartialCmd(a),
	)
	return root
}

// config resolves the flags of cmd with precedence
// explicit flag > environment > config file section > flag default.
func (a *app) config(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("opmodel_" + cmd.Name())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		file := viper.New()
		file.SetConfigFile(a.cfgFile)
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := v.MergeConfigMap(file.GetStringMap(cmd.Name())); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	a.log.Debug("configuration", "command", cmd.Name(), "explicit", explicit(cmd.Flags()), "settings", v.AllSettings())
	return v, nil
}

// emit prints text, or data as indented JSON when --json is set.
func (a *app) emit(cmd *cobra.Command, data any, text string) error {
	out := cmd.OutOrStdout()
	if a.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	_, err := fmt.Fprint(out, text)
	return err
}

// explicit lists the flags set on the command line.
func explicit(fs *pflag.FlagSet) []string {
	var names []string
	fs.Visit(func(f *pflag.Flag) { names = append(names, f.Name) })
	return names
}
