// Command curvebuild bootstraps discount curves from market quotes and prices
// bonds against them. Input and output are JSON.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/mocurve/config"
	"github.com/meenmo/mocurve/internal/logger"
)

// errPartialFailure marks a batch whose per-entry errors are already in the
// output.
var errPartialFailure = errors.New("one or more inputs failed")

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Pretty     bool
}

// load reads the configuration and builds the logger, applying flag overrides.
func (o *rootOptions) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Pretty {
		cfg.Log.Pretty = true
	}
	return cfg, logger.New(cfg.LoggerConfig()), nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "curvebuild",
		Short: "Yield curve bootstrapping",
		Long:  "Bootstrap discount curves from deposits, FRAs, futures, swaps, bills and bonds, and price bonds against them.",
	}
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "human-readable logs on stderr")

	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newASWCommand(opts))
	cmd.AddCommand(newForwardYieldCommand(opts))
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, errPartialFailure) {
			os.Exit(1)
		}
		exitError(err.Error())
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func exitError(msg string) {
	b, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
