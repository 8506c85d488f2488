package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugomf/digital-rain/internal/config"
	"github.com/hugomf/digital-rain/internal/engine"
	"github.com/hugomf/digital-rain/internal/logging"
	"github.com/hugomf/digital-rain/internal/rain"
	"github.com/hugomf/digital-rain/internal/render"
)

var version = "0.1.0-dev"

// === MAIN ===

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digital-rain",
		Short: "Falling character rain for your terminal",
		Long: `digital-rain fills the terminal with falling streams of characters.

Settings come from ~/.config/digital-rain/config.yaml (or --config),
then DIGITAL_RAIN_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("color", config.DefaultColor, "color theme or #rrggbb")
	flags.String("chars", config.DefaultCharSet, "character set name or custom string")
	flags.Int("fps", config.DefaultFPS, "frames per second (1-60)")
	flags.Float64("density", config.DefaultDensity, "drops per column (0-3.0]")
	flags.Int("speed-min", config.DefaultMinSpeed, "slowest fall in rows per second")
	flags.Int("speed-max", config.DefaultMaxSpeed, "fastest fall in rows per second")
	flags.String("backend", config.DefaultBackend, "renderer: ansi or tcell")
	flags.Int64("seed", 0, "random seed (0 picks one from the clock)")
	flags.String("log-level", "info", "log level: info, debug or trace")
	flags.String("log-file", "", "write logs to this file")
	flags.Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newListCmd(), newVersionCmd())
	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("color", func() (e error) { cfg.Color, e = flags.GetString("color"); return })
	set("chars", func() (e error) { cfg.Chars, e = flags.GetString("chars"); return })
	set("fps", func() (e error) { cfg.FPS, e = flags.GetInt("fps"); return })
	set("density", func() (e error) { cfg.Density, e = flags.GetFloat64("density"); return })
	set("speed-min", func() (e error) { cfg.MinSpeed, e = flags.GetInt("speed-min"); return })
	set("speed-max", func() (e error) { cfg.MaxSpeed, e = flags.GetInt("speed-max"); return })
	set("backend", func() (e error) { cfg.Backend, e = flags.GetString("backend"); return })
	set("seed", func() (e error) { cfg.Seed, e = flags.GetInt64("seed"); return })
	set("log-level", func() (e error) { cfg.Logging.Level, e = flags.GetString("log-level"); return })
	set("log-file", func() (e error) { cfg.Logging.File, e = flags.GetString("log-file"); return })
	set("debug", func() error {
		debug, e := flags.GetBool("debug")
		if debug {
			cfg.Logging.Level = "debug"
		}
		return e
	})
	return err
}

// run wires the configuration into a field, a backend and the engine.
func run(cfg *config.Config) error {
	logger, closeLog, err := logging.Open(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	random := rand.New(rand.NewSource(seed))

	pool, err := rain.Charset(cfg.Chars)
	if err != nil {
		return fmt.Errorf("invalid character set %q: %w", cfg.Chars, err)
	}
	field, err := rain.NewField(cfg.RainOptions(), pool, random, logger)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	base, err := config.ResolveColor(cfg.Color)
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg.Backend)
	if err != nil {
		return err
	}

	e, err := engine.New(field, backend, render.NewPalette(base), cfg.FPS, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		"backend", cfg.Backend,
		"chars", cfg.Chars,
		"fps", cfg.FPS,
		"seed", seed)
	return e.Run(ctx)
}

func newBackend(name string) (render.Backend, error) {
	switch name {
	case config.BackendTcell:
		b, err := render.NewTcellBackend(nil)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return render.NewANSIBackend(os.Stdout), nil
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List color themes and character sets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Colors:")
			for _, name := range config.ThemeNames() {
				fmt.Fprintln(out, "  ", name)
			}
			fmt.Fprintln(out, "\nCharacter Sets:")
			for _, name := range rain.CharsetNames() {
				fmt.Fprintln(out, "  ", name)
			}
			fmt.Fprintln(out, "\nFPS: 1-60")
			fmt.Fprintln(out, "Density: 0-3.0")
			fmt.Fprintln(out, "Backends:", config.BackendANSI+",", config.BackendTcell)
		},
	}
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digital-rain version %s\n", version)
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
