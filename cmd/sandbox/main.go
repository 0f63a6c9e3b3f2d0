package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hubastard/canopy/cmd/sandbox/demo"
	"github.com/hubastard/canopy/engine/assets"
	"github.com/hubastard/canopy/engine/core"
	glbackend "github.com/hubastard/canopy/engine/gfx/gl"
	"github.com/hubastard/canopy/engine/platform"
	"github.com/hubastard/canopy/engine/profiler"
)

type options struct {
	configPath string
	logLevel   string
	profileOut string
	texture    string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "sandbox",
		Short: "canopy UI sandbox",
		Long: `Sandbox runs the canopy demo: a floating panel of widgets over a
pulsing backdrop, plus a debug overlay toggled with F3.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "canopy.yaml", "Config file (.yaml, .yml or .toml); missing means defaults")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.profileOut, "profile-out", "", "Write a speedscope profile here on exit (needs -tags profile)")

	rootCmd.AddCommand(runCmd(&opts), headlessCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(opts *options) (core.Config, error) {
	cfg, err := core.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the demo in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
				r, err := glbackend.NewRendererGL(win, cfg)
				if err != nil {
					return nil, err
				}
				return r, nil
			}
			err = core.Run(demo.NewApp(opts.texture), cfg, platform.Open, newRenderer)
			dumpProfile(opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.texture, "texture", "", "PNG shown in the demo panel")
	return cmd
}

func headlessCmd(opts *options) *cobra.Command {
	var (
		frames int
		out    string
		click  bool
	)
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Render the demo offscreen and save the last frame as PNG",
		Example: `  sandbox headless --frames 10 --out frame.png
  sandbox headless --click=false --out idle.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			var script map[int][]core.Event
			if click {
				script = demo.ClickScript()
			}
			img, err := demo.RunHeadless(demo.NewApp(opts.texture), cfg, frames, script)
			dumpProfile(opts)
			if err != nil {
				return err
			}
			if err := assets.SavePNG(out, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", out, frames)
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 8, "Frames to render")
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "Output PNG")
	cmd.Flags().BoolVar(&click, "click", true, "Click the demo button during the run")
	return cmd
}

func dumpProfile(opts *options) {
	if opts.profileOut == "" {
		return
	}
	if err := profiler.Dump(opts.profileOut); err != nil {
		fmt.Fprintln(os.Stderr, "profile:", err)
	}
}
