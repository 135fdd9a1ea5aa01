// ABOUTME: CLI entry point for the terminal video player
// ABOUTME: Parses flags, loads config, wires source and output, runs playback

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AgustinCB/mpv/internal/config"
	"github.com/AgustinCB/mpv/internal/log"
	"github.com/AgustinCB/mpv/internal/player"
	"github.com/AgustinCB/mpv/pkg/osd"
	"github.com/AgustinCB/mpv/pkg/raster"
	"github.com/AgustinCB/mpv/pkg/term"
	"github.com/AgustinCB/mpv/pkg/vo"
	"github.com/AgustinCB/mpv/pkg/vo/kitty"
)

var (
	version = "dev"
	commit  = "unknown"
)

type cliFlags struct {
	configPath string
	size       string
	format     string
	fps        float64
	frames     int
	pattern    bool
	showOSD    bool
	force      bool
	logLevel   string

	width, height int
	top, left     int
	exitClear     bool
	panscan       float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "mpv [file]",
		Short: "Play raw video in a kitty-graphics-protocol terminal",
		Long: "mpv renders raw video frames inside terminals implementing the\n" +
			"kitty graphics protocol (kitty, Ghostty, WezTerm), transferring\n" +
			"pixels through shared memory. FILE is a packed raw stream as\n" +
			"produced by ffmpeg's rawvideo muxer; \"-\" reads stdin.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/mpv-go/config.yaml)")
	f.StringVar(&flags.size, "size", "1280x720", "source frame size as WIDTHxHEIGHT")
	f.StringVar(&flags.format, "format", "", "source pixel format (rgba, bgra, rgb24, gray8, yuv420p)")
	f.Float64Var(&flags.fps, "fps", 0, "presentation frame rate")
	f.IntVar(&flags.frames, "frames", 0, "stop after N frames (0 = play to the end)")
	f.BoolVar(&flags.pattern, "pattern", false, "play a generated test pattern instead of a file")
	f.BoolVar(&flags.showOSD, "osd", false, "overlay a playback timecode")
	f.BoolVar(&flags.force, "force", false, "render even when the terminal does not advertise graphics support")
	f.StringVar(&flags.logLevel, "log-level", "", "log verbosity (debug, info, warn, error)")

	f.IntVar(&flags.width, "width", 0, "canvas width override in pixels")
	f.IntVar(&flags.height, "height", 0, "canvas height override in pixels")
	f.IntVar(&flags.top, "top", 0, "origin row override (1-based)")
	f.IntVar(&flags.left, "left", 0, "origin column override (1-based)")
	f.BoolVar(&flags.exitClear, "exit-clear", true, "clear the screen on exit")
	f.Float64Var(&flags.panscan, "panscan", 0, "crop-to-fill amount, 0 (letterbox) to 1 (fill)")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags cliFlags) error {
	settings, err := loadSettings(cmd.Flags(), flags)
	if err != nil {
		return err
	}
	if err := log.SetLevel(settings.LogLevel); err != nil {
		return err
	}

	if !flags.pattern && len(args) == 0 {
		return fmt.Errorf("no input: give a raw stream file, \"-\" for stdin, or --pattern")
	}
	if !kitty.SupportedTerminal() && !flags.force {
		return fmt.Errorf("terminal does not advertise kitty graphics support (use --force to render anyway)")
	}

	w, h, err := config.ParseSize(flags.size)
	if err != nil {
		return err
	}
	src, closeSrc, err := openSource(args, flags, settings, w, h)
	if err != nil {
		return err
	}
	defer closeSrc()

	var overlay vo.Overlay
	if settings.OSD {
		overlay = osd.New(true, "")
	}

	drv := kitty.New(term.NewProcessTerminal(), kitty.Options{
		Width:     settings.Width,
		Height:    settings.Height,
		Top:       settings.Top,
		Left:      settings.Left,
		ExitClear: settings.ExitClearValue(),
		Panscan:   settings.Panscan,
		Overlay:   overlay,
		Log:       log.Component("vo"),
	})

	pl := player.New(src, drv, player.Options{
		FPS:       settings.FPS,
		MaxFrames: flags.frames,
		Log:       log.Component("player"),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pl.Run(ctx)
}

// loadSettings layers command-line flags over the config file.
func loadSettings(fs *pflag.FlagSet, flags cliFlags) (*config.Settings, error) {
	path := flags.configPath
	if path == "" {
		path = config.GlobalConfigFile()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	set := fs.Changed
	if set("fps") {
		settings.FPS = flags.fps
	}
	if set("format") {
		settings.Format = flags.format
	}
	if set("osd") {
		settings.OSD = flags.showOSD
	}
	if set("log-level") {
		settings.LogLevel = flags.logLevel
	}
	if set("width") {
		settings.Width = flags.width
	}
	if set("height") {
		settings.Height = flags.height
	}
	if set("top") {
		settings.Top = flags.top
	}
	if set("left") {
		settings.Left = flags.left
	}
	if set("exit-clear") {
		settings.ExitClear = &flags.exitClear
	}
	if set("panscan") {
		settings.Panscan = flags.panscan
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// openSource builds the frame source from flags: the generated pattern,
// stdin, or a raw stream file.
func openSource(args []string, flags cliFlags, settings *config.Settings, w, h int) (player.Source, func(), error) {
	nop := func() {}

	if flags.pattern {
		return player.NewPatternSource(w, h, flags.frames), nop, nil
	}

	format, err := raster.ParseFormat(settings.Format)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader
	closeFn := nop
	if args[0] == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		r = f
		closeFn = func() { f.Close() }
	}

	src, err := player.NewRawSource(r, format, w, h)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return src, closeFn, nil
}
