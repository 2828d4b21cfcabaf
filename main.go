package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olivier-w/oscilloview/internal/display"
	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/scope"
	"github.com/olivier-w/oscilloview/internal/synth"
	"github.com/olivier-w/oscilloview/internal/ui"
	"github.com/olivier-w/oscilloview/internal/window"
)

const version = "0.1.0"

type options struct {
	mute      bool
	window    int
	stride    int
	fullScale float64
	tempo     float64
	logFile   string
	debug     bool
}

var config options

var rootCmd = &cobra.Command{
	Use:   "oscilloview [file]",
	Short: "Per-channel oscilloscope for a sound chip style synth or an audio file",
	Long: `oscilloview draws one oscilloscope panel per audio channel.

Without a file it plays a built-in FM/SSG synth and shows all of its
channels. With an mp3, wav, flac or ogg file it shows the left, right,
mid and side signals.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&config.mute, "mute", "m", false,
		"Run without the audio device; traces keep moving in real time")
	f.IntVarP(&config.window, "window", "w", window.DefaultLength,
		"Samples shown per panel")
	f.IntVarP(&config.stride, "stride", "s", window.DefaultStride,
		"Plot every Nth sample of the window")
	f.Float64Var(&config.fullScale, "full-scale", window.DefaultFullScale,
		"Sample amplitude drawn at the panel edge")
	f.Float64VarP(&config.tempo, "tempo", "t", synth.DefaultTempo,
		"Synth tempo in beats per minute")
	f.StringVarP(&config.logFile, "log", "l", "",
		"Write logs to the specified file (empty disables)")
	f.BoolVar(&config.debug, "debug", false,
		"Log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o options) validate() error {
	if o.window < 1 || o.window > oscillo.SampleCount {
		return fmt.Errorf("--window must be between 1 and %d, got %d", oscillo.SampleCount, o.window)
	}
	if o.stride < 1 || o.stride > o.window {
		return fmt.Errorf("--stride must be between 1 and the window (%d), got %d", o.window, o.stride)
	}
	if o.fullScale <= 0 || o.fullScale > 32768 {
		return fmt.Errorf("--full-scale must be in (0, 32768], got %g", o.fullScale)
	}
	if o.tempo < 20 || o.tempo > 400 {
		return fmt.Errorf("--tempo must be between 20 and 400 bpm, got %g", o.tempo)
	}
	return nil
}

func (o options) windowOptions() window.Options {
	return window.Options{Length: o.window, Stride: o.stride, FullScale: o.fullScale}
}

// setupLogging routes slog to path, or discards it when path is empty. The
// terminal belongs to the UI, so nothing is logged there.
func setupLogging(path string, debug bool) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "oscilloview")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})))
	return func() { f.Close() }, nil
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.validate(); err != nil {
		return err
	}
	closeLog, err := setupLogging(config.logFile, config.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	ex := oscillo.NewExchange()
	src, preset, err := openSource(path, ex, config)
	if err != nil {
		return err
	}
	defer src.Close()
	slog.Info("source opened", "source", src.Title(), "mute", config.mute)

	view := scope.New(ex, display.StyleFactory{}, preset, config.windowOptions())
	defer view.Close()

	m, err := ui.New(view, ex, src)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
