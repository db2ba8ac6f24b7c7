package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/donut/config"
	"github.com/lixenwraith/donut/engine"
	"github.com/lixenwraith/donut/parameter"
	"github.com/lixenwraith/donut/render"
	"github.com/lixenwraith/donut/shade"
	"github.com/lixenwraith/donut/terminal"
)

var (
	modeFlag        = flag.String("mode", "auto", "Output mode: auto, stream, inplace, screen")
	colorModeFlag   = flag.String("color", "auto", "Color mode: auto, truecolor, 256, mono")
	framesFlag      = flag.Int("frames", 0, "Stop after N frames, 0 runs until interrupted")
	workersFlag     = flag.Int("workers", 0, "Sweep goroutines, 0 keeps the configured count, -1 uses all CPUs")
	configFlag      = flag.String("config", "", "TOML file overriding the built-in parameters")
	snapshotFlag    = flag.String("snapshot", "", "Render the first frame to a PNG file and exit")
	printConfigFlag = flag.Bool("print-config", false, "Print the effective configuration as TOML and exit")
	debugFlag       = flag.Bool("debug", false, "Write a debug log to logs/donut.log")
)

// outputMode is the resolved presenter choice
type outputMode uint8

const (
	outputStream  outputMode = iota // Clear and redraw every frame
	outputInPlace                   // Redraw from the top-left corner without clearing
	outputScreen
)

var errUnknownMode = errors.New("unknown output mode")

func main() {
	// Panic Recovery: Ensure terminal is reset even if the renderer crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mDONUT CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "donut: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(*configFlag, *workersFlag)
	if err != nil {
		return err
	}
	if *printConfigFlag {
		return config.FromConfig(cfg).Encode(os.Stdout)
	}

	colorMode, err := terminal.ParseColorMode(*colorModeFlag)
	if err != nil {
		return err
	}
	palette, err := terminal.DefaultPalette(colorMode, cfg.Table.Len())
	if err != nil {
		return err
	}

	r, err := engine.NewRenderer(cfg, nil)
	if err != nil {
		return err
	}

	if *snapshotFlag != "" {
		return writeSnapshot(*snapshotFlag, r, palette, cfg.Table)
	}

	stdout := int(os.Stdout.Fd())
	interactive := terminal.IsTerminal(stdout) && terminal.IsTerminal(int(os.Stdin.Fd()))
	out, err := resolveOutput(*modeFlag, interactive,
		terminal.Fits(stdout, cfg.Width, cfg.Height, parameter.StatusRows))
	if err != nil {
		return err
	}
	log.Printf("output %v, color %v, config %q", out, colorMode, *configFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch out {
	case outputScreen:
		screen, err := terminal.OpenScreen()
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		p := terminal.NewScreenPresenter(screen, terminal.ScreenOptions{
			Palette: palette,
			Table:   cfg.Table,
			Mode:    colorMode,
			OnQuit:  stop,
		})
		err = r.Run(ctx, p, *framesFlag)
		p.Close()
		return ignoreInterrupt(err)

	default:
		streamMode := streamModeFor(out, terminal.IsTerminal(stdout))
		p := terminal.NewStreamPresenter(os.Stdout, terminal.StreamOptions{
			Mode:    streamMode,
			Palette: palette,
			Table:   cfg.Table,
		})
		if streamMode != terminal.StreamAppend {
			if err := p.HideCursor(); err != nil {
				return err
			}
		}
		err := r.Run(ctx, p, *framesFlag)
		if cerr := p.Close(); err == nil {
			err = cerr
		}
		return ignoreInterrupt(err)
	}
}

// loadConfig builds the renderer configuration from defaults, the optional file and the worker flag
func loadConfig(path string, workers int) (engine.Config, error) {
	var (
		cfg engine.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = engine.DefaultConfig()
	}
	if err != nil {
		return engine.Config{}, err
	}

	switch {
	case workers < 0:
		cfg.Workers = runtime.GOMAXPROCS(0)
	case workers > 0:
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

// resolveOutput picks the presenter for a -mode value
// auto uses the full screen only when it is interactive and large enough for the grid
func resolveOutput(mode string, interactive, fits bool) (outputMode, error) {
	switch mode {
	case "stream":
		return outputStream, nil
	case "inplace":
		return outputInPlace, nil
	case "screen":
		if !interactive {
			return outputStream, fmt.Errorf("screen mode needs a terminal on stdin and stdout")
		}
		return outputScreen, nil
	case "auto", "":
		if interactive && fits {
			return outputScreen, nil
		}
		return outputStream, nil
	}
	return outputStream, fmt.Errorf("%w: %q", errUnknownMode, mode)
}

func (m outputMode) String() string {
	switch m {
	case outputScreen:
		return "screen"
	case outputInPlace:
		return "inplace"
	}
	return "stream"
}

// streamModeFor picks how stream frames replace each other
// Control sequences are only written to a terminal; pipes and files get plain appended frames
func streamModeFor(out outputMode, tty bool) terminal.StreamMode {
	if !tty {
		return terminal.StreamAppend
	}
	if out == outputInPlace {
		return terminal.StreamHome
	}
	return terminal.StreamClear
}

// writeSnapshot renders the frame at the starting angles and saves it as a PNG
func writeSnapshot(path string, r *engine.Renderer, palette *terminal.Palette, table *shade.Table) error {
	r.Sweep()

	opts := render.SnapshotOptions{}
	if palette.Mode() != terminal.ColorModeMono {
		opts.Foreground = func(g rune) color.Color {
			level, _ := table.Level(g)
			return palette.Color(level)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Buffer().WritePNG(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	log.Printf("snapshot written to %s", path)
	return f.Close()
}

func ignoreInterrupt(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
