package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"central-snake/audio"
	"central-snake/game"
	"central-snake/game/manager"
	"central-snake/tui"
	"central-snake/ui"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "central-snake: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "central-snake: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting",
		"frontend", cfg.Frontend,
		"grid", fmt.Sprintf("%dx%d", cfg.Cols, cfg.Rows),
		"drain", cfg.Drain,
		"autopilot", cfg.Autopilot,
		"data_dir", cfg.DataDir)

	scores := manager.NewStateManager(manager.NewFileStore(cfg.ScoresPath()), cfg.HistoryPath(), logger)
	defer scores.Close()

	session, err := game.NewSession(game.Options{
		Grid:   cfg.Grid(),
		Drain:  cfg.DrainPolicy(),
		Logger: logger,
	}, scores)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	player := audio.Silent()
	if cfg.Sound {
		if player, err = audio.NewPlayer(logger); err != nil {
			// Non-fatal, the game runs without sound
			logger.Warn("audio initialization failed", "error", err)
		}
	}
	defer player.Close()

	switch cfg.Frontend {
	case FrontendTerminal:
		return runTerminal(cfg, session, player, logger)
	default:
		return runRaylib(cfg, session, player)
	}
}

// newLogger writes to stderr, or to a file in the data directory when the
// terminal owns the screen.
func newLogger(cfg Config) (*slog.Logger, func(), error) {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.Frontend == FrontendTerminal {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}

// pilotInput lets the autopilot steer while the player can still quit or
// restart.
type pilotInput struct {
	human game.InputSource
	pilot game.InputSource
}

func (p pilotInput) Poll() game.Command {
	h := p.human.Poll()
	cmd := p.pilot.Poll()
	cmd.Restart = cmd.Restart || h.Restart
	cmd.Quit = h.Quit
	return cmd
}

func withAutopilot(cfg Config, session *game.Session, human game.InputSource) game.InputSource {
	if !cfg.Autopilot {
		return human
	}
	return pilotInput{human: human, pilot: game.NewAutopilot(session, time.Now)}
}

// frame runs one host frame: input, then elapsed time, then sound cues. It
// reports false once the player asked to quit.
func frame(session *game.Session, input game.InputSource, dt time.Duration, player *audio.Player) (bool, error) {
	cmd := input.Poll()
	if cmd.Quit {
		return false, nil
	}
	if err := session.Apply(cmd); err != nil {
		return false, err
	}
	res := session.Advance(dt)
	player.PlayResult(res)
	return true, nil
}

func runRaylib(cfg Config, session *game.Session, player *audio.Player) error {
	width, height := ui.WindowSize(cfg.Grid(), cfg.CellSize)
	rl.InitWindow(width, height, "Central Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.FPS))

	input := withAutopilot(cfg, session, ui.NewInput())
	renderer := ui.NewRenderer()

	for {
		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		ok, err := frame(session, input, dt, player)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		renderer.Draw(session.Snapshot())
	}
}

func runTerminal(cfg Config, session *game.Session, player *audio.Player, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	tuiInput := tui.NewInput(screen)
	input := withAutopilot(cfg, session, tuiInput)
	renderer := tui.NewRenderer(screen)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last)
		last = now

		ok, err := frame(session, input, dt, player)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("quit requested", "session", session.ID())
			return nil
		}
		if tuiInput.Resized() {
			screen.Sync()
		}
		renderer.Draw(session.Snapshot())
	}
	return nil
}
