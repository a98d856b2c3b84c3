package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"central-snake/game"
	"central-snake/game/types"
)

// Frontends
const (
	FrontendRaylib   = "raylib"
	FrontendTerminal = "terminal"
)

// MinGridSide is the smallest grid the obstacle layout still fits on.
const MinGridSide = 8

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is everything main needs to start a front end.
type Config struct {
	Frontend  string
	Cols      int
	Rows      int
	CellSize  int
	FPS       int
	DataDir   string
	Drain     string
	Autopilot bool
	Sound     bool
	LogLevel  string
}

// parseConfig reads flags from args, falling back to SNAKE_* environment
// variables and then to the defaults.
func parseConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("central-snake", flag.ContinueOnError)
	fs.StringVar(&cfg.Frontend, "frontend", getEnvOrDefault("SNAKE_FRONTEND", FrontendRaylib), "Front end: raylib or terminal")
	fs.IntVar(&cfg.Cols, "cols", getEnvIntOrDefault("SNAKE_COLS", 30), "Grid columns")
	fs.IntVar(&cfg.Rows, "rows", getEnvIntOrDefault("SNAKE_ROWS", 20), "Grid rows")
	fs.IntVar(&cfg.CellSize, "cell", getEnvIntOrDefault("SNAKE_CELL", 24), "Preferred cell size in pixels (raylib)")
	fs.IntVar(&cfg.FPS, "fps", getEnvIntOrDefault("SNAKE_FPS", 60), "Target frames per second")
	fs.StringVar(&cfg.DataDir, "data-dir", getEnvOrDefault("SNAKE_DATA_DIR", "data"), "Directory for high score, history and logs")
	fs.StringVar(&cfg.Drain, "drain", getEnvOrDefault("SNAKE_DRAIN", "one"), "Steps per frame when behind: one or all")
	fs.BoolVar(&cfg.Autopilot, "autopilot", getEnvBoolOrDefault("SNAKE_AUTOPILOT", false), "Let the computer play")
	fs.BoolVar(&cfg.Sound, "sound", getEnvBoolOrDefault("SNAKE_SOUND", true), "Play sound cues")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnvOrDefault("SNAKE_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Frontend {
	case FrontendRaylib, FrontendTerminal:
	default:
		return fmt.Errorf("%w: unknown frontend %q", ErrInvalidConfig, c.Frontend)
	}
	if c.Cols < MinGridSide || c.Rows < MinGridSide {
		return fmt.Errorf("%w: grid %dx%d is smaller than %dx%d", ErrInvalidConfig, c.Cols, c.Rows, MinGridSide, MinGridSide)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive", ErrInvalidConfig)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive", ErrInvalidConfig)
	}
	if _, err := game.ParseDrainPolicy(c.Drain); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Grid() types.Grid {
	return types.Grid{Width: c.Cols, Height: c.Rows}
}

func (c Config) DrainPolicy() game.DrainPolicy {
	p, _ := game.ParseDrainPolicy(c.Drain)
	return p
}

func (c Config) ScoresPath() string {
	return filepath.Join(c.DataDir, "scores.json")
}

func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.json")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "central-snake.log")
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
