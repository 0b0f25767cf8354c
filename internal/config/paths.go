package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved directory layout for the application.
// All relative directories from PathsConfig are anchored at BaseDir,
// which defaults to the current working directory.
type Paths struct {
	BaseDir  string
	DataDir  string
	PlotsDir string
	WebDir   string
	LogsDir  string
}

// ResolvePaths turns the configured (possibly relative) directories into
// absolute paths.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		base = wd
	}

	abs := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:  base,
		DataDir:  abs(cfg.DataDir),
		PlotsDir: abs(cfg.PlotsDir),
		WebDir:   abs(cfg.WebDir),
		LogsDir:  abs(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they do not exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.PlotsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns a path inside the data directory
func (p *Paths) GetDataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// GetPlotPath returns a path inside the plots directory
func (p *Paths) GetPlotPath(name string) string {
	return filepath.Join(p.PlotsDir, name)
}

// GetLogPath returns a path inside the logs directory
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution() {
	slog.Debug("resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("plots_dir", p.PlotsDir),
		slog.String("web_dir", p.WebDir),
		slog.String("logs_dir", p.LogsDir))
}
