package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dori/duotask/internal/config"
)

// EnvDebug enables debug logging (DUOTASK_DEBUG=1) regardless of config
const EnvDebug = "DUOTASK_DEBUG"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns the app logger. Output goes to <data_dir>/duotask.log
// when debugging and is discarded otherwise, so it never reaches the TUI.
func NewLogger(cfg config.Config) (*log.Logger, io.Closer, error) {
	if !cfg.Debug && os.Getenv(EnvDebug) != "1" {
		return log.New(io.Discard, "", 0), nopCloser{}, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "duotask.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds), f, nil
}
