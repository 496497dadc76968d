package runtimeinit

import (
	"fmt"
	"log"

	"clarity/src/clipboard"
	"clarity/src/config"
	"clarity/src/screenshot"
	"clarity/src/session"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// SkipClipboard leaves the clipboard uninitialised, for commands that never copy.
	SkipClipboard bool
}

// Runtime is the resolved startup state shared by the tray app and the CLI.
type Runtime struct {
	Config *config.Config
	Mode   session.Mode
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	mode, err := session.ParseMode(cfg.DefaultMode)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.DefaultModeEnvVar, err)
	}

	screenshot.Init()
	if !opts.SkipClipboard {
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	log.Printf("runtime: hotkey=%s mode=%s display=%d", cfg.Hotkey, mode, cfg.Display)
	return &Runtime{Config: cfg, Mode: mode}, nil
}
