package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"clarity/src/config"
	"clarity/src/eventloop"
	"clarity/src/logutil"
	"clarity/src/overlay"
	"clarity/src/runtimeinit"
	"clarity/src/tray"
)

const (
	appID        = "app.clarity.screenshot"
	runOnceGrace = 5 * time.Second
)

type mainOptions struct {
	runOnce bool
	mode    string
	display int
	hotkey  string
}

func main() {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clarity",
		Short:         "Menu-bar screenshot capture and crop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}

	cmd.Flags().BoolVar(&opts.runOnce, "run-once", false, "Capture once, copy to clipboard, and exit")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Initial mode: rectangle or screen (overrides DEFAULT_MODE)")
	cmd.Flags().IntVar(&opts.display, "display", -1, "Display index to capture (overrides DISPLAY_INDEX)")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Global hotkey (overrides HOTKEY)")

	return cmd
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		DefaultModeOverride: o.mode,
		DisplayOverride:     o.display,
		HotkeyOverride:      o.hotkey,
	}
}

func run(opts mainOptions) error {
	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  opts.loadOptions(),
		SetupLogging: logutil.Setup,
	})
	if err != nil {
		return err
	}
	cfg := rt.Config

	a := app.NewWithID(appID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var menu *tray.Tray
	editor := overlay.NewEditor(a)
	if opts.runOnce {
		editor = overlay.NewRunOnceEditor(a)
	}
	loop := eventloop.New(eventloop.Options{
		Editor:  editor,
		Mode:    rt.Mode,
		Display: cfg.Display,
		OnBusy: func(busy bool) {
			if menu != nil {
				fyne.Do(func() { menu.SetBusy(busy) })
			}
		},
	})

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			log.Printf("signal received, quitting")
			fyne.Do(a.Quit)
		case <-ctx.Done():
		}
	}()

	if opts.runOnce {
		return runOnce(ctx, a, loop)
	}

	menu = tray.New(tray.Config{
		Title:     "Clarity",
		Hotkey:    cfg.Hotkey,
		OnCapture: loop.Trigger,
	})
	if !menu.Install(a) {
		return errors.New("system tray is not available on this platform")
	}

	if err := loop.StartHotkey(ctx, cfg.Hotkey); err != nil {
		// The tray still works without the hotkey.
		log.Printf("hotkey: %v", err)
	}

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	log.Printf("Clarity running in the menu bar, hotkey %s", cfg.Hotkey)
	a.Run()
	return nil
}

// runOnce drives a single session while the fyne run loop owns the main thread.
// fyne may stop its loop as soon as the editor window closes, so the session
// result is awaited after Run returns.
func runOnce(ctx context.Context, a fyne.App, loop *eventloop.Loop) error {
	done := make(chan error, 1)
	go func() {
		done <- loop.RunOnce(ctx)
		fyne.Do(a.Quit)
	}()
	a.Run()

	var err error
	select {
	case err = <-done:
	case <-time.After(runOnceGrace):
		return errors.New("run-once: session did not finish")
	}
	if errors.Is(err, eventloop.ErrCancelled) {
		log.Printf("run-once: cancelled")
		return nil
	}
	return err
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"run-once", "mode", "display", "hotkey"} {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}
