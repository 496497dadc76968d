package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clarity/src/clipboard"
	"clarity/src/config"
	"clarity/src/geometry"
	"clarity/src/runtimeinit"
	"clarity/src/screenshot"
	"clarity/src/session"
)

const (
	maxFileSizeMB = 64
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	verbose bool
}

type captureOptions struct {
	display   int
	out       string
	clipboard bool
}

type cropOptions struct {
	file         string
	rect         string
	scale        float64
	canvasHeight float64
	out          string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"clarity-cli"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clarity-cli",
		Short:         "Capture and crop screenshots from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure logging BEFORE any other operations.
			if opts.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	cmd.AddCommand(newCaptureCmd(opts), newCropCmd(opts), newDisplaysCmd())
	return cmd
}

func newCaptureCmd(opts *cliOptions) *cobra.Command {
	co := &captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Snapshot a display to a PNG file, stdout, or the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, *opts, *co)
		},
	}
	cmd.Flags().IntVar(&co.display, "display", -1, "Display index (overrides DISPLAY_INDEX)")
	cmd.Flags().StringVar(&co.out, "out", "", "Output PNG path (use '-' for stdout)")
	cmd.Flags().BoolVar(&co.clipboard, "clipboard", false, "Copy the snapshot to the clipboard")
	return cmd
}

func newCropCmd(opts *cliOptions) *cobra.Command {
	co := &cropOptions{}
	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop a PNG with a bottom-left-origin view rectangle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrop(cmd, *opts, *co)
		},
	}
	cmd.Flags().StringVar(&co.file, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().StringVar(&co.rect, "rect", "", "Selection as x,y,width,height in view points")
	cmd.Flags().Float64Var(&co.scale, "scale", 0, "Backing scale factor (pixels per point)")
	cmd.Flags().Float64Var(&co.canvasHeight, "canvas-height", 0, "View height in points, used to derive --scale")
	cmd.Flags().StringVar(&co.out, "out", "-", "Output PNG path (use '-' for stdout)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("rect")
	return cmd
}

// displayInfo is one entry of the displays listing.
type displayInfo struct {
	Index    int  `yaml:"index"`
	Main     bool `yaml:"main"`
	Selected bool `yaml:"selected"`
	X        int  `yaml:"x"`
	Y        int  `yaml:"y"`
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
}

func newDisplaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List active displays as YAML (index is the DISPLAY_INDEX value)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return writeDisplays(cmd.OutOrStdout(), screenshot.Displays(), cfg.Display)
		},
	}
}

// writeDisplays lists displays, marking the one captures will use.
func writeDisplays(w io.Writer, displays []screenshot.Display, selected int) error {
	if len(displays) == 0 {
		return screenshot.ErrNoDisplay
	}
	infos := make([]displayInfo, 0, len(displays))
	for _, d := range displays {
		infos = append(infos, displayInfo{
			Index:    d.Index,
			Main:     d.Index == 0,
			Selected: d.Index == selected,
			X:        d.Bounds.Min.X,
			Y:        d.Bounds.Min.Y,
			Width:    d.Bounds.Dx(),
			Height:   d.Bounds.Dy(),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("failed to encode displays: %w", err)
	}
	return enc.Close()
}

func runCapture(cmd *cobra.Command, opts cliOptions, co captureOptions) error {
	if co.out == "" && !co.clipboard {
		return fmt.Errorf("nothing to do: pass --out and/or --clipboard")
	}

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   config.LoadOptions{DisplayOverride: co.display},
		SkipClipboard: !co.clipboard,
	})
	if err != nil {
		return err
	}

	d, err := screenshot.DisplayAt(rt.Config.Display)
	if err != nil {
		return err
	}
	verbosef(cmd, opts, "Capturing display %d at %v", d.Index, d.Bounds)

	img, err := screenshot.Capture(d)
	if err != nil {
		return err
	}
	verbosef(cmd, opts, "Captured %dx%d", img.Bounds().Dx(), img.Bounds().Dy())

	if co.out != "" {
		if err := writePNG(cmd.OutOrStdout(), co.out, img); err != nil {
			return err
		}
	}
	if co.clipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return err
		}
		verbosef(cmd, opts, "Copied to clipboard")
	}
	return nil
}

func runCrop(cmd *cobra.Command, opts cliOptions, co cropOptions) error {
	r, err := parseRect(co.rect)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), co.file)
	if err != nil {
		return err
	}
	if err := validatePNG(data); err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode PNG: %w", err)
	}

	scale, err := resolveScale(co, img.Bounds())
	if err != nil {
		return err
	}
	verbosef(cmd, opts, "Cropping %+v at scale %g from %dx%d", r, scale, img.Bounds().Dx(), img.Bounds().Dy())

	cropped, err := session.CropView(img, r, scale)
	if err != nil {
		return fmt.Errorf("crop %s: %w", co.rect, err)
	}
	verbosef(cmd, opts, "Cropped to %dx%d", cropped.Bounds().Dx(), cropped.Bounds().Dy())

	return writePNG(cmd.OutOrStdout(), co.out, cropped)
}

// resolveScale picks the backing scale: explicit --scale wins, then the ratio of
// image height to --canvas-height, then 1.
func resolveScale(co cropOptions, bounds image.Rectangle) (float64, error) {
	switch {
	case co.scale < 0 || co.canvasHeight < 0:
		return 0, fmt.Errorf("--scale and --canvas-height must not be negative")
	case co.scale > 0:
		return co.scale, nil
	case co.canvasHeight > 0:
		return float64(bounds.Dy()) / co.canvasHeight, nil
	default:
		return 1, nil
	}
}

func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("--rect must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("--rect component %d: %w", i+1, err)
		}
		v[i] = f
	}
	return geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	return data, nil
}

func validatePNG(data []byte) error {
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return fmt.Errorf("input is not a valid PNG file (invalid magic number)")
	}
	return nil
}

func writePNG(stdout io.Writer, path string, img image.Image) error {
	data, err := clipboard.EncodePNG(img)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func verbosef(cmd *cobra.Command, opts cliOptions, format string, args ...any) {
	if opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] "+format+"\n", args...)
	}
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"file", "rect", "scale", "canvas-height", "out", "display", "clipboard", "verbose"} {
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
