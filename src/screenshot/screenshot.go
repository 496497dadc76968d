package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/kbinani/screenshot"
)

var (
	ErrNoDisplay = errors.New("no active displays found")
	// ErrBlankCapture is returned when the platform hands back an image with no visible
	// pixels, which is what macOS does when screen recording permission is missing.
	ErrBlankCapture = errors.New("capture returned a blank image")
)

// Display identifies one active display by its index in the platform's display list.
// Index 0 is the main display.
type Display struct {
	Index  int
	Bounds image.Rectangle
}

func Init() {
	log.Printf("screenshot: %d active display(s)", screenshot.NumActiveDisplays())
}

// Displays lists the active displays.
func Displays() []Display {
	n := screenshot.NumActiveDisplays()
	out := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Display{Index: i, Bounds: screenshot.GetDisplayBounds(i)})
	}
	return out
}

// MainDisplay returns the primary display.
func MainDisplay() (Display, error) {
	return DisplayAt(0)
}

// DisplayAt returns the display with the given index.
func DisplayAt(index int) (Display, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Display{}, ErrNoDisplay
	}
	if index < 0 || index >= n {
		return Display{}, fmt.Errorf("display %d not found (%d active): %w", index, n, ErrNoDisplay)
	}
	return Display{Index: index, Bounds: screenshot.GetDisplayBounds(index)}, nil
}

// Capture grabs the current contents of a display at its native pixel resolution.
func Capture(d Display) (*image.RGBA, error) {
	img, err := screenshot.CaptureDisplay(d.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", d.Index, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("display %d: %w", d.Index, ErrBlankCapture)
	}
	if isBlank(img) {
		return nil, fmt.Errorf("display %d (check screen recording permission): %w", d.Index, ErrBlankCapture)
	}
	return img, nil
}

// Crop copies the pixels of r out of img into a new image whose origin is (0,0).
// r is clipped to the image bounds.
func Crop(img image.Image, r image.Rectangle) (*image.RGBA, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop rectangle %v is outside image bounds %v", r, img.Bounds())
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, nil
}

// isBlank reports whether every pixel is fully transparent.
func isBlank(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				return false
			}
		}
	}
	return true
}
