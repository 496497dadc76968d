package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	initErr error
	inited  bool
)

// Init must succeed before any write; the platform clipboard needs cgo on macOS.
func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !inited {
		initErr = clipboard.Init()
		inited = true
	}
	return initErr
}

// WriteImage copies img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if img == nil {
		return errors.New("no image to copy")
	}
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if !inited || initErr != nil {
		return fmt.Errorf("clipboard not initialized: %v", initErr)
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// EncodePNG encodes img at the fastest compression level.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
