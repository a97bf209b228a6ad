// Package imageio writes rendered frames to disk. The format is chosen from
// the file extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for extensions with no encoder.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// JPEGQuality is used for .jpg and .jpeg outputs.
const JPEGQuality = 95

// Extensions lists every supported extension, lower case with the leading dot.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}
}

// Supported reports whether path has an extension Save can write.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Encode writes img to w in the format named by ext (".png", "tiff", ...).
func Encode(w io.Writer, ext string, img image.Image) error {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var err error
	switch ext {
	case ".png":
		err = png.Encode(w, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", ext, err)
	}
	return nil
}

// Save creates path and writes img to it. A partially written file is removed.
func Save(path string, img image.Image) error {
	if !Supported(path) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := Encode(f, filepath.Ext(path), img); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close file: %w", err)
	}
	return nil
}

// FileEncoder writes frames with Save.
type FileEncoder struct{}

func (FileEncoder) Encode(path string, img image.Image) error {
	return Save(path, img)
}
