package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// JPEGQuality is the encoder quality for every artifact.
const JPEGQuality = 75

// SaveJPEG encodes img as JPEG into path, replacing any existing file.
func SaveJPEG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.JPEGEncoder(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// SaveJPEGDurable encodes img as JPEG into path and fsyncs the file before
// closing it. The file handle is released on every path, including encode
// failures.
func SaveJPEGDurable(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	return nil
}
