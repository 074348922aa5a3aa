package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Source is a decoded input image together with its pixel dimensions.
type Source struct {
	// Path is the file the image was decoded from.
	Path string

	// Image holds the decoded pixels. It is never drawn on.
	Image image.Image

	// Width is the image width in pixels.
	Width int

	// Height is the image height in pixels.
	Height int
}

// Open decodes the image at path.
//
// Supported formats are JPEG, PNG, GIF, BMP and TIFF. EXIF orientation is not
// applied, so the dimensions are those stored in the file.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Open(path string) (*Source, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	bounds := img.Bounds()
	return &Source{
		Path:   path,
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Surface returns a fresh drawable copy of the source.
func (s *Source) Surface() *Surface {
	return NewSurface(s.Image)
}
