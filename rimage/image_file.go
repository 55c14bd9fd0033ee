package rimage

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"
)

// DefaultJPEGQuality is used when a caller passes a quality outside [1, 100].
const DefaultJPEGQuality = 80

// EncodeImage encodes an image into the given mime type.
func EncodeImage(img image.Image, mimeType string, jpegQuality int) ([]byte, error) {
	if img == nil {
		return nil, errors.New("cannot encode a nil image")
	}
	var buf bytes.Buffer
	switch mimeType {
	case MimeTypeJPEG:
		if jpegQuality < 1 || jpegQuality > 100 {
			jpegQuality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(err, "jpeg encode")
		}
	case MimeTypePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(err, "png encode")
		}
	default:
		return nil, errors.Errorf("do not know how to encode %q", mimeType)
	}
	return buf.Bytes(), nil
}

// WriteImageToFile writes the image to a file, choosing the encoding from the extension.
func WriteImageToFile(path string, img image.Image) error {
	mimeType := MimeTypePNG
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mimeType = MimeTypeJPEG
	case ".png":
	default:
		return errors.Errorf("unsupported image extension for %q", path)
	}
	data, err := EncodeImage(img, mimeType, DefaultJPEGQuality)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
