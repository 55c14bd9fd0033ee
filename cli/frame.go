package cli

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// fileFrameSource serves a single image file as the captured frame.
type fileFrameSource struct {
	frame image.Image
}

func newFileFrameSource(path string) (*fileFrameSource, error) {
	frame, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open frame %s", path)
	}
	return &fileFrameSource{frame: frame}, nil
}

func (s *fileFrameSource) Size() (int, int) {
	b := s.frame.Bounds()
	return b.Dx(), b.Dy()
}

func (s *fileFrameSource) Frame(ctx context.Context) (image.Image, error) {
	return s.frame, nil
}
