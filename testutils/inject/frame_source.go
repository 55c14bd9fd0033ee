package inject

import (
	"context"
	"image"
)

// FrameSource is an injected frame source. Without injected functions it serves Image.
type FrameSource struct {
	Image     image.Image
	SizeFunc  func() (int, int)
	FrameFunc func(ctx context.Context) (image.Image, error)
}

// Size calls the injected Size or reports the size of Image.
func (s *FrameSource) Size() (int, int) {
	if s.SizeFunc == nil {
		if s.Image == nil {
			return 0, 0
		}
		b := s.Image.Bounds()
		return b.Dx(), b.Dy()
	}
	return s.SizeFunc()
}

// Frame calls the injected Frame or returns Image.
func (s *FrameSource) Frame(ctx context.Context) (image.Image, error) {
	if s.FrameFunc == nil {
		return s.Image, nil
	}
	return s.FrameFunc(ctx)
}
