// Package objectdetection defines raw detections reported by an inference backend and the
// mapping of their boxes into render space.
package objectdetection

import "fmt"

// Box is an axis-aligned bounding box described by its center and dimensions.
type Box struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// MinX returns the left edge.
func (b Box) MinX() float64 {
	return b.CenterX - b.Width/2
}

// MinY returns the top edge.
func (b Box) MinY() float64 {
	return b.CenterY - b.Height/2
}

// Area returns width times height.
func (b Box) Area() float64 {
	return b.Width * b.Height
}

func (b Box) String() string {
	return fmt.Sprintf("center(%.1f, %.1f) size(%.1fx%.1f)", b.CenterX, b.CenterY, b.Width, b.Height)
}

// ImageSize is the pixel size of an image space.
type ImageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one raw model output, in the backend's native image space.
type Detection struct {
	ClassLabel string
	Confidence float64
	Box        Box
}

// Result is what an inference backend returns for one frame. ReportedSize is set only when the
// backend's coordinates are expressed in an image space that may differ from the frame, e.g. a
// remote service that resized the upload; nil means the boxes are already in frame pixels.
type Result struct {
	Detections   []Detection
	ReportedSize *ImageSize
}
