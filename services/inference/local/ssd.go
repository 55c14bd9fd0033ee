package local

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// ssdOutput holds the four output tensors of an SSD-style detector, converted to float64.
// Locations are [ymin, xmin, ymax, xmax] quadruples normalized to [0, 1].
type ssdOutput struct {
	Locations []float64
	Classes   []float64
	Scores    []float64
	Count     int
}

// decode converts the detector output to predictions in frame pixels.
func (out ssdOutput) decode(labels []string, frameWidth, frameHeight int) []Prediction {
	n := out.Count
	n = min(n, len(out.Classes), len(out.Scores), len(out.Locations)/4)
	predictions := make([]Prediction, 0, max(n, 0))
	for i := 0; i < n; i++ {
		ymin := clamp01(out.Locations[4*i])
		xmin := clamp01(out.Locations[4*i+1])
		ymax := clamp01(out.Locations[4*i+2])
		xmax := clamp01(out.Locations[4*i+3])
		w, h := float64(frameWidth), float64(frameHeight)
		predictions = append(predictions, Prediction{
			Class:      labelFor(labels, int(out.Classes[i])),
			Confidence: out.Scores[i],
			BBox: BBox{
				X:      (xmin + xmax) / 2 * w,
				Y:      (ymin + ymax) / 2 * h,
				Width:  math.Abs(xmax-xmin) * w,
				Height: math.Abs(ymax-ymin) * h,
			},
		})
	}
	return predictions
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// inputTensor resizes the frame to the model input and packs it as interleaved RGB, either as
// bytes or as floats normalized to [0, 1].
func inputTensor(frame image.Image, width, height int, asFloat bool) interface{} {
	resized := resize.Resize(uint(width), uint(height), frame, resize.Bilinear)
	bounds := resized.Bounds()
	n := width * height * 3
	var bytes []uint8
	var floats []float32
	if asFloat {
		floats = make([]float32, 0, n)
	} else {
		bytes = make([]uint8, 0, n)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			for _, v := range [3]uint32{r >> 8, g >> 8, b >> 8} {
				if asFloat {
					floats = append(floats, float32(v)/255)
				} else {
					bytes = append(bytes, uint8(v))
				}
			}
		}
	}
	if asFloat {
		return floats
	}
	return bytes
}
