package objectdetection

import "math"

// MapBox rescales a box from the reported image space into the render space. A nil reported
// size, or a non-positive reported dimension, leaves that axis untouched.
func MapBox(box Box, reported *ImageSize, render ImageSize) Box {
	sx, sy := scaleFactors(reported, render)
	return Box{
		CenterX: box.CenterX * sx,
		CenterY: box.CenterY * sy,
		Width:   box.Width * sx,
		Height:  box.Height * sy,
	}
}

// MapResult returns a copy of the result's detections with every box mapped into render space.
func MapResult(res *Result, render ImageSize) []Detection {
	if res == nil {
		return nil
	}
	out := make([]Detection, 0, len(res.Detections))
	for _, d := range res.Detections {
		d.Box = MapBox(d.Box, res.ReportedSize, render)
		out = append(out, d)
	}
	return out
}

func scaleFactors(reported *ImageSize, render ImageSize) (float64, float64) {
	if reported == nil {
		return 1, 1
	}
	return axisScale(reported.Width, render.Width), axisScale(reported.Height, render.Height)
}

func axisScale(reported, render float64) float64 {
	if reported <= 0 || math.IsNaN(reported) || math.IsInf(reported, 0) {
		return 1
	}
	return render / reported
}
