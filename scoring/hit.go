package scoring

import (
	"github.com/dartcam/dartscore/vision/objectdetection"
)

// Hit is the canonical, backend-independent description of one detected dart.
type Hit struct {
	Ring RingType
	// Segment is the board number 1..20, or 0 when the label names no segment.
	Segment int
	// Bull marks a bull hit whose inner/outer ring is not known.
	Bull        bool
	Score       int
	Label       string
	Box         objectdetection.Box
	Confidence  float64
	SourceClass string
}

// HasSegment reports whether the hit names a numbered segment.
func (h Hit) HasSegment() bool {
	return h.Segment >= MinSegment && h.Segment <= MaxSegment
}

// FromDetections normalizes already-mapped detections under a scheme, preserving order.
func FromDetections(detections []objectdetection.Detection, scheme Scheme) []Hit {
	hits := make([]Hit, 0, len(detections))
	for _, d := range detections {
		h := Normalize(d.ClassLabel, scheme)
		h.Box = d.Box
		h.Confidence = d.Confidence
		hits = append(hits, h)
	}
	return hits
}
