// Package detector provides hand landmark detection interfaces and types.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips lists the fingertip landmarks of the four non-thumb fingers in
// anatomical order. FingerPIPs lists the joint proximal to each tip. The two
// arrays are index-aligned so callers can compare tip against joint.
var (
	FingerTips = [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	FingerPIPs = [4]int{IndexPIP, MiddlePIP, RingPIP, PinkyPIP}
)

// Point3D represents a point in normalized frame coordinates.
// X and Y are in [0,1]; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dist returns the 3D Euclidean distance to another point.
func (p Point3D) Dist(q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistXY returns the 2D Euclidean distance to another point, ignoring depth.
// Depth from the landmark model is much noisier than x/y, so planar checks
// (finger extension, inter-hand spacing) use this instead of Dist.
func (p Point3D) DistXY(q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Mirrored returns a copy of the landmarks flipped horizontally (x -> 1-x).
// The viewer shows a selfie-mirrored preview, so landmarks are mirrored to
// match before classification. Handedness is swapped to stay consistent with
// the flipped coordinates.
func (h *HandLandmarks) Mirrored() *HandLandmarks {
	if h == nil {
		return nil
	}

	m := &HandLandmarks{
		Score: h.Score,
	}

	switch h.Handedness {
	case "Left":
		m.Handedness = "Right"
	case "Right":
		m.Handedness = "Left"
	}

	for i := 0; i < NumLandmarks; i++ {
		m.Points[i] = Point3D{
			X: 1.0 - h.Points[i].X,
			Y: h.Points[i].Y,
			Z: h.Points[i].Z,
		}
	}

	return m
}
