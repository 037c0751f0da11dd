// Package gesture classifies hand landmarks into planet interaction modes.
package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Mode is the classified interaction intent for the current frame.
type Mode string

const (
	// ModeIdle means no gesture is driving the planet.
	ModeIdle Mode = "idle"
	// ModeZoom means two-handed zoom is engaged.
	ModeZoom Mode = "zoom"
	// ModeRotate means a one-handed pinch is steering rotation.
	ModeRotate Mode = "rotate"
)

// Default classifier thresholds.
const (
	// DefaultPinchThreshold is the 3D thumb-index distance below which a
	// hand counts as pinched. The boundary value itself does not pinch.
	DefaultPinchThreshold = 0.05

	// DefaultArmDistance is the inter-wrist distance below which two fists
	// arm the zoom latch.
	DefaultArmDistance = 0.2

	// minExtendedForOpen is how many of the four non-thumb fingers must be
	// extended for a hand to count as open.
	minExtendedForOpen = 3
)

// Position is a point in viewer coordinates, both axes in [-1,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InteractionState is the per-frame classification result shared with the
// animator and status reporter. It is always replaced wholesale, never
// mutated field by field, so concurrent readers see either the previous or
// the new record.
type InteractionState struct {
	// PinchDistance is the 3D thumb-index tip distance of the primary hand.
	PinchDistance float64 `json:"pinchDistance"`
	// HandDistance is the inter-wrist distance; meaningful only in zoom.
	HandDistance float64 `json:"handDistance"`
	// IsPinched reports PinchDistance strictly below the pinch threshold.
	IsPinched bool `json:"isPinched"`
	// Position is the gesture anchor point in viewer coordinates.
	Position Position `json:"position"`
	// IsDetected reports whether at least one hand is present this frame.
	IsDetected bool `json:"isDetected"`
	// Mode is the classified interaction mode.
	Mode Mode `json:"mode"`
}

// DefaultState returns the neutral state emitted when no hand is visible.
func DefaultState() InteractionState {
	return InteractionState{Mode: ModeIdle}
}

// latchState is the zoom activation latch. Proximity alone never arms or
// disarms it: arming takes two closed hands near each other, disarming takes
// two open hands. The hysteresis keeps zoom from flickering when the wrist
// distance hovers around the arming threshold.
type latchState int

const (
	latchDisarmed latchState = iota
	latchArmed
)

// Classifier turns detected hand landmarks into an InteractionState.
// Classification depends only on the current frame's landmarks plus the zoom
// latch, which is the single piece of state carried between frames.
//
// A Classifier is not safe for concurrent use; the detection loop is its
// only caller.
type Classifier struct {
	// PinchThreshold is the 3D thumb-index distance for a pinch.
	// Calibration may overwrite the default per user.
	PinchThreshold float64

	// ArmDistance is the inter-wrist distance required to arm zoom.
	ArmDistance float64

	latch latchState
}

// NewClassifier creates a Classifier with default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		PinchThreshold: DefaultPinchThreshold,
		ArmDistance:    DefaultArmDistance,
	}
}

// ZoomArmed reports whether the zoom latch is currently armed.
func (c *Classifier) ZoomArmed() bool {
	return c.latch == latchArmed
}

// Reset clears the latch, returning the classifier to its session-start state.
func (c *Classifier) Reset() {
	c.latch = latchDisarmed
}

// Classify produces the InteractionState for the current frame's hands.
//
// Zero hands yields the default state and clears the latch. Exactly two hands
// runs the zoom latch logic. Anything else is classified from the first hand:
// the landmark model is capped at two hands, so a longer slice only occurs if
// a detector misbehaves, and falling back to single-hand logic keeps the
// result deterministic.
func (c *Classifier) Classify(hands []detector.HandLandmarks) InteractionState {
	if len(hands) == 0 {
		c.latch = latchDisarmed
		return DefaultState()
	}

	if len(hands) == 2 {
		return c.classifyTwoHands(&hands[0], &hands[1])
	}

	return c.classifyOneHand(&hands[0])
}

// classifyTwoHands runs the zoom latch and, when armed, emits zoom state.
// While disarmed the emitted mode stays idle even though two hands are
// visible; the UI distinguishes this "waiting to activate" posture on its
// own, not from the mode value.
func (c *Classifier) classifyTwoHands(a, b *detector.HandLandmarks) InteractionState {
	wristA := a.Points[detector.Wrist]
	wristB := b.Points[detector.Wrist]
	dist := wristA.DistXY(wristB)

	openA := handOpen(a)
	openB := handOpen(b)

	switch c.latch {
	case latchDisarmed:
		if dist < c.ArmDistance && !openA && !openB {
			c.latch = latchArmed
		}
	case latchArmed:
		if openA && openB {
			c.latch = latchDisarmed
		}
	}

	state := InteractionState{
		IsDetected: true,
		Mode:       ModeIdle,
	}

	if c.latch == latchArmed {
		state.Mode = ModeZoom
		state.HandDistance = dist
		state.Position = mapPosition(
			(wristA.X+wristB.X)/2,
			(wristA.Y+wristB.Y)/2,
		)
	}

	return state
}

// classifyOneHand maps a pinch to rotate mode. The zoom latch is force
// cleared: zoom cannot persist once a hand leaves the frame.
func (c *Classifier) classifyOneHand(h *detector.HandLandmarks) InteractionState {
	c.latch = latchDisarmed

	thumbTip := h.Points[detector.ThumbTip]
	indexTip := h.Points[detector.IndexTip]
	wrist := h.Points[detector.Wrist]

	pinchDist := thumbTip.Dist(indexTip)
	pinched := pinchDist < c.PinchThreshold

	state := InteractionState{
		PinchDistance: pinchDist,
		IsPinched:     pinched,
		IsDetected:    true,
		Mode:          ModeIdle,
		// Anchor on the thumb-wrist midpoint; cheaper than a palm centroid
		// and stable enough for steering.
		Position: mapPosition(
			(thumbTip.X+wrist.X)/2,
			(thumbTip.Y+wrist.Y)/2,
		),
	}

	if pinched {
		state.Mode = ModeRotate
	}

	return state
}

// handOpen reports whether at least three of the four non-thumb fingers are
// extended. A finger is extended when its tip sits farther (in 2D) from the
// wrist than the joint proximal to the tip.
func handOpen(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]

	extended := 0
	for i := range detector.FingerTips {
		tipDist := wrist.DistXY(h.Points[detector.FingerTips[i]])
		pipDist := wrist.DistXY(h.Points[detector.FingerPIPs[i]])
		if tipDist > pipDist {
			extended++
		}
	}

	return extended >= minExtendedForOpen
}

// mapPosition converts raw mirrored frame coordinates in [0,1] to viewer
// coordinates in [-1,1]. The horizontal axis is re-centered against the
// mirror and the vertical axis is flipped to match the scene's up direction:
// x = (0.5-rx)*2, y = (ry-0.5)*2.
func mapPosition(rx, ry float64) Position {
	return Position{
		X: (0.5 - rx) * 2,
		Y: (ry - 0.5) * 2,
	}
}
