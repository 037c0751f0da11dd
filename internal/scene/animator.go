// Package scene animates the planet transform from interaction state.
package scene

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Animation constants.
const (
	// SmoothingFactor is the per-tick exponential smoothing weight toward
	// the target value. Fixed per tick rather than time-scaled; the
	// animator runs on its own fixed-rate clock so the effective rate is
	// stable.
	SmoothingFactor = 0.1

	// RotationGain converts a viewer position in [-1,1] to target radians.
	RotationGain = 2.5

	// Scale mapping: inter-hand distance [ZoomNearDist, ZoomFarDist] maps
	// linearly to scale [MinScale, MaxScale], clamped at both ends.
	MinScale     = 0.8
	MaxScale     = 4.0
	ZoomNearDist = 0.2
	ZoomFarDist  = 0.8

	// RestScale is where the planet settles when nobody is interacting.
	RestScale = 1.0

	// Idle autorotation: constant yaw drift per tick plus a slow
	// sinusoidal pitch wobble.
	IdleYawStep     = 0.004
	WobbleAmplitude = 0.08
	WobbleRate      = 0.5 // rad/s
)

// Transform is the planet's animated pose.
type Transform struct {
	RotationX float64 `json:"rotationX"` // pitch, radians
	RotationY float64 `json:"rotationY"` // yaw, radians
	Scale     float64 `json:"scale"`
}

// Animator smooths the planet transform toward gesture-driven targets.
// It is driven by a single loop and is not safe for concurrent use.
type Animator struct {
	transform Transform
	start     time.Time
}

// NewAnimator creates an Animator at the rest pose.
func NewAnimator() *Animator {
	return &Animator{
		transform: Transform{Scale: RestScale},
		start:     time.Now(),
	}
}

// Transform returns the current pose without advancing the animation.
func (a *Animator) Transform() Transform {
	return a.transform
}

// Step advances the animation one tick against the given interaction state
// and returns the new pose.
//
// Rotate mode steers both rotation axes from the hand position. Zoom mode
// drives scale from the inter-hand distance while pitch relaxes back to zero
// and yaw holds wherever it was. With a hand visible but no gesture engaged
// the pose holds still, and with no hand at all the planet falls back to its
// idle autorotation.
func (a *Animator) Step(s gesture.InteractionState, now time.Time) Transform {
	switch {
	case s.Mode == gesture.ModeRotate:
		a.transform.RotationX = lerp(a.transform.RotationX, s.Position.Y*RotationGain, SmoothingFactor)
		a.transform.RotationY = lerp(a.transform.RotationY, s.Position.X*RotationGain, SmoothingFactor)

	case s.Mode == gesture.ModeZoom:
		a.transform.Scale = lerp(a.transform.Scale, TargetScale(s.HandDistance), SmoothingFactor)
		a.transform.RotationX = lerp(a.transform.RotationX, 0, SmoothingFactor)

	case !s.IsDetected:
		elapsed := now.Sub(a.start).Seconds()
		a.transform.RotationY += IdleYawStep
		a.transform.RotationX = lerp(a.transform.RotationX, WobbleAmplitude*math.Sin(elapsed*WobbleRate), SmoothingFactor)
		a.transform.Scale = lerp(a.transform.Scale, RestScale, SmoothingFactor)
	}

	return a.transform
}

// TargetScale maps an inter-hand distance to the planet's target scale:
// MinScale + clamp01((d-ZoomNearDist)*2) * (MaxScale-MinScale).
func TargetScale(handDistance float64) float64 {
	t := clamp01((handDistance - ZoomNearDist) * 2)
	return MinScale + t*(MaxScale-MinScale)
}

func lerp(current, target, t float64) float64 {
	return current + (target-current)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
