package scene

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Angular rates for the decorative elements, in radians per second. These run
// on wall-clock schedules and never react to interaction state.
const (
	gridRate      = 0.05
	haloRate      = -0.12
	ringRate      = 0.35
	particleRate  = 0.02
	ringTiltPhase = 0.25 // rad/s of the slow ring tilt oscillation
	ringTiltSwing = 0.3  // radians of tilt either side of rest
)

// Decor carries the rotation angles of the background elements.
type Decor struct {
	GridRotation     float64 `json:"gridRotation"`
	HaloRotation     float64 `json:"haloRotation"`
	RingRotation     float64 `json:"ringRotation"`
	RingTilt         float64 `json:"ringTilt"`
	ParticleRotation float64 `json:"particleRotation"`
}

// DecorAt returns the decorative pose for the given elapsed session time.
// Pure function of elapsed time, so every consumer derives identical angles.
func DecorAt(elapsed time.Duration) Decor {
	t := elapsed.Seconds()
	return Decor{
		GridRotation:     t * gridRate,
		HaloRotation:     t * haloRate,
		RingRotation:     t * ringRate,
		RingTilt:         ringTiltSwing * math.Sin(t*ringTiltPhase),
		ParticleRotation: t * particleRate,
	}
}

// Frame is one rendered-scene update shipped to viewers: the smoothed planet
// transform, the time-scheduled decor, and the interaction state that
// produced it.
type Frame struct {
	Transform Transform                `json:"transform"`
	Decor     Decor                    `json:"decor"`
	State     gesture.InteractionState `json:"state"`
	Timestamp int64                    `json:"timestamp"`
}
