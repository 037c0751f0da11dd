package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Presence gate constants.
const (
	// presenceBlurSize is the kernel size for Gaussian blur (21x21).
	presenceBlurSize = 21
	// presenceDiffThreshold is the binary threshold for difference detection.
	presenceDiffThreshold = 25
)

// PresenceGate decides whether anything is moving in front of the camera.
// Landmark inference is expensive, so the pipeline only runs the model while
// the gate reports activity, and drops back to an idle capture rate otherwise.
//
// Detection is frame differencing with Gaussian blur for noise reduction:
// a frame counts as active when the share of changed pixels against the
// previous frame exceeds the configured percentage.
type PresenceGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewPresenceGate creates a PresenceGate with the given threshold.
// The threshold is the percentage of pixels that must change between frames,
// e.g. 1.0 means 1% of pixels.
func NewPresenceGate(threshold float64) *PresenceGate {
	return &PresenceGate{
		threshold:   threshold,
		prevGray:    gocv.NewMat(),
		initialized: false,
	}
}

// Sample analyzes a frame against the previous one.
// Returns whether activity was detected and the percentage of changed pixels.
// The first frame establishes the baseline and always reports inactive.
func (g *PresenceGate) Sample(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: presenceBlurSize, Y: presenceBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, presenceDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Reset clears the gate state so the next frame becomes a fresh baseline.
func (g *PresenceGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// Close releases resources used by the gate.
func (g *PresenceGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// SetThreshold sets the change percentage required to report activity.
// Values less than or equal to 0 are ignored.
func (g *PresenceGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
