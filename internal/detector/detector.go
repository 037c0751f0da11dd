package detector

import "gocv.io/x/gocv"

// Delegate selects the inference backend for the landmark model.
type Delegate string

const (
	// DelegateGPU runs inference on the GPU.
	DelegateGPU Delegate = "gpu"
	// DelegateCPU runs inference on the CPU.
	DelegateCPU Delegate = "cpu"
)

// Detector defines the interface for hand landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector. For GPU-backed
	// implementations this must release the model instance; leaving it
	// loaded leaks GPU memory after the session ends.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Delegate selects the inference backend (default: GPU).
	Delegate Delegate

	// VideoMode enables the streaming landmark mode that carries tracking
	// state between consecutive frames. Always on for live capture.
	VideoMode bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		Delegate:        DelegateGPU,
		VideoMode:       true,
	}
}
