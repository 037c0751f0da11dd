package gesture

import (
	"encoding/json"
	"fmt"
)

// Pinch calibration bounds. Derived thresholds are clamped into this range
// so a bad recording session cannot produce an unusable classifier.
const (
	MinPinchThreshold = 0.02
	MaxPinchThreshold = 0.12
)

// Sample kinds recorded during calibration.
const (
	SampleKindPinched = "pinched"
	SampleKindRelaxed = "relaxed"
)

// PinchSample is one recorded thumb-index distance, labelled by whether the
// user was holding a pinch when it was taken.
type PinchSample struct {
	Kind      string  `json:"kind"`
	Distance  float64 `json:"distance"`
	Timestamp int64   `json:"timestamp"`
}

// Calibrator derives a per-user pinch threshold from recorded samples.
type Calibrator struct{}

// NewCalibrator creates a new Calibrator instance.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// Train computes a pinch threshold from raw JSON samples. It averages the
// pinched and relaxed distances separately and places the threshold at the
// midpoint between the two means, clamped into the supported range.
func (c *Calibrator) Train(samples []json.RawMessage) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("no samples provided")
	}

	var pinched, relaxed []float64
	for i, raw := range samples {
		var sample PinchSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return 0, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		switch sample.Kind {
		case SampleKindPinched:
			pinched = append(pinched, sample.Distance)
		case SampleKindRelaxed:
			relaxed = append(relaxed, sample.Distance)
		default:
			return 0, fmt.Errorf("sample %d has unknown kind %q", i, sample.Kind)
		}
	}

	if len(pinched) == 0 {
		return 0, fmt.Errorf("no pinched samples provided")
	}
	if len(relaxed) == 0 {
		return 0, fmt.Errorf("no relaxed samples provided")
	}

	pinchedMean := mean(pinched)
	relaxedMean := mean(relaxed)

	if pinchedMean >= relaxedMean {
		return 0, fmt.Errorf("pinched mean %.4f is not below relaxed mean %.4f", pinchedMean, relaxedMean)
	}

	threshold := (pinchedMean + relaxedMean) / 2

	if threshold < MinPinchThreshold {
		threshold = MinPinchThreshold
	}
	if threshold > MaxPinchThreshold {
		threshold = MaxPinchThreshold
	}

	return threshold, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
