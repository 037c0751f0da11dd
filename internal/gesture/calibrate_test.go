package gesture

import (
	"encoding/json"
	"math"
	"testing"
)

func rawSamples(t *testing.T, samples []PinchSample) []json.RawMessage {
	t.Helper()

	raw := make([]json.RawMessage, len(samples))
	for i, s := range samples {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal sample %d: %v", i, err)
		}
		raw[i] = data
	}
	return raw
}

func TestCalibrator_Train(t *testing.T) {
	c := NewCalibrator()

	samples := rawSamples(t, []PinchSample{
		{Kind: SampleKindPinched, Distance: 0.03},
		{Kind: SampleKindPinched, Distance: 0.05},
		{Kind: SampleKindRelaxed, Distance: 0.11},
		{Kind: SampleKindRelaxed, Distance: 0.13},
	})

	threshold, err := c.Train(samples)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	// Midpoint of pinched mean 0.04 and relaxed mean 0.12
	if math.Abs(threshold-0.08) > 1e-9 {
		t.Errorf("threshold = %f, want 0.08", threshold)
	}
}

func TestCalibrator_Train_ClampsToRange(t *testing.T) {
	c := NewCalibrator()

	// Extremely tight samples would put the threshold below the minimum
	samples := rawSamples(t, []PinchSample{
		{Kind: SampleKindPinched, Distance: 0.001},
		{Kind: SampleKindRelaxed, Distance: 0.01},
	})

	threshold, err := c.Train(samples)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if threshold != MinPinchThreshold {
		t.Errorf("threshold = %f, want clamped minimum %f", threshold, MinPinchThreshold)
	}

	// Extremely loose samples clamp to the maximum
	samples = rawSamples(t, []PinchSample{
		{Kind: SampleKindPinched, Distance: 0.1},
		{Kind: SampleKindRelaxed, Distance: 0.5},
	})

	threshold, err = c.Train(samples)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if threshold != MaxPinchThreshold {
		t.Errorf("threshold = %f, want clamped maximum %f", threshold, MaxPinchThreshold)
	}
}

func TestCalibrator_Train_Errors(t *testing.T) {
	c := NewCalibrator()

	tests := []struct {
		name    string
		samples []PinchSample
	}{
		{
			name:    "no samples",
			samples: nil,
		},
		{
			name: "only pinched samples",
			samples: []PinchSample{
				{Kind: SampleKindPinched, Distance: 0.03},
			},
		},
		{
			name: "only relaxed samples",
			samples: []PinchSample{
				{Kind: SampleKindRelaxed, Distance: 0.12},
			},
		},
		{
			name: "pinched not below relaxed",
			samples: []PinchSample{
				{Kind: SampleKindPinched, Distance: 0.15},
				{Kind: SampleKindRelaxed, Distance: 0.05},
			},
		},
		{
			name: "unknown kind",
			samples: []PinchSample{
				{Kind: "waving", Distance: 0.05},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Train(rawSamples(t, tt.samples)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCalibrator_Train_InvalidJSON(t *testing.T) {
	c := NewCalibrator()

	samples := []json.RawMessage{json.RawMessage(`{not json`)}
	if _, err := c.Train(samples); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestMean(t *testing.T) {
	for i, tt := range []struct {
		values []float64
		want   float64
	}{
		{[]float64{1, 2, 3}, 2},
		{[]float64{0.5}, 0.5},
		{[]float64{-1, 1}, 0},
	} {
		if got := mean(tt.values); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("case %d: mean(%v) = %f, want %f", i, tt.values, got, tt.want)
		}
	}
}
