package detector

import (
	"math"
	"testing"
)

func TestPoint3D_Dist(t *testing.T) {
	p := Point3D{X: 0, Y: 0, Z: 0}
	q := Point3D{X: 1, Y: 2, Z: 2}

	if got := p.Dist(q); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("Dist = %f, want 3.0", got)
	}
	if got := p.DistXY(q); math.Abs(got-math.Sqrt(5)) > 1e-9 {
		t.Errorf("DistXY = %f, want sqrt(5)", got)
	}
	if got := p.Dist(p); got != 0 {
		t.Errorf("Dist to self = %f, want 0", got)
	}
}

func TestHandLandmarks_Mirrored(t *testing.T) {
	h := OpenPalmLandmarks()
	m := h.Mirrored()

	if m.Handedness != "Left" {
		t.Errorf("Handedness = %q, want Left", m.Handedness)
	}
	if m.Score != h.Score {
		t.Errorf("Score = %f, want %f", m.Score, h.Score)
	}

	for i := 0; i < NumLandmarks; i++ {
		want := 1.0 - h.Points[i].X
		if math.Abs(m.Points[i].X-want) > 1e-9 {
			t.Errorf("point %d: X = %f, want %f", i, m.Points[i].X, want)
		}
		if m.Points[i].Y != h.Points[i].Y || m.Points[i].Z != h.Points[i].Z {
			t.Errorf("point %d: Y/Z changed during mirror", i)
		}
	}

	// Mirroring twice restores the original hand.
	back := m.Mirrored()
	if back.Handedness != h.Handedness {
		t.Errorf("double mirror handedness = %q, want %q", back.Handedness, h.Handedness)
	}
	for i := 0; i < NumLandmarks; i++ {
		if math.Abs(back.Points[i].X-h.Points[i].X) > 1e-9 {
			t.Errorf("double mirror point %d: X = %f, want %f", i, back.Points[i].X, h.Points[i].X)
		}
	}
}

func TestHandLandmarks_MirroredNil(t *testing.T) {
	var h *HandLandmarks
	if h.Mirrored() != nil {
		t.Error("Mirrored on nil should return nil")
	}
}

// The preset hands are what the rest of the test suite is built on, so pin
// down their geometric properties.
func TestPresetLandmarks(t *testing.T) {
	open := OpenPalmLandmarks()
	for i := range FingerTips {
		wrist := open.Points[Wrist]
		tip := open.Points[FingerTips[i]].DistXY(wrist)
		pip := open.Points[FingerPIPs[i]].DistXY(wrist)
		if tip <= pip {
			t.Errorf("open palm finger %d: tip dist %f not beyond pip dist %f", i, tip, pip)
		}
	}

	fist := FistLandmarks()
	for i := range FingerTips {
		wrist := fist.Points[Wrist]
		tip := fist.Points[FingerTips[i]].DistXY(wrist)
		pip := fist.Points[FingerPIPs[i]].DistXY(wrist)
		if tip > pip {
			t.Errorf("fist finger %d: tip dist %f beyond pip dist %f", i, tip, pip)
		}
	}
	if d := fist.Points[ThumbTip].Dist(fist.Points[IndexTip]); d < 0.05 {
		t.Errorf("fist thumb-index distance %f would register as a pinch", d)
	}

	pinch := PinchLandmarks()
	if d := pinch.Points[ThumbTip].Dist(pinch.Points[IndexTip]); d >= 0.05 {
		t.Errorf("pinch thumb-index distance %f is not under the pinch threshold", d)
	}
}

func TestOffsetLandmarks(t *testing.T) {
	h := OpenPalmLandmarks()
	moved := OffsetLandmarks(h, -0.3, 0.1)

	if moved.Points[Wrist].X != h.Points[Wrist].X-0.3 {
		t.Errorf("wrist X = %f, want %f", moved.Points[Wrist].X, h.Points[Wrist].X-0.3)
	}
	if moved.Points[Wrist].Y != h.Points[Wrist].Y+0.1 {
		t.Errorf("wrist Y = %f, want %f", moved.Points[Wrist].Y, h.Points[Wrist].Y+0.1)
	}
	// Original must not be mutated.
	if h.Points[Wrist].X != 0.5 {
		t.Errorf("original wrist moved to %f", h.Points[Wrist].X)
	}
}
