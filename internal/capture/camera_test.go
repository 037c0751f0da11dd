package capture

import (
	"testing"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(0)
	if cam == nil {
		t.Fatal("NewCamera returned nil")
	}

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera should not be running initially")
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 15", fps: 15, wantFPS: 15},
		{name: "set to 5", fps: 5, wantFPS: 5},
		{name: "set to 0 keeps previous", fps: 0, wantFPS: 5},
		{name: "negative keeps previous", fps: -5, wantFPS: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() err = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera should return nil, got: %v", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else if mat.Empty() {
		t.Error("ReadFrame() returned empty mat")
		mat.Close()
	} else {
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
