package app

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newTestApp(t *testing.T) (*App, *detector.MockDetector) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	app := New(Config{
		Store:          s,
		HookDir:        tmpDir,
		CameraID:       -1,
		PresenceThresh: 0.05,
	})

	mock := detector.NewMockDetector()
	app.SetDetector(mock)

	return app, mock
}

func TestApp_ProcessFrame_UpdatesSharedState(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := newTestApp(t)

	// Two fists close together arm the zoom latch
	first := detector.FistLandmarks()
	second := detector.OffsetLandmarks(first, -0.15, 0)
	mock.SetHands([]detector.HandLandmarks{first, second})

	frame := capture.NewTestFrame()
	app.processFrame(frame)

	s := app.States().Load()
	if !s.IsDetected {
		t.Error("state should report detected hands")
	}
	if s.Mode != gesture.ModeZoom {
		t.Errorf("mode = %q, want %q", s.Mode, gesture.ModeZoom)
	}

	// Hands disappear: next classification resets to defaults
	mock.SetHands(nil)
	frame = capture.NewTestFrame()
	app.processFrame(frame)

	s = app.States().Load()
	if s != gesture.DefaultState() {
		t.Errorf("state after losing hands = %+v, want defaults", s)
	}
}

func TestApp_ProcessFrame_DetectorErrorKeepsState(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := newTestApp(t)

	mock.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	frame := capture.NewTestFrame()
	app.processFrame(frame)

	before := app.States().Load()
	if before.Mode != gesture.ModeRotate {
		t.Fatalf("mode = %q, want %q", before.Mode, gesture.ModeRotate)
	}

	// A transient detector error must not clobber the last good state
	mock.SetError(errors.New("inference failed"))
	frame = capture.NewTestFrame()
	app.processFrame(frame)

	if after := app.States().Load(); after != before {
		t.Errorf("state changed after detector error:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestApp_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, _ := newTestApp(t)

	blank := capture.NewTestFrame()
	defer blank.Close()
	app.SetCamera(capture.NewMockCamera([]*gocv.Mat{blank}, true))

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if app.Status() != "ok" {
		t.Errorf("status = %q, want ok", app.Status())
	}
	if !app.Camera().IsOpen() {
		t.Error("camera should be open after Start")
	}

	// Starting twice is a no-op
	if err := app.Start(); err != nil {
		t.Errorf("second Start() error = %v", err)
	}

	app.Stop()

	if s := app.States().Load(); s != gesture.DefaultState() {
		t.Errorf("state after Stop = %+v, want defaults", s)
	}
}

func TestApp_StatusReporter_NotifiesModeChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, _ := newTestApp(t)

	blank := capture.NewTestFrame()
	defer blank.Close()
	app.SetCamera(capture.NewMockCamera([]*gocv.Mat{blank}, true))

	// Tracking disabled so the detection loop leaves the cell alone and
	// this test fully controls what the reporter samples.
	app.SetEnabled(false)

	var mu sync.Mutex
	var transitions []string
	app.OnModeChange(func(from, to gesture.Mode, s gesture.InteractionState) {
		mu.Lock()
		transitions = append(transitions, string(from)+"->"+string(to))
		mu.Unlock()
	})

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer app.Stop()

	app.States().Store(gesture.InteractionState{
		IsDetected: true,
		Mode:       gesture.ModeZoom,
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(transitions)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) == 0 {
		t.Fatal("mode change listener never fired")
	}
	if transitions[0] != "idle->zoom" {
		t.Errorf("transition = %q, want idle->zoom", transitions[0])
	}
}

func TestApp_LoadSettings(t *testing.T) {
	app, _ := newTestApp(t)

	settings := app.config.Store.Settings()
	settings.Set(store.SettingPinchThreshold, "0.08")
	settings.Set(store.SettingArmDistance, "0.3")

	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if app.classifier.PinchThreshold != 0.08 {
		t.Errorf("pinch threshold = %f, want 0.08", app.classifier.PinchThreshold)
	}
	if app.classifier.ArmDistance != 0.3 {
		t.Errorf("arm distance = %f, want 0.3", app.classifier.ArmDistance)
	}
}

func TestApp_LoadSettings_ActiveProfileWins(t *testing.T) {
	app, _ := newTestApp(t)

	profile := &store.Profile{ID: "p1", Name: "tuned", PinchThreshold: 0.065}
	if err := app.config.Store.Profiles().Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	settings := app.config.Store.Settings()
	settings.Set(store.SettingPinchThreshold, "0.08")
	settings.Set(store.SettingActiveProfileID, "p1")

	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if app.classifier.PinchThreshold != 0.065 {
		t.Errorf("pinch threshold = %f, want the profile's 0.065", app.classifier.PinchThreshold)
	}
}

func TestApp_LoadSettings_IgnoresBadValues(t *testing.T) {
	app, _ := newTestApp(t)

	settings := app.config.Store.Settings()
	settings.Set(store.SettingPinchThreshold, "not-a-number")
	settings.Set(store.SettingArmDistance, "-1")

	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if app.classifier.PinchThreshold != gesture.DefaultPinchThreshold {
		t.Errorf("pinch threshold = %f, want default", app.classifier.PinchThreshold)
	}
	if app.classifier.ArmDistance != gesture.DefaultArmDistance {
		t.Errorf("arm distance = %f, want default", app.classifier.ArmDistance)
	}
}

func TestApp_SetEnabled(t *testing.T) {
	app, _ := newTestApp(t)

	if !app.IsEnabled() {
		t.Error("tracking should be enabled by default")
	}
	app.SetEnabled(false)
	if app.IsEnabled() {
		t.Error("tracking should be disabled after SetEnabled(false)")
	}
}
