// Package app wires capture, detection, classification and animation into
// the running mudra session.
package app

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/state"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the capture rate while nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the capture rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long after the last activity the pipeline drops
	// back to the idle capture rate.
	IdleTimeout = 2 * time.Second
	// AnimateInterval is the tick rate of the scene animator loop.
	AnimateInterval = 33 * time.Millisecond
	// StatusInterval is the sampling rate of the status reporter. Kept
	// deliberately far below the animation rate; indicator churn above
	// 10 Hz is unreadable anyway.
	StatusInterval = 100 * time.Millisecond
	// HookTimeout bounds each mode-change hook execution.
	HookTimeout = 5 * time.Second
)

// ModeListener is notified by the status reporter when the sampled
// interaction mode changes.
type ModeListener func(from, to gesture.Mode, s gesture.InteractionState)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	HookDir        string
	CameraID       int
	PresenceThresh float64
}

// App owns the session: the camera, the landmark detector, the classifier
// with its zoom latch, and the three loops that run against the shared
// interaction cell.
type App struct {
	config     Config
	camera     capture.Camera
	presence   *capture.PresenceGate
	detector   detector.Detector
	classifier *gesture.Classifier
	animator   *scene.Animator
	states     *state.Cell[gesture.InteractionState]
	frames     *state.Cell[scene.Frame]
	hookMgr    *hook.Manager
	hookExec   *hook.Executor

	enabled   bool
	status    string
	listeners []ModeListener
	mu        sync.RWMutex
	stopCh    chan struct{}
	start     time.Time
}

// New creates a new App instance with the given configuration.
// The landmark detector is created lazily in Start so that a missing model
// does not prevent the settings UI from coming up.
func New(config Config) *App {
	presenceThreshold := config.PresenceThresh
	if presenceThreshold <= 0 {
		presenceThreshold = 1.0 // Default: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		presence:   capture.NewPresenceGate(presenceThreshold),
		classifier: gesture.NewClassifier(),
		animator:   scene.NewAnimator(),
		states:     state.NewCell(gesture.DefaultState()),
		frames:     state.NewCell(scene.Frame{}),
		hookMgr:    hook.NewManager(config.HookDir),
		hookExec:   hook.NewExecutor(HookTimeout),
		enabled:    true,
		status:     "ok",
		start:      time.Now(),
	}

	return a
}

// SetEnabled enables or disables gesture tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera implementation. Used by tests.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector replaces the hand detector implementation. Used by tests.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Status returns the session status string: "ok" while healthy, otherwise
// the terminal failure description. There is no retry path; a failed
// session stays failed until restart.
func (a *App) Status() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *App) setStatus(status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

// States returns the shared interaction state cell.
func (a *App) States() *state.Cell[gesture.InteractionState] {
	return a.states
}

// Frames returns the shared scene frame cell.
func (a *App) Frames() *state.Cell[scene.Frame] {
	return a.frames
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Hooks returns the hook manager.
func (a *App) Hooks() *hook.Manager {
	return a.hookMgr
}

// OnModeChange registers a listener fired by the status reporter.
func (a *App) OnModeChange(fn ModeListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// LoadSettings applies stored tuning values to the classifier and presence
// gate. Missing keys keep their defaults. When an active calibration profile
// is set, its derived pinch threshold wins over the raw setting.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	settings := a.config.Store.Settings()

	if v, err := settings.Get(store.SettingPinchThreshold); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			a.classifier.PinchThreshold = f
		}
	}

	if v, err := settings.Get(store.SettingArmDistance); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			a.classifier.ArmDistance = f
		}
	}

	if v, err := settings.Get(store.SettingPresenceThresh); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			a.presence.SetThreshold(f)
		}
	}

	if id, err := settings.Get(store.SettingActiveProfileID); err == nil && id != "" {
		profile, err := a.config.Store.Profiles().GetByID(id)
		if err != nil {
			log.Printf("Active calibration profile %s not loadable: %v", id, err)
		} else {
			a.classifier.PinchThreshold = profile.PinchThreshold
			log.Printf("Using calibration profile %q (pinch threshold %.4f)", profile.Name, profile.PinchThreshold)
		}
	}

	return nil
}

// DiscoverHooks scans the hook directory for mode-change hooks.
func (a *App) DiscoverHooks() error {
	return a.hookMgr.Discover()
}

// Start opens the camera, brings up the landmark detector and launches the
// detection, animation and status loops. Failures are terminal for the
// session: the status string records the reason and nothing is retried.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.status = fmt.Sprintf("camera unavailable: %v", err)
		return fmt.Errorf("open camera: %w", err)
	}

	if a.detector == nil {
		mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
		if err != nil {
			a.camera.Close()
			a.status = fmt.Sprintf("hand model unavailable: %v", err)
			return fmt.Errorf("create detector: %w", err)
		}
		a.detector = mp
	}

	a.camera.SetFPS(IdleFPS)
	a.start = time.Now()
	a.status = "ok"

	a.stopCh = make(chan struct{})
	go a.runDetection()
	go a.runAnimation()
	go a.runStatus()

	log.Println("Session started")
	return nil
}

// Stop halts all loops and releases the camera and the detector.
// Skipping either release leaks a live camera indicator or a loaded model.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.presence.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.states.Store(gesture.DefaultState())

	log.Println("Session stopped")
}
