package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// runDetection is the capture-side loop: read a frame, decide whether the
// landmark model is worth running, classify, and replace the shared
// interaction record.
//
// Loop behavior:
//  1. Start at the idle capture rate (5 fps).
//  2. On presence detected, switch to the active rate (15 fps).
//  3. Run hand landmark detection and gesture classification.
//  4. Store the resulting InteractionState wholesale in the shared cell.
//  5. After 2 s without activity, drop back to idle and reset the state
//     to defaults so the planet returns to its autorotation.
func (a *App) runDetection() {
	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			active, _ := a.presence.Sample(frame)

			if active {
				lastActivity = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Presence detected, switching to active rate")
				}
			} else if activeMode {
				if time.Since(lastActivity) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)

					// Nobody is interacting; make the idle state
					// explicit instead of leaving the last gesture
					// frozen in the cell.
					a.classifier.Reset()
					a.states.Store(gesture.DefaultState())
					log.Println("No presence, switching to idle rate")
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				continue
			}

			a.processFrame(frame)
		}
	}
}

// processFrame runs detection and classification for one frame and replaces
// the shared interaction record. The frame is closed before classification;
// only landmarks travel further down the pipeline.
func (a *App) processFrame(frame *gocv.Mat) {
	hands, err := a.detector.Detect(frame)
	frame.Close()

	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	a.states.Store(a.classifier.Classify(hands))
}
