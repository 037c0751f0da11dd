package app

import (
	"time"

	"github.com/ayusman/mudra/internal/scene"
)

// runAnimation is the render-side loop. On every tick it reads the latest
// interaction record from the shared cell, advances the planet animator one
// smoothing step, and publishes a complete scene frame for viewers. It never
// blocks on the detection loop; if no new classification arrived it simply
// re-smooths toward the same target.
func (a *App) runAnimation() {
	ticker := time.NewTicker(AnimateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case now := <-ticker.C:
			s := a.states.Load()
			transform := a.animator.Step(s, now)

			a.frames.Store(scene.Frame{
				Transform: transform,
				Decor:     scene.DecorAt(now.Sub(a.start)),
				State:     s,
				Timestamp: now.UnixMilli(),
			})
		}
	}
}
