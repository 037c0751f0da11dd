package app

import (
	"encoding/json"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
)

// runStatus is the low-frequency reporter loop. It samples the shared cell
// at 10 Hz and reacts only to mode changes: listeners (tray, UI) get the
// transition, and subscribed hooks are executed. Intermediate modes between
// two samples are deliberately invisible here.
func (a *App) runStatus() {
	ticker := time.NewTicker(StatusInterval)
	defer ticker.Stop()

	lastMode := gesture.ModeIdle

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			s := a.states.Load()
			if s.Mode == lastMode {
				continue
			}

			from := lastMode
			lastMode = s.Mode

			log.Printf("Mode changed: %s -> %s", from, s.Mode)

			a.mu.RLock()
			listeners := a.listeners
			a.mu.RUnlock()

			for _, fn := range listeners {
				fn(from, s.Mode, s)
			}

			a.fireHooks(from, s)
		}
	}
}

// fireHooks executes every hook subscribed to mode changes. Hook failures
// are logged and otherwise ignored; a broken hook must not affect tracking.
func (a *App) fireHooks(from gesture.Mode, s gesture.InteractionState) {
	hooks := a.hookMgr.For(hook.EventModeChange)
	if len(hooks) == 0 {
		return
	}

	stateJSON, err := json.Marshal(s)
	if err != nil {
		log.Printf("Error marshaling state for hooks: %v", err)
		return
	}

	ev := &hook.Event{
		Type:      hook.EventModeChange,
		From:      string(from),
		To:        string(s.Mode),
		State:     stateJSON,
		Timestamp: time.Now().UnixMilli(),
	}

	for _, h := range hooks {
		go func(h *hook.Hook) {
			if _, err := a.hookExec.Execute(h, ev); err != nil {
				log.Printf("Hook %s: %v", h.Manifest.Name, err)
			}
		}(h)
	}
}
