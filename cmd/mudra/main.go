package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	withTray := flag.Bool("tray", false, "show the system tray indicator")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Planet Control")

	// Initialize the data directory and store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:    st,
		HookDir:  filepath.Join(dataDir, "hooks"),
		CameraID: *cameraID,
	})

	if err := a.LoadSettings(); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}
	if err := a.DiscoverHooks(); err != nil {
		log.Printf("Failed to discover hooks: %v", err)
	}

	// A failed session start is terminal: the server still comes up so the
	// viewer can show the status string, but nothing retries.
	if err := a.Start(); err != nil {
		log.Printf("Session not started: %v", err)
	}
	defer a.Stop()

	// Find web directory for the viewer page
	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving viewer from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		States:    a.States(),
		Frames:    a.Frames(),
		Status:    a.Status,
	})

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		errCh <- srv.ListenAndServe(*addr)
	}()

	if *withTray {
		runTray(a, *addr)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}
}

// runTray blocks in the system tray loop, wiring the tray to the session.
func runTray(a *app.App, addr string) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnViewer(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	a.OnModeChange(func(from, to gesture.Mode, s gesture.InteractionState) {
		t.SetMode(string(to))
	})

	t.Run()
}

// openBrowser opens the given URL in the default browser, best effort.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case fileExists("/usr/bin/xdg-open"):
		cmd = exec.Command("xdg-open", url)
	default:
		cmd = exec.Command("open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findWebDir searches for the viewer web directory in common locations.
// It checks "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
