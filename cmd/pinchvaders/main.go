package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ayusman/pinchvaders/internal/app"
	"github.com/ayusman/pinchvaders/internal/control"
	"github.com/ayusman/pinchvaders/internal/detector"
	"github.com/ayusman/pinchvaders/internal/server"
	"github.com/ayusman/pinchvaders/internal/store"
	"github.com/ayusman/pinchvaders/internal/tray"
)

func main() {
	var (
		cameraID  = flag.Int("camera", 0, "camera device ID")
		addr      = flag.String("addr", ":8080", "HTTP listen address")
		dbPath    = flag.String("db", "", "path to the database file (default ~/.pinchvaders/pinchvaders.db)")
		idlePause = flag.Duration("idle-pause", 20*time.Second, "auto-pause after this long without camera activity (0 disables)")
		mockDet   = flag.Bool("mock-detector", false, "use the scripted detector instead of MediaPipe")
		noTray    = flag.Bool("no-tray", false, "run without the system tray (headless)")
	)
	flag.Parse()

	fmt.Println("PinchVaders - Gesture-Controlled Invaders")

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	tuning, err := loadTuning(st)
	if err != nil {
		log.Fatalf("Invalid tuning configuration: %v", err)
	}

	a, err := app.New(app.Config{
		CameraID:  *cameraID,
		Tuning:    tuning,
		IdlePause: *idlePause,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	if *mockDet {
		a.SetDetector(detector.NewMockDetector())
	}

	// Seed the high score and record finished games.
	best, err := st.Scores().Best()
	if err != nil {
		log.Printf("Failed to load high score: %v", err)
	}
	a.Game().SetHighScore(best)
	a.Game().OnGameOver(func(score, level int) {
		if _, err := st.Scores().Add(score, level); err != nil {
			log.Printf("Failed to record score: %v", err)
		}
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start capture: %v", err)
	}
	defer a.Stop()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:     webDir,
		Store:         st,
		Game:          a.Game(),
		Controls:      a.Controls,
		Preview:       a.Preview(),
		ApplyTuning:   a.SetTuning,
		CurrentTuning: a.Tuning,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	runTray(a, dashboardURL(*addr))
}

// runTray wires the tray menu to the app and blocks until quit.
// systray must run on the main thread.
func runTray(a *app.App, url string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnPause(a.Game().SetPaused)
	t.OnNewGame(a.Game().Reset)
	t.OnDashboard(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Dashboard available at %s (%v)", url, err)
		}
	})
	t.OnQuit(a.Stop)

	// Keep the score line current while the menu is up.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetScore(a.Game().Snapshot().Score)
		}
	}()

	t.Run()
}

// dashboardURL turns a listen address like ":8080" into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform's default opener.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// openStore opens the database, defaulting to ~/.pinchvaders.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dbDir := filepath.Join(homeDir, ".pinchvaders")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		path = filepath.Join(dbDir, "pinchvaders.db")
	}
	return store.New(path)
}

// loadTuning overlays any persisted tuning on the defaults. A persisted
// config that fails validation is a hard error rather than a silent
// fallback; a stale override should be fixed, not ignored.
func loadTuning(st *store.Store) (control.Config, error) {
	cfg, err := st.Settings().LoadTuning()
	if errors.Is(err, store.ErrNotFound) {
		return control.DefaultConfig(), nil
	}
	if err != nil {
		return control.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return control.Config{}, err
	}
	return cfg, nil
}

// findWebDir searches for the web directory in common locations.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".pinchvaders", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
