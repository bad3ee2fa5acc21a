// Package tray provides the system tray interface for PinchVaders.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(enabled bool)
	onPause     func(paused bool)
	onNewGame   func()
	onDashboard func()
	onQuit      func()
	enabled     bool
	paused      bool
	score       int
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuPause  *systray.MenuItem
	menuScore  *systray.MenuItem
}

// New creates a new Tray instance with gesture control enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for toggling gesture control.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPause sets the callback for pausing or resuming the game.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnNewGame sets the callback for starting a fresh game.
func (t *Tray) OnNewGame(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNewGame = fn
}

// OnDashboard sets the callback for opening the game dashboard.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("PinchVaders")
	systray.SetTooltip("PinchVaders gesture control")

	t.menuToggle = systray.AddMenuItem("● Gesture control on", "Toggle gesture control")
	t.menuPause = systray.AddMenuItem("Pause game", "Pause or resume the game")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuScore = systray.AddMenuItem(scoreTitle(t.score), "Current score")
	t.mu.Unlock()
	t.menuScore.Disable()
	systray.AddSeparator()

	menuNewGame := systray.AddMenuItem("New Game", "Start a fresh game")
	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the game in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit PinchVaders")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuPause.ClickedCh:
				t.handlePause()
			case <-menuNewGame.ClickedCh:
				t.handleNewGame()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the gesture control toggle click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Gesture control on")
	} else {
		t.menuToggle.SetTitle("○ Gesture control off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handlePause handles the pause menu item click.
func (t *Tray) handlePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuPause.SetTitle("Resume game")
	} else {
		t.menuPause.SetTitle("Pause game")
	}

	callback := t.onPause
	t.mu.Unlock()

	if callback != nil {
		callback(paused)
	}
}

// handleNewGame handles the new game menu item click.
func (t *Tray) handleNewGame() {
	t.mu.Lock()
	t.paused = false
	if t.menuPause != nil {
		t.menuPause.SetTitle("Pause game")
	}
	callback := t.onNewGame
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetScore updates the score line. Safe to call before the menu is
// built; the pending value is rendered when it is.
func (t *Tray) SetScore(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.score = score
	if t.menuScore != nil {
		t.menuScore.SetTitle(scoreTitle(score))
	}
}

// Score returns the last score pushed to the tray.
func (t *Tray) Score() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.score
}

func scoreTitle(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// IsEnabled returns whether gesture control is currently on.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
