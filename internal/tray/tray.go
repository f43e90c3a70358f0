// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     tray
// Description: System tray icon and menu using fyne.io/systray
// Author:      Kiran Shivaraju
// Created:     2026-07-20
// License:     MIT
// ============================================================================

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"fyne.io/systray"
)

// Callbacks holds the handlers for tray menu actions. All of them are
// invoked from the tray's own goroutine and must not block.
type Callbacks struct {
	OnToggle    func()
	OnHandsFree func(enabled bool)
	OnReload    func()
	OnQuit      func()
}

// Tray drives the system tray icon. The icon color follows the pipeline
// state so the user can see at a glance whether the microphone is open.
type Tray struct {
	mu        sync.Mutex
	callbacks Callbacks
	backend   string
	state     string
	handsFree bool

	menuStatus    *systray.MenuItem
	menuBackend   *systray.MenuItem
	menuToggle    *systray.MenuItem
	menuHandsFree *systray.MenuItem
	menuReload    *systray.MenuItem
	menuHistory   *systray.MenuItem
	menuQuit      *systray.MenuItem
}

// New creates the tray application. Run must be called on the main
// goroutine; some platforms require the tray loop to own it.
func New(backend string, handsFree bool, callbacks Callbacks) *Tray {
	return &Tray{
		callbacks: callbacks,
		backend:   backend,
		state:     "idle",
		handsFree: handsFree,
	}
}

// Run starts the tray loop and blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops the tray loop.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes(t.state))
	systray.SetTitle("")
	systray.SetTooltip("voice2code")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem("Status: idle", "Pipeline state")
	t.menuStatus.Disable()
	t.menuBackend = systray.AddMenuItem("STT: "+t.backend, "Transcription backend")
	t.menuBackend.Disable()

	systray.AddSeparator()
	t.menuToggle = systray.AddMenuItem("Start listening", "Toggle dictation")
	t.menuHandsFree = systray.AddMenuItemCheckbox("Hands-free", "Keep listening between utterances", t.handsFree)
	t.menuReload = systray.AddMenuItem("Reload rules", "Reload rewrite rules")
	systray.AddSeparator()
	t.menuHistory = systray.AddMenuItem("History: voice2code history", "Browse past dictations in a terminal")
	t.menuHistory.Disable()
	t.menuQuit = systray.AddMenuItem("Quit", "Stop the daemon")
	t.mu.Unlock()

	// Re-apply any state that arrived before the menu existed.
	t.SetState(t.currentState())

	go t.handleClicks()
}

func (t *Tray) handleClicks() {
	for {
		select {
		case <-t.menuToggle.ClickedCh:
			if t.callbacks.OnToggle != nil {
				t.callbacks.OnToggle()
			}
		case <-t.menuHandsFree.ClickedCh:
			enabled := t.flipHandsFree()
			if t.callbacks.OnHandsFree != nil {
				t.callbacks.OnHandsFree(enabled)
			}
		case <-t.menuReload.ClickedCh:
			if t.callbacks.OnReload != nil {
				t.callbacks.OnReload()
			}
		case <-t.menuQuit.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// flipHandsFree toggles the checkbox and returns the new setting.
func (t *Tray) flipHandsFree() bool {
	t.mu.Lock()
	t.handsFree = !t.handsFree
	enabled := t.handsFree
	item := t.menuHandsFree
	t.mu.Unlock()

	if enabled {
		item.Check()
	} else {
		item.Uncheck()
	}
	return enabled
}

func (t *Tray) currentState() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetState updates the icon and menu for a pipeline state ("idle",
// "listening", "transcribing", "executing" or "error"). Safe to call
// before the tray loop is ready.
func (t *Tray) SetState(state string) {
	t.mu.Lock()
	t.state = state
	status := t.menuStatus
	toggle := t.menuToggle
	t.mu.Unlock()

	if status == nil {
		return
	}

	systray.SetIcon(iconBytes(state))
	systray.SetTooltip("voice2code - " + state)
	status.SetTitle("Status: " + state)

	if state == "listening" {
		toggle.SetTitle("Stop listening")
	} else {
		toggle.SetTitle("Start listening")
	}
}

// stateColor maps a pipeline state to the icon color: white when idle,
// red while the microphone is open, blue while working, orange on error.
func stateColor(state string) color.RGBA {
	switch state {
	case "listening":
		return color.RGBA{255, 59, 48, 255}
	case "transcribing":
		return color.RGBA{0, 122, 255, 255}
	case "executing":
		return color.RGBA{52, 199, 89, 255}
	case "error":
		return color.RGBA{255, 149, 0, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// iconBytes renders the "V2C" tray icon in the state color. The menu bar
// icon is 44x22, retina-ready on macOS.
func iconBytes(state string) []byte {
	width := 44
	height := 22
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	drawText(img, "V2C", 2, 4, stateColor(state))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return minimalPNG()
	}
	return buf.Bytes()
}

// bitmapFont holds 5x7 glyphs, one byte of 5 bits per row
var bitmapFont = map[rune][]byte{
	'V': {
		0b10001,
		0b10001,
		0b10001,
		0b10001,
		0b01010,
		0b01010,
		0b00100,
	},
	'2': {
		0b01110,
		0b10001,
		0b00001,
		0b00010,
		0b00100,
		0b01000,
		0b11111,
	},
	'C': {
		0b01110,
		0b10001,
		0b10000,
		0b10000,
		0b10000,
		0b10001,
		0b01110,
	},
}

// drawText draws text using the bitmap font, scaled 2x
func drawText(img *image.RGBA, text string, startX, startY int, c color.RGBA) {
	x := startX
	charWidth := 6
	charHeight := 7
	scale := 2

	for _, ch := range text {
		if pattern, ok := bitmapFont[ch]; ok {
			for row := 0; row < charHeight; row++ {
				for col := 0; col < 5; col++ {
					if pattern[row]&(1<<(4-col)) == 0 {
						continue
					}
					for sy := 0; sy < scale; sy++ {
						for sx := 0; sx < scale; sx++ {
							px := x + col*scale + sx
							py := startY + row*scale + sy
							if px >= 0 && px < img.Bounds().Max.X && py >= 0 && py < img.Bounds().Max.Y {
								img.SetRGBA(px, py, c)
							}
						}
					}
				}
			}
		}
		x += charWidth * scale
	}
}

// minimalPNG returns a 1x1 black PNG as fallback
func minimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
