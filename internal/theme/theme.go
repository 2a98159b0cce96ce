// Package theme derives the board palette from the host's brightness.
package theme

import (
	"image/color"

	"go.uber.org/zap"
)

// Palette names.
const (
	Light = "light"
	Dark  = "dark"
)

// DarkThreshold is the host brightness below which the dark palette is used.
const DarkThreshold = 128

// Theme is a named set of board colors.
type Theme struct {
	Name              string
	LightSquare       color.RGBA
	DarkSquare        color.RGBA
	Label             color.RGBA
	LastMoveHighlight color.RGBA
	LegalTargetHint   color.RGBA
}

// Both palettes share the square and highlight colors and differ only in
// the label color.
var palettes = map[string]Theme{
	Light: {
		Name:              Light,
		LightSquare:       color.RGBA{0xEE, 0xEE, 0xD2, 0xFF},
		DarkSquare:        color.RGBA{0x76, 0x96, 0x56, 0xFF},
		Label:             color.RGBA{0x00, 0x00, 0x00, 0xFF},
		LastMoveHighlight: color.RGBA{247, 247, 105, 110},
		LegalTargetHint:   color.RGBA{20, 85, 30, 90},
	},
	Dark: {
		Name:              Dark,
		LightSquare:       color.RGBA{0xEE, 0xEE, 0xD2, 0xFF},
		DarkSquare:        color.RGBA{0x76, 0x96, 0x56, 0xFF},
		Label:             color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		LastMoveHighlight: color.RGBA{247, 247, 105, 110},
		LegalTargetHint:   color.RGBA{20, 85, 30, 90},
	},
}

// Named returns the palette with the given name.
func Named(name string) (Theme, bool) {
	t, ok := palettes[name]
	return t, ok
}

// Mode selects automatic or forced palettes.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode maps a config value to a Mode; unknown values fall back to auto.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeLight, ModeDark:
		return Mode(s)
	}
	return ModeAuto
}

// Manager holds the current theme and notifies observers when the host
// palette changes.
type Manager struct {
	mode       Mode
	brightness int
	current    Theme
	handlers   []func(Theme)
	log        *zap.Logger
}

// NewManager creates a manager and computes the initial theme from the
// host brightness (0-255).
func NewManager(mode Mode, brightness int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{mode: mode, log: log}
	m.Refresh(brightness)
	return m
}

// Refresh recomputes the theme for the given host brightness and returns it.
// It does not notify observers.
func (m *Manager) Refresh(brightness int) Theme {
	m.brightness = brightness
	name := Light
	switch m.mode {
	case ModeDark:
		name = Dark
	case ModeLight:
	default:
		if brightness < DarkThreshold {
			name = Dark
		}
	}
	m.current = palettes[name]
	return m.current
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	return m.current
}

// Brightness returns the last host brightness seen.
func (m *Manager) Brightness() int {
	return m.brightness
}

// Mode returns the palette selection mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// OnHostPaletteChange registers a handler run after every palette change.
// Handlers are expected to re-render.
func (m *Manager) OnHostPaletteChange(handler func(Theme)) {
	m.handlers = append(m.handlers, handler)
}

// HostPaletteChanged is the host's palette-change notification.
func (m *Manager) HostPaletteChanged(brightness int) Theme {
	prev := m.current.Name
	t := m.Refresh(brightness)
	m.log.Debug("host palette changed",
		zap.Int("brightness", brightness),
		zap.String("from", prev),
		zap.String("to", t.Name))
	for _, h := range m.handlers {
		h(t)
	}
	return t
}
