package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/input"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/render"
	"github.com/hailam/dragboard/internal/rules"
	"github.com/hailam/dragboard/internal/snapshot"
	"github.com/hailam/dragboard/internal/storage"
	"github.com/hailam/dragboard/internal/theme"
)

// Store is the persistence the board uses. *storage.Storage implements it.
type Store interface {
	SaveSession(*storage.Session) error
	LoadSession() (*storage.Session, error)
	ClearSession() error
	RecordResult(result string) error
	LoadPreferences() (*storage.Preferences, error)
	SavePreferences(*storage.Preferences) error
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Mapper   geom.Mapper
	Themes   *theme.Manager
	Store    Store              // nil disables persistence
	Resolver promotion.Resolver // nil uses the on-board picker
	Logger   *zap.Logger
}

// Controller owns everything the window shows apart from drawing itself:
// the game, the input machine, the palette and the cached frame. The frame
// is rebuilt only after something invalidates it.
type Controller struct {
	rules   *rules.Engine
	machine *input.Machine
	themes  *theme.Manager
	store   Store
	prefs   *storage.Preferences
	log     *zap.Logger

	frame    []render.Command
	dirty    bool
	renders  int
	sans     []string
	recorded bool

	onSound  []func(SoundType)
	onNotice []func(string, ToastType)
}

// NewController wires a controller around e.
func NewController(e *rules.Engine, opts ControllerOptions) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewManager(theme.ModeAuto, 255, log)
	}

	c := &Controller{
		rules:  e,
		themes: themes,
		store:  opts.Store,
		prefs:  storage.DefaultPreferences(),
		log:    log,
		dirty:  true,
	}
	if c.store != nil {
		if prefs, err := c.store.LoadPreferences(); err != nil {
			log.Warn("load preferences", zap.Error(err))
		} else {
			c.prefs = prefs
		}
	}

	mopts := []input.Option{input.WithLogger(log.Named("input"))}
	if opts.Resolver != nil {
		mopts = append(mopts, input.WithResolver(opts.Resolver))
	}
	c.machine = input.New(e, opts.Mapper, mopts...)
	if o, ok := geom.ParseOrientation(c.prefs.Orientation); ok {
		c.machine.SetOrientation(o)
	}
	if c.prefs.Brightness >= 0 {
		themes.Refresh(c.prefs.Brightness)
	}
	c.machine.OnChange(c.Invalidate)
	c.machine.OnCommit(c.committed)
	themes.OnHostPaletteChange(func(th theme.Theme) {
		c.log.Debug("palette changed", zap.String("theme", th.Name))
		c.Invalidate()
	})
	return c
}

// Machine returns the input machine.
func (c *Controller) Machine() *input.Machine { return c.machine }

// Rules returns the rules engine.
func (c *Controller) Rules() *rules.Engine { return c.rules }

// Themes returns the palette manager.
func (c *Controller) Themes() *theme.Manager { return c.themes }

// Preferences returns the current preferences.
func (c *Controller) Preferences() *storage.Preferences { return c.prefs }

// OnSound registers a hook for sound effects.
func (c *Controller) OnSound(fn func(SoundType)) { c.onSound = append(c.onSound, fn) }

// OnNotice registers a hook for short user-facing messages.
func (c *Controller) OnNotice(fn func(string, ToastType)) { c.onNotice = append(c.onNotice, fn) }

// Invalidate marks the frame for rebuilding.
func (c *Controller) Invalidate() { c.dirty = true }

// Frame returns the draw commands for the current state.
func (c *Controller) Frame() []render.Command {
	if c.dirty || c.frame == nil {
		c.frame = render.Render(c.renderInput())
		c.dirty = false
		c.renders++
	}
	return c.frame
}

func (c *Controller) renderInput() render.Input {
	return render.Input{
		Board:  c.rules,
		UI:     c.machine.UI(),
		Theme:  c.themes.Current(),
		Mapper: c.machine.Mapper(),
	}
}

// Resume replays the saved session, if any. It reports whether a game was
// restored.
func (c *Controller) Resume() bool {
	if c.store == nil {
		return false
	}
	sess, err := c.store.LoadSession()
	if errors.Is(err, storage.ErrNoSession) {
		return false
	}
	if err != nil {
		c.log.Warn("load session", zap.Error(err))
		return false
	}
	if err := c.replay(sess); err != nil {
		c.log.Warn("discarding saved session", zap.Error(err))
		c.rules.Reset()
		c.sans = nil
		c.machine.Restart(nil)
		return false
	}
	c.log.Info("session resumed", zap.Int("moves", len(sess.Moves)))
	return true
}

func (c *Controller) replay(sess *storage.Session) error {
	if err := c.rules.ResetTo(sess.StartFEN); err != nil {
		return err
	}
	moves, err := sess.ParseMoves()
	if err != nil {
		return err
	}
	c.sans = c.sans[:0]
	for i, mv := range moves {
		san, err := c.rules.SAN(mv)
		if err != nil {
			san = mv.String()
		}
		if err := c.rules.Push(mv); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		c.sans = append(c.sans, san)
	}
	c.recorded = c.rules.IsGameOver()
	c.machine.Restart(c.lastSpan())
	return nil
}

func (c *Controller) committed(cm input.Commit) {
	c.sans = append(c.sans, cm.SAN)
	c.saveSession()

	over := c.rules.IsGameOver()
	c.sound(soundFor(cm, over))
	if over && !c.recorded {
		c.recorded = true
		result := c.rules.Result()
		c.log.Info("game over", zap.String("result", result), zap.String("method", c.rules.Method()))
		if c.store != nil {
			if err := c.store.RecordResult(result); err != nil {
				c.log.Warn("record result", zap.Error(err))
			}
		}
		c.notice(fmt.Sprintf("Game over: %s (%s)", result, c.rules.Method()), ToastSuccess)
	}
}

// Undo takes back the last move.
func (c *Controller) Undo() {
	if _, err := c.rules.Pop(); err != nil {
		if errors.Is(err, rules.ErrNoHistory) {
			c.notice("Nothing to undo", ToastWarning)
			return
		}
		c.log.Error("undo", zap.Error(err))
		return
	}
	if n := len(c.sans); n > 0 {
		c.sans = c.sans[:n-1]
	}
	c.recorded = c.rules.IsGameOver()
	c.machine.Restart(c.lastSpan())
	c.saveSession()
}

// NewGame starts over from the initial position.
func (c *Controller) NewGame() {
	c.rules.Reset()
	c.sans = nil
	c.recorded = false
	c.machine.Restart(nil)
	if c.store != nil {
		if err := c.store.ClearSession(); err != nil {
			c.log.Warn("clear session", zap.Error(err))
		}
	}
	c.notice("New game", ToastInfo)
}

// ToggleBrightness flips the host brightness across the dark threshold, as
// a host palette change would.
func (c *Controller) ToggleBrightness() {
	b := 0
	if c.themes.Brightness() < theme.DarkThreshold {
		b = 255
	}
	th := c.themes.HostPaletteChanged(b)
	c.prefs.Brightness = b
	c.savePreferences()
	c.notice("Theme: "+th.Name, ToastInfo)
}

// ToggleOrientation switches between white at the bottom and side to move
// at the bottom.
func (c *Controller) ToggleOrientation() {
	o := geom.SideToMove
	if c.machine.Mapper().Orientation == geom.SideToMove {
		o = geom.WhiteAtBottom
	}
	c.machine.SetOrientation(o)
	c.prefs.Orientation = o.String()
	c.savePreferences()
}

// SetSound records whether sound effects are on.
func (c *Controller) SetSound(enabled bool) {
	c.prefs.SoundEnabled = enabled
	c.savePreferences()
	if enabled {
		c.notice("Sound on", ToastInfo)
	} else {
		c.notice("Sound off", ToastInfo)
	}
}

// Snapshot writes the current frame as a PNG under dir and returns the path.
func (c *Controller) Snapshot(pieces snapshot.Pieces, dir string) (string, error) {
	m := c.machine.Mapper()
	canvas, err := snapshot.New(m.Width(), m.Height(), pieces, snapshot.Background)
	if err != nil {
		return "", err
	}
	canvas.Draw(c.Frame())

	path := filepath.Join(dir, fmt.Sprintf("dragboard-%s.png", time.Now().Format("20060102-150405")))
	if err := canvas.SavePNG(path); err != nil {
		c.notice("Snapshot failed", ToastWarning)
		return "", err
	}
	c.log.Info("snapshot saved", zap.String("path", path))
	c.notice("Saved "+filepath.Base(path), ToastSuccess)
	return path, nil
}

// Title is the window title for the current state.
func (c *Controller) Title() string {
	parts := []string{"dragboard"}
	if c.rules.IsGameOver() {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.rules.Result(), c.rules.Method()))
	} else {
		parts = append(parts, c.rules.Turn().String()+" to move")
	}
	if n := len(c.sans); n > 0 {
		parts = append(parts, fmt.Sprintf("last: %s", c.sans[n-1]))
	}
	return strings.Join(parts, " | ")
}

// SANs returns the moves played so far in SAN.
func (c *Controller) SANs() []string {
	return append([]string(nil), c.sans...)
}

func (c *Controller) lastSpan() *board.Span {
	m, ok := c.rules.LastMove()
	if !ok {
		return nil
	}
	s := m.Span()
	return &s
}

func (c *Controller) saveSession() {
	if c.store == nil {
		return
	}
	sess := storage.SessionOf(c.rules.StartFEN(), c.rules.History())
	if err := c.store.SaveSession(sess); err != nil {
		c.log.Warn("save session", zap.Error(err))
	}
}

func (c *Controller) savePreferences() {
	if c.store == nil {
		return
	}
	if err := c.store.SavePreferences(c.prefs); err != nil {
		c.log.Warn("save preferences", zap.Error(err))
	}
}

func (c *Controller) sound(s SoundType) {
	for _, fn := range c.onSound {
		fn(s)
	}
}

func (c *Controller) notice(msg string, t ToastType) {
	for _, fn := range c.onNotice {
		fn(msg, t)
	}
}
