package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/assets"
	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/config"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/input"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/rules"
	"github.com/hailam/dragboard/internal/snapshot"
	"github.com/hailam/dragboard/internal/storage"
	"github.com/hailam/dragboard/internal/theme"
)

const (
	toastDuration = 2500 * time.Millisecond
	helpDuration  = 6 * time.Second
	helpText      = "Drag to move. U undo, N new, T theme, O flip, S snapshot, M sound"
)

// Options configures a Game.
type Options struct {
	Config  config.Config
	Rules   *rules.Engine
	Loader  *assets.Loader
	Storage *storage.Storage // nil disables persistence
	Logger  *zap.Logger
}

// Game implements ebiten.Game around a Controller.
type Game struct {
	ctrl    *Controller
	cfg     config.Config
	input   *InputHandler
	sprites *SpriteManager
	canvas  *Canvas
	picker  Picker
	toasts  *ToastManager
	audio   *AudioManager
	storage *storage.Storage
	log     *zap.Logger
	title   string
}

// NewGame builds the window game. The saved session, if any, is resumed.
func NewGame(opts Options) *Game {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	e := opts.Rules
	if e == nil {
		e = rules.New(log.Named("rules"))
	}
	loader := opts.Loader
	if loader == nil {
		loader = assets.New(cfg.Assets.Dir, cfg.Board.SquareSize, log.Named("assets"))
	}

	orientation, _ := geom.ParseOrientation(cfg.Board.Orientation)
	copts := ControllerOptions{
		Mapper:   geom.NewMapper(cfg.Board.SquareSize, cfg.Board.MarginLeft, cfg.Board.MarginTop, orientation),
		Themes:   theme.NewManager(theme.ParseMode(cfg.Theme.Mode), cfg.Theme.Brightness, log.Named("theme")),
		Resolver: promotion.ParseAuto(cfg.Promotion.Auto),
		Logger:   log,
	}
	if opts.Storage != nil {
		copts.Store = opts.Storage
	}

	g := &Game{
		ctrl:    NewController(e, copts),
		cfg:     cfg,
		input:   NewInputHandler(),
		sprites: NewSpriteManager(loader),
		toasts:  NewToastManager(),
		storage: opts.Storage,
		log:     log,
	}
	g.canvas = NewCanvas(g.sprites)
	g.audio = NewAudioManager(cfg.Sound && g.ctrl.Preferences().SoundEnabled)
	g.ctrl.OnSound(g.audio.Play)
	g.ctrl.OnNotice(func(msg string, t ToastType) { g.toasts.Show(msg, t, toastDuration) })

	if g.ctrl.Resume() {
		g.toasts.Show("Game resumed", ToastInfo, toastDuration)
	}
	g.checkFirstLaunch()
	return g
}

// Controller returns the game's controller.
func (g *Game) Controller() *Controller { return g.ctrl }

func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	first, err := g.storage.IsFirstLaunch()
	if err != nil {
		g.log.Warn("check first launch", zap.Error(err))
		return
	}
	if !first {
		return
	}
	g.toasts.Show(helpText, ToastInfo, helpDuration)
	if err := g.storage.MarkFirstLaunchComplete(); err != nil {
		g.log.Warn("mark first launch", zap.Error(err))
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	events := g.input.Update()
	g.toasts.Update()

	m := g.ctrl.Machine()
	if g.picker.IsOpen() {
		g.updatePicker()
	} else {
		for _, ev := range events {
			m.Handle(ev)
		}
		if pawn, dest, ok := m.PendingPromotion(); ok {
			g.picker.Open(m.Mapper(), pawn, dest)
		}
		if m.State() == input.Idle {
			g.handleKeys()
		}
	}

	g.updateCursor()
	if t := g.ctrl.Title(); t != g.title {
		g.title = t
		ebiten.SetWindowTitle(t)
	}
	return nil
}

func (g *Game) updatePicker() {
	var choice promotion.Choice
	switch {
	case IsKeyJustPressed(ebiten.KeyQ):
		choice = promotion.Chosen(board.Queen)
	case IsKeyJustPressed(ebiten.KeyR):
		choice = promotion.Chosen(board.Rook)
	case IsKeyJustPressed(ebiten.KeyB):
		choice = promotion.Chosen(board.Bishop)
	case IsKeyJustPressed(ebiten.KeyN):
		choice = promotion.Chosen(board.Knight)
	case IsKeyJustPressed(ebiten.KeyEscape):
		choice = promotion.Cancel
	case g.input.JustClicked():
		choice = g.picker.Click(g.input.MousePosition())
	default:
		return
	}
	g.picker.Close()
	g.ctrl.Machine().ResolvePromotion(choice)
}

func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyU, ebiten.KeyBackspace):
		g.ctrl.Undo()
	case IsKeyJustPressed(ebiten.KeyN):
		g.ctrl.NewGame()
	case IsKeyJustPressed(ebiten.KeyT):
		g.ctrl.ToggleBrightness()
	case IsKeyJustPressed(ebiten.KeyO):
		g.ctrl.ToggleOrientation()
	case IsKeyJustPressed(ebiten.KeyS):
		if _, err := g.ctrl.Snapshot(g.sprites.loader, g.snapshotDir()); err != nil {
			g.log.Warn("snapshot", zap.Error(err))
		}
	case IsKeyJustPressed(ebiten.KeyM):
		g.audio.SetEnabled(!g.audio.IsEnabled())
		g.ctrl.SetSound(g.audio.IsEnabled())
	}
}

func (g *Game) snapshotDir() string {
	if dir := g.ctrl.Preferences().SnapshotDir; dir != "" {
		return dir
	}
	if dir, err := storage.SnapshotDir(g.cfg.Storage.Dir); err == nil {
		return dir
	}
	return "."
}

func (g *Game) updateCursor() {
	switch {
	case g.ctrl.Machine().State() == input.Dragging:
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	case g.picker.IsOpen():
		if _, ok := g.picker.HitTest(g.input.MousePosition()); ok {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
			return
		}
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(snapshot.Background)
	g.canvas.Target(screen)
	g.canvas.Draw(g.ctrl.Frame())

	if g.picker.IsOpen() {
		mx, my := g.input.MousePosition()
		g.picker.Draw(screen, g.sprites, mx, my)
	}
	g.toasts.Draw(screen, g.ctrl.Machine().Mapper().Width())
}

// Layout implements ebiten.Game. The board has a fixed size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	m := g.ctrl.Machine().Mapper()
	return m.Width(), m.Height()
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	m := g.ctrl.Machine().Mapper()
	g.title = g.ctrl.Title()
	ebiten.SetWindowSize(m.Width(), m.Height())
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	return ebiten.RunGame(g)
}
