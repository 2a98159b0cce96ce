package ui

import (
	"errors"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/render"
	"github.com/hailam/dragboard/internal/rules"
	"github.com/hailam/dragboard/internal/storage"
	"github.com/hailam/dragboard/internal/theme"
)

var testMapper = geom.NewMapper(80, 30, 10, geom.WhiteAtBottom)

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newController(t *testing.T, store Store) *Controller {
	t.Helper()
	return NewController(rules.New(nil), ControllerOptions{
		Mapper: testMapper,
		Themes: theme.NewManager(theme.ModeAuto, 255, nil),
		Store:  store,
	})
}

func dragMove(c *Controller, from, to string) {
	m := c.Machine()
	x, y := m.Mapper().SquareCenter(board.MustSquare(from))
	m.Press(x, y)
	x, y = m.Mapper().SquareCenter(board.MustSquare(to))
	m.Move(x, y)
	m.Release(x, y)
}

func TestFrameRebuiltOnlyWhenInvalidated(t *testing.T) {
	c := newController(t, nil)
	c.Frame()
	c.Frame()
	if c.renders != 1 {
		t.Fatalf("renders = %d, want 1", c.renders)
	}

	x, y := testMapper.SquareCenter(board.MustSquare("e2"))
	c.Machine().Press(x, y)
	c.Frame()
	c.Frame()
	if c.renders != 2 {
		t.Errorf("renders after press = %d, want 2", c.renders)
	}

	c.Themes().HostPaletteChanged(10)
	frame := c.Frame()
	if c.renders != 3 {
		t.Errorf("renders after palette change = %d, want 3", c.renders)
	}
	dark, _ := theme.Named(theme.Dark)
	if !hasTextColor(frame, dark.Label) {
		t.Error("frame not drawn with the dark palette")
	}
}

func hasTextColor(cmds []render.Command, c color.RGBA) bool {
	for _, cmd := range cmds {
		if txt, ok := cmd.(render.Text); ok && txt.Color == c {
			return true
		}
	}
	return false
}

func TestCommitSavesSessionAndResumes(t *testing.T) {
	store := openStore(t)
	c := newController(t, store)
	dragMove(c, "e2", "e4")
	dragMove(c, "e7", "e5")
	dragMove(c, "g1", "f3")

	sess, err := store.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(sess.Moves, " ") != "e2e4 e7e5 g1f3" {
		t.Errorf("session moves = %v", sess.Moves)
	}

	resumed := newController(t, store)
	if !resumed.Resume() {
		t.Fatal("Resume returned false")
	}
	if resumed.Rules().FEN() != c.Rules().FEN() {
		t.Errorf("resumed fen = %s", resumed.Rules().FEN())
	}
	if got := strings.Join(resumed.SANs(), " "); got != "e4 e5 Nf3" {
		t.Errorf("SANs = %q", got)
	}
	lm := resumed.Machine().UI().LastMove
	if lm == nil || *lm != (board.Span{From: board.MustSquare("g1"), To: board.MustSquare("f3")}) {
		t.Errorf("LastMove = %v", lm)
	}
}

func TestResumeDiscardsBadSession(t *testing.T) {
	store := openStore(t)
	if err := store.SaveSession(&storage.Session{StartFEN: rules.StartFEN, Moves: []string{"e2e4", "e2e4"}}); err != nil {
		t.Fatal(err)
	}
	c := newController(t, store)
	if c.Resume() {
		t.Fatal("Resume accepted an illegal session")
	}
	if len(c.Rules().History()) != 0 || len(c.SANs()) != 0 {
		t.Error("bad session left moves behind")
	}
	if newController(t, nil).Resume() {
		t.Error("Resume without a store should be false")
	}
}

func TestUndo(t *testing.T) {
	store := openStore(t)
	c := newController(t, store)
	var notices []string
	c.OnNotice(func(m string, _ ToastType) { notices = append(notices, m) })

	dragMove(c, "e2", "e4")
	dragMove(c, "e7", "e5")
	c.Undo()

	if h := c.Rules().History(); len(h) != 1 {
		t.Fatalf("history = %v", h)
	}
	lm := c.Machine().UI().LastMove
	if lm == nil || lm.To != board.MustSquare("e4") {
		t.Errorf("LastMove = %v, want e2-e4", lm)
	}
	if sess, _ := store.LoadSession(); len(sess.Moves) != 1 {
		t.Errorf("session = %v", sess.Moves)
	}
	if !strings.Contains(c.Title(), "last: e4") || !strings.Contains(c.Title(), "Black to move") {
		t.Errorf("title = %q", c.Title())
	}

	c.Undo()
	c.Undo()
	if c.Machine().UI().LastMove != nil {
		t.Error("LastMove should be cleared at the start")
	}
	if len(notices) != 1 || notices[0] != "Nothing to undo" {
		t.Errorf("notices = %v", notices)
	}
}

func TestNewGameClearsSession(t *testing.T) {
	store := openStore(t)
	c := newController(t, store)
	dragMove(c, "d2", "d4")
	c.NewGame()

	if len(c.Rules().History()) != 0 || c.Machine().UI().LastMove != nil {
		t.Error("new game kept state")
	}
	if _, err := store.LoadSession(); !errors.Is(err, storage.ErrNoSession) {
		t.Errorf("LoadSession err = %v", err)
	}
	if c.Title() != "dragboard | White to move" {
		t.Errorf("title = %q", c.Title())
	}
}

func TestGameOverRecorded(t *testing.T) {
	store := openStore(t)
	c := newController(t, store)
	var sounds []SoundType
	c.OnSound(func(s SoundType) { sounds = append(sounds, s) })

	dragMove(c, "f2", "f3")
	dragMove(c, "e7", "e5")
	dragMove(c, "g2", "g4")
	dragMove(c, "d8", "h4")

	if !c.Rules().IsGameOver() {
		t.Fatal("expected mate")
	}
	if len(sounds) != 4 || sounds[3] != SoundGameEnd {
		t.Errorf("sounds = %v", sounds)
	}
	if !strings.Contains(c.Title(), "0-1") {
		t.Errorf("title = %q", c.Title())
	}

	// Moves after the end are rejected, so nothing is recorded twice.
	dragMove(c, "a2", "a3")
	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.BlackWins != 1 || stats.GamesPlayed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	// Taking back the mate and playing it again counts as a second game.
	c.Undo()
	dragMove(c, "d8", "h4")
	if stats, _ = store.LoadStats(); stats.BlackWins != 2 || stats.GamesPlayed != 2 {
		t.Errorf("stats after replay = %+v", stats)
	}
}

func TestPromotionThroughController(t *testing.T) {
	e, err := rules.NewFromFEN("k7/4P3/8/8/8/8/8/4K3 w - - 0 1", nil)
	if err != nil {
		t.Fatal(err)
	}
	var sounds []SoundType
	c := NewController(e, ControllerOptions{Mapper: testMapper, Resolver: promotion.Fixed(board.Rook)})
	c.OnSound(func(s SoundType) { sounds = append(sounds, s) })
	dragMove(c, "e7", "e8")

	if got := c.SANs(); len(got) != 1 || !strings.HasPrefix(got[0], "e8=R") {
		t.Errorf("SANs = %v", got)
	}
	if len(sounds) != 1 || sounds[0] != SoundPromote {
		t.Errorf("sounds = %v", sounds)
	}
}

func TestTogglesPersistPreferences(t *testing.T) {
	store := openStore(t)
	c := newController(t, store)
	c.ToggleBrightness()
	c.ToggleOrientation()

	if c.Themes().Current().Name != theme.Dark {
		t.Errorf("theme = %s", c.Themes().Current().Name)
	}
	prefs, err := store.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Brightness != 0 || prefs.Orientation != "side_to_move" {
		t.Errorf("prefs = %+v", prefs)
	}

	again := newController(t, store)
	if again.Themes().Current().Name != theme.Dark {
		t.Error("brightness preference not applied")
	}
	if again.Machine().Mapper().Orientation != geom.SideToMove {
		t.Error("orientation preference not applied")
	}
	again.ToggleBrightness()
	if again.Themes().Current().Name != theme.Light {
		t.Error("second toggle should return to light")
	}
}

func TestSnapshot(t *testing.T) {
	c := newController(t, nil)
	dragMove(c, "e2", "e4")
	path, err := c.Snapshot(nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("snapshot %s: %v", path, err)
	}
}
