// dragboard - an interactive chess board built with Ebitengine
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/assets"
	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/config"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/input"
	"github.com/hailam/dragboard/internal/obslog"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/render"
	"github.com/hailam/dragboard/internal/rules"
	"github.com/hailam/dragboard/internal/snapshot"
	"github.com/hailam/dragboard/internal/storage"
	"github.com/hailam/dragboard/internal/textplay"
	"github.com/hailam/dragboard/internal/theme"
	"github.com/hailam/dragboard/internal/ui"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dragboard: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	cf := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to " + config.FileName,
	}
	lf := &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "log level (debug, info, warn, error)",
	}
	vf := &cli.BoolFlag{
		Name:  "console",
		Usage: "also log to stderr",
	}
	nf := &cli.BoolFlag{
		Name:  "no-storage",
		Usage: "do not read or write saved games and preferences",
	}
	return &cli.Command{
		Name:  "dragboard",
		Usage: "drag-and-drop chess board",
		Flags: []cli.Flag{cf, lf, vf, nf},
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "open the board window (default)",
				Action: runPlay,
			},
			{
				Name:   "text",
				Usage:  "play in the terminal with UCI moves",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "fen", Usage: "start position instead of the saved game"}},
				Action: runText,
			},
			{
				Name:  "snapshot",
				Usage: "render a position to PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "fen", Usage: "position to draw", Value: rules.StartFEN},
					&cli.StringFlag{Name: "last", Usage: "last move to highlight, e.g. e2e4"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Value: "board.png"},
				},
				Action: runSnapshot,
			},
			{
				Name:  "config",
				Usage: "write the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Value: config.FileName},
				},
				Action: runConfig,
			},
		},
		Action: runPlay,
	}
}

// env is what every command shares.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.Storage
}

func setup(c *cli.Command, withStorage bool) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := c.String("level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if c.Bool("no-storage") {
		cfg.Storage.Disabled = true
	}

	log, err := obslog.Init(obslog.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: c.Bool("console"),
	})
	if err != nil {
		return nil, err
	}
	log.Debug("config loaded", zap.String("path", cfg.Path))

	e := &env{cfg: cfg, log: log}
	if withStorage && !cfg.Storage.Disabled {
		dir, err := storage.DatabaseDir(cfg.Storage.Dir)
		if err == nil {
			e.store, err = storage.Open(dir, log.Named("storage"))
		}
		if err != nil {
			log.Warn("storage unavailable", zap.Error(err))
		}
	}
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("close storage", zap.Error(err))
		}
	}
	obslog.Sync()
}

func runPlay(ctx context.Context, c *cli.Command) error {
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	defer e.close()

	loader := assets.New(e.cfg.Assets.Dir, e.cfg.Board.SquareSize, e.log.Named("assets"))
	if n := loader.Preload(); n < 12 {
		e.log.Warn("piece images missing", zap.String("dir", loader.Dir()), zap.Int("loaded", n))
	}
	g := ui.NewGame(ui.Options{
		Config:  *e.cfg,
		Rules:   rules.New(e.log.Named("rules")),
		Loader:  loader,
		Storage: e.store,
		Logger:  e.log,
	})
	return ui.Run(g)
}

func runText(ctx context.Context, c *cli.Command) error {
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	defer e.close()

	var game *rules.Engine
	if fen := c.String("fen"); fen != "" {
		if game, err = rules.NewFromFEN(fen, e.log.Named("rules")); err != nil {
			return err
		}
	} else {
		game = e.resume()
	}

	opts := []textplay.Option{
		textplay.WithColor(textplay.IsTerminal(os.Stdout)),
		textplay.WithLogger(e.log.Named("text")),
	}
	if r := promotion.ParseAuto(e.cfg.Promotion.Auto); r != nil {
		opts = append(opts, textplay.WithResolver(r))
	}
	if e.store != nil {
		opts = append(opts, textplay.OnChange(e.saveSession), textplay.OnGameOver(e.finished))
	}
	return textplay.New(game, os.Stdin, os.Stdout, opts...).Run(ctx)
}

// finished records a game that ended during this run and forgets it.
func (e *env) finished(game *rules.Engine) {
	if err := e.store.RecordResult(game.Result()); err != nil {
		e.log.Warn("record result", zap.Error(err))
	}
	if err := e.store.ClearSession(); err != nil {
		e.log.Warn("clear session", zap.Error(err))
	}
}

// resume replays the saved game, falling back to the initial position.
func (e *env) resume() *rules.Engine {
	log := e.log.Named("rules")
	if e.store == nil {
		return rules.New(log)
	}
	sess, err := e.store.LoadSession()
	if err != nil {
		if !errors.Is(err, storage.ErrNoSession) {
			e.log.Warn("load session", zap.Error(err))
		}
		return rules.New(log)
	}
	moves, err := sess.ParseMoves()
	if err == nil {
		var game *rules.Engine
		if game, err = rules.Replay(sess.StartFEN, moves, log); err == nil {
			fmt.Printf("Resumed game after %d moves.\n", len(moves))
			return game
		}
	}
	e.log.Warn("discarding saved session", zap.Error(err))
	return rules.New(log)
}

func (e *env) saveSession(game *rules.Engine) {
	if err := e.store.SaveSession(storage.SessionOf(game.StartFEN(), game.History())); err != nil {
		e.log.Warn("save session", zap.Error(err))
	}
}

func runSnapshot(ctx context.Context, c *cli.Command) error {
	e, err := setup(c, false)
	if err != nil {
		return err
	}
	defer e.close()

	game, err := rules.NewFromFEN(c.String("fen"), e.log.Named("rules"))
	if err != nil {
		return err
	}
	state := &input.UIState{}
	if last := c.String("last"); last != "" {
		mv, err := board.ParseMove(last)
		if err != nil {
			return fmt.Errorf("--last: %w", err)
		}
		span := mv.Span()
		state.LastMove = &span
	}

	orientation, _ := geom.ParseOrientation(e.cfg.Board.Orientation)
	mapper := geom.NewMapper(e.cfg.Board.SquareSize, e.cfg.Board.MarginLeft, e.cfg.Board.MarginTop, orientation)
	themes := theme.NewManager(theme.ParseMode(e.cfg.Theme.Mode), e.cfg.Theme.Brightness, e.log.Named("theme"))
	loader := assets.New(e.cfg.Assets.Dir, e.cfg.Board.SquareSize, e.log.Named("assets"))

	canvas, err := snapshot.Capture(render.Input{
		Board:  game,
		UI:     state,
		Theme:  themes.Current(),
		Mapper: mapper.For(game.Turn()),
	}, loader)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := canvas.SavePNG(out); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runConfig(ctx context.Context, c *cli.Command) error {
	e, err := setup(c, false)
	if err != nil {
		return err
	}
	defer e.close()

	out := c.String("out")
	if err := e.cfg.Save(out); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
