package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keySession     = "session"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// ErrNoSession is returned by LoadSession when no game was saved.
var ErrNoSession = errors.New("no saved session")

// Preferences stores settings changed from inside the app. Empty strings
// and a negative brightness mean "not set": the config file decides.
type Preferences struct {
	Orientation  string    `json:"orientation"`
	Brightness   int       `json:"brightness"`
	SoundEnabled bool      `json:"sound_enabled"`
	SnapshotDir  string    `json:"snapshot_dir"`
	LastPlayed   time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Brightness:   -1,
		SoundEnabled: true,
	}
}

// Session is the game in progress: a start position and the UCI moves
// played from it.
type Session struct {
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionOf builds the session for a game started at startFEN.
func SessionOf(startFEN string, moves []board.Move) *Session {
	s := &Session{StartFEN: startFEN, Moves: make([]string, len(moves))}
	for i, m := range moves {
		s.Moves[i] = m.String()
	}
	return s
}

// ParseMoves decodes the saved UCI moves.
func (s *Session) ParseMoves() ([]board.Move, error) {
	moves := make([]board.Move, 0, len(s.Moves))
	for i, str := range s.Moves {
		mv, err := board.ParseMove(str)
		if err != nil {
			return nil, fmt.Errorf("session move %d: %w", i+1, err)
		}
		moves = append(moves, mv)
	}
	return moves, nil
}

// GameStats counts finished games by result.
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string, log *zap.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(newBadgerLogger(log))
	return open(opts)
}

// OpenInMemory opens a database that is discarded on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveSession replaces the saved game.
func (s *Storage) SaveSession(sess *Session) error {
	sess.UpdatedAt = time.Now()
	return s.put(keySession, sess)
}

// LoadSession returns the saved game or ErrNoSession.
func (s *Storage) LoadSession() (*Session, error) {
	var sess Session
	found, err := s.get(keySession, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// ClearSession forgets the saved game.
func (s *Storage) ClearSession() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySession))
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	_, err := s.get(keyStats, stats)
	return stats, err
}

// RecordResult counts a finished game. result is "1-0", "0-1" or "1/2-1/2";
// anything else is ignored.
func (s *Storage) RecordResult(result string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		if err := getTxn(txn, keyStats, stats); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		switch result {
		case "1-0":
			stats.WhiteWins++
		case "0-1":
			stats.BlackWins++
		case "1/2-1/2":
			stats.Draws++
		default:
			return nil
		}
		stats.GamesPlayed++
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether it existed.
func (s *Storage) get(key string, v any) (bool, error) {
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		err := getTxn(txn, key, v)
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return found, nil
}

func getTxn(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// badgerLogger routes badger's logging into zap, one level down so the
// database's chatter stays out of info output.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func newBadgerLogger(log *zap.Logger) badger.Logger {
	if log == nil {
		return nil
	}
	return badgerLogger{s: log.Named("badger").Sugar()}
}

func (l badgerLogger) Errorf(f string, args ...any)   { l.s.Errorf(f, args...) }
func (l badgerLogger) Warningf(f string, args ...any) { l.s.Warnf(f, args...) }
func (l badgerLogger) Infof(f string, args ...any)    { l.s.Debugf(f, args...) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.s.Debugf(f, args...) }
