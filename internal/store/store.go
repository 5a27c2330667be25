// Package store persists save games in SQLite so countdowns, counters and
// sessions survive a restart.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/state"
)

// DefaultSlot is the save slot used by the single-player host.
const DefaultSlot = "main"

// ErrNoSave is returned when a slot has never been written.
var ErrNoSave = errors.New("no save in slot")

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		day INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slot TEXT NOT NULL,
		version INTEGER NOT NULL,
		kind TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS legacy (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player TEXT NOT NULL,
		coffer INTEGER NOT NULL,
		xp_bonus INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actions_slot ON actions(slot, id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes s to slot. An older version never overwrites a newer
// one, so out-of-order autosaves are harmless.
func (db *DB) SaveState(slot string, s state.GameState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO saves (slot, version, day, state_json, saved_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			day = excluded.day,
			state_json = excluded.state_json,
			saved_at = excluded.saved_at
		WHERE excluded.version > saves.version`,
		slot, s.Version, s.Day, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadState reads slot. It returns ErrNoSave for an empty slot.
func (db *DB) LoadState(slot string) (state.GameState, error) {
	var raw string
	err := db.conn.Get(&raw, "SELECT state_json FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return state.GameState{}, ErrNoSave
	}
	if err != nil {
		return state.GameState{}, err
	}
	var s state.GameState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return state.GameState{}, fmt.Errorf("decode save %q: %w", slot, err)
	}
	if s.Admissions == nil {
		s.Admissions = make(map[incarceration.Kind]int)
	}
	return s, nil
}

// ActionRecord is one journal line.
type ActionRecord struct {
	Version int    `db:"version"`
	Kind    string `db:"kind"`
	At      string `db:"at"`
}

// AppendActions journals the kinds applied to reach version.
func (db *DB) AppendActions(slot string, version int, kinds []string) error {
	if len(kinds) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	at := time.Now().UTC().Format(time.RFC3339Nano)
	for _, k := range kinds {
		if _, err := tx.Exec("INSERT INTO actions (slot, version, kind, at) VALUES (?, ?, ?, ?)", slot, version, k, at); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentActions returns the newest limit journal lines, newest first.
func (db *DB) RecentActions(slot string, limit int) ([]ActionRecord, error) {
	var out []ActionRecord
	err := db.conn.Select(&out,
		"SELECT version, kind, at FROM actions WHERE slot = ? ORDER BY id DESC LIMIT ?",
		slot, limit,
	)
	return out, err
}

// LegacyRecord is a carry-over handed to the next game.
type LegacyRecord struct {
	Player    string `db:"player"`
	Coffer    int    `db:"coffer"`
	XPBonus   int    `db:"xp_bonus"`
	CreatedAt string `db:"created_at"`
}

// SaveLegacy records the carry-over of a finished game.
func (db *DB) SaveLegacy(player string, l incarceration.Legacy) error {
	_, err := db.conn.Exec(
		"INSERT INTO legacy (player, coffer, xp_bonus, created_at) VALUES (?, ?, ?, ?)",
		player, l.Coffer, l.XPBonus, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LatestLegacy returns the newest carry-over for player, if any.
func (db *DB) LatestLegacy(player string) (LegacyRecord, bool, error) {
	var rec LegacyRecord
	err := db.conn.Get(&rec,
		"SELECT player, coffer, xp_bonus, created_at FROM legacy WHERE player = ? ORDER BY id DESC LIMIT 1", player)
	if errors.Is(err, sql.ErrNoRows) {
		return LegacyRecord{}, false, nil
	}
	if err != nil {
		return LegacyRecord{}, false, err
	}
	return rec, true, nil
}

// Autosave returns a listener that saves every applied update to slot
// and journals its action kinds. A game-ending update also records the
// legacy. Failures are logged; play continues.
func (db *DB) Autosave(slot string) state.Listener {
	return func(next state.GameState, applied []state.Action) {
		kinds := make([]string, 0, len(applied))
		ended := false
		for _, a := range applied {
			kinds = append(kinds, a.Kind())
			if a.Kind() == state.KindGameEnded {
				ended = true
			}
		}
		if err := db.SaveState(slot, next); err != nil {
			slog.Error("autosave failed", "slot", slot, "version", next.Version, "err", err)
			return
		}
		if err := db.AppendActions(slot, next.Version, kinds); err != nil {
			slog.Error("journal failed", "slot", slot, "err", err)
		}
		if ended && next.Legacy != nil {
			if err := db.SaveLegacy(next.Player.Name, *next.Legacy); err != nil {
				slog.Error("legacy save failed", "player", next.Player.Name, "err", err)
			}
		}
	}
}
