package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/state"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadEmptySlot(t *testing.T) {
	db := openTemp(t)
	_, err := db.LoadState(DefaultSlot)
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestSaveLoadKeepsSentence(t *testing.T) {
	db := openTemp(t)
	s := state.New("Vic", t0, 10000)
	rec, err := incarceration.Admit(incarceration.KindPrison, 5, incarceration.Holdings{Clean: 1000}, 0, incarceration.DefaultRules(), t0)
	require.NoError(t, err)
	s, err = state.Reduce(s, state.Admitted{Record: rec})
	require.NoError(t, err)

	require.NoError(t, db.SaveState(DefaultSlot, s))
	got, err := db.LoadState(DefaultSlot)
	require.NoError(t, err)

	require.NotNil(t, got.Incarceration)
	assert.Equal(t, 5, got.Incarceration.Remaining)
	assert.Equal(t, 250, got.Incarceration.Confiscation.Clean)
	assert.Equal(t, 1, got.Admissions[incarceration.KindPrison])
	assert.True(t, got.LastTick.Equal(t0))
	assert.Equal(t, s.Version, got.Version)
}

func TestOlderVersionDoesNotOverwrite(t *testing.T) {
	db := openTemp(t)
	s := state.New("Vic", t0, 10000)
	s.Version = 7
	s.Player.Money = 700
	require.NoError(t, db.SaveState(DefaultSlot, s))

	old := s
	old.Version = 3
	old.Player.Money = 300
	require.NoError(t, db.SaveState(DefaultSlot, old))

	got, err := db.LoadState(DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, 700, got.Player.Money)
}

func TestAutosaveJournalsAndRecordsLegacy(t *testing.T) {
	db := openTemp(t)
	c := state.NewContainer(state.New("Vic", t0, 10000))
	c.Subscribe(db.Autosave(DefaultSlot))

	_, err := c.Dispatch(state.ContactSet{Active: true})
	require.NoError(t, err)
	_, err = c.Dispatch(state.GameEnded{Reason: "test", Legacy: incarceration.Legacy{Coffer: 100, XPBonus: 50}})
	require.NoError(t, err)

	got, err := db.LoadState(DefaultSlot)
	require.NoError(t, err)
	assert.True(t, got.GameOver)
	assert.True(t, got.Player.Contact)

	acts, err := db.RecentActions(DefaultSlot, 10)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, state.KindGameEnded, acts[0].Kind)
	assert.Equal(t, state.KindContactSet, acts[1].Kind)

	leg, ok, err := db.LatestLegacy("Vic")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 100, leg.Coffer)
	assert.Equal(t, 50, leg.XPBonus)
}
