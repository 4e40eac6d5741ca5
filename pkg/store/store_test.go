package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store/storedefs"
	"src.intr.sh/pkg/testutil"
)

func mustGetTempStore(t *testing.T) DBStore {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

var fakeTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestActionJournal(t *testing.T) {
	testutil.Set(t, &now, func() time.Time { return fakeTime })
	st := mustGetTempStore(t)

	seq, err := st.NextActionSeq()
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	_, err = st.LastAction()
	assert.ErrorIs(t, err, storedefs.ErrNoAction)

	for i, a := range []signals.Action{signals.Interrupt, signals.Reset, signals.Interrupt} {
		seq, err := st.AddAction(a)
		require.NoError(t, err)
		assert.Equal(t, i+1, seq)
	}

	seq, err = st.NextActionSeq()
	require.NoError(t, err)
	assert.Equal(t, 4, seq)

	entries, err := st.Actions(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []storedefs.Entry{
		{Seq: 2, Action: signals.Reset, Time: fakeTime},
		{Seq: 3, Action: signals.Interrupt, Time: fakeTime},
	}, entries)

	last, err := st.LastAction()
	require.NoError(t, err)
	assert.Equal(t, storedefs.Entry{Seq: 3, Action: signals.Interrupt, Time: fakeTime}, last)
}

func TestActions_EmptyRange(t *testing.T) {
	st := mustGetTempStore(t)
	_, err := st.AddAction(signals.Interrupt)
	require.NoError(t, err)

	entries, err := st.Actions(5, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "db")
	st, err := NewStore(dbname)
	require.NoError(t, err)
	_, err = st.AddAction(signals.Reset)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = NewStore(dbname)
	require.NoError(t, err)
	defer st.Close()
	last, err := st.LastAction()
	require.NoError(t, err)
	assert.Equal(t, signals.Reset, last.Action)
	assert.Equal(t, 1, last.Seq)
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "no", "such", "dir", "db"))
	assert.Error(t, err)
}
