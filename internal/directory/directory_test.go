package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fantasy-roster-values/internal/players"
)

type fakeRemote struct {
	calls atomic.Int32
	rows  []players.CanonicalPlayer
	err   error
	delay time.Duration
}

func (f *fakeRemote) ScanPlayers(ctx context.Context) ([]players.CanonicalPlayer, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.rows, f.err
}

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enriched_players_master.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDirectory_LoadsRemoteOnce(t *testing.T) {
	remote := &fakeRemote{rows: []players.CanonicalPlayer{
		{ID: "4046", FullName: "Patrick Mahomes", Position: "QB", Team: "KC"},
		{ID: "6794", NameOriginal: "Justin Jefferson", Position: "WR"},
		{FullName: "No Id"},
	}}
	d := New(remote, "does-not-matter.json")
	assert.False(t, d.IsLoaded())

	ix, err := d.GetAll(context.Background())
	require.NoError(t, err)
	assert.True(t, d.IsLoaded())
	assert.Equal(t, SourceRemote, ix.Source())
	assert.Equal(t, 2, ix.Len())

	p, ok := ix.Player("6794")
	require.True(t, ok)
	assert.Equal(t, "Justin Jefferson", p.FullName)

	_, err = d.GetAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, remote.calls.Load())
}

func TestDirectory_FallsBackToSnapshotAndStaysLoaded(t *testing.T) {
	rows := `[`
	for i := 0; i < 500; i++ {
		if i > 0 {
			rows += ","
		}
		rows += `{"sleeper_id":"` + strconv.Itoa(i+1) + `","full_name":"Player ` + strconv.Itoa(i+1) + `"}`
	}
	rows += `]`
	path := writeSnapshot(t, rows)

	remote := &fakeRemote{err: errors.New("dynamodb unreachable")}
	d := New(remote, path)

	ix, err := d.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, ix.Len())
	assert.Equal(t, SourceSnapshot, ix.Source())
	assert.True(t, d.IsLoaded())

	// Neither source is consulted again.
	require.NoError(t, os.Remove(path))
	ix2, err := d.GetAll(context.Background())
	require.NoError(t, err)
	assert.Same(t, ix, ix2)
	assert.EqualValues(t, 1, remote.calls.Load())
}

func TestDirectory_EmptyRemoteFallsBack(t *testing.T) {
	path := writeSnapshot(t, `{"4046": {"full_name": "Patrick Mahomes"}}`)
	d := New(&fakeRemote{}, path)

	ix, err := d.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, ix.Source())
	_, ok := ix.Player("4046")
	assert.True(t, ok)
}

func TestDirectory_BothSourcesFail(t *testing.T) {
	d := New(&fakeRemote{err: errors.New("boom")}, filepath.Join(t.TempDir(), "missing.json"))

	_, err := d.GetAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, d.IsLoaded())
}

func TestDirectory_NilRemoteUsesSnapshot(t *testing.T) {
	path := writeSnapshot(t, `[{"sleeper_id":"1","full_name":"A"}]`)
	ix, err := New(nil, path).GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, ix.Source())
}

func TestDirectory_ConcurrentFirstLoadsShareOneScan(t *testing.T) {
	remote := &fakeRemote{
		rows:  []players.CanonicalPlayer{{ID: "1", FullName: "A"}},
		delay: 50 * time.Millisecond,
	}
	d := New(remote, "")

	var wg sync.WaitGroup
	results := make([]*Index, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ix, err := d.GetAll(context.Background())
			assert.NoError(t, err)
			results[i] = ix
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, remote.calls.Load())
	for _, ix := range results {
		assert.Same(t, results[0], ix)
	}
}

func TestDirectory_ReloadSwapsAndKeepsOldOnFailure(t *testing.T) {
	remote := &fakeRemote{rows: []players.CanonicalPlayer{{ID: "1", FullName: "A"}}}
	d := New(remote, filepath.Join(t.TempDir(), "missing.json"))

	first, err := d.GetAll(context.Background())
	require.NoError(t, err)

	remote.rows = []players.CanonicalPlayer{{ID: "1", FullName: "A"}, {ID: "2", FullName: "B"}}
	second, err := d.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Len())
	assert.NotSame(t, first, second)

	remote.err = errors.New("gone")
	_, err = d.Reload(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	cur, err := d.GetAll(context.Background())
	require.NoError(t, err)
	assert.Same(t, second, cur)
}

func TestDirectory_Roster(t *testing.T) {
	d := New(&fakeRemote{rows: []players.CanonicalPlayer{{ID: "4046", FullName: "Patrick Mahomes", Position: "QB", Team: "KC"}}}, "")

	slots, err := d.Roster(context.Background(), []string{"4046", "SEA", "99999"})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, players.MatchID, slots[0].Match)
	assert.Equal(t, "Patrick Mahomes", slots[0].Player.FullName)

	assert.Equal(t, players.MatchDefense, slots[1].Match)
	assert.Equal(t, "SEA Defense", slots[1].Player.FullName)
	assert.Equal(t, "DEF", slots[1].Player.Position)
	assert.Equal(t, "SEA", slots[1].Player.Team)

	assert.Equal(t, players.MatchUnknown, slots[2].Match)
	assert.Equal(t, players.UnknownPlayer, slots[2].Player.FullName)
	assert.Equal(t, players.DefaultTeam, slots[2].Player.Team)
}

func TestDirectory_ScheduleReloadRejectsBadSpec(t *testing.T) {
	d := New(nil, "")
	_, err := d.ScheduleReload("not a cron spec")
	assert.Error(t, err)

	stop, err := d.ScheduleReload("@every 1h")
	require.NoError(t, err)
	stop()
}
