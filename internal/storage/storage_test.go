package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/event"
	"github.com/pfrederiksen/troop-events/internal/roster"
)

var now = time.Date(2025, 11, 15, 18, 30, 0, 0, time.UTC)

var records = []event.Record{
	{
		Name: "Leaf Center Service Project", StartDate: "2025-11-29", EndDate: "2025-11-29",
		Category: event.CategoryServiceProject, Scouts: []string{"Jon Smith"}, Adults: []string{},
	},
	{
		Name: "Winter Camp", StartDate: "2025-12-05", EndDate: "2025-12-05",
		Category: event.CategoryCamping, Scouts: []string{"Ann Lee"}, Adults: []string{"Mary Jones"},
	},
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.DataDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/troop")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "troop"), s.DataDir())
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.CreateSnapshotFromRecords(records, "", now))

	snap, err := s.LoadSnapshot("")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-15T18:30:00Z", snap.UpdatedAt)
	assert.Len(t, snap.Events, 2)
	assert.Equal(t, records, snap.Records())

	_, err = os.Stat(filepath.Join(s.DataDir(), "snapshot.json"))
	assert.NoError(t, err)
}

func TestLoadSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, s *Storage)
		snapshot  string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "missing file yields empty snapshot",
			setup:     func(t *testing.T, s *Storage) {},
			wantCount: 0,
		},
		{
			name: "named snapshots are separate files",
			setup: func(t *testing.T, s *Storage) {
				require.NoError(t, s.CreateSnapshotFromRecords(records[:1], "Troop42", now))
				require.NoError(t, s.CreateSnapshotFromRecords(records, "", now))
			},
			snapshot:  "troop42",
			wantCount: 1,
		},
		{
			name: "null events map is initialized",
			setup: func(t *testing.T, s *Storage) {
				path := filepath.Join(s.DataDir(), "snapshot.json")
				require.NoError(t, os.WriteFile(path, []byte(`{"events":null,"updated_at":""}`), 0644))
			},
			wantCount: 0,
		},
		{
			name: "corrupt file is an error",
			setup: func(t *testing.T, s *Storage) {
				path := filepath.Join(s.DataDir(), "snapshot.json")
				require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(t.TempDir())
			require.NoError(t, err)
			tt.setup(t, s)

			snap, err := s.LoadSnapshot(tt.snapshot)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, snap.Events)
			assert.Len(t, snap.Events, tt.wantCount)
		})
	}
}

func TestDiffAgainstStoredSnapshot(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.CreateSnapshotFromRecords(records[:1], "", now))
	prev, err := s.LoadSnapshot("")
	require.NoError(t, err)

	added := event.Diff(prev, records)
	require.Len(t, added, 1)
	assert.Equal(t, "Winter Camp", added[0].Name)
}

func TestCatalogCache(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadCatalog()
	assert.True(t, errors.Is(err, ErrNoSnapshot))

	c := &catalog.Catalog{
		PassID:  "pass-1",
		BuiltAt: now,
		Future:  records,
		Past:    []event.Record{},
		Scouts:  []roster.Identity{roster.NewIdentity("Jon Smith"), roster.NewIdentity("Ann Lee")},
		Adults:  []roster.Identity{roster.NewIdentity("Mary Jones")},
		Rows:    3,
		Signups: 3,
	}
	require.NoError(t, s.SaveCatalog(c))

	loaded, err := s.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	_, err = os.Stat(filepath.Join(s.DataDir(), "catalog.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}
