package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"formgate/submission/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_InsertTwiceYieldsTwoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := OpenFileStore(path, "mytable")
	require.NoError(t, err)

	ctx := context.Background()
	id1, err := s.Insert(ctx, domain.Record{"a": "b"})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, domain.Record{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "1", id1)
	assert.Equal(t, "2", id2)

	// reabrir o arquivo simula uma leitura independente
	reopened, err := OpenFileStore(path, "mytable")
	require.NoError(t, err)
	rows, err := reopened.All()
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{ID: 1, Record: domain.Record{"a": "b"}},
		{ID: 2, Record: domain.Record{"a": "b"}},
	}, rows)
}

func TestFileStore_TinyDBLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"_default": {"7": {"x": 1}}, "mytable": {"3": {"old": true}}}`), 0o644))

	s, err := OpenFileStore(path, "mytable")
	require.NoError(t, err)
	id, err := s.Insert(context.Background(), domain.Record{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "4", id)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var db map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &db))

	assert.Equal(t, map[string]any{"x": float64(1)}, db["_default"]["7"], "other tables are preserved")
	assert.Equal(t, map[string]any{"old": true}, db["mytable"]["3"])
	assert.Equal(t, map[string]any{"email": "a@b.com"}, db["mytable"]["4"])
}

func TestFileStore_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "db.json")
	s, err := OpenFileStore(path, "mytable")
	require.NoError(t, err)

	rows, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.FileExists(t, path)
}

func TestFileStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenFileStore(path, "mytable")
	assert.ErrorContains(t, err, "corrupt database")
}

func TestFileStore_RequiresPathAndTable(t *testing.T) {
	_, err := OpenFileStore("", "t")
	assert.Error(t, err)
	_, err = OpenFileStore(filepath.Join(t.TempDir(), "db.json"), "")
	assert.Error(t, err)
}

func TestFileStore_ConcurrentInsertsGetDistinctIDs(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "db.json"), "mytable")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Insert(context.Background(), domain.Record{"i": fmt.Sprint(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := s.All()
	require.NoError(t, err)
	require.Len(t, rows, n)
	for i, row := range rows {
		assert.Equal(t, i+1, row.ID)
	}
}

func TestFileStore_UnencodableRecord(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "db.json"), "mytable")
	require.NoError(t, err)

	_, err = s.Insert(context.Background(), domain.Record{"ch": make(chan int)})
	assert.ErrorContains(t, err, "encode record")
}
