package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

func TestFileStorageSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	content := `{"id":"abc","dst":"product/42","user_id":"u1"}
not a json line
{"dst":"no-id"}
{"id":"nodst","user_id":"u2"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))

	fs := storage.NewFileStorage(path)
	records, err := fs.Snapshot()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "abc", records[0].ID)
	assert.Equal(t, "product/42", *records[0].Destination)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Nil(t, records[1].Destination)
}

func TestFileStorageSnapshotMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	records, err := storage.NewFileStorage(path).Snapshot()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoFileExists(t, path)
}

func TestFileStorageLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"abc","dst":"product/42"}`+"\n"), 0666))

	ms := storage.NewMapStorage()
	require.NoError(t, storage.NewFileStorage(path).Load(ms))

	record, err := ms.FindByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "product/42", *record.Destination)
}
