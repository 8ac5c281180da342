package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/clipgate/internal/app/services"
	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

func TestStorageReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	fs := storage.NewFileStorage(path)
	ms := storage.NewMapStorage()
	require.NoError(t, fs.Load(ms))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		services.NewStorageReloader(fs, ms, 10*time.Millisecond).Run(ctx)
		close(done)
	}()

	require.NoError(t, os.WriteFile(path, []byte(`{"id":"abc","dst":"product/42"}`+"\n"), 0666))
	assert.Eventually(t, func() bool {
		_, err := ms.FindByID(context.Background(), "abc")
		return err == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
