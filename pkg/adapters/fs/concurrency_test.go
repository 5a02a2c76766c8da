package fs_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrency_Creates checks that parallel inserts never share an id,
// while an outside writer keeps dropping unrelated files in the directory.
func TestConcurrency_Creates(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	const writers, perWriter = 8, 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = os.WriteFile(filepath.Join(path, fmt.Sprintf("noise-%d.txt", i%5)), []byte("noise"), 0644)
		}
	}()

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				ack, err := repo.Create(ctx, article(fmt.Sprintf("w%d-%d", w, i), ""))
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				assert.False(t, ids[ack.ID], "duplicate id %s", ack.ID)
				ids[ack.ID] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, writers*perWriter)
	assert.Len(t, ids, writers*perWriter)
}
