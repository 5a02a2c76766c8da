package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// setupRepo creates an initialized repository in a temp directory.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "articles")
	cfg := fs.Config{Path: path}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, path
}

func article(title, published string) core.Metadata {
	a := core.NewArticle(core.Metadata{
		core.KeyTitle:       title,
		core.KeyAuthor:      "Bacon",
		core.KeyBody:        "# " + title,
		core.KeyPublishedOn: published,
	})
	return a.Projection()
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "nope"), MustExist: true})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: t.TempDir(), Format: "csv"})
		assert.Error(t, repo.Initialize(context.Background()))
	})
}

func TestRepository_CRUD(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	ack, err := repo.Create(ctx, article("First", "2015-02-17"))
	require.NoError(t, err)
	assert.Equal(t, core.Ack{ID: "1", Message: "insert complete"}, ack)
	assert.FileExists(t, filepath.Join(path, "1.md"))

	ack, err = repo.Create(ctx, article("Draft", ""))
	require.NoError(t, err)
	assert.Equal(t, "2", ack.ID)

	rows, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0][core.KeyID])
	assert.Equal(t, "First", rows[0][core.KeyTitle])
	assert.Equal(t, "# First", rows[0][core.KeyBody])
	assert.Equal(t, "2015-02-17", rows[0][core.KeyPublishedOn])
	assert.Nil(t, rows[1][core.KeyPublishedOn])

	_, err = repo.Update(ctx, "1", article("First (edited)", "2015-02-18"))
	require.NoError(t, err)
	rows, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First (edited)", rows[0][core.KeyTitle])

	ack, err = repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, core.Ack{ID: "1", Message: "delete complete"}, ack)
	assert.NoFileExists(t, filepath.Join(path, "1.md"))

	ack, err = repo.Create(ctx, article("Third", "2016-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "3", ack.ID, "deleted ids are not reused")
}

func TestRepository_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, "42", article("x", ""))
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.Delete(ctx, "42")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.Delete(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_Truncate(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, article(title, ""))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(path, "notes.txt"), []byte("keep"), 0644))

	ack, err := repo.Truncate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "delete complete", ack.Message)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.FileExists(t, filepath.Join(path, "notes.txt"))

	ack, err = repo.Create(ctx, article("d", ""))
	require.NoError(t, err)
	assert.Equal(t, "4", ack.ID)
}

func TestRepository_MixedFormats(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(path, "10.json"), []byte(`{"title":"json","publishedOn":null}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "2.yaml"), []byte("title: yaml\npublishedOn: 2015-02-17\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "3.md"), []byte("---\ntitle: md\n---\nbody"), 0644))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{"2", "3", "10"}, []any{rows[0][core.KeyID], rows[1][core.KeyID], rows[2][core.KeyID]})
	assert.Equal(t, "2015-02-17", rows[0][core.KeyPublishedOn])
	assert.Equal(t, "body", rows[1][core.KeyBody])

	_, err = repo.Update(ctx, "10", article("json (edited)", ""))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(path, "10.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"json (edited)"`)

	ack, err := repo.Create(ctx, article("next", ""))
	require.NoError(t, err)
	assert.Equal(t, "11", ack.ID)
}

func TestRepository_ReadOnly(t *testing.T) {
	_, path := setupRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(path, "1.md"), []byte("---\ntitle: x\n---\n"), 0644))

	repo := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
	require.NoError(t, repo.Initialize(context.Background()))
	ctx := context.Background()

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = repo.Create(ctx, article("y", ""))
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, err = repo.Truncate(ctx)
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestRepository_Introspection(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Format = "json" })
	_, err := repo.Create(context.Background(), article("x", ""))
	require.NoError(t, err)

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, ".json", state.Format)
	assert.Equal(t, int64(2), state.NextID)
	assert.Equal(t, []string{".json", ".md", ".yaml", ".yml"}, state.Serializers)
	assert.Equal(t, "fs", repo.ComponentType())
}
