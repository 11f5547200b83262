package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "studio.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RoundTripStripsTransientFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	saved := EditStoryState{
		Settings: pipeline.EditSettings{Language: "English", TargetLength: 900, Analyze: true, Provider: "gemini"},
		Input:    "Once upon a time",
		Edited:   "Once, long ago",
		Analysis: &pipeline.Analysis{Score: 90, Factors: []string{"tight"}},
		Loading:  true,
		Error:    "quota exceeded",
	}
	require.NoError(t, s.Save(ctx, saved))

	var loaded EditStoryState
	found, err := s.Load(ctx, &loaded)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, saved.Settings, loaded.Settings)
	assert.Equal(t, saved.Input, loaded.Input)
	assert.Empty(t, loaded.Edited)
	assert.Nil(t, loaded.Analysis)
	assert.False(t, loaded.Loading)
	assert.Empty(t, loaded.Error)

	// The caller's value is not modified by Save.
	assert.Equal(t, "Once, long ago", saved.Edited)
}

func TestStore_LoadResetsTransientFieldsOfTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, RewriteState{
		Settings: pipeline.RewriteSettings{Style: "noir"},
		Input:    "saved input",
	}))

	loaded := RewriteState{Input: "stale", Output: "stale output", Loading: true, Error: "stale error"}
	found, err := s.Load(ctx, &loaded)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, RewriteState{
		Settings: pipeline.RewriteSettings{Style: "noir"},
		Input:    "saved input",
	}, loaded)
}

func TestStore_LoadRejectsNonPointer(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Load(context.Background(), RewriteState{})
	assert.Error(t, err)
}

func TestStore_BatchState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	saved := BatchRewriteState{
		Settings:    pipeline.RewriteSettings{Style: "calm", Polish: true},
		Concurrency: 3,
		Items: []batch.WorkItem{
			{ID: "a", Input: "first"},
			{ID: "b", Input: "second", Overrides: batch.Overrides{Language: "Thai"}},
		},
		Results:  []batch.WorkResult{{ID: "a", Status: batch.StatusCompleted, Output: "done"}},
		Running:  true,
		Progress: "1/2 completed",
	}
	require.NoError(t, s.Save(ctx, &saved))

	raw, err := s.Raw(ctx, KeyBatchRewrite)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "results")
	assert.NotContains(t, string(raw), "running")

	var loaded BatchRewriteState
	found, err := s.Load(ctx, &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.Settings, loaded.Settings)
	assert.Equal(t, 3, loaded.Concurrency)
	assert.Equal(t, saved.Items, loaded.Items)
	assert.Nil(t, loaded.Results)
	assert.Empty(t, loaded.Progress)
}

func TestStore_SaveOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, RewriteState{Input: "one"}))
	require.NoError(t, s.Save(ctx, RewriteState{Input: "two"}))

	var loaded RewriteState
	_, err := s.Load(ctx, &loaded)
	require.NoError(t, err)
	assert.Equal(t, "two", loaded.Input)
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	loaded := WriteStoryState{Outline: "keep me"}
	found, err := s.Load(context.Background(), &loaded)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "keep me", loaded.Outline)
}

func TestStore_Reset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, RewriteState{Input: "x"}))
	require.NoError(t, s.Save(ctx, WriteStoryState{Outline: "y"}))
	require.NoError(t, s.Save(ctx, EditStoryState{Input: "z"}))

	n, err := s.Reset(ctx, KeyRewrite, "unknownKey")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	raw, err := s.Raw(ctx, KeyRewrite)
	require.NoError(t, err)
	assert.Nil(t, raw)

	n, err = s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestKeys(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{
		"writeStoryModuleState_v1",
		"rewriteModuleState_v1",
		"batchRewriteModuleState_v1",
		"editStoryModuleState_v1",
	}, Keys())
}
