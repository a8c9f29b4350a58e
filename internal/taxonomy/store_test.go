package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "taxonomy.yaml"))
	require.NoError(t, err)

	return store
}

func TestAddPath_Idempotent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.AddPath("tech/dev/testing"))
	once, err := store.Document()
	require.NoError(t, err)

	require.NoError(t, store.AddPath("tech/dev/testing"))
	twice, err := store.Document()
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestAddPath_SegmentCount(t *testing.T) {
	store := openTestStore(t)

	assert.Error(t, store.AddPath("a"))
	assert.Error(t, store.AddPath("a/b/c/d"))
	assert.NoError(t, store.AddPath("a/b"))
	assert.NoError(t, store.AddPath("a/b/c"))
}

func TestAddPath_AppendsOnlyMissing(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.AddPath("technology/development/profiling"))

	// The seeded terms are still there, in order, with the new one appended.
	doc, err := store.Document()
	require.NoError(t, err)
	assert.Contains(t, string(doc), "- debugging")
	assert.Contains(t, string(doc), "- testing")
	assert.Contains(t, string(doc), "- profiling")
}

func TestAddPath_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.AddPath("music/theory/modes"))

	reloaded, err := Open(path)
	require.NoError(t, err)

	original, err := store.Document()
	require.NoError(t, err)
	roundTripped, err := reloaded.Document()
	require.NoError(t, err)

	assert.Equal(t, string(original), string(roundTripped))
}

func TestValidateTopicHierarchy_SegmentBoundaries(t *testing.T) {
	store := openTestStore(t)

	assert.False(t, store.ValidateTopicHierarchy("a").IsValid)
	assert.False(t, store.ValidateTopicHierarchy("a/b/c/d").IsValid)
	assert.True(t, store.ValidateTopicHierarchy("a/b").IsValid)
	assert.True(t, store.ValidateTopicHierarchy("a/b/c").IsValid)
}

func TestValidateTopicHierarchy_SuggestsNewSegments(t *testing.T) {
	store := openTestStore(t)

	v := store.ValidateTopicHierarchy("technology/development/profiling")

	require.True(t, v.IsValid)
	require.Len(t, v.Suggestions, 1)
	assert.Contains(t, v.Suggestions[0], "profiling")
}

func TestValidateTopicHierarchy_WarnsOnAbbreviation(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.AddPath("technology/languages/js"))

	v := store.ValidateTopicHierarchy("technology/languages/javascript")

	require.True(t, v.IsValid, "warnings are advisory, never blocking")
	assert.NotEmpty(t, v.Warnings)
}

func TestValidateTopicHierarchy_WarnsOnNearDuplicateCategory(t *testing.T) {
	store := openTestStore(t)

	// "tech" vs the seeded "technology" category.
	v := store.ValidateTopicHierarchy("tech/development")

	require.True(t, v.IsValid)
	assert.NotEmpty(t, v.Warnings)
}

func TestValidateTopicHierarchy_DoesNotMutate(t *testing.T) {
	store := openTestStore(t)

	before, err := store.Document()
	require.NoError(t, err)

	store.ValidateTopicHierarchy("brand/new/path")

	after, err := store.Document()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestDocument_Deterministic(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.AddPath("zebra/stripes"))
	require.NoError(t, store.AddPath("apple/orchard"))

	first, err := store.Document()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := store.Document()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(next))
	}
}

func TestOpen_SeedsDefaultsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")

	store, err := Open(path)
	require.NoError(t, err)

	doc, err := store.Document()
	require.NoError(t, err)
	assert.Contains(t, string(doc), "technology")

	// The document only hits disk on the first mutation.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.AddPath("technology/development/profiling"))
	_, statErr = os.Stat(path)
	assert.NoError(t, statErr)
}

func TestContext_IncludesGraphAndRules(t *testing.T) {
	store := openTestStore(t)

	context := store.Context()

	assert.Contains(t, context, "Current taxonomy:")
	assert.Contains(t, context, "topics:")
	assert.Contains(t, context, "Usage rules:")
	assert.Contains(t, context, "dependencies")
}
