package themes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/coretest"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

const (
	themesTable = "Themes"
	docsTable   = "Documents"
)

func seededRegistry(t *testing.T) (*Registry, *coretest.FakeRecordStore) {
	t.Helper()
	store := coretest.NewFakeRecordStore()
	store.Seed(themesTable, "th1", map[string]any{
		models.FieldName:        "Education",
		models.FieldDescription: "Learning and schooling.",
		models.FieldCount:       1,
	})
	store.Seed(themesTable, "th2", map[string]any{
		models.FieldName:        "Mentoring",
		models.FieldDescription: "Mentor and mentee relationships.",
		models.FieldCount:       0,
	})

	r := NewRegistry(store, themesTable, docsTable)
	require.NoError(t, r.Reload(context.Background()))
	return r, store
}

func TestNamesSorted(t *testing.T) {
	r, _ := seededRegistry(t)
	assert.Equal(t, []string{"Education", "Mentoring"}, r.Names())
}

func TestIDsForNames(t *testing.T) {
	r, _ := seededRegistry(t)
	// Case-insensitive, unknown names skipped.
	ids := r.IDsForNames([]string{"education", "Nonexistent", "MENTORING"})
	assert.Equal(t, []string{"th1", "th2"}, ids)
}

func TestResolveOrCreateReusesExisting(t *testing.T) {
	r, store := seededRegistry(t)

	id, err := r.ResolveOrCreate(context.Background(), "EDUCATION", "Short.")
	require.NoError(t, err)
	assert.Equal(t, "th1", id)
	assert.Empty(t, store.Creates, "no duplicate theme for a case variant")
}

func TestResolveOrCreateUpgradesDescription(t *testing.T) {
	r, store := seededRegistry(t)

	longer := "Learning, schooling, and the institutions that deliver both to communities."
	id, err := r.ResolveOrCreate(context.Background(), "education", longer)
	require.NoError(t, err)
	assert.Equal(t, "th1", id)

	rec := store.Record(themesTable, "th1")
	assert.Equal(t, longer, rec.Str(models.FieldDescription))

	// A description that is not strictly longer leaves the stored one alone.
	before := len(store.Updates)
	_, err = r.ResolveOrCreate(context.Background(), "Education", "tiny")
	require.NoError(t, err)
	assert.Len(t, store.Updates, before)
}

func TestResolveOrCreateCreatesNew(t *testing.T) {
	r, store := seededRegistry(t)

	id, err := r.ResolveOrCreate(context.Background(), "Community Impact", "Effects on local communities.")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, store.Creates, 1)
	created := store.Creates[0]
	assert.Equal(t, "Community Impact", created.Str(models.FieldName))
	assert.Equal(t, 0, created.Int(models.FieldCount))

	// The new theme is resolvable immediately, without a reload.
	again, err := r.ResolveOrCreate(context.Background(), "community impact", "x")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, store.Creates, 1)
	assert.Contains(t, r.Names(), "Community Impact")
}

func TestResolveOrCreateRejectsEmptyName(t *testing.T) {
	r, _ := seededRegistry(t)
	_, err := r.ResolveOrCreate(context.Background(), "   ", "desc")
	assert.Error(t, err)
}

func TestLinkReplacesThemeSet(t *testing.T) {
	r, store := seededRegistry(t)
	store.Seed(docsTable, "doc1", map[string]any{models.FieldTitle: "Doc"})

	require.NoError(t, r.Link(context.Background(), "doc1", []string{"th2"}))
	fields := store.UpdatedFields(docsTable, "doc1")
	assert.Equal(t, []string{"th2"}, fields[models.FieldThemes])
}

func TestReconcileCounts(t *testing.T) {
	store := coretest.NewFakeRecordStore()
	store.Seed(themesTable, "th1", map[string]any{
		models.FieldName:      "Education",
		models.FieldCount:     5,
		models.FieldDocuments: []any{"doc1", "doc2"},
	})
	store.Seed(themesTable, "th2", map[string]any{
		models.FieldName:      "Mentoring",
		models.FieldCount:     1,
		models.FieldDocuments: []any{"doc1"},
	})
	store.Seed(themesTable, "th3", map[string]any{
		models.FieldName:  "Orphaned",
		models.FieldCount: 3,
	})

	r := NewRegistry(store, themesTable, docsTable)
	require.NoError(t, r.ReconcileCounts(context.Background()))

	// Drifted counts snap to the reverse-link truth; matching ones are not
	// rewritten.
	assert.Equal(t, 2, store.Record(themesTable, "th1").Int(models.FieldCount))
	assert.Equal(t, 1, store.Record(themesTable, "th2").Int(models.FieldCount))
	assert.Equal(t, 0, store.Record(themesTable, "th3").Int(models.FieldCount))

	var updatedIDs []string
	for _, u := range store.Updates {
		updatedIDs = append(updatedIDs, u.ID)
	}
	assert.ElementsMatch(t, []string{"th1", "th3"}, updatedIDs)
}
