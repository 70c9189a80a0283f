package themes

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

type entry struct {
	id          string
	name        string
	description string
}

// Registry is the create-or-reuse taxonomy store. It caches theme name → id
// mappings for the life of the instance; callers own the instance and decide
// when to Reload. Lookup is case-insensitive, so resolving "Community Impact"
// and "community impact" always yields the same theme.
type Registry struct {
	records        core.RecordStore
	themesTable    string
	documentsTable string
	byKey          map[string]*entry
}

func NewRegistry(records core.RecordStore, themesTable, documentsTable string) *Registry {
	return &Registry{
		records:        records,
		themesTable:    themesTable,
		documentsTable: documentsTable,
		byKey:          make(map[string]*entry),
	}
}

// Reload replaces the cache with the store's current themes.
func (r *Registry) Reload(ctx context.Context) error {
	recs, err := r.records.ListAll(ctx, r.themesTable)
	if err != nil {
		return fmt.Errorf("load themes: %w", err)
	}

	byKey := make(map[string]*entry, len(recs))
	for i := range recs {
		t := models.ThemeFromRecord(&recs[i])
		if t.Name == "" {
			continue
		}
		byKey[strings.ToLower(t.Name)] = &entry{id: t.ID, name: t.Name, description: t.Description}
	}
	r.byKey = byKey
	log.Printf("themes: loaded %d themes into cache", len(byKey))
	return nil
}

// Names returns the current vocabulary in stable sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byKey))
	for _, e := range r.byKey {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}

// IDsForNames maps vocabulary names to theme ids, skipping unknown names.
func (r *Registry) IDsForNames(names []string) []string {
	var ids []string
	for _, name := range names {
		if e, ok := r.byKey[strings.ToLower(name)]; ok {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// ResolveOrCreate returns the id for a theme name, creating the theme when no
// case-insensitive match exists. An existing theme's description is replaced
// only when the new one is strictly longer. Calling this twice with the same
// name (in any casing) never creates a duplicate.
func (r *Registry) ResolveOrCreate(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty theme name")
	}
	key := strings.ToLower(name)

	if e, ok := r.byKey[key]; ok {
		if len(description) > len(e.description) {
			if err := r.records.Update(ctx, r.themesTable, e.id, map[string]any{
				models.FieldDescription: description,
			}); err != nil {
				return "", fmt.Errorf("update theme %q: %w", e.name, err)
			}
			e.description = description
			log.Printf("themes: updated description of %q", e.name)
		}
		return e.id, nil
	}

	rec, err := r.records.Create(ctx, r.themesTable, map[string]any{
		models.FieldName:        name,
		models.FieldDescription: description,
		models.FieldCount:       0,
	})
	if err != nil {
		return "", fmt.Errorf("create theme %q: %w", name, err)
	}
	r.byKey[key] = &entry{id: rec.ID, name: name, description: description}
	log.Printf("themes: created new theme %q", name)
	return rec.ID, nil
}

// Link replaces the document's theme-reference list with the given set. Not
// additive: each enrichment pass fully determines the theme set.
func (r *Registry) Link(ctx context.Context, documentID string, themeIDs []string) error {
	return r.records.Update(ctx, r.documentsTable, documentID, map[string]any{
		models.FieldThemes: themeIDs,
	})
}

// ReconcileCounts recomputes every theme's usage count from its reverse
// document links and overwrites the cached Count field where it drifted.
// Counts are a denormalization and are never trusted between reconciliations.
func (r *Registry) ReconcileCounts(ctx context.Context) error {
	recs, err := r.records.ListAll(ctx, r.themesTable)
	if err != nil {
		return fmt.Errorf("reconcile counts: %w", err)
	}

	for i := range recs {
		t := models.ThemeFromRecord(&recs[i])
		actual := len(t.DocumentIDs)
		if t.Count == actual {
			continue
		}
		if err := r.records.Update(ctx, r.themesTable, t.ID, map[string]any{
			models.FieldCount: actual,
		}); err != nil {
			log.Printf("themes: updating count for %q failed: %v", t.Name, err)
			continue
		}
		log.Printf("themes: reconciled count for %q: %d", t.Name, actual)
	}
	return nil
}
