// Package coretest provides in-memory fakes for the core interfaces, used by
// package tests across the pipeline.
package coretest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// UpdateCall records one Update invocation against the fake record store.
type UpdateCall struct {
	Table  string
	ID     string
	Fields map[string]any
}

// FakeRecordStore is an in-memory core.RecordStore. Updates merge into the
// stored record and are also recorded verbatim for assertions.
type FakeRecordStore struct {
	mu      sync.Mutex
	Tables  map[string][]models.Record
	Updates []UpdateCall
	Creates []models.Record

	ListErr   error
	UpdateErr error

	nextID int
}

var _ core.RecordStore = (*FakeRecordStore)(nil)

func NewFakeRecordStore() *FakeRecordStore {
	return &FakeRecordStore{Tables: make(map[string][]models.Record)}
}

// Seed adds a record to a table and returns its id.
func (f *FakeRecordStore) Seed(table, id string, fields map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		f.nextID++
		id = fmt.Sprintf("rec%03d", f.nextID)
	}
	f.Tables[table] = append(f.Tables[table], models.Record{ID: id, Fields: fields})
	return id
}

func (f *FakeRecordStore) ListAll(ctx context.Context, table string) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.Record, len(f.Tables[table]))
	copy(out, f.Tables[table])
	return out, nil
}

func (f *FakeRecordStore) Get(ctx context.Context, table, id string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tables[table] {
		if f.Tables[table][i].ID == id {
			rec := f.Tables[table][i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("record %s not found in %s", id, table)
}

func (f *FakeRecordStore) Update(ctx context.Context, table, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.Tables[table] {
		if f.Tables[table][i].ID != id {
			continue
		}
		if f.Tables[table][i].Fields == nil {
			f.Tables[table][i].Fields = make(map[string]any)
		}
		for k, v := range fields {
			f.Tables[table][i].Fields[k] = normalize(v)
		}
		f.Updates = append(f.Updates, UpdateCall{Table: table, ID: id, Fields: fields})
		return nil
	}
	return fmt.Errorf("record %s not found in %s", id, table)
}

func (f *FakeRecordStore) Create(ctx context.Context, table string, fields map[string]any) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := models.Record{ID: fmt.Sprintf("rec%03d", f.nextID), Fields: fields}
	f.Tables[table] = append(f.Tables[table], rec)
	f.Creates = append(f.Creates, rec)
	return &rec, nil
}

// Record returns the current state of a stored record, or nil when absent.
func (f *FakeRecordStore) Record(table, id string) *models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tables[table] {
		if f.Tables[table][i].ID == id {
			rec := f.Tables[table][i]
			return &rec
		}
	}
	return nil
}

// UpdatedFields flattens every recorded update for one record into a single
// map, later writes winning.
func (f *FakeRecordStore) UpdatedFields(table, id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any)
	for _, u := range f.Updates {
		if u.Table == table && u.ID == id {
			for k, v := range u.Fields {
				out[k] = v
			}
		}
	}
	return out
}

// normalize mimics a JSON round trip through the real API: string slices come
// back as []any, so typed-view accessors behave the same against the fake.
func normalize(v any) any {
	if ss, ok := v.([]string); ok {
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	}
	return v
}

// FakeLLM dispatches to GenerateFunc; without one every call returns "".
type FakeLLM struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, p core.Prompt) (string, error)
	Prompts      []core.Prompt
}

var _ core.LLMProvider = (*FakeLLM)(nil)

func (f *FakeLLM) Generate(ctx context.Context, p core.Prompt) (string, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, p)
	fn := f.GenerateFunc
	f.mu.Unlock()
	if fn == nil {
		return "", nil
	}
	return fn(ctx, p)
}

// FakeEmbedder returns a fixed-dimension vector per text, derived from its
// length so assertions can be deterministic. EmbedFunc overrides everything.
type FakeEmbedder struct {
	EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)
	Calls     int
}

var _ core.EmbeddingProvider = (*FakeEmbedder)(nil)

func (f *FakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.Calls++
	if f.EmbedFunc != nil {
		return f.EmbedFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1, 0}
	}
	return out, nil
}

// FakeVectorStore keeps chunk rows in memory, keyed by document id.
type FakeVectorStore struct {
	mu        sync.Mutex
	ByDoc     map[string][]models.DocumentChunk
	InsertErr error
	DeleteErr error
	Deletes   []string
}

var _ core.VectorStore = (*FakeVectorStore)(nil)

func NewFakeVectorStore() *FakeVectorStore {
	return &FakeVectorStore{ByDoc: make(map[string][]models.DocumentChunk)}
}

func (f *FakeVectorStore) InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	for _, c := range chunks {
		f.ByDoc[c.DocumentID] = append(f.ByDoc[c.DocumentID], c)
	}
	return nil
}

func (f *FakeVectorStore) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deletes = append(f.Deletes, documentID)
	delete(f.ByDoc, documentID)
	return nil
}

func (f *FakeVectorStore) GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DocumentChunk(nil), f.ByDoc[documentID]...), nil
}

func (f *FakeVectorStore) SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DocumentChunk
	for _, chunks := range f.ByDoc {
		out = append(out, chunks...)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeVectorStore) Close() error { return nil }
