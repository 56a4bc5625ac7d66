package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/tnqbao/gau-image-labeler/entity"
)

// MemoryLabelRepository keeps records in process, for local runs and tests.
type MemoryLabelRepository struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewMemoryLabelRepository() *MemoryLabelRepository {
	return &MemoryLabelRepository{docs: make(map[string]map[string]any)}
}

// Upsert merges record fields into the existing document, other fields are kept.
func (r *MemoryLabelRepository) Upsert(_ context.Context, rec *entity.EnrichedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[rec.File]
	if !ok {
		doc = make(map[string]any)
		r.docs[rec.File] = doc
	}
	maps.Copy(doc, rec.Fields())
	return nil
}

// Put stores a raw document, replacing any previous one for the file.
func (r *MemoryLabelRepository) Put(file string, doc map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[file] = maps.Clone(doc)
}

func (r *MemoryLabelRepository) FindByFile(_ context.Context, file string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[file]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return maps.Clone(doc), nil
}

func (r *MemoryLabelRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
