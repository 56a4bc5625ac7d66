package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-image-labeler/entity"
)

func record(file string, labels ...any) *entity.EnrichedRecord {
	return &entity.EnrichedRecord{
		File:              file,
		Name:              "x.jpg",
		Labels:            labels,
		LocalizedObjects:  []entity.LocalizedObject{},
		ObjectsWithColors: []string{},
		DominantColors:    []string{},
	}
}

func TestMemoryLabelRepository_UpsertMergesByFile(t *testing.T) {
	repo := NewMemoryLabelRepository()
	ctx := context.Background()

	repo.Put("gs://b/x.jpg", map[string]any{"file": "gs://b/x.jpg", "reviewed": true, "labels": []any{"Old"}})

	require.NoError(t, repo.Upsert(ctx, record("gs://b/x.jpg", "Car")))
	require.NoError(t, repo.Upsert(ctx, record("gs://b/x.jpg", "Bus")))
	require.NoError(t, repo.Upsert(ctx, record("gs://b/y.jpg", "Tree")))

	assert.Equal(t, 2, repo.Len())

	doc, err := repo.FindByFile(ctx, "gs://b/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, []any{"Bus"}, doc["labels"])
	assert.Equal(t, true, doc["reviewed"])
	assert.Nil(t, doc["web"])
}

func TestMemoryLabelRepository_NotFound(t *testing.T) {
	_, err := NewMemoryLabelRepository().FindByFile(context.Background(), "gs://b/missing.jpg")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
