package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/tnqbao/gau-image-labeler/entity"
)

// FirestoreLabelRepository keeps one document per file, found by its "file" field.
type FirestoreLabelRepository struct {
	client     *firestore.Client
	collection string
	locker     Locker
}

func NewFirestoreLabelRepository(client *firestore.Client, collection string, locker Locker) *FirestoreLabelRepository {
	return &FirestoreLabelRepository{
		client:     client,
		collection: collection,
		locker:     locker,
	}
}

// Upsert merges into the existing document for the file or adds a new one.
func (r *FirestoreLabelRepository) Upsert(ctx context.Context, rec *entity.EnrichedRecord) error {
	return withLock(ctx, r.locker, rec.File, func() error {
		col := r.client.Collection(r.collection)

		docs, err := col.Where("file", "==", rec.File).Limit(1).Documents(ctx).GetAll()
		if err != nil {
			return fmt.Errorf("query %s for %s: %w", r.collection, rec.File, err)
		}

		if len(docs) > 0 {
			if _, err := docs[0].Ref.Set(ctx, rec.Fields(), firestore.MergeAll); err != nil {
				return fmt.Errorf("merge %s: %w", docs[0].Ref.ID, err)
			}
			return nil
		}

		if _, _, err := col.Add(ctx, rec.Fields()); err != nil {
			return fmt.Errorf("add record for %s: %w", rec.File, err)
		}
		return nil
	})
}

func (r *FirestoreLabelRepository) FindByFile(ctx context.Context, file string) (map[string]any, error) {
	docs, err := r.client.Collection(r.collection).Where("file", "==", file).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s for %s: %w", r.collection, file, err)
	}
	if len(docs) == 0 {
		return nil, ErrRecordNotFound
	}
	return docs[0].Data(), nil
}
