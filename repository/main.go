package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
	"github.com/tnqbao/gau-image-labeler/infra"
)

var ErrRecordNotFound = errors.New("label record not found")

// LabelRepository stores one record per file URI.
type LabelRepository interface {
	Upsert(ctx context.Context, rec *entity.EnrichedRecord) error
	FindByFile(ctx context.Context, file string) (map[string]any, error)
}

type Repository struct {
	LabelRepo LabelRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra, cfg *config.Config) *Repository {
	collection := cfg.Label.CollectionPath

	var labelRepo LabelRepository
	switch {
	case infra.Postgres != nil:
		repo := NewImageLabelRepository(infra.Postgres.DB, collection)
		if err := repo.Migrate(); err != nil {
			panic("Failed to migrate image label table: " + err.Error())
		}
		labelRepo = repo
	case infra.Firestore != nil:
		var locker Locker
		if infra.Redis != nil {
			locker = infra.Redis
		}
		labelRepo = NewFirestoreLabelRepository(infra.Firestore.Client, collection, locker)
	default:
		labelRepo = NewMemoryLabelRepository()
	}

	repository = &Repository{
		LabelRepo: labelRepo,
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
