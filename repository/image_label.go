package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tnqbao/gau-image-labeler/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImageLabelRepository struct {
	db    *gorm.DB
	table string
}

func NewImageLabelRepository(db *gorm.DB, table string) *ImageLabelRepository {
	return &ImageLabelRepository{db: db, table: table}
}

func (r *ImageLabelRepository) Migrate() error {
	return r.db.Table(r.table).AutoMigrate(&entity.ImageLabel{})
}

// Upsert relies on the unique index on file, existing rows keep id and created_at.
func (r *ImageLabelRepository) Upsert(ctx context.Context, rec *entity.EnrichedRecord) error {
	row, err := entity.NewImageLabel(rec)
	if err != nil {
		return err
	}
	if err := r.upsertQuery(r.db.WithContext(ctx), row).Error; err != nil {
		return fmt.Errorf("upsert image label %s: %w", rec.File, err)
	}
	return nil
}

func (r *ImageLabelRepository) upsertQuery(tx *gorm.DB, row *entity.ImageLabel) *gorm.DB {
	return tx.Table(r.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file"}},
		DoUpdates: clause.AssignmentColumns(entity.ImageLabelRecordColumns),
	}).Create(row)
}

func (r *ImageLabelRepository) FindByFile(ctx context.Context, file string) (map[string]any, error) {
	var row entity.ImageLabel
	err := r.db.WithContext(ctx).Table(r.table).Where("file = ?", file).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Document()
}
