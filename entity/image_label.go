package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageLabel is the relational row of an EnrichedRecord.
type ImageLabel struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	File              string         `json:"file" gorm:"type:text;not null;uniqueIndex"`
	Name              string         `json:"name" gorm:"type:text;not null"`
	DateTimestamp     int64          `json:"dateTimestamp" gorm:"not null;index"`
	Web               datatypes.JSON `json:"web"`
	Logos             datatypes.JSON `json:"logos"`
	Landmarks         datatypes.JSON `json:"landmarks"`
	FullText          *string        `json:"fullText" gorm:"type:text"`
	Location          *string        `json:"location" gorm:"type:varchar(255)"`
	Labels            datatypes.JSON `json:"labels"`
	LocalizedObjects  datatypes.JSON `json:"localizedObjects"`
	ObjectsWithColors datatypes.JSON `json:"objectsWithColors"`
	DominantColors    datatypes.JSON `json:"dominantColors"`
	URL               string         `json:"url" gorm:"type:text;not null"`
	CreatedAt         time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// ImageLabelRecordColumns are overwritten when a row for the same file exists.
var ImageLabelRecordColumns = []string{
	"name", "date_timestamp", "web", "logos", "landmarks", "full_text", "location",
	"labels", "localized_objects", "objects_with_colors", "dominant_colors", "url", "updated_at",
}

func NewImageLabel(rec *EnrichedRecord) (*ImageLabel, error) {
	row := &ImageLabel{
		ID:            uuid.New(),
		File:          rec.File,
		Name:          rec.Name,
		DateTimestamp: rec.DateTimestamp,
		FullText:      rec.FullText,
		Location:      rec.Location,
		URL:           rec.URL,
	}

	columns := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&row.Web, nullable(rec.Web)},
		{&row.Logos, nullable(rec.Logos)},
		{&row.Landmarks, nullable(rec.Landmarks)},
		{&row.Labels, rec.Labels},
		{&row.LocalizedObjects, rec.LocalizedObjects},
		{&row.ObjectsWithColors, rec.ObjectsWithColors},
		{&row.DominantColors, rec.DominantColors},
	}
	for _, col := range columns {
		if col.src == nil {
			continue
		}
		data, err := json.Marshal(col.src)
		if err != nil {
			return nil, fmt.Errorf("marshal record column: %w", err)
		}
		*col.dst = data
	}

	return row, nil
}

// Document renders the row with the same field names as EnrichedRecord.
func (l *ImageLabel) Document() (map[string]any, error) {
	doc := map[string]any{
		"file":          l.File,
		"name":          l.Name,
		"dateTimestamp": l.DateTimestamp,
		"fullText":      stringOrNil(l.FullText),
		"location":      stringOrNil(l.Location),
		"url":           l.URL,
	}

	columns := map[string]datatypes.JSON{
		"web":               l.Web,
		"logos":             l.Logos,
		"landmarks":         l.Landmarks,
		"labels":            l.Labels,
		"localizedObjects":  l.LocalizedObjects,
		"objectsWithColors": l.ObjectsWithColors,
		"dominantColors":    l.DominantColors,
	}
	for field, raw := range columns {
		if len(raw) == 0 {
			doc[field] = nil
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", field, err)
		}
		doc[field] = v
	}

	return doc, nil
}
