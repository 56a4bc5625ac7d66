package labeling

import (
	"time"

	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

// BuildRecord assembles the stored record. Absent optional results become null,
// list fields default to empty.
func BuildRecord(event entity.UploadEvent, bundle *entity.AnnotationBundle, objectsWithColors []string, cfg *config.LabelConfig, now time.Time) *entity.EnrichedRecord {
	rec := &entity.EnrichedRecord{
		File:              event.FileURI(cfg.FileURIScheme),
		Name:              event.Name,
		DateTimestamp:     now.Unix(),
		Labels:            FormatLabels(bundle.Labels.OrElse(nil), cfg.Mode),
		LocalizedObjects:  bundle.LocalizedObjects.OrElse([]entity.LocalizedObject{}),
		ObjectsWithColors: objectsWithColors,
		DominantColors:    TopColors(bundle.ImageProperties, cfg.MaxColors),
		URL:               event.PublicURL(cfg.PublicURLBase),
	}

	if rec.ObjectsWithColors == nil {
		rec.ObjectsWithColors = []string{}
	}
	if rec.LocalizedObjects == nil {
		rec.LocalizedObjects = []entity.LocalizedObject{}
	}
	if web, ok := bundle.WebEntities.Get(); ok {
		rec.Web = nonNil(web)
	}
	if logos, ok := bundle.Logos.Get(); ok {
		rec.Logos = nonNil(logos)
	}
	if landmarks, ok := bundle.Landmarks.Get(); ok {
		rec.Landmarks = nonNil(landmarks)
	}
	if text, ok := bundle.FullText.Get(); ok {
		rec.FullText = &text.Text
	}
	if loc, ok := event.Location(); ok {
		rec.Location = &loc
	}

	return rec
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
