package entity

// EnrichedRecord is the stored description of one image, keyed by File.
// Field names are consumed by downstream readers and must not change.
type EnrichedRecord struct {
	File              string             `json:"file" firestore:"file"`
	Name              string             `json:"name" firestore:"name"`
	DateTimestamp     int64              `json:"dateTimestamp" firestore:"dateTimestamp"`
	Web               []WebEntity        `json:"web" firestore:"web"`
	Logos             []EntityAnnotation `json:"logos" firestore:"logos"`
	Landmarks         []EntityAnnotation `json:"landmarks" firestore:"landmarks"`
	FullText          *string            `json:"fullText" firestore:"fullText"`
	Location          *string            `json:"location" firestore:"location"`
	Labels            []any              `json:"labels" firestore:"labels"`
	LocalizedObjects  []LocalizedObject  `json:"localizedObjects" firestore:"localizedObjects"`
	ObjectsWithColors []string           `json:"objectsWithColors" firestore:"objectsWithColors"`
	DominantColors    []string           `json:"dominantColors" firestore:"dominantColors"`
	URL               string             `json:"url" firestore:"url"`
}

// Fields returns the record as a field map for merge writes. Absent optional
// values map to nil so stores persist them as null.
func (r *EnrichedRecord) Fields() map[string]any {
	return map[string]any{
		"file":              r.File,
		"name":              r.Name,
		"dateTimestamp":     r.DateTimestamp,
		"web":               nullable(r.Web),
		"logos":             nullable(r.Logos),
		"landmarks":         nullable(r.Landmarks),
		"fullText":          stringOrNil(r.FullText),
		"location":          stringOrNil(r.Location),
		"labels":            r.Labels,
		"localizedObjects":  r.LocalizedObjects,
		"objectsWithColors": r.ObjectsWithColors,
		"dominantColors":    r.DominantColors,
		"url":               r.URL,
	}
}

func nullable[T any](s []T) any {
	if s == nil {
		return nil
	}
	return s
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
