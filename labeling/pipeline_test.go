package labeling

import (
	"bytes"
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

type fakeReader struct {
	data []byte
	err  error
}

func (r *fakeReader) ReadObject(_ context.Context, _, _ string) ([]byte, error) {
	return r.data, r.err
}

// fakeAnnotator answers full requests with bundle() and crop requests with
// the average color of the crop.
type fakeAnnotator struct {
	mu        sync.Mutex
	bundle    func() *entity.AnnotationBundle
	err       error
	cropErr   error
	requests  []entity.AnnotateRequest
	cropCalls int
}

func (a *fakeAnnotator) Annotate(_ context.Context, req entity.AnnotateRequest) (*entity.AnnotationBundle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(req.Features) == 1 && req.Features[0] == entity.FeatureImageProperties {
		a.cropCalls++
		if a.cropErr != nil {
			return nil, a.cropErr
		}
		img, _, err := image.Decode(bytes.NewReader(req.Image))
		if err != nil {
			return nil, err
		}
		return &entity.AnnotationBundle{
			ImageProperties: entity.Some(entity.ImageProperties{DominantColors: []entity.ColorInfo{
				{Color: averageColor(img), Score: 1, PixelFraction: 1},
			}}),
		}, nil
	}

	a.requests = append(a.requests, req)
	if a.err != nil {
		return nil, a.err
	}
	return a.bundle(), nil
}

func averageColor(img image.Image) entity.Color {
	var r, g, b, n float64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += float64(cr >> 8)
			g += float64(cg >> 8)
			b += float64(cb >> 8)
			n++
		}
	}
	return entity.Color{Red: float32(r / n), Green: float32(g / n), Blue: float32(b / n)}
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*entity.EnrichedRecord
	upserts int
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*entity.EnrichedRecord{}}
}

func (s *fakeStore) Upsert(_ context.Context, rec *entity.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.upserts++
	s.records[rec.File] = rec
	return nil
}

func labelConfig(variant config.Variant) *config.LabelConfig {
	return &config.LabelConfig{
		CollectionPath:  "imageLabelsCustom",
		BucketName:      "b",
		IncludePathList: []string{"/gsv-images-to-custom-label"},
		Mode:            config.LabelModeFull,
		Variant:         variant,
		Features:        config.ResolveFeatures(variant, ""),
		FileURIScheme:   "gs",
		PublicURLBase:   "https://storage.googleapis.com",
		MaxColors:       config.MaxDominantColors,
		CropConcurrency: 2,
	}
}

var fixedNow = time.Unix(1700000000, 999_000_000)

func streetBundle() *entity.AnnotationBundle {
	return &entity.AnnotationBundle{
		Labels: entity.Some([]entity.Label{
			{Mid: "/m/0k4j", Description: "Car", Score: 0.97},
			{Mid: "/m/x", Score: 0.4},
			{Mid: "/m/07j7r", Description: "Tree", Score: 0.91},
		}),
		ImageProperties: entity.Some(entity.ImageProperties{DominantColors: []entity.ColorInfo{
			{Color: entity.Color{Red: 0, Green: 0, Blue: 0}},
			{Color: entity.Color{Red: 18, Green: 52, Blue: 86}},
		}}),
		LocalizedObjects: entity.Some([]entity.LocalizedObject{
			{Name: "Car", Score: 0.9, BoundingPoly: poly(0, 0, 0.4, 1)},
			{Name: "Sky", Score: 0.8, BoundingPoly: poly(0.6, 0, 1, 1)},
			{Name: "Tree", Score: 0.7, BoundingPoly: entity.BoundingPoly{NormalizedVertices: []entity.NormalizedVertex{{X: 0.1}}}},
		}),
	}
}

func uploadEvent() entity.UploadEvent {
	return entity.UploadEvent{
		Bucket:      "b",
		Name:        "gsv-images-to-custom-label/x.jpg",
		ContentType: "image/jpeg",
	}
}

func TestPipeline_EndToEndRecord(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)
	store := newFakeStore()
	annotator := &fakeAnnotator{bundle: streetBundle}
	p := NewPipeline(cfg, &fakeReader{data: []byte("jpeg")}, annotator, store, &recordingLogger{}, WithClock(func() time.Time { return fixedNow }))

	outcome, err := p.Process(context.Background(), uploadEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, outcome)

	rec := store.records["gs://b/gsv-images-to-custom-label/x.jpg"]
	require.NotNil(t, rec)
	assert.Equal(t, "gsv-images-to-custom-label/x.jpg", rec.Name)
	assert.Equal(t, "https://storage.googleapis.com/b/gsv-images-to-custom-label/x.jpg", rec.URL)
	assert.Equal(t, int64(1700000000), rec.DateTimestamp)
	assert.Nil(t, rec.Web)
	assert.Nil(t, rec.Logos)
	assert.Nil(t, rec.Landmarks)
	assert.Nil(t, rec.FullText)
	assert.Nil(t, rec.Location)
	require.Len(t, rec.Labels, 2)
	assert.Equal(t, "Car", rec.Labels[0].(entity.Label).Description)
	assert.Equal(t, "Tree", rec.Labels[1].(entity.Label).Description)
	assert.Equal(t, []string{"Black", "#123456"}, rec.DominantColors)
	assert.Len(t, rec.LocalizedObjects, 3)
	assert.Equal(t, []string{}, rec.ObjectsWithColors)

	require.Len(t, annotator.requests, 1)
	assert.True(t, annotator.requests[0].IncludeGeoResults)
	assert.Contains(t, annotator.requests[0].Features, entity.FeatureLabelDetection)
	assert.Contains(t, annotator.requests[0].Features, entity.FeatureObjectLocalization)
	assert.Equal(t, 0, annotator.cropCalls)
}

func TestPipeline_OptionalFields(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)
	cfg.Mode = config.LabelModeBasic
	store := newFakeStore()
	annotator := &fakeAnnotator{bundle: func() *entity.AnnotationBundle {
		return &entity.AnnotationBundle{
			WebEntities: entity.Some([]entity.WebEntity{{EntityID: "/m/1", Description: "Hanoi", Score: 0.5}}),
			Logos:       entity.Some([]entity.EntityAnnotation{{Description: "Acme"}}),
			FullText:    entity.Some(entity.TextAnnotation{Text: "STOP"}),
		}
	}}
	logger := &recordingLogger{}
	p := NewPipeline(cfg, &fakeReader{data: []byte("jpeg")}, annotator, store, logger)

	ev := uploadEvent()
	ev.Metadata = map[string]string{"location": "Hanoi"}
	_, err := p.Process(context.Background(), ev)
	require.NoError(t, err)

	rec := store.records[ev.FileURI("gs")]
	require.NotNil(t, rec)
	assert.Len(t, rec.Web, 1)
	assert.Len(t, rec.Logos, 1)
	assert.Nil(t, rec.Landmarks)
	require.NotNil(t, rec.FullText)
	assert.Equal(t, "STOP", *rec.FullText)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "Hanoi", *rec.Location)
	assert.Equal(t, []any{}, rec.Labels)
	assert.Equal(t, []string{}, rec.DominantColors)
	assert.Equal(t, []entity.LocalizedObject{}, rec.LocalizedObjects)
	assert.Contains(t, logger.infos, "[Pipeline] No labels found for gs://b/gsv-images-to-custom-label/x.jpg")
}

func TestPipeline_ObjectColors(t *testing.T) {
	cfg := labelConfig(config.VariantObjectColors)
	store := newFakeStore()
	annotator := &fakeAnnotator{bundle: streetBundle}
	logger := &recordingLogger{}
	p := NewPipeline(cfg, &fakeReader{data: splitImage(t, 64)}, annotator, store, logger)

	outcome, err := p.Process(context.Background(), uploadEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, outcome)

	rec := store.records["gs://b/gsv-images-to-custom-label/x.jpg"]
	require.NotNil(t, rec)
	assert.Equal(t, []string{"Car (red)", "Sky (blue)"}, rec.ObjectsWithColors)
	require.Len(t, rec.LocalizedObjects, 3)
	assert.Equal(t, "Car (red)", rec.LocalizedObjects[0].Name)
	assert.Equal(t, "Sky (blue)", rec.LocalizedObjects[1].Name)
	assert.Equal(t, "Tree", rec.LocalizedObjects[2].Name)
	assert.Equal(t, 2, annotator.cropCalls)
	assert.Len(t, logger.warnings, 1)
}

func TestPipeline_ObjectColorFailuresAreSkipped(t *testing.T) {
	cfg := labelConfig(config.VariantObjectColors)
	store := newFakeStore()
	annotator := &fakeAnnotator{bundle: streetBundle, cropErr: errors.New("quota exceeded")}
	logger := &recordingLogger{}
	p := NewPipeline(cfg, &fakeReader{data: splitImage(t, 64)}, annotator, store, logger)

	outcome, err := p.Process(context.Background(), uploadEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, outcome)

	rec := store.records["gs://b/gsv-images-to-custom-label/x.jpg"]
	require.NotNil(t, rec)
	assert.Equal(t, []string{}, rec.ObjectsWithColors)
	assert.Equal(t, "Car", rec.LocalizedObjects[0].Name)
	assert.Len(t, logger.warnings, 3)
}

func TestPipeline_RejectedEventWritesNothing(t *testing.T) {
	store := newFakeStore()
	annotator := &fakeAnnotator{bundle: streetBundle}
	p := NewPipeline(labelConfig(config.VariantStandard), &fakeReader{}, annotator, store, &recordingLogger{})

	ev := uploadEvent()
	ev.ContentType = "text/plain"
	outcome, err := p.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, annotator.requests)
	assert.Equal(t, 0, store.upserts)
}

func TestPipeline_AnnotationFailureAborts(t *testing.T) {
	store := newFakeStore()
	annotator := &fakeAnnotator{err: errors.New("permission denied")}
	logger := &recordingLogger{}
	p := NewPipeline(labelConfig(config.VariantObjectColors), &fakeReader{data: []byte("jpeg")}, annotator, store, logger)

	outcome, err := p.Process(context.Background(), uploadEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAnnotationFailed, outcome)
	assert.Equal(t, 0, store.upserts)
	assert.Len(t, annotator.requests, 1)
	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "gs://b/gsv-images-to-custom-label/x.jpg")
	assert.Contains(t, logger.errors[0], "permission denied")
}

func TestPipeline_DownloadAndStoreFailures(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)

	p := NewPipeline(cfg, &fakeReader{err: errors.New("no such key")}, &fakeAnnotator{bundle: streetBundle}, newFakeStore(), &recordingLogger{})
	outcome, err := p.Process(context.Background(), uploadEvent())
	assert.Error(t, err)
	assert.Equal(t, OutcomeFailed, outcome)

	store := newFakeStore()
	store.err = errors.New("unavailable")
	p = NewPipeline(cfg, &fakeReader{data: []byte("jpeg")}, &fakeAnnotator{bundle: streetBundle}, store, &recordingLogger{})
	outcome, err = p.Process(context.Background(), uploadEvent())
	assert.ErrorContains(t, err, "unavailable")
	assert.Equal(t, OutcomeFailed, outcome)
}

func TestPipeline_ReprocessingKeepsOneRecord(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)
	store := newFakeStore()
	calls := 0
	annotator := &fakeAnnotator{bundle: func() *entity.AnnotationBundle {
		calls++
		b := streetBundle()
		if calls == 2 {
			b.Labels = entity.Some([]entity.Label{{Description: "Bus"}})
		}
		return b
	}}
	now := fixedNow
	p := NewPipeline(cfg, &fakeReader{data: []byte("jpeg")}, annotator, store, &recordingLogger{}, WithClock(func() time.Time { return now }))

	_, err := p.Process(context.Background(), uploadEvent())
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = p.Process(context.Background(), uploadEvent())
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	rec := store.records["gs://b/gsv-images-to-custom-label/x.jpg"]
	assert.Equal(t, fixedNow.Add(time.Minute).Unix(), rec.DateTimestamp)
	require.Len(t, rec.Labels, 1)
	assert.Equal(t, "Bus", rec.Labels[0].(entity.Label).Description)
}
