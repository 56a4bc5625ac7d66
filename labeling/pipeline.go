package labeling

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, name string) ([]byte, error)
}

type Annotator interface {
	Annotate(ctx context.Context, req entity.AnnotateRequest) (*entity.AnnotationBundle, error)
}

// RecordStore inserts a record or merges it into the existing record with the same file.
type RecordStore interface {
	Upsert(ctx context.Context, rec *entity.EnrichedRecord) error
}

type Outcome string

const (
	OutcomeRejected         Outcome = "rejected"
	OutcomeAnnotationFailed Outcome = "annotation_failed"
	OutcomeStored           Outcome = "stored"
	OutcomeFailed           Outcome = "failed"
)

var errNoDominantColor = errors.New("no dominant color in crop annotation")

type Pipeline struct {
	cfg       *config.LabelConfig
	filter    *UploadFilter
	reader    ObjectReader
	annotator Annotator
	store     RecordStore
	logger    Logger
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *pipelineMetrics
}

type Option func(*Pipeline)

// WithClock replaces the time source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func NewPipeline(cfg *config.LabelConfig, reader ObjectReader, annotator Annotator, store RecordStore, logger Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		filter:    NewUploadFilter(cfg, logger),
		reader:    reader,
		annotator: annotator,
		store:     store,
		logger:    logger,
		now:       time.Now,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   newPipelineMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process labels one upload event. Rejections and annotation failures are
// logged and reported through the outcome only. Download and store failures
// are also returned as errors. Nothing is retried.
func (p *Pipeline) Process(ctx context.Context, event entity.UploadEvent) (Outcome, error) {
	ctx, span := p.tracer.Start(ctx, "labeling.Process", trace.WithAttributes(
		attribute.String("storage.bucket", event.Bucket),
		attribute.String("storage.object", event.Name),
	))
	defer span.End()

	start := time.Now()
	outcome, err := p.process(ctx, event)
	p.metrics.record(ctx, outcome, time.Since(start))

	span.SetAttributes(attribute.String("labeling.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return outcome, err
}

func (p *Pipeline) process(ctx context.Context, event entity.UploadEvent) (Outcome, error) {
	if !p.filter.ShouldProcess(ctx, event) {
		return OutcomeRejected, nil
	}

	fileURI := event.FileURI(p.cfg.FileURIScheme)

	data, err := p.reader.ReadObject(ctx, event.Bucket, event.Name)
	if err != nil {
		p.logger.ErrorWithContextf(ctx, err, "[Pipeline] Failed to download %s: %v", fileURI, err)
		return OutcomeFailed, fmt.Errorf("download %s: %w", fileURI, err)
	}

	bundle, err := p.annotator.Annotate(ctx, BuildAnnotateRequest(data, p.cfg))
	if err == nil && bundle == nil {
		err = errors.New("empty annotation response")
	}
	if err != nil {
		p.logger.ErrorWithContextf(ctx, err, "[Pipeline] Vision API failed for %s: %v", fileURI, err)
		return OutcomeAnnotationFailed, nil
	}

	if !bundle.Labels.IsPresent() {
		p.logger.InfoWithContextf(ctx, "[Pipeline] No labels found for %s", fileURI)
	}

	objectsWithColors := []string{}
	if objects, ok := bundle.LocalizedObjects.Get(); ok && p.cfg.Variant == config.VariantObjectColors {
		objectsWithColors = p.nameObjectColors(ctx, fileURI, data, objects)
	}

	rec := BuildRecord(event, bundle, objectsWithColors, p.cfg, p.now())

	if err := p.store.Upsert(ctx, rec); err != nil {
		p.logger.ErrorWithContextf(ctx, err, "[Pipeline] Failed to store labels for %s: %v", fileURI, err)
		return OutcomeFailed, fmt.Errorf("store %s: %w", fileURI, err)
	}

	p.logger.InfoWithContextf(ctx, "[Pipeline] Stored labels for %s (%d labels, %d objects)", fileURI, len(rec.Labels), len(rec.LocalizedObjects))
	return OutcomeStored, nil
}

// nameObjectColors appends the dominant color name to every object it can
// crop and annotate, and returns the renamed objects in object order.
// Objects that fail are left unchanged.
func (p *Pipeline) nameObjectColors(ctx context.Context, fileURI string, data []byte, objects []entity.LocalizedObject) []string {
	named := []string{}
	if len(objects) == 0 {
		return named
	}

	src, err := DecodeImage(data)
	if err != nil {
		p.logger.WarningWithContextf(ctx, "[Pipeline] Cannot decode %s for object colors: %v", fileURI, err)
		return named
	}
	frame := ToReferenceFrame(src)

	colors := make([]string, len(objects))
	var g errgroup.Group
	g.SetLimit(max(p.cfg.CropConcurrency, 1))
	for i := range objects {
		g.Go(func() error {
			color, err := p.objectColor(ctx, frame, objects[i])
			if err != nil {
				p.logger.WarningWithContextf(ctx, "[Pipeline] Skipping color of object %q in %s: %v", objects[i].Name, fileURI, err)
				return nil
			}
			colors[i] = color
			return nil
		})
	}
	_ = g.Wait()

	for i, color := range colors {
		if color == "" {
			continue
		}
		objects[i].Name = fmt.Sprintf("%s (%s)", objects[i].Name, color)
		named = append(named, objects[i].Name)
	}
	return named
}

func (p *Pipeline) objectColor(ctx context.Context, frame image.Image, obj entity.LocalizedObject) (string, error) {
	box, err := BoxFromPoly(obj.BoundingPoly)
	if err != nil {
		return "", err
	}

	crop, err := CropObject(frame, box)
	if err != nil {
		return "", err
	}

	bundle, err := p.annotator.Annotate(ctx, BuildColorRequest(crop))
	if err != nil {
		return "", fmt.Errorf("annotate crop: %w", err)
	}
	if bundle == nil {
		return "", errNoDominantColor
	}

	props, ok := bundle.ImageProperties.Get()
	if !ok || len(props.DominantColors) == 0 {
		return "", errNoDominantColor
	}
	return NearestBasicName(props.DominantColors[0].Color.RGB()), nil
}
