package labeling

import (
	"context"
	"path"
	"strings"

	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

type Rejection string

const (
	Accepted                   Rejection = ""
	RejectNoName               Rejection = "no_name"
	RejectOutsideIncludedPaths Rejection = "outside_included_paths"
	RejectInsideExcludedPaths  Rejection = "inside_excluded_paths"
	RejectNoContentType        Rejection = "no_content_type"
	RejectInvalidContentType   Rejection = "invalid_content_type"
)

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// UploadFilter decides whether an upload event should be labeled.
type UploadFilter struct {
	include *PathMatcher // nil when no include list is configured
	exclude *PathMatcher // nil when no exclude list is configured
	logger  Logger
}

func NewUploadFilter(cfg *config.LabelConfig, logger Logger) *UploadFilter {
	f := &UploadFilter{logger: logger}
	if cfg.IncludePathList != nil {
		f.include = NewPathMatcher(cfg.IncludePathList)
	}
	if cfg.ExcludePathList != nil {
		f.exclude = NewPathMatcher(cfg.ExcludePathList)
	}
	return f
}

// ShouldProcess applies Evaluate and logs the reason of a rejection.
func (f *UploadFilter) ShouldProcess(ctx context.Context, event entity.UploadEvent) bool {
	ok, reason := f.evaluate(event)
	if ok {
		return true
	}

	switch reason {
	case RejectNoName:
		f.logger.InfoWithContextf(ctx, "[Upload Filter] No object name, skipping event for bucket %s", event.Bucket)
	case RejectOutsideIncludedPaths:
		f.logger.InfoWithContextf(ctx, "[Upload Filter] Skipping %s: directory %s is not in the include list", event.Name, objectDir(event.Name))
	case RejectInsideExcludedPaths:
		f.logger.InfoWithContextf(ctx, "[Upload Filter] Skipping %s: directory %s is in the exclude list", event.Name, objectDir(event.Name))
	case RejectNoContentType:
		f.logger.InfoWithContextf(ctx, "[Upload Filter] Skipping %s: no content type", event.Name)
	case RejectInvalidContentType:
		f.logger.InfoWithContextf(ctx, "[Upload Filter] Skipping %s: content type %s is not an image", event.Name, event.ContentType)
	}
	return false
}

// Evaluate is the side-effect free form of ShouldProcess.
func Evaluate(event entity.UploadEvent, cfg *config.LabelConfig) (bool, Rejection) {
	return NewUploadFilter(cfg, nil).evaluate(event)
}

func (f *UploadFilter) evaluate(event entity.UploadEvent) (bool, Rejection) {
	if event.Name == "" {
		return false, RejectNoName
	}

	dir := objectDir(event.Name)
	if f.include != nil && !f.include.Match(dir) {
		return false, RejectOutsideIncludedPaths
	}
	if f.exclude != nil && f.exclude.Match(dir) {
		return false, RejectInsideExcludedPaths
	}

	if event.ContentType == "" {
		return false, RejectNoContentType
	}
	if !strings.HasPrefix(event.ContentType, "image/") {
		return false, RejectInvalidContentType
	}

	return true, Accepted
}

// objectDir is the absolute, normalized parent directory of an object name.
func objectDir(name string) string {
	return path.Clean("/" + path.Dir(name))
}
