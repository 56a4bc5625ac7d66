package labeling

import (
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

// BuildAnnotateRequest asks for the configured features with geo-aware web detection.
func BuildAnnotateRequest(image []byte, cfg *config.LabelConfig) entity.AnnotateRequest {
	features := make([]entity.Feature, len(cfg.Features))
	copy(features, cfg.Features)
	return entity.AnnotateRequest{
		Image:             image,
		Features:          features,
		IncludeGeoResults: true,
	}
}

// BuildColorRequest asks only for the image properties of an object crop.
func BuildColorRequest(crop []byte) entity.AnnotateRequest {
	return entity.AnnotateRequest{
		Image:    crop,
		Features: []entity.Feature{entity.FeatureImageProperties},
	}
}
