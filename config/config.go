package config

import (
	"strings"

	"github.com/tnqbao/gau-image-labeler/entity"
)

type LabelMode string

const (
	LabelModeBasic LabelMode = "basic"
	LabelModeFull  LabelMode = "full"
)

type Variant string

const (
	// VariantStandard annotates the whole image only.
	VariantStandard Variant = "standard"
	// VariantObjectColors also names the dominant color of every localized object.
	VariantObjectColors Variant = "object-colors"
)

const MaxDominantColors = 3

var standardFeatures = []entity.Feature{
	entity.FeatureLabelDetection,
	entity.FeatureObjectLocalization,
	entity.FeatureImageProperties,
	entity.FeatureWebDetection,
}

var objectColorFeatures = []entity.Feature{
	entity.FeatureWebDetection,
	entity.FeatureTextDetection,
	entity.FeatureLogoDetection,
	entity.FeatureLabelDetection,
	entity.FeatureImageProperties,
	entity.FeatureLandmarkDetection,
	entity.FeatureObjectLocalization,
}

// LabelConfig is resolved once at startup and never mutated afterwards.
type LabelConfig struct {
	CollectionPath  string
	BucketName      string
	IncludePathList []string // nil when not configured
	ExcludePathList []string // nil when not configured
	Mode            LabelMode
	Variant         Variant
	Features        []entity.Feature
	FileURIScheme   string
	PublicURLBase   string
	MaxColors       int
	CropConcurrency int
}

type Config struct {
	EnvConfig *EnvConfig
	Label     *LabelConfig
}

func NewConfig() *Config {
	env := LoadEnvConfig()
	return &Config{
		EnvConfig: env,
		Label:     NewLabelConfig(env),
	}
}

func NewLabelConfig(env *EnvConfig) *LabelConfig {
	variant := ParseVariant(env.Label.PipelineVariant)
	return &LabelConfig{
		CollectionPath:  env.Label.CollectionPath,
		BucketName:      env.Label.ImgBucket,
		IncludePathList: ParsePathList(env.Label.IncludePathList),
		ExcludePathList: ParsePathList(env.Label.ExcludePathList),
		Mode:            ParseLabelMode(env.Label.LabelMode),
		Variant:         variant,
		Features:        ResolveFeatures(variant, env.Label.AnnotationFeatures),
		FileURIScheme:   env.Label.FileURIScheme,
		PublicURLBase:   env.Label.PublicURLBase,
		MaxColors:       MaxDominantColors,
		CropConcurrency: env.Label.CropConcurrency,
	}
}

// ParsePathList splits a comma separated list. An empty value means the list is absent.
func ParsePathList(val string) []string {
	if val == "" {
		return nil
	}
	return strings.Split(val, ",")
}

func ParseLabelMode(val string) LabelMode {
	if val == string(LabelModeBasic) {
		return LabelModeBasic
	}
	return LabelModeFull
}

func ParseVariant(val string) Variant {
	if strings.TrimSpace(val) == string(VariantStandard) {
		return VariantStandard
	}
	return VariantObjectColors
}

// ResolveFeatures returns the annotation features for a variant, or the override
// list when given. Label detection and object localization are always requested.
func ResolveFeatures(variant Variant, override string) []entity.Feature {
	var features []entity.Feature
	if override != "" {
		for _, raw := range strings.Split(override, ",") {
			f := entity.Feature(strings.ToUpper(strings.TrimSpace(raw)))
			if f.Valid() {
				features = appendFeature(features, f)
			}
		}
	} else if variant == VariantStandard {
		features = append(features, standardFeatures...)
	} else {
		features = append(features, objectColorFeatures...)
	}

	features = appendFeature(features, entity.FeatureLabelDetection)
	features = appendFeature(features, entity.FeatureObjectLocalization)
	return features
}

func appendFeature(features []entity.Feature, f entity.Feature) []entity.Feature {
	for _, existing := range features {
		if existing == f {
			return features
		}
	}
	return append(features, f)
}
