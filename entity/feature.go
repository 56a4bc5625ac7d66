package entity

// Feature names an annotation capability of the vision service.
type Feature string

const (
	FeatureWebDetection       Feature = "WEB_DETECTION"
	FeatureTextDetection      Feature = "TEXT_DETECTION"
	FeatureLogoDetection      Feature = "LOGO_DETECTION"
	FeatureLabelDetection     Feature = "LABEL_DETECTION"
	FeatureImageProperties    Feature = "IMAGE_PROPERTIES"
	FeatureLandmarkDetection  Feature = "LANDMARK_DETECTION"
	FeatureObjectLocalization Feature = "OBJECT_LOCALIZATION"
)

func (f Feature) Valid() bool {
	switch f {
	case FeatureWebDetection, FeatureTextDetection, FeatureLogoDetection, FeatureLabelDetection,
		FeatureImageProperties, FeatureLandmarkDetection, FeatureObjectLocalization:
		return true
	}
	return false
}
