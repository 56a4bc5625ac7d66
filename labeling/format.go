package labeling

import (
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

// FormatLabels drops labels without a description. Basic mode keeps only the
// description, full mode keeps the whole label. Order and duplicates are kept.
func FormatLabels(labels []entity.Label, mode config.LabelMode) []any {
	formatted := make([]any, 0, len(labels))
	for _, label := range labels {
		if label.Description == "" {
			continue
		}
		if mode == config.LabelModeBasic {
			formatted = append(formatted, label.Description)
		} else {
			formatted = append(formatted, label)
		}
	}
	return formatted
}
