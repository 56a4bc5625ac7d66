package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
)

func TestBuildRecord_Location(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)

	event := uploadEvent()
	event.Metadata = map[string]string{"location": "21.0285,105.8542"}
	rec := BuildRecord(event, &entity.AnnotationBundle{}, nil, cfg, fixedNow)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "21.0285,105.8542", *rec.Location)

	event.Metadata = map[string]string{"location": ""}
	rec = BuildRecord(event, &entity.AnnotationBundle{}, nil, cfg, fixedNow)
	assert.Nil(t, rec.Location)
	assert.Nil(t, rec.Fields()["location"])
}

func TestBuildRecord_NameIsUsedVerbatim(t *testing.T) {
	cfg := labelConfig(config.VariantStandard)

	event := uploadEvent()
	event.Name = "/gsv-images-to-custom-label/x.jpg"
	ok, reason := Evaluate(event, cfg)
	assert.True(t, ok)
	assert.Equal(t, Accepted, reason)

	rec := BuildRecord(event, &entity.AnnotationBundle{}, nil, cfg, fixedNow)
	assert.Equal(t, "gs://b//gsv-images-to-custom-label/x.jpg", rec.File)
	assert.Equal(t, "https://storage.googleapis.com/b//gsv-images-to-custom-label/x.jpg", rec.URL)
	assert.Equal(t, "/gsv-images-to-custom-label/x.jpg", rec.Name)
}
