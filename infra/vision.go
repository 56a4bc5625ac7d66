package infra

import (
	"context"
	"errors"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/tnqbao/gau-image-labeler/entity"
)

// VisionClient annotates images with the Cloud Vision API. The client sends
// image content as bytes over gRPC; REST transports base64-encode it.
type VisionClient struct {
	Client *vision.ImageAnnotatorClient
}

func InitVisionClient(ctx context.Context) *VisionClient {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize Vision client: %v", err))
	}
	return &VisionClient{Client: client}
}

func (v *VisionClient) Annotate(ctx context.Context, req entity.AnnotateRequest) (*entity.AnnotationBundle, error) {
	resp, err := v.Client.BatchAnnotateImages(ctx, BuildVisionRequest(req))
	if err != nil {
		return nil, fmt.Errorf("batch annotate images: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, errors.New("vision returned no responses")
	}
	return BundleFromResponse(resp.GetResponses()[0])
}

func (v *VisionClient) Close() error {
	return v.Client.Close()
}

func BuildVisionRequest(req entity.AnnotateRequest) *visionpb.BatchAnnotateImagesRequest {
	features := make([]*visionpb.Feature, 0, len(req.Features))
	for _, f := range req.Features {
		features = append(features, &visionpb.Feature{
			Type: visionpb.Feature_Type(visionpb.Feature_Type_value[string(f)]),
		})
	}

	image := &visionpb.AnnotateImageRequest{
		Image:    &visionpb.Image{Content: req.Image},
		Features: features,
	}
	if req.IncludeGeoResults {
		image.ImageContext = &visionpb.ImageContext{
			WebDetectionParams: &visionpb.WebDetectionParams{IncludeGeoResults: true},
		}
	}

	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{image},
	}
}

// BundleFromResponse converts one image response. Empty repeated fields and
// missing messages are reported as absent.
func BundleFromResponse(resp *visionpb.AnnotateImageResponse) (*entity.AnnotationBundle, error) {
	if st := resp.GetError(); st != nil && st.GetCode() != 0 {
		return nil, fmt.Errorf("vision error %d: %s", st.GetCode(), st.GetMessage())
	}

	bundle := &entity.AnnotationBundle{}

	if web := resp.GetWebDetection(); web != nil {
		entities := make([]entity.WebEntity, 0, len(web.GetWebEntities()))
		for _, e := range web.GetWebEntities() {
			entities = append(entities, entity.WebEntity{
				EntityID:    e.GetEntityId(),
				Score:       e.GetScore(),
				Description: e.GetDescription(),
			})
		}
		bundle.WebEntities = entity.Some(entities)
	}

	if logos := resp.GetLogoAnnotations(); len(logos) > 0 {
		bundle.Logos = entity.Some(entityAnnotations(logos))
	}
	if landmarks := resp.GetLandmarkAnnotations(); len(landmarks) > 0 {
		bundle.Landmarks = entity.Some(entityAnnotations(landmarks))
	}
	if labels := resp.GetLabelAnnotations(); len(labels) > 0 {
		bundle.Labels = entity.Some(entityAnnotations(labels))
	}

	if text := resp.GetFullTextAnnotation(); text != nil {
		bundle.FullText = entity.Some(entity.TextAnnotation{Text: text.GetText()})
	}

	if props := resp.GetImagePropertiesAnnotation(); props != nil {
		colors := make([]entity.ColorInfo, 0, len(props.GetDominantColors().GetColors()))
		for _, c := range props.GetDominantColors().GetColors() {
			colors = append(colors, entity.ColorInfo{
				Color: entity.Color{
					Red:   c.GetColor().GetRed(),
					Green: c.GetColor().GetGreen(),
					Blue:  c.GetColor().GetBlue(),
				},
				Score:         c.GetScore(),
				PixelFraction: c.GetPixelFraction(),
			})
		}
		bundle.ImageProperties = entity.Some(entity.ImageProperties{DominantColors: colors})
	}

	if objects := resp.GetLocalizedObjectAnnotations(); len(objects) > 0 {
		converted := make([]entity.LocalizedObject, 0, len(objects))
		for _, o := range objects {
			vertices := make([]entity.NormalizedVertex, 0, len(o.GetBoundingPoly().GetNormalizedVertices()))
			for _, v := range o.GetBoundingPoly().GetNormalizedVertices() {
				vertices = append(vertices, entity.NormalizedVertex{X: float64(v.GetX()), Y: float64(v.GetY())})
			}
			converted = append(converted, entity.LocalizedObject{
				Mid:          o.GetMid(),
				Name:         o.GetName(),
				Score:        o.GetScore(),
				BoundingPoly: entity.BoundingPoly{NormalizedVertices: vertices},
			})
		}
		bundle.LocalizedObjects = entity.Some(converted)
	}

	return bundle, nil
}

func entityAnnotations(in []*visionpb.EntityAnnotation) []entity.EntityAnnotation {
	out := make([]entity.EntityAnnotation, 0, len(in))
	for _, a := range in {
		var locations []entity.LatLng
		for _, loc := range a.GetLocations() {
			locations = append(locations, entity.LatLng{
				Latitude:  loc.GetLatLng().GetLatitude(),
				Longitude: loc.GetLatLng().GetLongitude(),
			})
		}
		out = append(out, entity.EntityAnnotation{
			Mid:         a.GetMid(),
			Locale:      a.GetLocale(),
			Description: a.GetDescription(),
			Score:       a.GetScore(),
			Topicality:  a.GetTopicality(),
			Locations:   locations,
		})
	}
	return out
}
