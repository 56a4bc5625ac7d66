package entity

type AnnotateRequest struct {
	Image             []byte
	Features          []Feature
	IncludeGeoResults bool
}

type LatLng struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

// EntityAnnotation is a label, logo or landmark detected on the image.
type EntityAnnotation struct {
	Mid         string   `json:"mid" firestore:"mid"`
	Locale      string   `json:"locale,omitempty" firestore:"locale,omitempty"`
	Description string   `json:"description" firestore:"description"`
	Score       float32  `json:"score" firestore:"score"`
	Topicality  float32  `json:"topicality" firestore:"topicality"`
	Locations   []LatLng `json:"locations,omitempty" firestore:"locations,omitempty"`
}

type Label = EntityAnnotation

type WebEntity struct {
	EntityID    string  `json:"entityId" firestore:"entityId"`
	Score       float32 `json:"score" firestore:"score"`
	Description string  `json:"description" firestore:"description"`
}

type TextAnnotation struct {
	Text string `json:"text" firestore:"text"`
}

// Color channels are in the 0-255 range.
type Color struct {
	Red   float32 `json:"red" firestore:"red"`
	Green float32 `json:"green" firestore:"green"`
	Blue  float32 `json:"blue" firestore:"blue"`
}

// RGB truncates each channel to a byte.
func (c Color) RGB() (uint8, uint8, uint8) {
	return channel(c.Red), channel(c.Green), channel(c.Blue)
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

type ColorInfo struct {
	Color         Color   `json:"color" firestore:"color"`
	Score         float32 `json:"score" firestore:"score"`
	PixelFraction float32 `json:"pixelFraction" firestore:"pixelFraction"`
}

type ImageProperties struct {
	DominantColors []ColorInfo `json:"dominantColors" firestore:"dominantColors"`
}

type NormalizedVertex struct {
	X float64 `json:"x" firestore:"x"`
	Y float64 `json:"y" firestore:"y"`
}

type BoundingPoly struct {
	NormalizedVertices []NormalizedVertex `json:"normalizedVertices" firestore:"normalizedVertices"`
}

type LocalizedObject struct {
	Mid          string       `json:"mid" firestore:"mid"`
	Name         string       `json:"name" firestore:"name"`
	Score        float32      `json:"score" firestore:"score"`
	BoundingPoly BoundingPoly `json:"boundingPoly" firestore:"boundingPoly"`
}

// AnnotationBundle is the annotation service result for one image. Every
// sub-result may be absent independently of the others.
type AnnotationBundle struct {
	WebEntities      Optional[[]WebEntity]
	Logos            Optional[[]EntityAnnotation]
	Landmarks        Optional[[]EntityAnnotation]
	Labels           Optional[[]Label]
	FullText         Optional[TextAnnotation]
	ImageProperties  Optional[ImageProperties]
	LocalizedObjects Optional[[]LocalizedObject]
}
