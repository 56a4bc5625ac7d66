package labeling

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/tnqbao/gau-image-labeler/entity"
)

// ReferenceFrame is the square frame normalized object coordinates are scaled to.
const ReferenceFrame = 640

var errEmptyCrop = errors.New("empty crop rectangle")

// PixelBox is an object bounding box in reference frame pixels.
type PixelBox struct {
	X0, Y0        float64
	Width, Height float64
}

// BoxFromPoly uses vertex 0 as the origin, vertex 1 for the width and vertex 2 for the height.
func BoxFromPoly(poly entity.BoundingPoly) (PixelBox, error) {
	v := poly.NormalizedVertices
	if len(v) < 3 {
		return PixelBox{}, fmt.Errorf("bounding polygon has %d vertices, need at least 3", len(v))
	}
	return PixelBox{
		X0:     v[0].X * ReferenceFrame,
		Y0:     v[0].Y * ReferenceFrame,
		Width:  (v[1].X - v[0].X) * ReferenceFrame,
		Height: (v[2].Y - v[0].Y) * ReferenceFrame,
	}, nil
}

func (b PixelBox) Rect() image.Rectangle {
	x0, y0 := int(math.Round(b.X0)), int(math.Round(b.Y0))
	return image.Rect(x0, y0, x0+int(math.Round(b.Width)), y0+int(math.Round(b.Height)))
}

// DecodeImage decodes JPEG, PNG, GIF, BMP, TIFF and WebP uploads.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ToReferenceFrame scales an image to ReferenceFrame x ReferenceFrame.
func ToReferenceFrame(img image.Image) image.Image {
	return imaging.Resize(img, ReferenceFrame, ReferenceFrame, imaging.Lanczos)
}

// CropObject cuts box out of a reference frame image and encodes it as JPEG.
func CropObject(frame image.Image, box PixelBox) ([]byte, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return nil, errEmptyCrop
	}
	rect := box.Rect().Intersect(frame.Bounds())
	if rect.Empty() {
		return nil, errEmptyCrop
	}

	cropped := imaging.Crop(frame, rect)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}
