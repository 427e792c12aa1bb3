// Package imageproc turns an uploaded image into a bounded, opaque JPEG or PNG thumbnail.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
)

// Asset - декодированная картинка с атрибутами исходника
type Asset struct {
	Image  image.Image
	Width  int
	Height int
	Mode   ColorMode
	Format string // имя формата от image.Decode: jpeg, png, gif, bmp, webp
}

type Thumbnail struct {
	Data         []byte
	ContentType  string
	Width        int
	Height       int
	SourceFormat string
}

// NormalizeAndResize decodes raw, flattens it onto white, fits it into maxW x maxH
// without upscaling and encodes it as PNG for PNG sources and JPEG otherwise.
func NormalizeAndResize(raw []byte, maxW, maxH int) (*Thumbnail, error) {
	asset, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	flat := Normalize(asset)
	thumb := Fit(flat, maxW, maxH)

	var buf bytes.Buffer
	cType, err := Encode(&buf, thumb, asset.Format)
	if err != nil {
		return nil, err
	}

	return &Thumbnail{
		Data:         buf.Bytes(),
		ContentType:  cType,
		Width:        thumb.Bounds().Dx(),
		Height:       thumb.Bounds().Dy(),
		SourceFormat: asset.Format,
	}, nil
}

func Decode(raw []byte) (*Asset, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %v", model.ErrDecode, errors.New("empty image data"))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}

	return &Asset{
		Image:  img,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Mode:   ModeOf(img),
		Format: format,
	}, nil
}
