package imageproc

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/disintegration/imaging"
)

const jpegQuality = 85

// Fit - вписать в maxW x maxH с сохранением пропорций, маленькие картинки не растягиваются
func Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	if maxW <= 0 {
		maxW = model.DefaultMaxSide
	}
	if maxH <= 0 {
		maxH = model.DefaultMaxSide
	}

	w, h := FitSize(img.Bounds().Dx(), img.Bounds().Dy(), maxW, maxH)
	if w == img.Bounds().Dx() && h == img.Bounds().Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// FitSize returns the largest size within maxW x maxH keeping the w:h ratio,
// rounded to whole pixels and never smaller than 1 or larger than the source.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))

	return min(max(nw, 1), maxW), min(max(nh, 1), maxH)
}

// Encode writes PNG for PNG sources and JPEG for everything else, including unknown formats.
func Encode(w io.Writer, img image.Image, sourceFormat string) (string, error) {
	if sourceFormat == "png" {
		if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrEncode, err)
		}
		return model.PNG, nil
	}

	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrEncode, err)
	}
	return model.JPEG, nil
}
