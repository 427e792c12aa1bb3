package imageproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

type ColorMode int

const (
	ModeOpaque ColorMode = iota
	ModeAlpha
	ModePalette
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlpha:
		return "alpha"
	case ModePalette:
		return "palette"
	default:
		return "opaque"
	}
}

// ModeOf classifies by pixel layout, not by actual pixel values: an RGBA image that is
// fully opaque is still ModeAlpha, which composites to the same result.
func ModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
		*image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return ModeAlpha
	default:
		return ModeOpaque
	}
}

var normalizers = map[ColorMode]func(image.Image) *image.NRGBA{
	ModeOpaque:  pasteOnWhite,
	ModeAlpha:   compositeOnWhite,
	ModePalette: expandAndComposite,
}

// Normalize returns an opaque copy of the asset on a white background.
func Normalize(a *Asset) *image.NRGBA {
	return normalizers[a.Mode](a.Image)
}

func whiteCanvas(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return imaging.New(b.Dx(), b.Dy(), color.White)
}

// без маски: пиксели копируются как есть
func pasteOnWhite(img image.Image) *image.NRGBA {
	return imaging.Paste(whiteCanvas(img), img, image.Pt(0, 0))
}

// альфа-канал работает маской наложения
func compositeOnWhite(img image.Image) *image.NRGBA {
	return imaging.Overlay(whiteCanvas(img), img, image.Pt(0, 0), 1.0)
}

// палитру сначала разворачиваем в NRGBA, прозрачный индекс превращается в альфу
func expandAndComposite(img image.Image) *image.NRGBA {
	return compositeOnWhite(imaging.Clone(img))
}
