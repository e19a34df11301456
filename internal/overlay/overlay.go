// Package overlay рисует рамки детекций, кнопку записи и подписи поверх кадра.
package overlay

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"glimpse/internal/vision"
)

var (
	// ColorBox - цвет рамки детекции.
	ColorBox = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	// ColorLabel - цвет подписи детекции.
	ColorLabel = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	// ColorButton - цвет контура кнопки записи.
	ColorButton = color.RGBA{R: 153, G: 0, B: 0, A: 255}
	// ColorCaption - цвет подписи кнопки.
	ColorCaption = color.RGBA{R: 25, G: 25, B: 25, A: 255}
	// ColorCommand - цвет строки с распознанным текстом.
	ColorCommand = color.RGBA{A: 255}
)

const (
	boxWidth    = 3
	buttonWidth = 1
	// labelOffset - расстояние от верхней границы рамки до базовой линии подписи.
	labelOffset = 10
	fontSize    = 24
	commandSize = 16
)

// Scene - всё, что рисуется на одном кадре.
type Scene struct {
	Highlights []vision.Detection

	Button        image.Rectangle
	ButtonCaption string
	ButtonAt      image.Point

	Command   string
	CommandAt image.Point
}

var (
	facesOnce sync.Once
	labelFace font.Face
	smallFace font.Face
	facesErr  error
)

func faces() (font.Face, font.Face, error) {
	facesOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			facesErr = err
			return
		}
		labelFace = truetype.NewFace(f, &truetype.Options{Size: fontSize})
		smallFace = truetype.NewFace(f, &truetype.Options{Size: commandSize})
	})
	return labelFace, smallFace, facesErr
}

// Draw рисует сцену прямо в img.
func Draw(img *image.RGBA, sc Scene) error {
	label, small, err := faces()
	if err != nil {
		return err
	}

	dc := gg.NewContextForRGBA(img)

	dc.SetFontFace(small)
	dc.SetColor(ColorCommand)
	dc.DrawString(sc.Command, float64(sc.CommandAt.X), float64(sc.CommandAt.Y))

	dc.SetFontFace(label)
	for _, d := range sc.Highlights {
		r := d.Box
		dc.SetColor(ColorBox)
		dc.SetLineWidth(boxWidth)
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		dc.Stroke()

		dc.SetColor(ColorLabel)
		dc.DrawString(d.Label(), float64(r.Min.X), float64(r.Min.Y-labelOffset))
	}

	if !sc.Button.Empty() {
		b := sc.Button
		dc.SetColor(ColorButton)
		dc.SetLineWidth(buttonWidth)
		dc.DrawRectangle(float64(b.Min.X)+0.5, float64(b.Min.Y)+0.5, float64(b.Dx()), float64(b.Dy()))
		dc.Stroke()
	}

	dc.SetColor(ColorCaption)
	dc.DrawString(sc.ButtonCaption, float64(sc.ButtonAt.X), float64(sc.ButtonAt.Y))

	return nil
}
