package waveform

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"glimpse/internal/audio"
	"glimpse/internal/i18n"
)

// levelBars is the number of bars in the level history.
const levelBars = 32

// drawRecording draws the recording state: dot, title, countdown and levels.
func drawRecording(gtx layout.Context, samples []float32, elapsed time.Duration, cfg Config) {
	fill(gtx, cfg.BGColor)

	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawRecordingDot(gtx, elapsed, cfg.PeakColor)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return label(gtx, cfg.TextColor, 14, font.Medium, i18n.T("indicator_recording"))
					}),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return layout.Dimensions{}
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawCountdown(gtx, remaining(elapsed, cfg.Duration), cfg)
					}),
				)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return drawLevels(gtx, levels(samples, levelBars), cfg)
			}),
		)
	})
}

// drawTranscribing draws a spinner with the engine status.
func drawTranscribing(gtx layout.Context, elapsed time.Duration, cfg Config) {
	fill(gtx, cfg.BGColor)

	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawSpinner(gtx, elapsed, cfg.AccentColor)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return label(gtx, cfg.TextColor, 15, font.Medium, i18n.T("indicator_transcribing"))
					}),
					layout.Rigid(layout.Spacer{Height: unit.Dp(2)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return label(gtx, cfg.DimColor, 11, font.Normal, i18n.T("indicator_transcribing_hint"))
					}),
				)
			}),
		)
	})
}

func fill(gtx layout.Context, col color.NRGBA) {
	paint.FillShape(gtx.Ops, col, clip.Rect{Max: gtx.Constraints.Max}.Op())
}

func label(gtx layout.Context, col color.NRGBA, size float32, weight font.Weight, text string) layout.Dimensions {
	th := material.NewTheme()
	th.Palette.Fg = col
	lbl := material.Label(th, unit.Sp(size), text)
	lbl.Font.Weight = weight
	return lbl.Layout(gtx)
}

// drawRecordingDot draws a pulsing recording indicator.
func drawRecordingDot(gtx layout.Context, elapsed time.Duration, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(10))

	pulse := float32(math.Sin(float64(elapsed.Milliseconds())/200.0)*0.3 + 0.7)
	col.A = uint8(float32(col.A) * pulse)

	paint.FillShape(gtx.Ops, col, clip.Ellipse{Max: image.Pt(size, size)}.Op(gtx.Ops))
	return layout.Dimensions{Size: image.Pt(size, size)}
}

// remaining returns the recording time left, rounded up to whole seconds.
func remaining(elapsed, total time.Duration) int {
	left := total - elapsed
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// drawCountdown draws the seconds left in a badge.
func drawCountdown(gtx layout.Context, seconds int, cfg Config) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{
		Top: unit.Dp(4), Bottom: unit.Dp(4),
		Left: unit.Dp(10), Right: unit.Dp(10),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return label(gtx, cfg.TextColor, 13, font.Bold, fmt.Sprintf("%d", seconds))
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(6))
	paint.FillShape(gtx.Ops, cfg.PanelColor, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
	call.Add(gtx.Ops)
	return dims
}

// levels splits samples into n chunks and returns the level of each.
// Missing leading chunks are zero so the newest audio is on the right.
func levels(samples []float32, n int) []float32 {
	out := make([]float32, n)
	if len(samples) == 0 {
		return out
	}
	chunk := max(len(samples)/n, 1)
	for i := 0; i < n; i++ {
		end := len(samples) - (n-1-i)*chunk
		if end <= 0 {
			continue
		}
		out[i] = audio.Level(samples[max(end-chunk, 0):end])
	}
	return out
}

// drawLevels draws a bar per level inside a panel.
func drawLevels(gtx layout.Context, lv []float32, cfg Config) layout.Dimensions {
	size := gtx.Constraints.Max
	rr := gtx.Dp(unit.Dp(8))
	paint.FillShape(gtx.Ops, cfg.PanelColor, clip.UniformRRect(image.Rectangle{Max: size}, rr).Op(gtx.Ops))

	pad := gtx.Dp(unit.Dp(6))
	inner := size.Sub(image.Pt(2*pad, 2*pad))
	if inner.X <= 0 || inner.Y <= 0 || len(lv) == 0 {
		return layout.Dimensions{Size: size}
	}

	slot := inner.X / len(lv)
	gap := max(slot/4, 1)
	mid := pad + inner.Y/2
	for i, l := range lv {
		h := max(int(l*float32(inner.Y)), 2)
		x := pad + i*slot
		col := cfg.LevelColor
		if l > 0.7 {
			col = cfg.PeakColor
		}
		bar := image.Rect(x, mid-h/2, x+slot-gap, mid+h/2)
		paint.FillShape(gtx.Ops, col, clip.Rect(bar).Op())
	}
	return layout.Dimensions{Size: size}
}

// drawSpinner draws a ring of fading dots.
func drawSpinner(gtx layout.Context, elapsed time.Duration, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(36))
	thickness := gtx.Dp(unit.Dp(3))
	rotation := float64(elapsed.Milliseconds()) / 800.0 * 2 * math.Pi

	center := image.Pt(size/2, size/2)
	radius := size/2 - thickness
	const dots = 12
	for i := 0; i < dots; i++ {
		angle := rotation + float64(i)*2*math.Pi/dots
		p := center.Add(image.Pt(int(float64(radius)*math.Cos(angle)), int(float64(radius)*math.Sin(angle))))

		c := col
		c.A = uint8(max(255-i*20, 40))
		r := thickness / 2
		paint.FillShape(gtx.Ops, c, clip.Ellipse{Min: p.Sub(image.Pt(r, r)), Max: p.Add(image.Pt(r, r))}.Op(gtx.Ops))
	}
	return layout.Dimensions{Size: image.Pt(size, size)}
}
