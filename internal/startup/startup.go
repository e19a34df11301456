// Package startup provides the loading window shown while the detector,
// speech engine and devices are being opened.
package startup

import (
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

var (
	colorBG     = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorText   = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorDone   = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
)

type step struct {
	label string
	done  bool
}

// Window is a small non-interactive checklist of startup steps.
type Window struct {
	mu     sync.Mutex
	title  string
	steps  []step
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a startup window with the given title. It is not shown until Show.
func New(title string) *Window {
	return &Window{title: title}
}

// Show opens the window on its own goroutine.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.run(w.stopCh, w.doneCh)
}

// Hide closes the window and waits briefly for it to go away.
func (w *Window) Hide() {
	w.mu.Lock()
	stopCh, doneCh := w.stopCh, w.doneCh
	w.stopCh, w.doneCh = nil, nil
	w.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	select {
	case <-doneCh:
	case <-time.After(time.Second):
	}
}

// Step marks the current step done and starts a new one.
func (w *Window) Step(label string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.steps {
		w.steps[i].done = true
	}
	w.steps = append(w.steps, step{label: label})
}

func (w *Window) snapshot() []step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]step(nil), w.steps...)
}

func (w *Window) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	win := new(app.Window)
	win.Option(
		app.Title(w.title),
		app.Size(unit.Dp(320), unit.Dp(180)),
		app.MinSize(unit.Dp(320), unit.Dp(180)),
		app.MaxSize(unit.Dp(320), unit.Dp(180)),
	)

	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				win.Perform(system.ActionClose)
				return
			case <-ticker.C:
				win.Invalidate()
			}
		}
	}()

	th := material.NewTheme()
	var ops op.Ops
	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.draw(gtx, th)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) draw(gtx layout.Context, th *material.Theme) layout.Dimensions {
	paint.FillShape(gtx.Ops, colorBG, clip.Rect{Max: gtx.Constraints.Max}.Op())

	steps := w.snapshot()
	children := make([]layout.FlexChild, 0, len(steps))
	for _, s := range steps {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return w.drawStep(gtx, th, s)
			})
		}))
	}

	return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (w *Window) drawStep(gtx layout.Context, th *material.Theme, s step) layout.Dimensions {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if s.done {
				return drawCheck(gtx)
			}
			return drawSpinner(gtx)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Label(th, unit.Sp(14), s.label)
			lbl.Alignment = text.Start
			if s.done {
				lbl.Color = colorDone
			} else {
				lbl.Color = colorText
				lbl.Font.Weight = font.Medium
			}
			return lbl.Layout(gtx)
		}),
	)
}

func drawCheck(gtx layout.Context) layout.Dimensions {
	size := gtx.Dp(unit.Dp(16))
	dot := size / 3
	c := image.Pt(size/2, size/2)
	paint.FillShape(gtx.Ops, colorDone, clip.Ellipse{
		Min: c.Sub(image.Pt(dot, dot)),
		Max: c.Add(image.Pt(dot, dot)),
	}.Op(gtx.Ops))
	return layout.Dimensions{Size: image.Pt(size, size)}
}

func drawSpinner(gtx layout.Context) layout.Dimensions {
	size := gtx.Dp(unit.Dp(16))
	dotRadius := gtx.Dp(unit.Dp(1.5))
	radius := size/2 - dotRadius
	center := image.Pt(size/2, size/2)

	angle := float64(time.Now().UnixMilli()%1000) / 1000.0 * 2 * math.Pi

	const segments = 8
	for i := 0; i < segments; i++ {
		a := angle + float64(i)*2*math.Pi/segments
		x := center.X + int(float64(radius)*math.Cos(a))
		y := center.Y + int(float64(radius)*math.Sin(a))

		col := colorAccent
		col.A = uint8(255 - i*28)
		paint.FillShape(gtx.Ops, col, clip.Ellipse{
			Min: image.Pt(x-dotRadius, y-dotRadius),
			Max: image.Pt(x+dotRadius, y+dotRadius),
		}.Op(gtx.Ops))
	}

	return layout.Dimensions{Size: image.Pt(size, size)}
}
