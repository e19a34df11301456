// Package waveform shows a small floating window while a voice command is
// being recorded and transcribed. The main frame stops updating during that
// time, so this window is the only live feedback.
package waveform

import (
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"

	"glimpse/internal/i18n"
)

// State represents the window display state.
type State int

const (
	StateRecording    State = iota // Level meter and countdown
	StateTranscribing              // Spinner while the engine works
)

// SampleProvider provides audio samples for visualization.
type SampleProvider interface {
	GetSamples() []float32
	IsRecording() bool
}

// Config holds window configuration.
type Config struct {
	Width       int
	Height      int
	RefreshRate time.Duration
	Duration    time.Duration // Recording length, for the countdown
	BGColor     color.NRGBA
	LevelColor  color.NRGBA
	PeakColor   color.NRGBA
	TextColor   color.NRGBA
	DimColor    color.NRGBA
	AccentColor color.NRGBA
	PanelColor  color.NRGBA
}

// DefaultConfig returns default configuration.
func DefaultConfig(d time.Duration) Config {
	return Config{
		Width:       320,
		Height:      96,
		RefreshRate: 33 * time.Millisecond,
		Duration:    d,
		BGColor:     color.NRGBA{R: 30, G: 30, B: 34, A: 245},
		LevelColor:  color.NRGBA{R: 80, G: 200, B: 120, A: 255},
		PeakColor:   color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		TextColor:   color.NRGBA{R: 240, G: 240, B: 245, A: 255},
		DimColor:    color.NRGBA{R: 140, G: 140, B: 150, A: 255},
		AccentColor: color.NRGBA{R: 88, G: 166, B: 255, A: 255},
		PanelColor:  color.NRGBA{R: 45, G: 45, B: 50, A: 255},
	}
}

// Window manages the floating indicator.
type Window struct {
	mu        sync.Mutex
	provider  SampleProvider
	config    Config
	startTime time.Time
	state     State

	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an indicator window fed by provider.
func New(provider SampleProvider, cfg Config) *Window {
	return &Window{provider: provider, config: cfg}
}

// Show opens the window in the recording state (non-blocking).
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateRecording
	w.startTime = time.Now()
	if w.running {
		if w.window != nil {
			w.window.Invalidate()
		}
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.window = new(app.Window)

	go w.runEventLoop(w.window, w.stopCh, w.doneCh)
}

// SetState changes the window display state.
func (w *Window) SetState(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	w.startTime = time.Now()
	if w.window != nil {
		w.window.Invalidate()
	}
}

// Hide closes the window and waits for it to go away.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
	case <-time.After(time.Second):
	}
}

func (w *Window) runEventLoop(win *app.Window, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	win.Option(
		app.Title(i18n.T("indicator_title")),
		app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)),
		app.Decorated(false),
	)

	go func() {
		ticker := time.NewTicker(w.config.RefreshRate)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				win.Perform(system.ActionClose)
				return
			case <-doneCh:
				return
			case <-ticker.C:
				win.Invalidate()
			}
		}
	}()

	var ops op.Ops
	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			w.mu.Lock()
			if w.window == win {
				w.window = nil
				w.running = false
			}
			w.mu.Unlock()
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			w.mu.Lock()
			elapsed := time.Since(w.startTime)
			state := w.state
			w.mu.Unlock()

			if state == StateTranscribing {
				drawTranscribing(gtx, elapsed, w.config)
			} else {
				var samples []float32
				if w.provider != nil && w.provider.IsRecording() {
					samples = w.provider.GetSamples()
				}
				drawRecording(gtx, samples, elapsed, w.config)
			}
			e.Frame(gtx.Ops)
		}
	}
}
