// Package ui показывает кадры сессии в окне Gio и собирает события
// мыши и клавиатуры для цикла сессии.
package ui

import (
	"image"
	"log"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"glimpse/internal/session"
)

// eventBuffer - сколько событий копится между кадрами.
const eventBuffer = 32

// Window - окно с видео. Цикл событий Gio крутится в своей горутине;
// кадры и события передаются через каналы.
type Window struct {
	window *app.Window
	size   image.Point

	events chan session.Event
	frames chan *image.RGBA

	closed    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New создаёт окно с заголовком title под кадры размера size.
func New(title string, size image.Point) *Window {
	w := &Window{
		window: new(app.Window),
		size:   size,
		events: make(chan session.Event, eventBuffer),
		frames: make(chan *image.RGBA, 1),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	w.window.Option(
		app.Title(title),
		app.Size(unit.Dp(size.X), unit.Dp(size.Y)),
	)
	return w
}

// Start запускает цикл событий окна.
func (w *Window) Start() {
	go w.loop()
}

// Events возвращает накопленные события, не блокируя.
func (w *Window) Events() []session.Event {
	var evs []session.Event
	for {
		select {
		case ev := <-w.events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

// Trigger добавляет событие извне (горячая клавиша, трей).
// Безопасен для вызова из любой горутины.
func (w *Window) Trigger(ev session.Event) {
	w.push(ev)
}

func (w *Window) push(ev session.Event) {
	select {
	case w.events <- ev:
	default:
		log.Printf("Очередь событий окна переполнена, событие %v отброшено", ev.Kind)
	}
}

// Show передаёт кадр окну. Непоказанный предыдущий кадр заменяется.
// После закрытия окна кадры отбрасываются: событие выхода уже в очереди.
func (w *Window) Show(img *image.RGBA) error {
	select {
	case <-w.closed:
		return nil
	default:
	}

	select {
	case <-w.frames:
	default:
	}
	w.frames <- img
	w.window.Invalidate()
	return nil
}

// Close закрывает окно и ждёт завершения цикла событий.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		select {
		case <-w.closed:
		default:
			w.window.Perform(system.ActionClose)
		}
		select {
		case <-w.done:
		case <-time.After(time.Second):
			log.Printf("Окно не закрылось за секунду")
		}
	})
	return nil
}

func (w *Window) loop() {
	defer close(w.done)

	var (
		ops     op.Ops
		current *image.RGBA
	)
	for {
		switch e := w.window.Event().(type) {
		case app.DestroyEvent:
			close(w.closed)
			w.push(session.Event{Kind: session.EventQuit})
			if e.Err != nil {
				log.Printf("Окно закрыто с ошибкой: %v", e.Err)
			}
			return

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			select {
			case img := <-w.frames:
				current = img
			default:
			}

			w.handleInput(gtx)

			// Вся площадь окна принимает нажатия мыши
			area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
			event.Op(gtx.Ops, w)
			area.Pop()

			if current != nil {
				paint.NewImageOp(current).Add(gtx.Ops)
				paint.PaintOp{}.Add(gtx.Ops)
			}

			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) handleInput(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: w, Kinds: pointer.Press})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok && pe.Buttons.Contain(pointer.ButtonPrimary) {
			// Кадр рисуется 1:1 от левого верхнего угла
			w.push(session.Event{
				Kind:  session.EventClick,
				Point: image.Pt(int(pe.Position.X), int(pe.Position.Y)),
			})
		}
	}

	for {
		ev, ok := gtx.Event(key.Filter{Name: "Q"})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			w.push(session.Event{Kind: session.EventQuit})
		}
	}
}
