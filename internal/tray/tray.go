// Package tray предоставляет системный трей с меню.
package tray

import (
	"github.com/getlantern/systray"

	"glimpse/embedded"
	"glimpse/internal/i18n"
)

// State представляет состояние сессии для отображения в трее.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateRecording
)

// Callbacks содержит обработчики событий меню.
// Вызываются из горутины трея.
type Callbacks struct {
	OnRecord func()
	OnQuit   func()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks Callbacks
	status    *systray.MenuItem
	recordBtn *systray.MenuItem
	quitBtn   *systray.MenuItem
	ready     chan struct{}
}

// New создаёт новый Tray.
func New(callbacks Callbacks) *Tray {
	return &Tray{
		callbacks: callbacks,
		ready:     make(chan struct{}),
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconIdle)
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()
	t.recordBtn = systray.AddMenuItem(i18n.T("tray_record"), i18n.T("tray_record_hint"))

	systray.AddSeparator()
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	close(t.ready)
	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.recordBtn.ClickedCh:
			if t.callbacks.OnRecord != nil {
				t.callbacks.OnRecord()
			}
		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			return
		}
	}
}

// SetState обновляет иконку и строку статуса.
// command показывается в состоянии StateArmed.
func (t *Tray) SetState(state State, command string) {
	select {
	case <-t.ready:
	default:
		return // меню ещё не построено
	}

	var icon []byte
	var title string
	switch state {
	case StateArmed:
		icon, title = embedded.IconArmed, i18n.Tf("tray_armed", command)
	case StateRecording:
		icon, title = embedded.IconRecording, i18n.T("tray_recording")
	default:
		icon, title = embedded.IconIdle, i18n.T("tray_ready")
	}

	systray.SetIcon(icon)
	systray.SetTooltip(i18n.T("app_name") + " - " + title)
	t.status.SetTitle(title)
	if state == StateRecording {
		t.recordBtn.Disable()
	} else {
		t.recordBtn.Enable()
	}
}

// Quit закрывает системный трей, если он успел запуститься.
func (t *Tray) Quit() {
	select {
	case <-t.ready:
		systray.Quit()
	default:
	}
}
